package sim

// Status is the externally visible phase of a match.
type Status int

const (
	StatusRunning Status = iota
	StatusPaused
	StatusGameOver
	StatusExited
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game over"
	case StatusExited:
		return "exited"
	default:
		return "unknown"
	}
}

// MatchState holds the scalar state of one match.
type MatchState struct {
	Score     int
	Paused    bool
	Alive     bool // Mirrors the player's alive flag
	Submitted bool // Score handed to the ScoreSink during this life
	Exited    bool
}

// Status derives the match phase. Exit wins over death, death over pause.
func (m MatchState) Status() Status {
	switch {
	case m.Exited:
		return StatusExited
	case !m.Alive:
		return StatusGameOver
	case m.Paused:
		return StatusPaused
	default:
		return StatusRunning
	}
}

// reset starts a new life.
func (m *MatchState) reset() {
	m.Score = 0
	m.Paused = false
	m.Alive = true
	m.Submitted = false
}
