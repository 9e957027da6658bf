package sim

import "github.com/tomz197/skyraid/internal/object"

// Snapshot is an immutable copy of the match for rendering. It shares no
// memory with the live simulation.
type Snapshot struct {
	MatchID    string
	Player     string // Persistence player id
	Difficulty string
	Tick       uint64
	Field      object.Field

	Match   MatchState
	Ability AbilityTracker
	Ship    object.Player
	Rockets []object.Rocket
	Bullets []object.Bullet
	Effects []object.Effect
}

// Status is the match phase at the time of the snapshot.
func (s *Snapshot) Status() Status {
	return s.Match.Status()
}

// publish stores a fresh snapshot for readers.
func (s *Simulation) publish() {
	snap := &Snapshot{
		MatchID:    s.id,
		Player:     s.playerID,
		Difficulty: s.profile.Name,
		Tick:       s.tick,
		Field:      s.field,
		Match:      s.match,
		Ability:    s.ability,
		Ship:       s.player.Snapshot(),
		Rockets:    make([]object.Rocket, len(s.rockets)),
		Bullets:    make([]object.Bullet, len(s.bullets)),
		Effects:    make([]object.Effect, len(s.effects)),
	}
	for i, r := range s.rockets {
		snap.Rockets[i] = r.Snapshot()
	}
	for i, b := range s.bullets {
		snap.Bullets[i] = b.Snapshot()
	}
	for i, e := range s.effects {
		snap.Effects[i] = e.Snapshot()
	}
	s.snapshot.Store(snap)
	s.dirty = false
}
