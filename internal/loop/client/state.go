package client

import (
	"time"

	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/highscore"
	"github.com/tomz197/skyraid/internal/input"
	"github.com/tomz197/skyraid/internal/loop/sim"
)

// Screen is the client's current page.
type Screen int

const (
	ScreenTitle    Screen = iota // Title, difficulty select and leaderboard
	ScreenPlaying                // A match is running
	ScreenShutdown               // Server is shutting down
)

// ClientState holds per-connection UI state. The match itself lives in the
// simulation; the client only keeps what it needs to draw and to diff input.
type ClientState struct {
	Input         input.Input
	prevInput     input.Input       // Input from the previous frame, for edge detection
	Screen        Screen            // This client's page
	prevScreen    Screen            // Page drawn last frame
	prevStatus    sim.Status        // Match status drawn last frame
	Difficulty    string            // Tier for the next match
	Leaderboard   []highscore.Entry // Cached top scores for the title screen
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	wasInactive   bool
	events        []sim.Event // Reused edge buffer
}

// NewClientState creates a new initialized client state.
func NewClientState(diff string) *ClientState {
	return &ClientState{
		Input:      input.Input{Number: -1},
		prevInput:  input.Input{Number: -1},
		Screen:     ScreenTitle,
		prevScreen: -1,
		Difficulty: diff,
		Running:    true,
	}
}
