package client

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	appconfig "github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/difficulty"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/highscore"
	"github.com/tomz197/skyraid/internal/input"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/loop/sim"
)

// matchStopTimeout bounds how long the client waits for a match to wind down.
const matchStopTimeout = time.Second

// Scoreboard is the persistence side the client needs: submissions from the
// match and the leaderboard for the title and game-over screens.
type Scoreboard interface {
	Submit(player string, score int) (bool, error)
	Top(n int) []highscore.Entry
	Rank(player string) int
}

// Client handles rendering and input for a single connection.
type Client struct {
	opts         ClientOptions
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger

	match      *sim.Simulation
	stopMatch  context.CancelFunc
	matchEnded chan struct{} // Closed when the match goroutine returns

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc   draw.TermSizeFunc
	PlayerID       string              // Persistence id; the local user or the SSH user name
	Settings       *appconfig.Settings // Difficulty and brightness; saved when it has a path
	Scores         Scoreboard          // Optional
	Audio          sim.AudioSink       // Optional
	Logger         *log.Logger         // Optional
	IdleDisconnect bool                // Warn and then disconnect idle clients
	Seed           int64               // Passed to every match; zero seeds from the clock
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Settings == nil {
		s := appconfig.DefaultSettings()
		opts.Settings = &s
	}
	if opts.PlayerID == "" {
		opts.PlayerID = opts.Settings.CurrentUser
	}
	if opts.Logger == nil {
		opts.Logger = appconfig.DiscardLogger()
	}

	state := NewClientState(difficulty.ProfileFor(opts.Settings.Difficulty).Name)
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.FieldWidth, config.FieldHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	canvas.SetBrightness(opts.Settings.Brightness)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	c := &Client{
		opts:         opts,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       opts.Logger,
		shutdownCh:   make(chan struct{}),
	}
	c.refreshLeaderboard()
	return c
}

// NotifyShutdown switches the client to the shutdown screen. Safe to call
// from any goroutine, more than once.
func (c *Client) NotifyShutdown() {
	c.shutdownOnce.Do(func() { close(c.shutdownCh) })
}

// Run starts the client loop. Blocks until the player quits, the input
// stream ends, the client idles out or the shutdown countdown expires.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.endMatch()

	lastTime := time.Now()
	shutdown := c.shutdownCh

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()

		select {
		case <-shutdown:
			c.endMatch()
			c.state.Screen = ScreenShutdown
			c.state.shutdownTimer = config.ShutdownDisplaySeconds
			shutdown = nil
		default:
		}

		c.updateScreen()

		switch c.state.Screen {
		case ScreenTitle:
			c.updateTitleScreen()
		case ScreenPlaying:
			c.updatePlayingScreen()
		case ScreenShutdown:
			c.updateShutdownScreen()
		}
		c.state.prevInput = c.state.Input

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads held keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Closed {
		c.state.Running = false
		return
	}

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if c.opts.IdleDisconnect {
		idle := time.Since(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting idle client", "player", c.opts.PlayerID)
			c.state.Running = false
		} else if idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateTitleScreen handles difficulty selection, starting a match and quitting.
func (c *Client) updateTitleScreen() {
	prev, cur := c.state.prevInput, c.state.Input

	if pressed(prev, cur, func(in input.Input) bool { return in.Quit }) {
		c.state.Running = false
		return
	}

	names := difficulty.Names()
	switch n := numberPressed(prev, cur); {
	case n >= 1 && n <= len(names):
		c.setDifficulty(names[n-1])
	case pressed(prev, cur, func(in input.Input) bool { return in.Right }):
		c.setDifficulty(difficulty.Next(c.state.Difficulty))
	case pressed(prev, cur, func(in input.Input) bool { return in.Left }):
		c.setDifficulty(difficulty.Next(difficulty.Next(c.state.Difficulty)))
	}

	if pressed(prev, cur, func(in input.Input) bool { return in.Confirm }) {
		c.startMatch()
	}
}

// updatePlayingScreen forwards input edges to the match and returns to the
// title screen once the match has been exited.
func (c *Client) updatePlayingScreen() {
	select {
	case <-c.matchEnded:
		c.endMatch()
		c.state.Screen = ScreenTitle
		c.refreshLeaderboard()
		input.ResetKeyInput(c.inputStream)
		c.state.Input = input.Input{Number: -1}
		return
	default:
	}

	prev, cur := c.state.prevInput, c.state.Input
	c.state.events = edges(prev, cur, c.state.events[:0])
	for _, ev := range c.state.events {
		c.match.Send(ev)
	}

	// Difficulty can be changed from the pause menu.
	if snap := c.match.Snapshot(); snap.Status() == sim.StatusPaused {
		names := difficulty.Names()
		if n := numberPressed(prev, cur); n >= 1 && n <= len(names) {
			c.setDifficulty(names[n-1])
			c.match.SetDifficulty(names[n-1])
		}
	}
}

// updateShutdownScreen counts down the shutdown screen.
func (c *Client) updateShutdownScreen() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 || c.state.Input.Quit {
		c.state.Running = false
	}
}

// startMatch creates a simulation for the selected difficulty and runs it
// on its own goroutine.
func (c *Client) startMatch() {
	input.ResetKeyInput(c.inputStream)
	c.state.Input = input.Input{Number: -1}

	m := sim.New(sim.Options{
		Difficulty: c.state.Difficulty,
		PlayerID:   c.opts.PlayerID,
		Audio:      c.opts.Audio,
		Scores:     sim.ScoreSinkFunc(c.submit),
		Logger:     c.logger,
		Seed:       c.opts.Seed,
	})
	ctx, cancel := context.WithCancel(context.Background())
	ended := make(chan struct{})
	go func() {
		defer close(ended)
		if err := m.Run(ctx); err != nil {
			c.logger.Error("match failed", "err", err)
		}
	}()

	c.match = m
	c.stopMatch = cancel
	c.matchEnded = ended
	c.state.Screen = ScreenPlaying
}

// endMatch quits a running match, which submits its score, and waits a
// bounded time for the match goroutine to return.
func (c *Client) endMatch() {
	if c.match == nil {
		return
	}
	c.match.Exit()
	select {
	case <-c.matchEnded:
	case <-time.After(matchStopTimeout):
		c.logger.Warn("match did not stop in time", "match", c.match.ID())
	}
	c.stopMatch()
	c.match = nil
	c.stopMatch = nil
	c.matchEnded = nil
}

// submit runs on the match goroutine.
func (c *Client) submit(player string, score int) {
	if c.opts.Scores == nil {
		return
	}
	improved, err := c.opts.Scores.Submit(player, score)
	if err != nil {
		c.logger.Error("saving score failed", "player", player, "score", score, "err", err)
		return
	}
	if improved {
		c.logger.Info("new best score", "player", player, "score", score)
	}
}

func (c *Client) setDifficulty(name string) {
	if name == c.state.Difficulty {
		return
	}
	c.state.Difficulty = name
	c.opts.Settings.Difficulty = name
	if c.opts.Settings.Path() == "" {
		return
	}
	if err := c.opts.Settings.Save(); err != nil {
		c.logger.Warn("saving settings failed", "err", err)
	}
}

func (c *Client) refreshLeaderboard() {
	if c.opts.Scores == nil {
		return
	}
	c.state.Leaderboard = c.opts.Scores.Top(config.LeaderboardSize)
}
