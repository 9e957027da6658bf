package client

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/skyraid/internal/difficulty"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/loop/sim"
	"github.com/tomz197/skyraid/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	var snap *sim.Snapshot
	status := sim.StatusRunning
	if c.state.Screen == ScreenPlaying && c.match != nil {
		snap = c.match.Snapshot()
		status = snap.Status()
	}

	// On page, match status or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.Screen != c.state.prevScreen || status != c.state.prevStatus
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.prevStatus = status
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if snap != nil {
		if err := drawSnapshot(c.canvas, snap); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// drawSnapshot draws every entity in the snapshot, effects first so craft
// stay visible through explosions.
func drawSnapshot(canvas *draw.Canvas, snap *sim.Snapshot) error {
	ctx := object.DrawContext{Canvas: canvas}
	for i := range snap.Effects {
		if err := snap.Effects[i].Draw(ctx); err != nil {
			return err
		}
	}
	for i := range snap.Rockets {
		if err := snap.Rockets[i].Draw(ctx); err != nil {
			return err
		}
	}
	for i := range snap.Bullets {
		if err := snap.Bullets[i].Draw(ctx); err != nil {
			return err
		}
	}
	return snap.Ship.Draw(ctx)
}

// drawUI draws the text overlay for the current page.
func (c *Client) drawUI(snap *sim.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.Screen {
	case ScreenTitle:
		c.drawTitleScreen(centerX, centerY)
	case ScreenPlaying:
		if snap == nil {
			return
		}
		c.drawPlayingHUD(termWidth, termHeight, snap)
		switch snap.Status() {
		case sim.StatusPaused:
			c.drawPauseMenu(centerX, centerY, snap)
		case sim.StatusGameOver:
			c.drawGameOverScreen(centerX, centerY, snap)
		}
	}
}

// writeCentered writes s centred on centerX and marks the cells for repaint.
func (c *Client) writeCentered(centerX, row int, s string) {
	n := utf8.RuneCountInString(s)
	col := centerX - n/2
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, n)
}

// writeText writes s at (col, row), optionally styled, and marks the cells for repaint.
func (c *Client) writeText(col, row int, style, s string) {
	if style == "" {
		c.chunkWriter.WriteAt(col, row, s)
	} else {
		c.chunkWriter.WriteStyledAt(col, row, style, s)
	}
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

func artWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > w {
			w = n
		}
	}
	return w
}

func (c *Client) drawArt(centerX, row int, art []string) {
	w := artWidth(art)
	for i, line := range art {
		c.writeText(centerX-w/2, row+i, "", line)
	}
}

// blink is true for alternating 600 ms windows.
func blink() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

var titleArt = []string{
	`  ___ _  ____   _____    _   ___ ___  `,
	` / __| |/ /\ \ / / _ \  /_\ |_ _|   \ `,
	` \__ \ ' <  \ V /|   / / _ \ | || |) |`,
	` |___/_|\_\  |_| |_|_\/_/ \_\___|___/ `,
}

// drawTitleScreen draws the title, difficulty picker, controls and leaderboard.
func (c *Client) drawTitleScreen(centerX, centerY int) {
	row := centerY - 10
	if row < 1 {
		row = 1
	}
	c.drawArt(centerX, row, titleArt)
	row += len(titleArt) + 1
	c.writeCentered(centerX, row, "~ Hold the line against the rockets ~")

	row += 2
	var picker strings.Builder
	for i, name := range difficulty.Names() {
		if i > 0 {
			picker.WriteString("   ")
		}
		if name == c.state.Difficulty {
			fmt.Fprintf(&picker, "[%d %s]", i+1, name)
		} else {
			fmt.Fprintf(&picker, " %d %s ", i+1, name)
		}
	}
	c.writeCentered(centerX, row, "Difficulty:  "+picker.String())
	row++
	c.writeCentered(centerX, row, fmt.Sprintf("Pilot: %-16s", truncate(c.opts.PlayerID, config.MaxUsernameLength)))

	row += 2
	controls := []string{
		"A D / < >  . . . . . Turn",
		"W / Up / SPACE  . . Boost",
		"J  . . . . . . Light shot",
		"K  . . . . . Heavy shot*",
		"P  . . . . . . . . Pause",
		"Q  . . . . . . . . . Quit",
	}
	for i, line := range controls {
		c.writeCentered(centerX, row+i, line)
	}
	row += len(controls)
	c.writeCentered(centerX, row, "*needs a charge, one per 10 kills")

	row += 2
	if len(c.state.Leaderboard) > 0 {
		c.writeCentered(centerX, row, "High Scores")
		for i, e := range c.state.Leaderboard {
			line := fmt.Sprintf("%2d. %-16s %6d", i+1, truncate(e.Player, config.MaxUsernameLength), e.Score)
			style := ""
			if e.Player == c.opts.PlayerID {
				style = draw.ColorBrightCyan
			}
			c.writeText(centerX-utf8.RuneCountInString(line)/2, row+1+i, style, line)
		}
		row += len(c.state.Leaderboard) + 2
	}

	if blink() {
		c.writeCentered(centerX, row, ">>  Press ENTER to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we no longer clear every frame).
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *sim.Snapshot) {
	c.writeText(2, 1, "", fmt.Sprintf("Score: %-6d", snap.Match.Score))

	hp := snap.Ship.Health
	hpText := fmt.Sprintf("HP: %3.0f/%-3.0f", math.Max(0, hp.Current), hp.Max)
	hpStyle := ""
	if hp.Fraction() < 0.25 {
		hpStyle = draw.ColorRed
	}
	c.writeText(termWidth/2-len(hpText)/2, 1, hpStyle, hpText)

	ult, ultStyle := "-    ", ""
	switch {
	case snap.Ability.Active:
		secs := float64(snap.Ability.Remaining*config.BulletEvery) * config.TickTime.Seconds()
		ult, ultStyle = fmt.Sprintf("%-5s", fmt.Sprintf("%.1fs", secs)), draw.ColorYellow
	case snap.Ability.Charges > 0:
		ult, ultStyle = "READY", draw.ColorBold
	}
	charges := fmt.Sprintf("Charges: %-2d ULT: ", snap.Ability.Charges)
	col := termWidth - len(charges) - len(ult) - 1
	c.writeText(col, 1, "", charges)
	c.writeText(col+len(charges), 1, ultStyle, ult)

	info := fmt.Sprintf("%s | %-6s", truncate(snap.Player, config.MaxUsernameLength), snap.Difficulty)
	c.writeText(2, termHeight, draw.ColorDim, info)
	hint := "P Pause  Q Menu"
	c.writeText(termWidth-len(hint)-1, termHeight, draw.ColorDim, hint)
}

// drawPauseMenu draws the pause overlay with its actions.
func (c *Client) drawPauseMenu(centerX, centerY int, snap *sim.Snapshot) {
	c.writeCentered(centerX, centerY-4, "PAUSED")
	lines := []string{
		"P  . . . . . . . Resume",
		"R  . . . . . . . Restart",
		"1 2 3  . . . Difficulty",
		"Q  . . . . . . Main menu",
	}
	for i, line := range lines {
		c.writeCentered(centerX, centerY-2+i, line)
	}
	c.writeCentered(centerX, centerY+3, fmt.Sprintf("Difficulty: %-6s", snap.Difficulty))
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawGameOverScreen draws the game over overlay.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *sim.Snapshot) {
	row := centerY - 6
	c.drawArt(centerX, row, gameOverArt)
	row += len(gameOverArt) + 1

	c.writeCentered(centerX, row, fmt.Sprintf("Score: %d", snap.Match.Score))
	if c.opts.Scores != nil {
		if rank := c.opts.Scores.Rank(snap.Player); rank > 0 {
			c.writeCentered(centerX, row+1, fmt.Sprintf("Leaderboard rank: #%d", rank))
		}
	}

	if blink() {
		c.writeCentered(centerX, row+3, ">>  Press ENTER to Play Again  <<")
	}
	c.writeCentered(centerX, row+5, "Q  Main menu")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
