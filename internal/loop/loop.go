// Package loop runs a local single-player session: settings, leaderboard and
// audio are loaded here and handed to a terminal client.
package loop

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/audio"
	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/highscore"
	"github.com/tomz197/skyraid/internal/loop/client"
	loopconfig "github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/loop/sim"
)

// Options configures a local session.
type Options struct {
	SettingsPath  string // Empty keeps settings in memory only
	HighscorePath string // Empty keeps the leaderboard in memory only
	Audio         bool
	Logger        *log.Logger
	TermSizeFunc  draw.TermSizeFunc
}

// Run plays on r and w until the player quits from the title screen or the
// input stream ends.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = config.DiscardLogger()
	}

	settings := config.DefaultSettings()
	s := &settings
	if opts.SettingsPath != "" {
		loaded, err := config.LoadSettings(opts.SettingsPath)
		if err != nil {
			logger.Warn("settings partly unreadable, using defaults", "path", opts.SettingsPath, "err", err)
		}
		s = loaded
	}

	scores, err := highscore.Open(opts.HighscorePath, loopconfig.LeaderboardSize)
	if err != nil {
		if !errors.Is(err, highscore.ErrCorrupt) {
			return fmt.Errorf("open leaderboard: %w", err)
		}
		logger.Warn("leaderboard corrupt, starting empty", "path", opts.HighscorePath, "err", err)
	}

	var sink sim.AudioSink = audio.Nop{}
	if opts.Audio {
		player, err := audio.New(s.Volume, logger)
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			sink = player
		}
	}

	draw.EnterAltScreen(w)
	defer draw.ExitAltScreen(w)

	c := client.NewClient(r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		PlayerID:     s.CurrentUser,
		Settings:     s,
		Scores:       scores,
		Audio:        sink,
		Logger:       logger,
	})
	return c.Run()
}
