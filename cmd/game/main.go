package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/loop"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game, so logs only go to a file when asked.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("SKYRAID_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "skyraid")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.Options{
		SettingsPath:  config.GetEnv("SKYRAID_SETTINGS", "skyraid_settings.env"),
		HighscorePath: config.GetEnv("SKYRAID_HIGHSCORES", "skyraid_highscores.msgpack"),
		Audio:         config.GetEnvBool("SKYRAID_AUDIO", true),
		Logger:        logger,
	})
	_ = term.Restore(fd, oldState)
	if err != nil {
		logger.Error("game error", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
