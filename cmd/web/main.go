package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/highscore"
	loopconfig "github.com/tomz197/skyraid/internal/loop/config"
)

const (
	defaultHost       = "0.0.0.0"
	defaultPort       = "8080"
	defaultScoresPath = "/app/data/highscores.msgpack"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, "skyraid-web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	scoresPath := config.GetEnv("SKYRAID_HIGHSCORES", defaultScoresPath)

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("GET /api/highscores", highscoresHandler(scoresPath, logger))

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "url", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// highscoresHandler serves the leaderboard as JSON. The file belongs to the
// SSH server, so it is re-read on every request.
func highscoresHandler(path string, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, err := highscore.Open(path, loopconfig.LeaderboardSize)
		if err != nil && !errors.Is(err, highscore.ErrCorrupt) {
			logger.Error("failed to read leaderboard", "path", path, "err", err)
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		if err != nil {
			logger.Warn("leaderboard unreadable", "path", path, "err", err)
		}

		entries := store.Top(loopconfig.LeaderboardSize)
		if entries == nil {
			entries = []highscore.Entry{}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logger.Debug("failed to write leaderboard", "err", err)
		}
	})
}
