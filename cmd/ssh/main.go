package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/skyraid/internal/audio"
	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/highscore"
	"github.com/tomz197/skyraid/internal/loop/client"
	loopconfig "github.com/tomz197/skyraid/internal/loop/config"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultScoresPath  = "/app/data/highscores.msgpack"

	shutdownWait = 15 * time.Second
)

// Shared by all SSH sessions.
var (
	logger     *log.Logger
	scores     *highscore.Store
	difficulty string
	sessions   = newRegistry()
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger = config.NewLogger(os.Stderr, "skyraid-ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scoresPath := config.GetEnv("SKYRAID_HIGHSCORES", defaultScoresPath)
	difficulty = strings.TrimSpace(config.GetEnv("SKYRAID_DIFFICULTY", ""))
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath,
		"scores", scoresPath, "workingDir", workingDir)

	var err error
	scores, err = highscore.Open(scoresPath, loopconfig.LeaderboardSize)
	switch {
	case errors.Is(err, highscore.ErrCorrupt):
		logger.Warn("leaderboard unreadable, starting empty", "path", scoresPath, "err", err)
	case err != nil:
		logger.Fatal("failed to open leaderboard", "path", scoresPath, "err", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "sessions", sessions.len())

	// Players get the shutdown countdown; their matches submit on the way out.
	if !sessions.shutdown(shutdownWait) {
		logger.Warn("sessions still open after shutdown wait", "sessions", sessions.len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		sessLogger := logger.With("user", sess.User())
		sessLogger.Info("new game session", "terminal", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		// Settings are per session and never written to disk.
		settings := config.DefaultSettings()
		if difficulty != "" {
			settings.Difficulty = difficulty
		}

		reader := bufio.NewReader(sess)
		c := client.NewClient(reader, sess, client.ClientOptions{
			TermSizeFunc:   sizeTracker.getSize,
			PlayerID:       sess.User(),
			Settings:       &settings,
			Scores:         scores,
			Audio:          audio.Nop{},
			Logger:         sessLogger,
			IdleDisconnect: true,
		})

		id := sessions.add(c)
		if err := c.Run(); err != nil {
			sessLogger.Error("game error", "err", err)
		}
		sessions.remove(id)

		sessLogger.Info("session ended")
		next(sess)
	}
}

// registry tracks live clients so shutdown can reach them.
type registry struct {
	mu      sync.Mutex
	next    int
	clients map[int]*client.Client
	wg      sync.WaitGroup
}

func newRegistry() *registry {
	return &registry{clients: make(map[int]*client.Client)}
}

func (r *registry) add(c *client.Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.clients[r.next] = c
	r.wg.Add(1)
	return r.next
}

func (r *registry) remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; ok {
		delete(r.clients, id)
		r.wg.Done()
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// shutdown notifies every client and waits for them to leave. It reports
// whether all sessions ended within timeout.
func (r *registry) shutdown(timeout time.Duration) bool {
	r.mu.Lock()
	for _, c := range r.clients {
		c.NotifyShutdown()
	}
	r.mu.Unlock()

	left := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(left)
	}()

	select {
	case <-left:
		return true
	case <-time.After(timeout):
		return false
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
