package loop

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedSize() (int, int, error) { return 100, 30, nil }

// idleReader never returns, like a terminal nobody types into.
type idleReader struct{}

func (idleReader) Read([]byte) (int, error) { select {} }

func runWithKeys(t *testing.T, keys string, opts Options) (string, error) {
	t.Helper()
	var out bytes.Buffer
	r := bufio.NewReader(io.MultiReader(strings.NewReader(keys), idleReader{}))
	opts.TermSizeFunc = fixedSize

	done := make(chan error, 1)
	go func() { done <- Run(r, &out, opts) }()
	select {
	case err := <-done:
		return out.String(), err
	case <-time.After(3 * time.Second):
		t.Fatal("session did not end")
		return "", nil
	}
}

func TestRunQuitsFromTitle(t *testing.T) {
	out, err := runWithKeys(t, "q", Options{})
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !strings.Contains(out, "\033[?1049h") || !strings.Contains(out, "\033[?1049l") {
		t.Error("alternate screen not entered and left")
	}
	if !strings.Contains(out, "Press ENTER to Start") && !strings.Contains(out, "Difficulty:") {
		t.Error("title screen not drawn")
	}
}

func TestRunToleratesCorruptLeaderboard(t *testing.T) {
	dir := t.TempDir()
	scores := filepath.Join(dir, "scores.msgpack")
	if err := os.WriteFile(scores, []byte("not msgpack at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runWithKeys(t, "q", Options{
		SettingsPath:  filepath.Join(dir, "settings.env"),
		HighscorePath: scores,
	})
	if err != nil {
		t.Fatalf("Run() = %v, want nil for a corrupt leaderboard", err)
	}
}
