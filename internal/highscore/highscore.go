// Package highscore keeps the best score per player, persisted with msgpack.
package highscore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// DefaultCapacity is how many players the leaderboard keeps.
const DefaultCapacity = 10

// ErrCorrupt is returned when the scores file cannot be decoded.
var ErrCorrupt = errors.New("highscore file is corrupt")

// Entry is one leaderboard line.
type Entry struct {
	Player   string    `msgpack:"player" json:"player"`
	Score    int       `msgpack:"score" json:"score"`
	Achieved time.Time `msgpack:"achieved" json:"achieved"`
}

// fileFormat is the on-disk layout.
type fileFormat struct {
	Version int     `msgpack:"v"`
	Entries []Entry `msgpack:"entries"`
}

const fileVersion = 1

// Store is a best-score-per-player leaderboard sorted by descending score.
// It is safe for concurrent use. With an empty path nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	path     string
	capacity int
	entries  []Entry
	now      func() time.Time
}

// Open loads the store from path. A missing file starts an empty board.
// A corrupt file also starts an empty board and returns ErrCorrupt so the
// caller can report it; the store remains usable.
func Open(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{path: path, capacity: capacity, now: time.Now}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read highscores: %w", err)
	}

	var f fileFormat
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.entries = f.Entries
	s.normalize()
	return s, nil
}

// Submit records score for player if it beats the player's previous best.
// It reports whether the board changed. Persistence errors are returned but
// the in-memory board is still updated.
func (s *Store) Submit(player string, score int) (bool, error) {
	if player == "" || score < 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	found := false
	for i := range s.entries {
		if s.entries[i].Player != player {
			continue
		}
		found = true
		if score > s.entries[i].Score {
			s.entries[i].Score = score
			s.entries[i].Achieved = s.now()
			changed = true
		}
		break
	}
	if !found {
		s.entries = append(s.entries, Entry{Player: player, Score: score, Achieved: s.now()})
		changed = true
	}
	if !changed {
		return false, nil
	}

	s.normalize()
	if !s.contains(player) {
		// Did not make the cut.
		return false, nil
	}
	return true, s.saveLocked()
}

// Top returns up to n entries, best first. n <= 0 returns the whole board.
func (s *Store) Top(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out
}

// Best returns the player's best score on the board.
func (s *Store) Best(player string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Player == player {
			return e.Score, true
		}
	}
	return 0, false
}

// Rank returns the player's 1-based position, or 0 when not on the board.
func (s *Store) Rank(player string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, e := range s.entries {
		if e.Player == player {
			return i + 1
		}
	}
	return 0
}

// Clear empties the board and persists the empty state.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.saveLocked()
}

// normalize sorts by score (ties keep the earlier achiever first) and trims to capacity.
func (s *Store) normalize() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		if s.entries[i].Score != s.entries[j].Score {
			return s.entries[i].Score > s.entries[j].Score
		}
		return s.entries[i].Achieved.Before(s.entries[j].Achieved)
	})
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
}

func (s *Store) contains(player string) bool {
	for _, e := range s.entries {
		if e.Player == player {
			return true
		}
	}
	return false
}

// saveLocked writes the board atomically via a temp file and rename.
func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := msgpack.Marshal(&fileFormat{Version: fileVersion, Entries: s.entries})
	if err != nil {
		return fmt.Errorf("encode highscores: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".highscores-*")
	if err != nil {
		return fmt.Errorf("write highscores: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write highscores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write highscores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write highscores: %w", err)
	}
	return nil
}
