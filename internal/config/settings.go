package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tomz197/skyraid/internal/difficulty"
)

// Keys used in the settings file.
const (
	keyDifficulty  = "DIFFICULTY"
	keyCurrentUser = "CURRENT_USER"
	keyVolume      = "VOLUME"
	keyBrightness  = "BRIGHTNESS"
)

// DefaultUser is the player id used until another one is chosen.
const DefaultUser = "Default"

// Settings are the player's persisted preferences.
type Settings struct {
	Difficulty  string
	CurrentUser string
	Volume      int // Percent, 0..100
	Brightness  int // Percent, 0..100

	path string
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Difficulty:  difficulty.Medium,
		CurrentUser: DefaultUser,
		Volume:      80,
		Brightness:  70,
	}
}

// LoadSettings reads settings from a KEY=VALUE file. A missing file yields
// the defaults. Unknown or malformed values fall back to their defaults and
// are reported in the returned error alongside usable settings.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	s.path = path

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &s, nil
		}
		return &s, fmt.Errorf("read settings %s: %w", path, err)
	}

	var errs []error
	if v, ok := values[keyDifficulty]; ok {
		s.Difficulty = difficulty.ProfileFor(strings.TrimSpace(v)).Name
	}
	if v := strings.TrimSpace(values[keyCurrentUser]); v != "" {
		s.CurrentUser = v
	}
	if v, ok := values[keyVolume]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", keyVolume, err))
		} else {
			s.Volume = clampPercent(n)
		}
	}
	if v, ok := values[keyBrightness]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", keyBrightness, err))
		} else {
			s.Brightness = clampPercent(n)
		}
	}
	if len(errs) > 0 {
		return &s, fmt.Errorf("settings %s: %w", path, errors.Join(errs...))
	}
	return &s, nil
}

// Save writes the settings back to the file they were loaded from.
func (s *Settings) Save() error {
	if s.path == "" {
		return errors.New("settings have no file path")
	}
	values := map[string]string{
		keyDifficulty:  difficulty.ProfileFor(s.Difficulty).Name,
		keyCurrentUser: s.CurrentUser,
		keyVolume:      strconv.Itoa(clampPercent(s.Volume)),
		keyBrightness:  strconv.Itoa(clampPercent(s.Brightness)),
	}
	if err := godotenv.Write(values, s.path); err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}
	return nil
}

// Path returns the backing file.
func (s *Settings) Path() string {
	return s.path
}

func clampPercent(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
