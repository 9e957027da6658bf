package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomz197/skyraid/internal/difficulty"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SKYRAID_TEST_STR", "x")
	t.Setenv("SKYRAID_TEST_INT", "42")
	t.Setenv("SKYRAID_TEST_BAD", "forty")
	t.Setenv("SKYRAID_TEST_BOOL", "false")

	if got := GetEnv("SKYRAID_TEST_STR", "y"); got != "x" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("SKYRAID_TEST_MISSING", "y"); got != "y" {
		t.Errorf("GetEnv fallback = %q", got)
	}
	if got := GetEnvInt("SKYRAID_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("SKYRAID_TEST_BAD", 1); got != 1 {
		t.Errorf("GetEnvInt malformed = %d", got)
	}
	if got := GetEnvBool("SKYRAID_TEST_BOOL", true); got {
		t.Errorf("GetEnvBool = %v", got)
	}
}

func TestLoadDotEnvSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("SKYRAID_DOTENV_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SKYRAID_DOTENV_VALUE") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SKYRAID_DOTENV_VALUE"); got != "from-file" {
		t.Fatalf("value = %q", got)
	}
}

func TestSettingsDefaultsWhenMissing(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "none.env"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	want := DefaultSettings()
	if s.Difficulty != want.Difficulty || s.CurrentUser != want.CurrentUser || s.Volume != 80 || s.Brightness != 70 {
		t.Fatalf("defaults = %+v", s)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.env")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Difficulty = "hard"
	s.CurrentUser = "Ada Lovelace"
	s.Volume = 150
	s.Brightness = 40
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Difficulty != difficulty.Hard || got.CurrentUser != "Ada Lovelace" || got.Volume != 100 || got.Brightness != 40 {
		t.Fatalf("reloaded = %+v", got)
	}
}

func TestSettingsMalformedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.env")
	if err := os.WriteFile(path, []byte("DIFFICULTY=Insane\nVOLUME=loud\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err == nil {
		t.Fatal("expected an error for VOLUME=loud")
	}
	if s.Difficulty != difficulty.Medium || s.Volume != 80 {
		t.Fatalf("fallbacks not applied: %+v", s)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	s := DefaultSettings()
	if err := s.Save(); err == nil {
		t.Fatal("expected error saving settings without a path")
	}
}

func TestNewLoggerLevelFromEnv(t *testing.T) {
	tests := []struct {
		level    string
		wantInfo bool
	}{
		{"warn", false},
		{"debug", true},
		{"bogus", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Setenv("SKYRAID_LOG_LEVEL", tt.level)
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")

			logger.Info("info line")
			logger.Warn("warn line")

			out := buf.String()
			if got := strings.Contains(out, "info line"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v; output %q", got, tt.wantInfo, out)
			}
			if !strings.Contains(out, "warn line") {
				t.Errorf("warn line missing from %q", out)
			}
		})
	}
}

func TestSettingsTrimsPaddedDifficulty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.env")
	if err := os.WriteFile(path, []byte("DIFFICULTY=\"  easy\t\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Difficulty != difficulty.Easy {
		t.Fatalf("Difficulty = %q, want %q", s.Difficulty, difficulty.Easy)
	}
}
