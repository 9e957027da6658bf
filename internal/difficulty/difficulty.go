// Package difficulty resolves named difficulty tiers to their tuning values.
package difficulty

import (
	"strings"
	"time"
)

// Tier names accepted by ProfileFor (matched case-insensitively).
const (
	Easy   = "Easy"
	Medium = "Medium"
	Hard   = "Hard"
)

// Profile holds the values a difficulty tier applies to a match.
type Profile struct {
	Name            string
	SpawnIntervalMs int     // Milliseconds between rocket waves
	SpeedMultiplier float64 // Applied to rocket base speed at spawn
	PlayerMaxHP     float64
	RocketMaxHP     float64
}

// SpawnInterval returns the wave period as a duration.
func (p Profile) SpawnInterval() time.Duration {
	return time.Duration(p.SpawnIntervalMs) * time.Millisecond
}

var profiles = [...]Profile{
	{Name: Easy, SpawnIntervalMs: 4000, SpeedMultiplier: 1.0, PlayerMaxHP: 100, RocketMaxHP: 20},
	{Name: Medium, SpawnIntervalMs: 3000, SpeedMultiplier: 1.25, PlayerMaxHP: 75, RocketMaxHP: 30},
	{Name: Hard, SpawnIntervalMs: 2000, SpeedMultiplier: 1.5, PlayerMaxHP: 50, RocketMaxHP: 40},
}

// ProfileFor returns the profile for the named tier.
// Matching ignores case only; any other name, including padded ones,
// falls back to Medium.
func ProfileFor(name string) Profile {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return profiles[1]
}

// Names lists the tiers in ascending order of difficulty.
func Names() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return names
}

// Next returns the tier after name, wrapping from Hard back to Easy.
func Next(name string) string {
	current := ProfileFor(name).Name
	for i, p := range profiles {
		if p.Name == current {
			return profiles[(i+1)%len(profiles)].Name
		}
	}
	return Medium
}
