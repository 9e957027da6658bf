// Package config centralizes all tunable game parameters.
package config

import "time"

// Play-field dimensions in logical units. The canvas scales them to the terminal.
const (
	FieldWidth  = 1280
	FieldHeight = 720
)

// Player spawn point (top-left of the sprite box).
const (
	PlayerStartX = 150
	PlayerStartY = 150
)

// Simulation clock. Every phase period is a whole number of master ticks.
const (
	TickTime       = time.Millisecond
	PhysicsEvery   = 5  // Input/physics phase period, in master ticks
	BulletEvery    = 1  // Bullet/effect/collision phase period, in master ticks
	SnapshotEvery  = 16 // Render snapshot period, in master ticks
	MaxCatchUp     = 250
	EventQueueSize = 256
)

// Ability
const (
	AbilityDuration = 300 // Bullet ticks the heavy-fire window stays open
	ChargeEvery     = 10  // Score points per banked charge
)

// CollisionGridCellSize must be >= the largest centre-to-centre hit distance
// (rocket hull radius 35 + heavy bullet radius 10).
const CollisionGridCellSize = 64.0

// Terminal rendering limits.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 45
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Leaderboard
const (
	LeaderboardSize   = 10
	MaxUsernameLength = 16 // Maximum display length for player names
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)
