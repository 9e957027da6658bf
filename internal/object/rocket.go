package object

import (
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/physics"
)

// Rocket geometry and base speed (per physics tick, before the difficulty multiplier).
const (
	RocketSize      = 50
	RocketBaseSpeed = 0.3
)

// rocketShape is the local hull, rotated about (RocketSize/2, RocketSize/2).
var rocketShape = physics.NewPolygon(
	0, RocketSize/2,
	15, 10,
	RocketSize-5, 13,
	RocketSize+10, RocketSize/2,
	RocketSize-5, RocketSize-13,
	15, RocketSize-10,
)

// Rocket is an enemy crossing the field on a fixed heading.
type Rocket struct {
	X, Y      float64 // Top-left of the sprite box
	Angle     float64 // Fixed at spawn: 0 (from the left) or 180 (from the right)
	Speed     float64 // Base speed times the spawn-time difficulty multiplier
	Health    Health
	Destroyed bool
	hull      physics.Polygon
}

// NewRocket creates a rocket. Speed multiplier and HP are fixed for its lifetime.
func NewRocket(x, y, angle, speedMultiplier, maxHP float64) *Rocket {
	return &Rocket{
		X:      x,
		Y:      y,
		Angle:  physics.WrapHeading(angle),
		Speed:  RocketBaseSpeed * speedMultiplier,
		Health: NewHealth(maxHP),
	}
}

// Hull returns the hit-shape in field coordinates, reusing dst when possible.
func (r *Rocket) Hull(dst physics.Polygon) physics.Polygon {
	return rocketShape.Transform(r.X, r.Y, r.Angle, RocketSize/2, RocketSize/2, dst)
}

// Center returns the centre of the sprite box.
func (r *Rocket) Center() (float64, float64) {
	return r.X + RocketSize/2, r.Y + RocketSize/2
}

// Snapshot returns a copy that shares no buffers with r.
func (r *Rocket) Snapshot() Rocket {
	c := *r
	c.hull = nil
	return c
}

// Update advances the rocket. Returns true once its hull has left the field.
func (r *Rocket) Update(ctx UpdateContext) bool {
	r.X, r.Y = physics.Advance(r.X, r.Y, r.Angle, r.Speed)
	r.hull = r.Hull(r.hull)
	return ctx.Field.Outside(r.hull.Bounds())
}

// Draw renders the hull and, once damaged, an HP bar above it.
func (r *Rocket) Draw(ctx DrawContext) error {
	r.hull = r.Hull(r.hull)
	ctx.Canvas.DrawPolygon(toPoints(ctx.Canvas, r.hull), true, draw.ColorRocket)
	if r.Health.Damaged() {
		drawHPBar(ctx.Canvas, r.X, r.Y, RocketSize, r.Health)
	}
	return nil
}

// MarkDestroyed marks the rocket for removal (implements Destructible).
func (r *Rocket) MarkDestroyed() {
	r.Destroyed = true
}

// IsDestroyed returns true if the rocket is marked for destruction (implements Destructible).
func (r *Rocket) IsDestroyed() bool {
	return r.Destroyed
}
