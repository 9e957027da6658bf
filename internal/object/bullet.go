package object

import (
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/physics"
)

// BulletKind selects a bullet's size, damage and speed.
type BulletKind int

const (
	BulletLight BulletKind = iota
	BulletHeavy
)

// Bullet tuning. Size doubles as damage. Speeds are per bullet tick.
const (
	LightBulletSize  = 5
	LightBulletSpeed = 3.0
	HeavyBulletSize  = 20
	HeavyBulletSpeed = 4.0

	bulletSegments = 16
)

var bulletShapes = map[BulletKind]physics.Polygon{
	BulletLight: physics.Ellipse(LightBulletSize, bulletSegments),
	BulletHeavy: physics.Ellipse(HeavyBulletSize, bulletSegments),
}

// Bullet is a projectile fired by the player. It travels in a straight line.
type Bullet struct {
	X, Y  float64 // Top-left of the bounding box
	Angle float64
	Size  float64
	Speed float64
	Kind  BulletKind
	hull  physics.Polygon
}

// NewBullet creates a bullet centred on a shooter whose sprite box starts at (x, y).
func NewBullet(x, y, angle float64, kind BulletKind) *Bullet {
	size, speed := float64(LightBulletSize), LightBulletSpeed
	if kind == BulletHeavy {
		size, speed = HeavyBulletSize, HeavyBulletSpeed
	}
	return &Bullet{
		X:     x + PlayerSize/2 - size/2,
		Y:     y + PlayerSize/2 - size/2,
		Angle: angle,
		Size:  size,
		Speed: speed,
		Kind:  kind,
	}
}

// Damage is the HP a hit removes.
func (b *Bullet) Damage() float64 {
	return b.Size
}

// Center returns the bullet's centre.
func (b *Bullet) Center() (float64, float64) {
	return b.X + b.Size/2, b.Y + b.Size/2
}

// Hull returns the hit-shape in field coordinates, reusing dst when possible.
func (b *Bullet) Hull(dst physics.Polygon) physics.Polygon {
	return bulletShapes[b.Kind].Translate(b.X, b.Y, dst)
}

// Snapshot returns a copy that shares no buffers with b.
func (b *Bullet) Snapshot() Bullet {
	c := *b
	c.hull = nil
	return c
}

// Update moves the bullet. Returns true once it has left the field.
func (b *Bullet) Update(ctx UpdateContext) bool {
	b.X, b.Y = physics.Advance(b.X, b.Y, b.Angle, b.Speed)
	b.hull = b.Hull(b.hull)
	return ctx.Field.Outside(b.hull.Bounds())
}

// Draw renders the bullet as a filled disc.
func (b *Bullet) Draw(ctx DrawContext) error {
	color := draw.ColorLightBullet
	if b.Kind == BulletHeavy {
		color = draw.ColorHeavyBullet
	}
	b.hull = b.Hull(b.hull)
	ctx.Canvas.DrawPolygon(toPoints(ctx.Canvas, b.hull), true, color)
	return nil
}
