package object

import (
	"math"

	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/physics"
)

// Player geometry and flight tuning. Speeds are per physics tick.
const (
	PlayerSize         = 64
	PlayerMaxSpeed     = 1.0
	PlayerAcceleration = 0.01
	PlayerDeceleration = 0.003
	PlayerTurnStep     = 0.5 // Degrees per physics tick per held turn input
	PlayerFireCooldown = 15  // Physics ticks between shots from one continuous hold
)

// Weapon identifies one of the player's trigger inputs.
type Weapon int

const (
	WeaponLight Weapon = iota
	WeaponHeavy
	weaponCount
)

// playerShape is the local hull, rotated about (PlayerSize/2, PlayerSize/2).
var playerShape = physics.NewPolygon(
	0, 15,
	20, 5,
	PlayerSize+15, PlayerSize/2,
	20, PlayerSize-5,
	0, PlayerSize-15,
)

// Player is the player-controlled craft.
type Player struct {
	X, Y   float64 // Top-left of the sprite box
	Angle  float64 // Heading in degrees, [0, 359]
	Speed  float64 // Distance per physics tick
	Health Health
	Alive  bool

	FireCooldown int              // Ticks a held trigger waits between shots
	cooldown     [weaponCount]int // Remaining ticks per weapon
	hull         physics.Polygon  // Reused transform buffer
}

// NewPlayer creates a live player at (x, y) with full health.
func NewPlayer(x, y, maxHP float64) *Player {
	p := &Player{FireCooldown: PlayerFireCooldown}
	p.Reset(x, y, maxHP)
	return p
}

// Reset restores the player for a new life.
func (p *Player) Reset(x, y, maxHP float64) {
	p.X = x
	p.Y = y
	p.Angle = 0
	p.Speed = 0
	p.Health = NewHealth(maxHP)
	p.Alive = true
	p.cooldown = [weaponCount]int{}
}

// Hull returns the hit-shape in field coordinates, reusing dst when possible.
func (p *Player) Hull(dst physics.Polygon) physics.Polygon {
	return playerShape.Transform(p.X, p.Y, p.Angle, PlayerSize/2, PlayerSize/2, dst)
}

// Center returns the centre of the sprite box.
func (p *Player) Center() (float64, float64) {
	return p.X + PlayerSize/2, p.Y + PlayerSize/2
}

// Snapshot returns a copy that shares no buffers with p.
func (p *Player) Snapshot() Player {
	c := *p
	c.hull = nil
	return c
}

// Cooldown returns the remaining suppression ticks for a weapon.
func (p *Player) Cooldown(w Weapon) int {
	return p.cooldown[w]
}

// Update applies one physics tick of steering, firing and movement.
// Shots leave along the heading held at the start of the tick.
func (p *Player) Update(ctx UpdateContext) bool {
	if !p.Alive {
		return false
	}
	c := ctx.Controls

	angle := p.Angle
	if c.Left {
		angle -= PlayerTurnStep
	}
	if c.Right {
		angle += PlayerTurnStep
	}

	p.trigger(WeaponLight, c.Light, ctx)
	p.trigger(WeaponHeavy, c.Heavy, ctx)

	target := 0.0
	if c.Boost {
		target = PlayerMaxSpeed
	}
	p.Speed = physics.Approach(p.Speed, target, PlayerAcceleration, PlayerDeceleration)

	p.X, p.Y = physics.Advance(p.X, p.Y, p.Angle, p.Speed)
	p.clamp(ctx.Field)
	p.Angle = physics.WrapHeading(angle)

	return false
}

// trigger fires on the first tick of a hold, then every FireCooldown ticks.
func (p *Player) trigger(w Weapon, held bool, ctx UpdateContext) {
	if !held {
		p.cooldown[w] = 0
		return
	}
	if p.cooldown[w] == 0 {
		p.fire(w, ctx)
		p.cooldown[w] = p.FireCooldown
	}
	p.cooldown[w]--
}

func (p *Player) fire(w Weapon, ctx UpdateContext) {
	if ctx.Spawner == nil {
		return
	}
	kind := BulletLight
	if w == WeaponHeavy && ctx.Ability != nil && ctx.Ability.Engage() {
		kind = BulletHeavy
	}
	ctx.Spawner.SpawnBullet(NewBullet(p.X, p.Y, p.Angle, kind))
}

// clamp keeps the sprite box inside the field.
func (p *Player) clamp(f Field) {
	if f.Width <= 0 || f.Height <= 0 {
		return
	}
	p.X = math.Max(0, math.Min(p.X, f.Width-PlayerSize))
	p.Y = math.Max(0, math.Min(p.Y, f.Height-PlayerSize))
}

// Draw renders the hull and, once damaged, an HP bar above it.
func (p *Player) Draw(ctx DrawContext) error {
	if !p.Alive {
		return nil
	}
	p.hull = p.Hull(p.hull)
	ctx.Canvas.DrawPolygon(toPoints(ctx.Canvas, p.hull), true, draw.ColorPlayer)
	if p.Health.Damaged() {
		drawHPBar(ctx.Canvas, p.X, p.Y-6, PlayerSize, p.Health)
	}
	return nil
}
