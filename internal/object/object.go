package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/skyraid/internal/difficulty"
	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/physics"
)

// Spawner allows objects to spawn new objects during update.
// Spawned objects become visible after the current phase completes.
type Spawner interface {
	SpawnRocket(r *Rocket)
	SpawnBullet(b *Bullet)
	SpawnEffect(e *Effect)
}

// Ability gates heavy fire. Engage reports whether a heavy round may be
// fired now, activating a banked charge when the ability is idle.
type Ability interface {
	Engage() bool
}

// Controls is the held state of the flight and weapon inputs.
type Controls struct {
	Left  bool
	Right bool
	Boost bool
	Light bool
	Heavy bool
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta    time.Duration // Time covered by this update (spawner only)
	Controls Controls
	Field    Field
	Spawner  Spawner
	Ability  Ability
	Profile  difficulty.Profile
	Rand     *rand.Rand
	Paused   bool
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
}

// Field is the rectangular play area. The origin is the top-left corner.
type Field struct {
	Width  float64
	Height float64
}

// Outside reports whether a shape with bounds r lies entirely beyond the field.
func (f Field) Outside(r physics.Rect) bool {
	return r.MaxX <= 0 || r.MaxY <= 0 || r.MinX >= f.Width || r.MinY >= f.Height
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update advances the object by one tick. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal on the next compaction.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// toPoints converts a hit-shape to canvas points using the canvas scratch buffer.
func toPoints(c *draw.Canvas, poly physics.Polygon) []draw.Point {
	points := c.BorrowPoints(len(poly))
	for i, v := range poly {
		points[i] = draw.Point{X: v.X, Y: v.Y}
	}
	return points
}

// drawHPBar draws a two-tone bar of the given width above (x, y).
func drawHPBar(c *draw.Canvas, x, y, width float64, h Health) {
	c.DrawLine(draw.Point{X: x, Y: y}, draw.Point{X: x + width, Y: y}, draw.ColorHPBack)
	if f := h.Fraction(); f > 0 {
		c.DrawLine(draw.Point{X: x, Y: y}, draw.Point{X: x + width*f, Y: y}, draw.ColorHPFill)
	}
}
