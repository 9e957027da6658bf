package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/skyraid/internal/draw"
)

// effectPool is a sync.Pool for reusing Effect objects to reduce allocations.
var effectPool = sync.Pool{
	New: func() any {
		return &Effect{}
	},
}

// EffectSpec describes a burst: Count sparks of up to MaxSize travel outwards
// by Speed per tick until they reach MaxDistance.
type EffectSpec struct {
	Count       int
	MaxSize     int
	MaxDistance float64
	Speed       float64
	Color       draw.Color
}

// ImpactSpec is the small burst left where a bullet strikes.
var ImpactSpec = EffectSpec{Count: 3, MaxSize: 5, MaxDistance: 60, Speed: 0.5, Color: draw.Color{R: 230, G: 207, B: 105}}

// ExplosionSpecs is the five-part cluster spawned when a craft is destroyed.
var ExplosionSpecs = [5]EffectSpec{
	{Count: 5, MaxSize: 5, MaxDistance: 75, Speed: 0.05, Color: draw.Color{R: 32, G: 178, B: 169}},
	{Count: 5, MaxSize: 5, MaxDistance: 75, Speed: 0.1, Color: draw.Color{R: 32, G: 178, B: 169}},
	{Count: 10, MaxSize: 10, MaxDistance: 100, Speed: 0.3, Color: draw.Color{R: 230, G: 207, B: 105}},
	{Count: 10, MaxSize: 5, MaxDistance: 100, Speed: 0.5, Color: draw.Color{R: 255, G: 70, B: 70}},
	{Count: 10, MaxSize: 5, MaxDistance: 150, Speed: 0.2, Color: draw.Color{R: 255, G: 255, B: 255}},
}

// Spark is one fragment of an effect.
type Spark struct {
	Angle float64 // Degrees
	Size  float64
}

// Effect is a short-lived cosmetic burst. It has no influence on the match.
type Effect struct {
	X, Y        float64 // Origin
	Distance    float64 // How far the sparks have travelled
	MaxDistance float64
	Speed       float64
	Color       draw.Color
	Sparks      []Spark
}

// NewEffect creates an effect from the pool with randomised sparks.
// Sparks are spread evenly around the circle with a random offset inside each sector.
func NewEffect(x, y float64, spec EffectSpec, rng *rand.Rand) *Effect {
	e := effectPool.Get().(*Effect)
	e.X = x
	e.Y = y
	e.Distance = 0
	e.MaxDistance = spec.MaxDistance
	e.Speed = spec.Speed
	e.Color = spec.Color
	e.Sparks = e.Sparks[:0]

	if spec.Count > 0 {
		per := 360 / float64(spec.Count)
		for i := 0; i < spec.Count; i++ {
			e.Sparks = append(e.Sparks, Spark{
				Angle: float64(i)*per + float64(intn(rng, int(per))+1),
				Size:  float64(intn(rng, spec.MaxSize) + 1),
			})
		}
	}
	return e
}

// Release returns the effect to the pool for reuse.
// Should be called when the effect is removed from the game.
func (e *Effect) Release() {
	effectPool.Put(e)
}

// Snapshot returns a deep copy of e.
func (e *Effect) Snapshot() Effect {
	c := *e
	c.Sparks = append([]Spark(nil), e.Sparks...)
	return c
}

// SpawnImpact spawns the bullet-strike burst at (x, y).
func SpawnImpact(x, y float64, rng *rand.Rand, spawner Spawner) {
	if spawner == nil {
		return
	}
	spawner.SpawnEffect(NewEffect(x, y, ImpactSpec, rng))
}

// SpawnExplosion spawns the five-part explosion cluster at (x, y).
func SpawnExplosion(x, y float64, rng *rand.Rand, spawner Spawner) {
	if spawner == nil {
		return
	}
	for _, spec := range ExplosionSpecs {
		spawner.SpawnEffect(NewEffect(x, y, spec, rng))
	}
}

// Alive reports whether the sparks are still travelling.
func (e *Effect) Alive() bool {
	return e.Distance < e.MaxDistance
}

// Alpha is the remaining opacity in [0, 1].
func (e *Effect) Alpha() float64 {
	if e.MaxDistance <= 0 {
		return 0
	}
	return math.Max(0, 1-e.Distance/e.MaxDistance)
}

// Update pushes the sparks outwards. Returns true once the effect has expired.
func (e *Effect) Update(_ UpdateContext) bool {
	e.Distance += e.Speed
	return !e.Alive()
}

// Draw renders each spark as a dot that fades with distance.
func (e *Effect) Draw(ctx DrawContext) error {
	color := e.Color.Scale(e.Alpha())
	for _, s := range e.Sparks {
		rad := s.Angle * math.Pi / 180
		x := e.X + math.Cos(rad)*e.Distance
		y := e.Y + math.Sin(rad)*e.Distance
		ctx.Canvas.FillCircle(x, y, s.Size/2, color)
	}
	return nil
}

// intn draws from rng, or the shared source when rng is nil.
func intn(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
