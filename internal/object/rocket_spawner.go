package object

import "time"

// rocketEdgeMargin keeps spawn heights this far from the top and bottom edges.
const rocketEdgeMargin = 25

// RocketSpawner launches a wave of two rockets every spawn interval: one from
// the left edge heading 0° and one from the right edge heading 180°.
// The interval is re-read from the active profile at the start of every period.
type RocketSpawner struct {
	remaining time.Duration
	waves     int
}

// NewRocketSpawner creates a spawner whose first wave is due immediately.
func NewRocketSpawner() *RocketSpawner {
	return &RocketSpawner{}
}

// Update advances the countdown by ctx.Delta. When a period ends a wave is
// launched unless ctx.Paused is set; the next period starts either way.
func (s *RocketSpawner) Update(ctx UpdateContext) bool {
	for s.remaining <= 0 {
		if !ctx.Paused {
			s.launch(ctx)
		}
		interval := ctx.Profile.SpawnInterval()
		if interval <= 0 {
			interval = time.Millisecond
		}
		s.remaining += interval
	}
	s.remaining -= ctx.Delta
	return false
}

// Draw is a no-op; the spawner is not visible.
func (s *RocketSpawner) Draw(_ DrawContext) error {
	return nil
}

// Remaining is the time left in the current period.
func (s *RocketSpawner) Remaining() time.Duration {
	return s.remaining
}

// Waves counts launched waves.
func (s *RocketSpawner) Waves() int {
	return s.waves
}

func (s *RocketSpawner) launch(ctx UpdateContext) {
	if ctx.Spawner == nil {
		return
	}
	p := ctx.Profile
	span := int(ctx.Field.Height) - 2*rocketEdgeMargin
	left := NewRocket(0, float64(intn(ctx.Rand, span)+rocketEdgeMargin), 0, p.SpeedMultiplier, p.RocketMaxHP)
	right := NewRocket(ctx.Field.Width, float64(intn(ctx.Rand, span)+rocketEdgeMargin), 180, p.SpeedMultiplier, p.RocketMaxHP)
	ctx.Spawner.SpawnRocket(left)
	ctx.Spawner.SpawnRocket(right)
	s.waves++
}
