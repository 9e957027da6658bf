package sim

import "github.com/tomz197/skyraid/internal/object"

// SpawnRocket queues a rocket until the current phase completes.
// Implements object.Spawner.
func (s *Simulation) SpawnRocket(r *object.Rocket) {
	s.pendingRockets = append(s.pendingRockets, r)
}

// SpawnBullet queues a bullet and plays the shot sound.
func (s *Simulation) SpawnBullet(b *object.Bullet) {
	s.pendingBullets = append(s.pendingBullets, b)
	s.audio.Shot()
}

// SpawnEffect queues a cosmetic effect.
func (s *Simulation) SpawnEffect(e *object.Effect) {
	s.pendingEffects = append(s.pendingEffects, e)
}

// flush adds everything spawned during the last phase.
func (s *Simulation) flush() {
	s.rockets = append(s.rockets, s.pendingRockets...)
	s.bullets = append(s.bullets, s.pendingBullets...)
	s.effects = append(s.effects, s.pendingEffects...)
	clear(s.pendingRockets)
	clear(s.pendingBullets)
	clear(s.pendingEffects)
	s.pendingRockets = s.pendingRockets[:0]
	s.pendingBullets = s.pendingBullets[:0]
	s.pendingEffects = s.pendingEffects[:0]
}

// compact drops items for which gone reports true, releasing pooled ones.
// The tail of the backing array is cleared so dropped items can be collected.
func compact[T object.Object](items []T, gone func(T) bool) []T {
	kept := items[:0]
	for _, it := range items {
		if gone(it) {
			object.ReleaseObject(it)
			continue
		}
		kept = append(kept, it)
	}
	clear(items[len(kept):])
	return kept
}
