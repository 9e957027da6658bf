package sim

import (
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// shapeOK checks that a hit-shape can take part in the overlap test.
// A malformed shape never intersects anything.
func (s *Simulation) shapeOK(p physics.Polygon, owner string) bool {
	return invariant(s.logger, physics.IsConvex(p), "malformed hit-shape", "owner", owner, "vertices", len(p))
}

// indexRockets rebuilds the broad-phase grid and the hull cache for live rockets.
func (s *Simulation) indexRockets() {
	s.grid.Clear()
	for len(s.rocketHulls) < len(s.rockets) {
		s.rocketHulls = append(s.rocketHulls, nil)
	}
	for i, r := range s.rockets {
		s.rocketHulls[i] = r.Hull(s.rocketHulls[i])
		if r.IsDestroyed() || !s.shapeOK(s.rocketHulls[i], "rocket") {
			continue
		}
		cx, cy := r.Center()
		s.grid.Insert(cx, cy, i)
	}
}

// firstHit returns the lowest-index live rocket overlapping hull, or -1.
func (s *Simulation) firstHit(b *object.Bullet, hull physics.Polygon) int {
	best := -1
	cx, cy := b.Center()
	s.grid.QueryAround(cx, cy, func(i int) bool {
		if best >= 0 && i > best {
			return false
		}
		if s.rockets[i].IsDestroyed() {
			return false
		}
		if physics.Overlaps(hull, s.rocketHulls[i]) {
			best = i
		}
		return false
	})
	return best
}

// resolveBullet applies a bullet's hit, if any. Reports whether the bullet hit.
func (s *Simulation) resolveBullet(b *object.Bullet) bool {
	s.bulletHull = b.Hull(s.bulletHull)
	if !s.shapeOK(s.bulletHull, "bullet") {
		return false
	}
	i := s.firstHit(b, s.bulletHull)
	if i < 0 {
		return false
	}
	r := s.rockets[i]

	bx, by := b.Center()
	object.SpawnImpact(bx, by, s.rng, s)

	if r.Health.ApplyDamage(b.Damage()) {
		s.audio.Hit()
		return true
	}

	s.match.Score++
	if s.match.Score%chargeEvery == 0 {
		s.ability.Grant()
		s.logger.Debug("ability charge granted", "charges", s.ability.Charges, "score", s.match.Score)
	}
	s.destroyRocket(r)
	return true
}

// resolvePlayer trades damage between the player and a touching rocket.
// Both sides are hit with the other's health as it was before the exchange.
func (s *Simulation) resolvePlayer(r *object.Rocket) {
	s.rocketHull = r.Hull(s.rocketHull)
	if !s.shapeOK(s.rocketHull, "rocket") || !physics.Overlaps(s.playerHull, s.rocketHull) {
		return
	}

	rocketHP := r.Health.Current
	if !r.Health.ApplyDamage(s.player.Health.Current) {
		s.destroyRocket(r)
	}
	if !s.player.Health.ApplyDamage(rocketHP) {
		s.killPlayer()
	}
}

func (s *Simulation) destroyRocket(r *object.Rocket) {
	r.MarkDestroyed()
	cx, cy := r.Center()
	object.SpawnExplosion(cx, cy, s.rng, s)
	s.audio.Destroyed()
}

func (s *Simulation) killPlayer() {
	s.player.Alive = false
	s.match.Alive = false
	cx, cy := s.player.Center()
	object.SpawnExplosion(cx, cy, s.rng, s)
	s.audio.Destroyed()
	s.logger.Info("player destroyed", "score", s.match.Score)
	s.submit()
	s.dirty = true
}

// submit hands the score to the sink at most once per life.
func (s *Simulation) submit() {
	if s.match.Submitted {
		return
	}
	s.match.Submitted = true
	s.scores.Submit(s.playerID, s.match.Score)
	s.logger.Info("score submitted", "score", s.match.Score)
}
