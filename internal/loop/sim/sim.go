// Package sim runs one match: a single goroutine owns every entity and steps
// the spawn, physics and bullet phases in a fixed order on a 1 ms master tick.
// Readers see the match only through immutable snapshots.
package sim

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	appconfig "github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/difficulty"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

const chargeEvery = config.ChargeEvery

// Key is a logical input.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyBoost
	KeyLight
	KeyHeavy
	KeyConfirm
	KeyPause
	KeyQuit
	KeyRestart
)

// Event is a press or release edge of one key.
type Event struct {
	Key     Key
	Pressed bool
}

// AudioSink receives fire-and-forget sound notifications. Implementations
// must not block.
type AudioSink interface {
	Shot()
	Hit()
	Destroyed()
}

// ScoreSink receives a finished score. Ordering and best-per-player
// deduplication are the sink's concern.
type ScoreSink interface {
	Submit(player string, score int)
}

// ScoreSinkFunc adapts a function to ScoreSink.
type ScoreSinkFunc func(player string, score int)

// Submit calls f.
func (f ScoreSinkFunc) Submit(player string, score int) { f(player, score) }

type nopAudio struct{}

func (nopAudio) Shot()      {}
func (nopAudio) Hit()       {}
func (nopAudio) Destroyed() {}

// Options configures a Simulation. Zero values pick sensible defaults.
type Options struct {
	Field      object.Field
	Difficulty string
	PlayerID   string
	Audio      AudioSink
	Scores     ScoreSink
	Logger     *log.Logger
	Seed       int64 // Zero seeds from the clock
}

// Simulation is one match. All mutation happens on the goroutine calling
// Step (directly or through Run); the other methods are safe from any goroutine.
type Simulation struct {
	id       string
	playerID string
	field    object.Field
	logger   *log.Logger
	audio    AudioSink
	scores   ScoreSink
	rng      *rand.Rand

	diffName string
	profile  difficulty.Profile

	player  *object.Player
	rockets []*object.Rocket
	bullets []*object.Bullet
	effects []*object.Effect
	spawner *object.RocketSpawner
	ability AbilityTracker
	match   MatchState

	pendingRockets []*object.Rocket
	pendingBullets []*object.Bullet
	pendingEffects []*object.Effect

	controls object.Controls
	tick     uint64
	dirty    bool

	// Collision scratch
	grid        *physics.SpatialGrid
	playerHull  physics.Polygon
	rocketHull  physics.Polygon
	bulletHull  physics.Polygon
	rocketHulls []physics.Polygon

	events     chan Event
	exitReq    chan struct{}
	difficulty chan string
	snapshot   atomic.Pointer[Snapshot]
	done       chan struct{}
}

// New creates a match in the Running state with its first snapshot published.
func New(opts Options) *Simulation {
	if opts.Field.Width <= 0 || opts.Field.Height <= 0 {
		opts.Field = object.Field{Width: config.FieldWidth, Height: config.FieldHeight}
	}
	if opts.PlayerID == "" {
		opts.PlayerID = appconfig.DefaultUser
	}
	if opts.Audio == nil {
		opts.Audio = nopAudio{}
	}
	if opts.Scores == nil {
		opts.Scores = ScoreSinkFunc(func(string, int) {})
	}
	if opts.Logger == nil {
		opts.Logger = appconfig.DiscardLogger()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	id := uuid.NewString()
	profile := difficulty.ProfileFor(opts.Difficulty)
	s := &Simulation{
		id:         id,
		playerID:   opts.PlayerID,
		field:      opts.Field,
		logger:     opts.Logger.With("match", id, "player", opts.PlayerID),
		audio:      opts.Audio,
		scores:     opts.Scores,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		diffName:   profile.Name,
		profile:    profile,
		player:     object.NewPlayer(config.PlayerStartX, config.PlayerStartY, profile.PlayerMaxHP),
		spawner:    object.NewRocketSpawner(),
		ability:    NewAbilityTracker(config.AbilityDuration),
		match:      MatchState{Alive: true},
		grid:       physics.NewSpatialGrid(opts.Field.Width, opts.Field.Height, config.CollisionGridCellSize),
		events:     make(chan Event, config.EventQueueSize),
		exitReq:    make(chan struct{}, 1),
		difficulty: make(chan string, 4),
		done:       make(chan struct{}),
	}
	s.publish()
	return s
}

// ID is the match identifier used in logs and snapshots.
func (s *Simulation) ID() string {
	return s.id
}

// Send queues an input edge. Edges are dropped when the queue is full.
func (s *Simulation) Send(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

// Exit asks the match to end on its next step, submitting the score like a
// quit key. Unlike Send, the request is never dropped.
func (s *Simulation) Exit() {
	select {
	case s.exitReq <- struct{}{}:
	default:
	}
}

// SetDifficulty switches tiers. The next spawn period and newly spawned
// rockets use the new profile; player HP follows on the next reset.
func (s *Simulation) SetDifficulty(name string) {
	select {
	case s.difficulty <- name:
	default:
	}
}

// Snapshot returns the most recently published snapshot.
func (s *Simulation) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Done is closed once the match has been exited.
func (s *Simulation) Done() <-chan struct{} {
	return s.done
}

// Run steps the simulation from a 1 ms ticker until ctx is cancelled or the
// match is exited. Missed ticks are caught up, up to config.MaxCatchUp per wake.
func (s *Simulation) Run(ctx context.Context) error {
	s.logger.Info("match started", "difficulty", s.profile.Name)
	defer func() {
		s.logger.Info("match stopped", "score", s.match.Score, "ticks", s.tick)
	}()

	ticker := time.NewTicker(config.TickTime)
	defer ticker.Stop()

	last := time.Now()
	var owed time.Duration
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case now := <-ticker.C:
			owed += now.Sub(last)
			last = now
			steps := 0
			for owed >= config.TickTime && steps < config.MaxCatchUp {
				s.Step()
				owed -= config.TickTime
				steps++
			}
			if steps == config.MaxCatchUp {
				owed = 0
			}
		}
	}
}

// Step advances one master tick: input edges, spawn check, physics (every
// config.PhysicsEvery ticks), bullets and effects, then snapshot publication.
// Entities spawned in a phase become visible to the next phase.
func (s *Simulation) Step() {
	if s.match.Exited {
		return
	}
	s.tick++

	s.drainDifficulty()
	s.drainEvents()
	if s.match.Exited {
		return
	}
	select {
	case <-s.exitReq:
		s.exit()
		return
	default:
	}

	s.spawnPhase()
	s.flush()

	if s.tick%config.PhysicsEvery == 0 {
		s.physicsPhase()
		s.flush()
	}
	if s.tick%config.BulletEvery == 0 {
		s.bulletPhase()
		s.flush()
	}

	if s.dirty || s.tick%config.SnapshotEvery == 0 {
		s.publish()
	}
}

func (s *Simulation) updateContext(delta time.Duration) object.UpdateContext {
	return object.UpdateContext{
		Delta:    delta,
		Controls: s.controls,
		Field:    s.field,
		Spawner:  s,
		Ability:  &s.ability,
		Profile:  s.profile,
		Rand:     s.rng,
		Paused:   s.match.Paused || !s.match.Alive,
	}
}

func (s *Simulation) drainDifficulty() {
	for {
		select {
		case name := <-s.difficulty:
			p := difficulty.ProfileFor(name)
			if p.Name != s.profile.Name {
				s.logger.Info("difficulty changed", "from", s.profile.Name, "to", p.Name)
			}
			s.diffName = p.Name
			s.profile = p
			s.dirty = true
		default:
			return
		}
	}
}

func (s *Simulation) drainEvents() {
	for {
		select {
		case ev := <-s.events:
			s.apply(ev)
			if s.match.Exited {
				return
			}
		default:
			return
		}
	}
}

// apply updates held controls and performs transitions on press edges.
func (s *Simulation) apply(ev Event) {
	switch ev.Key {
	case KeyLeft:
		s.controls.Left = ev.Pressed
	case KeyRight:
		s.controls.Right = ev.Pressed
	case KeyBoost:
		s.controls.Boost = ev.Pressed
	case KeyLight:
		s.controls.Light = ev.Pressed
	case KeyHeavy:
		s.controls.Heavy = ev.Pressed
	}
	if !ev.Pressed {
		return
	}

	switch ev.Key {
	case KeyPause:
		if s.match.Alive {
			s.match.Paused = !s.match.Paused
			s.logger.Debug("pause toggled", "paused", s.match.Paused)
			s.dirty = true
		}
	case KeyConfirm:
		if !s.match.Alive {
			s.reset()
		}
	case KeyRestart:
		if s.match.Paused || !s.match.Alive {
			s.reset()
		}
	case KeyQuit:
		s.exit()
	}
}

// spawnPhase advances the spawn countdown by one master tick. The countdown
// keeps running while paused or game over, but no rockets launch.
func (s *Simulation) spawnPhase() {
	s.spawner.Update(s.updateContext(config.TickTime))
}

// physicsPhase steers the player and moves rockets, then checks each
// surviving rocket against the player.
func (s *Simulation) physicsPhase() {
	if s.match.Paused {
		return
	}
	ctx := s.updateContext(config.TickTime * config.PhysicsEvery)

	if s.match.Alive {
		s.player.Update(ctx)
		s.playerHull = s.player.Hull(s.playerHull)
		if !s.shapeOK(s.playerHull, "player") {
			s.playerHull = s.playerHull[:0]
		}
	}

	s.rockets = compact(s.rockets, func(r *object.Rocket) bool {
		if r.Update(ctx) {
			return true
		}
		if s.match.Alive {
			s.resolvePlayer(r)
		}
		return r.IsDestroyed()
	})
}

// bulletPhase moves bullets and resolves their hits, ages effects and
// counts down the ability window.
func (s *Simulation) bulletPhase() {
	if s.match.Paused {
		return
	}
	ctx := s.updateContext(config.TickTime * config.BulletEvery)

	s.indexRockets()
	s.bullets = compact(s.bullets, func(b *object.Bullet) bool {
		outside := b.Update(ctx)
		hit := s.resolveBullet(b)
		return hit || outside
	})
	s.rockets = compact(s.rockets, func(r *object.Rocket) bool {
		return r.IsDestroyed()
	})

	s.effects = compact(s.effects, func(e *object.Effect) bool {
		return e.Update(ctx)
	})

	s.ability.Tick()
	if !invariant(s.logger, s.ability.Charges >= 0, "negative ability charges", "charges", s.ability.Charges) {
		s.ability.Charges = 0
	}
}

// reset starts a new life with the current difficulty. Effects in flight
// are left to finish.
func (s *Simulation) reset() {
	s.profile = difficulty.ProfileFor(s.diffName)
	s.match.reset()
	s.ability.Reset()

	s.rockets = compact(s.rockets, func(*object.Rocket) bool { return true })
	s.bullets = compact(s.bullets, func(*object.Bullet) bool { return true })
	clear(s.pendingRockets)
	clear(s.pendingBullets)
	s.pendingRockets = s.pendingRockets[:0]
	s.pendingBullets = s.pendingBullets[:0]

	s.player.Reset(config.PlayerStartX, config.PlayerStartY, s.profile.PlayerMaxHP)
	s.logger.Info("match reset", "difficulty", s.profile.Name)
	s.dirty = true
}

// exit ends the match, submitting the score if this life has not yet done so.
func (s *Simulation) exit() {
	s.submit()
	s.match.Exited = true
	s.logger.Info("match exited", "score", s.match.Score)
	s.publish()
	close(s.done)
}
