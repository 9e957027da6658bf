package sim

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/tomz197/skyraid/internal/difficulty"
	"github.com/tomz197/skyraid/internal/loop/config"
	"github.com/tomz197/skyraid/internal/object"
)

type submission struct {
	player string
	score  int
}

type recorder struct {
	submissions []submission
	shots       int
	hits        int
	destroyed   int
}

func (r *recorder) Submit(player string, score int) {
	r.submissions = append(r.submissions, submission{player, score})
}
func (r *recorder) Shot()      { r.shots++ }
func (r *recorder) Hit()       { r.hits++ }
func (r *recorder) Destroyed() { r.destroyed++ }

func newTestSim(t *testing.T, diff string) (*Simulation, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(Options{
		Difficulty: diff,
		PlayerID:   "tester",
		Audio:      rec,
		Scores:     rec,
		Seed:       1,
	})
	return s, rec
}

func stepN(s *Simulation, n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// parkPlayer moves the player clear of the lanes the first wave can reach.
func parkPlayer(s *Simulation) {
	s.player.X, s.player.Y = 600, 600
}

// addRocket places a rocket heading 0° directly into the live set.
func addRocket(s *Simulation, x, y, hp float64) *object.Rocket {
	r := object.NewRocket(x, y, 0, 1, hp)
	s.rockets = append(s.rockets, r)
	return r
}

// aimAt places a bullet centred on the rocket's centre.
func aimAt(s *Simulation, r *object.Rocket, kind object.BulletKind) *object.Bullet {
	cx, cy := r.Center()
	b := object.NewBullet(cx-object.PlayerSize/2, cy-object.PlayerSize/2, 0, kind)
	s.bullets = append(s.bullets, b)
	return b
}

func TestNewStartsRunning(t *testing.T) {
	s, _ := newTestSim(t, "hard")
	snap := s.Snapshot()
	if snap == nil {
		t.Fatal("no initial snapshot")
	}
	if snap.Status() != StatusRunning {
		t.Errorf("status = %v, want running", snap.Status())
	}
	if snap.Difficulty != difficulty.Hard {
		t.Errorf("difficulty = %q, want %q", snap.Difficulty, difficulty.Hard)
	}
	if snap.Ship.Health.Max != 50 || snap.Ship.X != config.PlayerStartX {
		t.Errorf("ship = %+v, want Hard HP at start position", snap.Ship)
	}
	if snap.MatchID == "" || snap.MatchID != s.ID() {
		t.Errorf("match id = %q, want %q", snap.MatchID, s.ID())
	}
}

func TestFirstWaveSpawnsOnFirstStep(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	parkPlayer(s)
	s.Step()
	if len(s.rockets) != 2 {
		t.Fatalf("rockets = %d, want 2", len(s.rockets))
	}
	left, right := s.rockets[0], s.rockets[1]
	if left.Angle != 0 || left.X != 0 {
		t.Errorf("left rocket = %+v", left)
	}
	if right.Angle != 180 || right.X != s.field.Width {
		t.Errorf("right rocket = %+v", right)
	}
	for _, r := range s.rockets {
		if r.Health.Max != 30 || r.Y < 25 || r.Y > s.field.Height-25 {
			t.Errorf("rocket %+v: want Medium HP and y within margins", r)
		}
	}

	stepN(s, 2999)
	if len(s.rockets) != 2 {
		t.Fatalf("rockets = %d before second wave, want 2", len(s.rockets))
	}
	s.Step()
	if len(s.rockets) != 4 {
		t.Fatalf("rockets = %d after 3000 ms, want 4", len(s.rockets))
	}
}

func TestLightBulletNeedsFourHits(t *testing.T) {
	s, rec := newTestSim(t, "medium")
	r := addRocket(s, 600, 300, 20)

	for hit := 1; hit <= 3; hit++ {
		aimAt(s, r, object.BulletLight)
		s.Step()
		if want := 20 - 5*float64(hit); r.Health.Current != want {
			t.Fatalf("after hit %d: hp = %v, want %v", hit, r.Health.Current, want)
		}
		if len(s.bullets) != 0 {
			t.Fatalf("after hit %d: %d bullets left, want 0", hit, len(s.bullets))
		}
		if s.match.Score != 0 {
			t.Fatalf("score = %d before kill, want 0", s.match.Score)
		}
	}

	aimAt(s, r, object.BulletLight)
	s.Step()
	if slices.Contains(s.rockets, r) {
		t.Fatal("destroyed rocket still in the live set")
	}
	if s.match.Score != 1 {
		t.Errorf("score = %d, want 1", s.match.Score)
	}
	if rec.hits != 3 || rec.destroyed != 1 {
		t.Errorf("audio hits=%d destroyed=%d, want 3 and 1", rec.hits, rec.destroyed)
	}
}

func TestKillSpawnsImpactAndExplosion(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	r := addRocket(s, 600, 300, 5)
	aimAt(s, r, object.BulletLight)
	s.Step()

	// One impact plus the five-part explosion.
	if len(s.effects) != 6 {
		t.Fatalf("effects = %d, want 6", len(s.effects))
	}
	cx, cy := r.Center()
	for _, e := range s.effects[1:] {
		if e.X != cx || e.Y != cy {
			t.Errorf("explosion at (%v,%v), want rocket centre (%v,%v)", e.X, e.Y, cx, cy)
		}
	}
}

func TestBulletHitsFirstOverlappingRocketOnly(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	first := addRocket(s, 600, 300, 30)
	second := addRocket(s, 600, 300, 30)
	aimAt(s, first, object.BulletHeavy)
	s.Step()

	if first.Health.Current != 10 {
		t.Errorf("first rocket hp = %v, want 10", first.Health.Current)
	}
	if second.Health.Current != 30 {
		t.Errorf("second rocket hp = %v, want untouched 30", second.Health.Current)
	}
}

func TestChargeGrantedAtMultiplesOfTen(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	s.match.Score = 19

	aimAt(s, addRocket(s, 600, 300, 5), object.BulletLight)
	s.Step()
	if s.match.Score != 20 || s.ability.Charges != 1 {
		t.Fatalf("score=%d charges=%d, want 20 and 1", s.match.Score, s.ability.Charges)
	}

	aimAt(s, addRocket(s, 600, 300, 5), object.BulletLight)
	s.Step()
	if s.match.Score != 21 || s.ability.Charges != 1 {
		t.Fatalf("score=%d charges=%d, want 21 and 1", s.match.Score, s.ability.Charges)
	}
}

func TestHeavyTriggerEngagesAbility(t *testing.T) {
	s, rec := newTestSim(t, "medium")
	s.ability.Grant()
	s.Send(Event{Key: KeyHeavy, Pressed: true})
	stepN(s, config.PhysicsEvery)

	if len(s.bullets) != 1 || s.bullets[0].Kind != object.BulletHeavy {
		t.Fatalf("bullets = %+v, want one heavy bullet", s.bullets)
	}
	if s.ability.Charges != 0 || !s.ability.Active {
		t.Fatalf("ability = %+v, want active with no charges", s.ability)
	}
	// Engaged in the physics phase, then decremented by the same step's bullet phase.
	if s.ability.Remaining != config.AbilityDuration-1 {
		t.Errorf("remaining = %d, want %d", s.ability.Remaining, config.AbilityDuration-1)
	}
	if rec.shots != 1 {
		t.Errorf("shots = %d, want 1", rec.shots)
	}
}

func TestHeldTriggerIsRateLimited(t *testing.T) {
	s, rec := newTestSim(t, "medium")
	s.Send(Event{Key: KeyLight, Pressed: true})
	// 31 physics ticks: shots on the 1st, 16th and 31st.
	stepN(s, 31*config.PhysicsEvery)
	if rec.shots != 3 {
		t.Fatalf("shots = %d, want 3", rec.shots)
	}

	s.Send(Event{Key: KeyLight, Pressed: false})
	stepN(s, config.PhysicsEvery)
	s.Send(Event{Key: KeyLight, Pressed: true})
	stepN(s, config.PhysicsEvery)
	if rec.shots != 4 {
		t.Fatalf("shots = %d after re-press, want 4", rec.shots)
	}
}

func TestPlayerRocketTradeDamage(t *testing.T) {
	tests := []struct {
		name       string
		rocketHP   float64
		wantPlayer float64
		wantAlive  bool
		wantRocket bool // Rocket survives
	}{
		{"rocket dies, player survives", 30, 45, true, false},
		{"both die", 75, 0, false, false},
		{"player dies, rocket survives", 100, -25, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestSim(t, "medium")
			cx, cy := s.player.Center()
			r := addRocket(s, cx-object.RocketSize/2, cy-object.RocketSize/2, tt.rocketHP)
			stepN(s, config.PhysicsEvery)

			if s.player.Health.Current != tt.wantPlayer {
				t.Errorf("player hp = %v, want %v", s.player.Health.Current, tt.wantPlayer)
			}
			if s.match.Alive != tt.wantAlive || s.player.Alive != tt.wantAlive {
				t.Errorf("alive = %v/%v, want %v", s.match.Alive, s.player.Alive, tt.wantAlive)
			}
			if got := slices.Contains(s.rockets, r); got != tt.wantRocket {
				t.Errorf("rocket live = %v, want %v", got, tt.wantRocket)
			}
			if tt.wantRocket {
				if want := tt.rocketHP - 75; r.Health.Current != want {
					t.Errorf("rocket hp = %v, want %v", r.Health.Current, want)
				}
			}
			if s.match.Score != 0 {
				t.Errorf("score = %d, want 0 for a ramming kill", s.match.Score)
			}
			wantSubs := 0
			if !tt.wantAlive {
				wantSubs = 1
			}
			if len(rec.submissions) != wantSubs {
				t.Errorf("submissions = %d, want %d", len(rec.submissions), wantSubs)
			}
		})
	}
}

func TestSubmissionIsIdempotentPerLife(t *testing.T) {
	s, rec := newTestSim(t, "medium")
	s.match.Score = 7
	s.killPlayer()
	s.submit()
	s.Send(Event{Key: KeyQuit, Pressed: true})
	s.Step()

	if len(rec.submissions) != 1 {
		t.Fatalf("submissions = %+v, want exactly one", rec.submissions)
	}
	if got := rec.submissions[0]; got != (submission{"tester", 7}) {
		t.Errorf("submission = %+v", got)
	}
}

func TestResetRestoresFreshMatch(t *testing.T) {
	s, _ := newTestSim(t, "easy")
	stepN(s, 20)
	s.match.Score = 23
	s.ability.Grant()
	s.ability.Grant()
	s.ability.Engage()
	s.player.Health.ApplyDamage(40)
	s.player.X, s.player.Angle = 500, 90
	aimAt(s, addRocket(s, 900, 100, 30), object.BulletLight)
	s.killPlayer()

	s.Send(Event{Key: KeyConfirm, Pressed: true})
	s.Step()

	if s.match.Score != 0 || s.match.Submitted || !s.match.Alive {
		t.Errorf("match = %+v after reset", s.match)
	}
	if s.ability.Charges != 0 || s.ability.Active || s.ability.Remaining != 0 {
		t.Errorf("ability = %+v after reset", s.ability)
	}
	if !s.player.Alive || s.player.Health.Current != 100 || s.player.X != config.PlayerStartX || s.player.Angle != 0 {
		t.Errorf("player = %+v after reset", s.player)
	}
	if len(s.rockets) != 0 || len(s.bullets) != 0 {
		t.Errorf("rockets=%d bullets=%d after reset, want none", len(s.rockets), len(s.bullets))
	}
}

func TestConfirmIgnoredWhileAlive(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	s.match.Score = 4
	s.Send(Event{Key: KeyConfirm, Pressed: true})
	s.Step()
	if s.match.Score != 4 {
		t.Errorf("score = %d, confirm while alive must not reset", s.match.Score)
	}
}

func TestResetUsesCurrentDifficulty(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	s.SetDifficulty("hard")
	s.Step()

	hard := difficulty.ProfileFor(difficulty.Hard)
	wantSpeed := object.RocketBaseSpeed * hard.SpeedMultiplier
	for _, r := range s.rockets {
		if r.Health.Max != 40 || r.Speed != wantSpeed {
			t.Errorf("rocket after switch = %+v, want Hard profile", r)
		}
	}
	if s.player.Health.Max != 75 {
		t.Errorf("player max hp = %v before reset, want 75", s.player.Health.Max)
	}

	s.Send(Event{Key: KeyPause, Pressed: true})
	s.Send(Event{Key: KeyRestart, Pressed: true})
	s.Step()
	if s.player.Health.Max != 50 || s.match.Paused {
		t.Errorf("after restart: max hp=%v paused=%v, want 50 false", s.player.Health.Max, s.match.Paused)
	}
}

func TestPauseFreezesEntitiesButNotSpawnCountdown(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	s.Send(Event{Key: KeyPause, Pressed: true})
	r := addRocket(s, 600, 300, 30)
	b := object.NewBullet(100, 500, 0, object.BulletLight)
	s.bullets = append(s.bullets, b)
	x, bx := r.X, b.X

	stepN(s, 100)
	if r.X != x || b.X != bx {
		t.Errorf("entities moved while paused: rocket %v->%v bullet %v->%v", x, r.X, bx, b.X)
	}
	if s.spawner.Waves() != 0 || len(s.rockets) != 1 {
		t.Errorf("waves=%d rockets=%d, want no spawns while paused", s.spawner.Waves(), len(s.rockets))
	}
	if got, want := s.spawner.Remaining(), 2900*time.Millisecond; got != want {
		t.Errorf("spawn countdown = %v, want %v", got, want)
	}
	if s.Snapshot().Status() != StatusPaused {
		t.Errorf("snapshot status = %v, want paused", s.Snapshot().Status())
	}

	s.Send(Event{Key: KeyPause, Pressed: true})
	stepN(s, config.PhysicsEvery)
	if r.X == x {
		t.Error("rocket did not move after unpause")
	}
}

func TestNoSpawnsWhileGameOver(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	s.killPlayer()
	stepN(s, 5000)
	if s.spawner.Waves() != 0 {
		t.Errorf("waves = %d during game over, want 0", s.spawner.Waves())
	}
	if s.Snapshot().Status() != StatusGameOver {
		t.Errorf("status = %v, want game over", s.Snapshot().Status())
	}
}

func TestDeadPlayerIgnoresControls(t *testing.T) {
	s, rec := newTestSim(t, "medium")
	s.killPlayer()
	x := s.player.X
	s.Send(Event{Key: KeyBoost, Pressed: true})
	s.Send(Event{Key: KeyLight, Pressed: true})
	stepN(s, 50)
	if s.player.X != x || rec.shots != 0 {
		t.Errorf("dead player moved or fired: x %v->%v shots=%d", x, s.player.X, rec.shots)
	}
}

func TestRocketLeavingFieldScoresNothing(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	r := addRocket(s, s.field.Width-10, 300, 30)
	for i := 0; i < 2000 && slices.Contains(s.rockets, r); i++ {
		s.Step()
	}
	if slices.Contains(s.rockets, r) {
		t.Fatal("rocket never left the field")
	}
	if s.match.Score != 0 {
		t.Errorf("score = %d, want 0", s.match.Score)
	}
}

func TestBulletLeavingFieldIsRemoved(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	b := object.NewBullet(s.field.Width-30, 600, 0, object.BulletLight)
	s.bullets = append(s.bullets, b)
	stepN(s, 20)
	if slices.Contains(s.bullets, b) {
		t.Error("bullet still live after leaving the field")
	}
}

func TestSnapshotIsIndependentOfLiveState(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	stepN(s, config.SnapshotEvery)
	snap := s.Snapshot()
	if len(snap.Rockets) != 2 {
		t.Fatalf("snapshot rockets = %d, want 2", len(snap.Rockets))
	}
	y := snap.Rockets[0].Y
	s.rockets[0].Y += 100
	if snap.Rockets[0].Y != y {
		t.Error("snapshot aliases live rocket")
	}
	if snap.Tick != config.SnapshotEvery {
		t.Errorf("snapshot tick = %d, want %d", snap.Tick, config.SnapshotEvery)
	}
}

func TestQuitExitsAndSubmits(t *testing.T) {
	s, rec := newTestSim(t, "medium")
	s.match.Score = 3
	s.Send(Event{Key: KeyQuit, Pressed: true})
	s.Step()

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after quit")
	}
	if s.Snapshot().Status() != StatusExited {
		t.Errorf("status = %v, want exited", s.Snapshot().Status())
	}
	if len(rec.submissions) != 1 || rec.submissions[0].score != 3 {
		t.Errorf("submissions = %+v, want one with score 3", rec.submissions)
	}

	tick := s.tick
	s.Step()
	if s.tick != tick {
		t.Error("Step advanced an exited match")
	}
}

func TestExitSubmitsWhenEventQueueIsFull(t *testing.T) {
	s, rec := newTestSim(t, "medium")
	s.match.Score = 7
	for i := 0; i < config.EventQueueSize+10; i++ {
		s.Send(Event{Key: KeyBoost, Pressed: i%2 == 0})
	}
	s.Send(Event{Key: KeyQuit, Pressed: true}) // dropped, the queue is full
	s.Exit()
	s.Exit()
	s.Step()

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after Exit")
	}
	if len(rec.submissions) != 1 || rec.submissions[0].score != 7 {
		t.Errorf("submissions = %+v, want one with score 7", rec.submissions)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if s.Snapshot().Tick == 0 {
		t.Error("no steps published while running")
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	s, _ := newTestSim(t, "medium")
	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	s.Send(Event{Key: KeyQuit, Pressed: true})
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after quit")
	}
}
