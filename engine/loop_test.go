package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/entity"
	"github.com/lixenwraith/breakout/geom"
	"github.com/lixenwraith/breakout/status"
)

type countingRepainter struct {
	n atomic.Int64
}

func (r *countingRepainter) Repaint() { r.n.Add(1) }

type recordingSound struct {
	mu     sync.Mutex
	sounds []core.SoundType
}

func (s *recordingSound) Play(sound core.SoundType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, sound)
}

func (s *recordingSound) played() []core.SoundType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SoundType(nil), s.sounds...)
}

type handlerFunc func(entity.Contact)

func (f handlerFunc) HandleContact(c entity.Contact) { f(c) }

// newTestLoop builds a loop over a large field with one ball in the middle
// The mock clock advances by dt on every read so Run never sleeps
func newTestLoop(maxMoves int, dt time.Duration) (*Loop, *entity.Entity) {
	w := NewWorld(1000, 1000)
	ball := entity.NewBall(500, 500, 1, 1, 1, 1)
	w.Add(ball)

	l := NewLoop(w, maxMoves, dt)
	clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	clock.SetAutoStep(dt)
	l.SetTimeProvider(clock)
	return l, ball
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("Condition not reached before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoop_Defaults(t *testing.T) {
	l := NewLoop(NewWorld(10, 10), 5, 60*time.Millisecond)

	if l.MoveCount() != 0 || l.MaxMoveCount() != 5 || l.DT() != 60*time.Millisecond {
		t.Errorf("Unexpected initial values: moves=%d max=%d dt=%v", l.MoveCount(), l.MaxMoveCount(), l.DT())
	}
	if l.SpeedIncrementRatio() != 1 {
		t.Errorf("Default ratio = %v, want 1", l.SpeedIncrementRatio())
	}
	if l.State() != StateIdle || l.Running() {
		t.Errorf("New loop state = %v", l.State())
	}
}

func TestLoop_MoveRespectsCap(t *testing.T) {
	l, ball := newTestLoop(3, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		if !l.Move() {
			t.Fatalf("Move %d refused below the cap", i)
		}
	}
	if !l.Capped() {
		t.Error("Loop should be capped after 3 moves")
	}

	before := ball.Rect
	if l.Move() {
		t.Error("Move beyond the cap should return false")
	}
	if l.MoveCount() != 3 {
		t.Errorf("MoveCount = %d, want 3", l.MoveCount())
	}
	if ball.Rect != before {
		t.Error("Refused move changed the world")
	}
}

func TestLoop_UnlimitedMoves(t *testing.T) {
	l, _ := newTestLoop(0, 10*time.Millisecond)
	for i := 0; i < 200; i++ {
		if !l.Move() {
			t.Fatalf("Move %d refused with no cap", i)
		}
	}
	if l.Capped() {
		t.Error("Unlimited loop reports capped")
	}
}

func TestLoop_MoveCountNeverExceedsCap(t *testing.T) {
	for _, max := range []int{1, 2, 7, 50} {
		l, _ := newTestLoop(max, 10*time.Millisecond)
		for i := 0; i < max*3; i++ {
			l.Move()
			if l.MoveCount() > max {
				t.Fatalf("max=%d: MoveCount %d exceeded the cap", max, l.MoveCount())
			}
		}
	}
}

func TestLoop_Reset(t *testing.T) {
	l, ball := newTestLoop(10, 10*time.Millisecond)
	for i := 0; i < 4; i++ {
		l.Move()
	}
	l.SetDT(25 * time.Millisecond)

	l.Reset()

	if l.MoveCount() != 0 || l.MaxMoveCount() != 0 {
		t.Errorf("After Reset moves=%d max=%d, want 0 and 0", l.MoveCount(), l.MaxMoveCount())
	}
	if l.World().Count() != 1 {
		t.Errorf("Reset changed entity count to %d", l.World().Count())
	}
	if ball.Rect.X != 500 || ball.Rect.Y != 500 {
		t.Errorf("Ball not restored: %+v", ball.Rect)
	}
	if l.DT() != 25*time.Millisecond {
		t.Errorf("Reset changed dt to %v", l.DT())
	}
}

func TestLoop_MoveNotifiesCollaborators(t *testing.T) {
	w := NewWorld(20, 20)
	w.Add(entity.NewBall(18, 10, 1, 1, 2, 0))
	l := NewLoop(w, 0, 10*time.Millisecond)

	repainter := &countingRepainter{}
	sound := &recordingSound{}
	var contacts []entity.Contact
	l.SetRepainter(repainter)
	l.SetSoundPlayer(sound)
	l.SetContactHandler(handlerFunc(func(c entity.Contact) {
		contacts = append(contacts, c)
	}))

	l.Move()

	if repainter.n.Load() != 1 {
		t.Errorf("Repaint calls = %d, want 1", repainter.n.Load())
	}
	if got := sound.played(); len(got) != 1 || got[0] != core.SoundWall {
		t.Errorf("Sounds = %v, want [wall]", got)
	}
	if len(contacts) != 1 || contacts[0].Walls != geom.AxisX {
		t.Errorf("Contacts = %+v, want one x-wall contact", contacts)
	}

	// Interior move: repaint only
	l.Move()
	if repainter.n.Load() != 2 || len(sound.played()) != 1 {
		t.Errorf("Interior move: repaints=%d sounds=%d", repainter.n.Load(), len(sound.played()))
	}
}

func TestContactSound(t *testing.T) {
	bar := entity.NewBar(0, 0, 5, 1)
	brick := entity.NewBrick(0, 0, 5, 1)

	tests := []struct {
		name string
		c    entity.Contact
		want core.SoundType
		ok   bool
	}{
		{"none", entity.Contact{}, 0, false},
		{"wall", entity.Contact{Walls: geom.AxisX}, core.SoundWall, true},
		{"floor", entity.Contact{Walls: geom.AxisY, Floor: true}, core.SoundMiss, true},
		{"paddle", entity.Contact{Hits: []*entity.Entity{bar}}, core.SoundPaddle, true},
		{"brick beats paddle", entity.Contact{Hits: []*entity.Entity{bar, brick}}, core.SoundBrick, true},
		{"paddle beats wall", entity.Contact{Walls: geom.AxisX, Hits: []*entity.Entity{bar}}, core.SoundPaddle, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := contactSound(tt.c)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("contactSound = %v,%v; want %v,%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRampDT(t *testing.T) {
	tests := []struct {
		name  string
		dt    time.Duration
		ratio float64
		want  time.Duration
	}{
		{"scale", 60 * time.Millisecond, 0.9, 54 * time.Millisecond},
		{"truncate to ms", 17 * time.Millisecond, 0.9, 15 * time.Millisecond},
		{"floor", 12 * time.Millisecond, 0.5, 10 * time.Millisecond},
		{"unit ratio", 40 * time.Millisecond, 1, 40 * time.Millisecond},
		{"slow down", 40 * time.Millisecond, 1.5, 60 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rampDT(tt.dt, tt.ratio, DefaultMinDT); got != tt.want {
				t.Errorf("rampDT(%v, %v) = %v, want %v", tt.dt, tt.ratio, got, tt.want)
			}
		})
	}
}

func TestLoop_RampNeverBelowFloor(t *testing.T) {
	l := NewLoop(NewWorld(10, 10), 0, 60*time.Millisecond)
	l.SetSpeedIncrementRatio(0.5)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.mu.Lock()
	l.beginPacingLocked(start)
	l.mu.Unlock()

	now := start
	for i := 0; i < 10; i++ {
		now = now.Add(DefaultRampInterval + time.Millisecond)
		l.pace(now)
		if l.DT() < DefaultMinDT {
			t.Fatalf("Ramp %d: dt %v below floor", i, l.DT())
		}
	}
	if l.DT() != DefaultMinDT {
		t.Errorf("After 10 ramps dt = %v, want %v", l.DT(), DefaultMinDT)
	}
}

func TestLoop_RampOnlyAfterInterval(t *testing.T) {
	l := NewLoop(NewWorld(10, 10), 0, 60*time.Millisecond)
	l.SetSpeedIncrementRatio(0.5)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.mu.Lock()
	l.beginPacingLocked(start)
	l.mu.Unlock()

	// Exactly one interval is not yet past it
	l.pace(start.Add(DefaultRampInterval))
	if l.DT() != 60*time.Millisecond {
		t.Errorf("Ramped at exactly the interval: dt = %v", l.DT())
	}

	l.pace(start.Add(DefaultRampInterval + time.Millisecond))
	if l.DT() != 30*time.Millisecond {
		t.Errorf("dt after interval = %v, want 30ms", l.DT())
	}
}

func TestLoop_PaceCorrectsDrift(t *testing.T) {
	dt := 60 * time.Millisecond
	l := NewLoop(NewWorld(10, 10), 0, dt)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.mu.Lock()
	l.beginPacingLocked(start)
	l.mu.Unlock()

	// A 15ms move leaves 45ms to the deadline
	if sleep := l.pace(start.Add(15 * time.Millisecond)); sleep != 45*time.Millisecond {
		t.Errorf("sleep = %v, want 45ms", sleep)
	}

	// Woke 5ms late: the next deadline is still anchored to the schedule
	if sleep := l.pace(start.Add(65 * time.Millisecond)); sleep != 55*time.Millisecond {
		t.Errorf("sleep = %v, want 55ms", sleep)
	}

	// A long overrun does not burst: deadline restarts from now
	late := start.Add(500 * time.Millisecond)
	if sleep := l.pace(late); sleep != 0 {
		t.Errorf("Overrun sleep = %v, want 0", sleep)
	}
	if sleep := l.pace(late); sleep != dt {
		t.Errorf("Sleep after overrun = %v, want %v", sleep, dt)
	}
}

func TestLoop_RunStopsAtCap(t *testing.T) {
	l, _ := newTestLoop(25, 10*time.Millisecond)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if l.MoveCount() != 25 {
		t.Errorf("MoveCount = %d, want 25", l.MoveCount())
	}
	if l.State() != StateCapped || l.Running() {
		t.Errorf("State = %v, want Capped", l.State())
	}
}

func TestLoop_RunRealClock(t *testing.T) {
	w := NewWorld(100, 100)
	w.Add(entity.NewBall(50, 50, 1, 1, 1, 1))
	l := NewLoop(w, 5, 2*time.Millisecond)

	start := time.Now()
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	// Four sleeps between five moves
	if elapsed := time.Since(start); elapsed < 8*time.Millisecond {
		t.Errorf("Run finished in %v, pacing skipped", elapsed)
	}
}

func TestLoop_StopEndsRunCleanly(t *testing.T) {
	l, _ := newTestLoop(0, 10*time.Millisecond)

	done := l.Start(context.Background())
	waitFor(t, func() bool { return l.MoveCount() > 10 })
	l.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stopped run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	if l.State() != StateStopped {
		t.Errorf("State = %v, want Stopped", l.State())
	}

	// Stop when idle is a no-op
	l.Stop()
}

func TestLoop_ContextCancelIsInterruption(t *testing.T) {
	l, _ := newTestLoop(0, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := l.Start(ctx)
	waitFor(t, func() bool { return l.MoveCount() > 0 })
	cancel()

	err := <-done
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("err = %v, want ErrInterrupted", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want it to wrap context.Canceled", err)
	}
	if l.State() != StateInterrupted {
		t.Errorf("State = %v, want Interrupted", l.State())
	}
}

func TestLoop_AlreadyRunning(t *testing.T) {
	l, _ := newTestLoop(0, 10*time.Millisecond)

	done := l.Start(context.Background())
	waitFor(t, l.Running)

	if err := l.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Second Run = %v, want ErrAlreadyRunning", err)
	}
	if err := <-l.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Second Start = %v, want ErrAlreadyRunning", err)
	}

	l.Stop()
	if err := <-done; err != nil {
		t.Errorf("First run returned %v", err)
	}
}

func TestLoop_RestartAfterStop(t *testing.T) {
	l, _ := newTestLoop(0, 10*time.Millisecond)

	done := l.Start(context.Background())
	waitFor(t, func() bool { return l.MoveCount() > 3 })
	l.Stop()
	<-done

	l.Reset()
	if l.State() != StateIdle {
		t.Errorf("State after Reset = %v, want Idle", l.State())
	}

	l.SetMaxMoveCount(8)
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Second run returned %v", err)
	}
	if l.MoveCount() != 8 {
		t.Errorf("MoveCount = %d, want 8", l.MoveCount())
	}
}

func TestLoop_HandlerMayStop(t *testing.T) {
	w := NewWorld(20, 20)
	w.Add(entity.NewBall(10, 10, 1, 1, 3, 0))
	l := NewLoop(w, 0, 10*time.Millisecond)
	clock := NewMockTimeProvider(time.Now())
	clock.SetAutoStep(10 * time.Millisecond)
	l.SetTimeProvider(clock)

	l.SetContactHandler(handlerFunc(func(c entity.Contact) {
		if c.Walls.Has(geom.AxisX) {
			l.Stop()
		}
	}))

	done := l.Start(context.Background())
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop from the contact handler deadlocked or was lost")
	}
	if l.State() != StateStopped {
		t.Errorf("State = %v, want Stopped", l.State())
	}
}

func TestLoop_PublishesStatus(t *testing.T) {
	l, _ := newTestLoop(4, 20*time.Millisecond)
	l.SetSpeedIncrementRatio(0.75)
	reg := status.NewRegistry()
	l.SetStatus(reg)

	if got := reg.Strings.Get(status.KeyLoopState).Load(); got != "Idle" {
		t.Errorf("State metric = %q, want Idle", got)
	}

	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := reg.Ints.Get(status.KeyMoves).Load(); got != 4 {
		t.Errorf("Moves metric = %d, want 4", got)
	}
	if got := reg.Ints.Get(status.KeyMaxMoves).Load(); got != 4 {
		t.Errorf("Max moves metric = %d, want 4", got)
	}
	if got := reg.Ints.Get(status.KeyDTMillis).Load(); got != 20 {
		t.Errorf("dt metric = %d, want 20", got)
	}
	if got := reg.Floats.Get(status.KeyRatio).Get(); got != 0.75 {
		t.Errorf("Ratio metric = %v, want 0.75", got)
	}
	if got := reg.Strings.Get(status.KeyLoopState).Load(); got != "Capped" {
		t.Errorf("State metric = %q, want Capped", got)
	}
}

// Pointer updates race the tick goroutine; run with -race
func TestLoop_ConcurrentPointerUpdates(t *testing.T) {
	w := NewWorld(60, 24)
	bar := entity.NewBar(20, 22, 9, 1)
	w.Add(bar)
	w.Add(entity.NewBall(30, 10, 1, 1, 1, 1))

	l := NewLoop(w, 0, time.Millisecond)
	done := l.Start(context.Background())

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				w.RunSafe(func(field geom.Rect, entities []*entity.Entity) {
					for _, e := range entities {
						if e.PointerDriven() {
							e.MoveTo((i*7+offset)%70-5, field)
						}
					}
				})
				_ = w.Snapshot()
			}
		}(g)
	}
	wg.Wait()
	l.Stop()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	field := w.Playfield()
	for _, e := range w.Snapshot() {
		if !field.Contains(e.Bounds()) {
			t.Errorf("%v escaped the field: %+v", e.Kind(), e.Bounds())
		}
	}
}

func TestLoopState_String(t *testing.T) {
	tests := []struct {
		s        LoopState
		name     string
		terminal bool
	}{
		{StateIdle, "Idle", false},
		{StateRunning, "Running", false},
		{StateStopped, "Stopped", true},
		{StateCapped, "Capped", true},
		{StateInterrupted, "Interrupted", true},
		{LoopState(99), "Unknown", false},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.s.Terminal(); got != tt.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tt.name, got, tt.terminal)
		}
	}
}
