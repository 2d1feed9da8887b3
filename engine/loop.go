package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/entity"
	"github.com/lixenwraith/breakout/status"
)

const (
	// DefaultRampInterval is the wall-clock period between difficulty ramps
	DefaultRampInterval = 3000 * time.Millisecond
	// DefaultMinDT is the tick period floor, the loop never paces faster
	DefaultMinDT = 10 * time.Millisecond
)

var (
	// ErrAlreadyRunning is returned when Run or Start is called on a running loop
	ErrAlreadyRunning = errors.New("move loop already running")
	// ErrInterrupted wraps the context error when a run is cut short by its context
	ErrInterrupted = errors.New("move loop interrupted")
)

// Repainter receives fire-and-forget redraw requests
type Repainter interface {
	Repaint()
}

// SoundPlayer receives fire-and-forget effect triggers
type SoundPlayer interface {
	Play(sound core.SoundType)
}

// ContactHandler observes ball contacts after each move
// Handlers run outside the world and loop locks and may call Stop
type ContactHandler interface {
	HandleContact(c entity.Contact)
}

// runHandle is the stop channel of one Run invocation
type runHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *runHandle) requestStop() {
	h.once.Do(func() { close(h.stop) })
}

// Loop advances the moveable entities of a World on a paced tick
// and shortens the tick period every ramp interval
//
// Lock order: Loop.mu before World.mu
type Loop struct {
	world *World

	mu                  sync.Mutex
	clock               TimeProvider
	moveCount           int
	maxMoveCount        int // 0 = unlimited
	dt                  time.Duration
	speedIncrementRatio float64
	rampInterval        time.Duration
	minDT               time.Duration

	// Pacing state of the current run
	nextMove time.Time
	lastRamp time.Time

	repainter Repainter
	sound     SoundPlayer
	handler   ContactHandler

	current *runHandle
	state   atomic.Int32

	// Cached metric cells, nil when no registry is attached
	statMoves    *atomic.Int64
	statMaxMoves *atomic.Int64
	statDT       *atomic.Int64
	statRatio    *status.AtomicFloat
	statState    *status.AtomicString
}

// NewLoop creates an idle loop over world
// maxMoveCount 0 means unlimited; dt is the initial tick period
func NewLoop(world *World, maxMoveCount int, dt time.Duration) *Loop {
	return &Loop{
		world:               world,
		clock:               NewMonotonicTimeProvider(),
		maxMoveCount:        maxMoveCount,
		dt:                  dt,
		speedIncrementRatio: 1,
		rampInterval:        DefaultRampInterval,
		minDT:               DefaultMinDT,
	}
}

// World returns the world the loop advances
func (l *Loop) World() *World {
	return l.world
}

// ===== COLLABORATORS =====

// SetTimeProvider replaces the pacing clock, must be called before Run
func (l *Loop) SetTimeProvider(clock TimeProvider) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = clock
}

// SetRepainter sets the redraw collaborator
func (l *Loop) SetRepainter(r Repainter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repainter = r
}

// SetSoundPlayer sets the sound effect collaborator
func (l *Loop) SetSoundPlayer(p SoundPlayer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sound = p
}

// SetContactHandler sets the contact observer
func (l *Loop) SetContactHandler(h ContactHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = h
}

// SetStatus attaches a metrics registry and publishes the current values
func (l *Loop) SetStatus(reg *status.Registry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.statMoves = reg.Ints.Get(status.KeyMoves)
	l.statMaxMoves = reg.Ints.Get(status.KeyMaxMoves)
	l.statDT = reg.Ints.Get(status.KeyDTMillis)
	l.statRatio = reg.Floats.Get(status.KeyRatio)
	l.statState = reg.Strings.Get(status.KeyLoopState)
	l.publishLocked()
	l.statState.Store(l.State().String())
}

// ===== CONFIGURATION =====
// Setters are plain mutators; the dt floor is only enforced while ramping

// DT returns the current tick period
func (l *Loop) DT() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dt
}

// SetDT sets the tick period
func (l *Loop) SetDT(dt time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dt = dt
	l.publishLocked()
}

// MoveCount returns the number of moves since construction or reset
func (l *Loop) MoveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.moveCount
}

// SetMoveCount overwrites the move counter
func (l *Loop) SetMoveCount(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.moveCount = n
	l.publishLocked()
}

// MaxMoveCount returns the move cap, 0 means unlimited
func (l *Loop) MaxMoveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxMoveCount
}

// SetMaxMoveCount sets the move cap, 0 means unlimited
func (l *Loop) SetMaxMoveCount(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxMoveCount = n
	l.publishLocked()
}

// SpeedIncrementRatio returns the dt multiplier applied every ramp interval
func (l *Loop) SpeedIncrementRatio() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.speedIncrementRatio
}

// SetSpeedIncrementRatio sets the dt multiplier, values below 1 speed the game up
func (l *Loop) SetSpeedIncrementRatio(ratio float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.speedIncrementRatio = ratio
	l.publishLocked()
}

// SetRampInterval sets the wall-clock period between ramps
func (l *Loop) SetRampInterval(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rampInterval = d
}

// SetMinDT sets the tick period floor applied when ramping
func (l *Loop) SetMinDT(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minDT = d
}

// ===== STATE =====

// State returns the lifecycle phase
func (l *Loop) State() LoopState {
	return LoopState(l.state.Load())
}

func (l *Loop) setState(s LoopState) {
	l.state.Store(int32(s))
	if l.statState != nil {
		l.statState.Store(s.String())
	}
}

// Capped reports whether the move cap has been reached
func (l *Loop) Capped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cappedLocked()
}

func (l *Loop) cappedLocked() bool {
	return l.maxMoveCount != 0 && l.moveCount >= l.maxMoveCount
}

// Running reports whether a run is in progress
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// Reset restores the world to its setup state and zeroes the move counter and cap
// dt and the speed ratio are kept
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.world.Reset()
	l.moveCount = 0
	l.maxMoveCount = 0
	l.publishLocked()
	if l.current == nil {
		l.setState(StateIdle)
	}
}

// ===== TICK =====

// Move advances every moveable entity once, counts the move and requests a redraw
// Returns false without any state change when the loop is capped
func (l *Loop) Move() bool {
	l.mu.Lock()
	if l.cappedLocked() {
		l.mu.Unlock()
		return false
	}

	contacts := l.world.tick()
	l.moveCount++
	l.publishLocked()
	sound, handler, repainter := l.sound, l.handler, l.repainter
	l.mu.Unlock()

	for _, c := range contacts {
		if sound != nil {
			if s, ok := contactSound(c); ok {
				sound.Play(s)
			}
		}
		if handler != nil {
			handler.HandleContact(c)
		}
	}
	if repainter != nil {
		repainter.Repaint()
	}
	return true
}

// contactSound picks the single effect for a contact: brick, paddle, miss, wall
func contactSound(c entity.Contact) (core.SoundType, bool) {
	paddle := false
	for _, hit := range c.Hits {
		switch hit.Kind() {
		case entity.KindBrick:
			return core.SoundBrick, true
		case entity.KindBar:
			paddle = true
		}
	}
	switch {
	case paddle:
		return core.SoundPaddle, true
	case c.Floor:
		return core.SoundMiss, true
	case c.Walls != 0:
		return core.SoundWall, true
	default:
		return 0, false
	}
}

// ===== RUN =====

// Run paces moves in real time until the cap is reached, Stop is called or ctx is done
// A cap or a Stop request returns nil; a cancelled ctx returns an error wrapping ErrInterrupted
func (l *Loop) Run(ctx context.Context) error {
	h, err := l.begin()
	if err != nil {
		return err
	}
	return l.run(ctx, h)
}

// Start launches Run on its own goroutine and returns a channel receiving its result
func (l *Loop) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	h, err := l.begin()
	if err != nil {
		done <- err
		return done
	}
	core.Go(func() {
		done <- l.run(ctx, h)
	})
	return done
}

// Stop requests a clean end of the current run, no-op when not running
func (l *Loop) Stop() {
	l.mu.Lock()
	h := l.current
	l.mu.Unlock()
	if h != nil {
		h.requestStop()
	}
}

func (l *Loop) begin() (*runHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		return nil, ErrAlreadyRunning
	}
	h := &runHandle{stop: make(chan struct{})}
	l.current = h
	l.setState(StateRunning)
	return h, nil
}

func (l *Loop) end(h *runHandle, s LoopState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == h {
		l.current = nil
	}
	l.setState(s)
}

func (l *Loop) run(ctx context.Context, h *runHandle) error {
	l.mu.Lock()
	clock := l.clock
	l.beginPacingLocked(clock.Now())
	log.Printf("loop: run dt=%v maxMoveCount=%d ratio=%.2f", l.dt, l.maxMoveCount, l.speedIncrementRatio)
	l.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for !l.Capped() {
		select {
		case <-h.stop:
			return l.stopped(h)
		case <-ctx.Done():
			return l.interrupted(ctx, h)
		default:
		}

		l.Move()

		sleep := l.pace(clock.Now())
		if sleep <= 0 {
			continue
		}

		timer.Reset(sleep)
		select {
		case <-timer.C:
		case <-h.stop:
			return l.stopped(h)
		case <-ctx.Done():
			return l.interrupted(ctx, h)
		}
	}

	log.Printf("loop: capped at %d moves", l.MoveCount())
	l.end(h, StateCapped)
	return nil
}

func (l *Loop) stopped(h *runHandle) error {
	log.Printf("loop: stopped after %d moves", l.MoveCount())
	l.end(h, StateStopped)
	return nil
}

func (l *Loop) interrupted(ctx context.Context, h *runHandle) error {
	cause := context.Cause(ctx)
	log.Printf("loop: interrupted after %d moves: %v", l.MoveCount(), cause)
	l.end(h, StateInterrupted)
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

// beginPacingLocked anchors the first deadline and ramp window at now
func (l *Loop) beginPacingLocked(now time.Time) {
	l.nextMove = now.Add(l.dt)
	l.lastRamp = now
}

// pace computes the sleep before the next move and ramps dt when due
// An overrun resets the deadline to now instead of bursting to catch up
func (l *Loop) pace(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sleep time.Duration
	if now.Before(l.nextMove) {
		sleep = l.nextMove.Sub(now)
	} else {
		l.nextMove = now
	}

	if now.Sub(l.lastRamp) > l.rampInterval {
		l.dt = rampDT(l.dt, l.speedIncrementRatio, l.minDT)
		l.lastRamp = now
		l.publishLocked()
		log.Printf("loop: dt ramped to %v", l.dt)
	}

	l.nextMove = l.nextMove.Add(l.dt)
	return sleep
}

// rampDT scales dt by ratio, truncated to whole milliseconds and floored at minDT
func rampDT(dt time.Duration, ratio float64, minDT time.Duration) time.Duration {
	next := time.Duration(float64(dt) * ratio).Truncate(time.Millisecond)
	if next < minDT {
		return minDT
	}
	return next
}

func (l *Loop) publishLocked() {
	if l.statMoves == nil {
		return
	}
	l.statMoves.Store(int64(l.moveCount))
	l.statMaxMoves.Store(int64(l.maxMoveCount))
	l.statDT.Store(l.dt.Milliseconds())
	l.statRatio.Set(l.speedIncrementRatio)
}
