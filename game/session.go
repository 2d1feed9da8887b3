// Package game assembles a playable session: layout, move loop, scoring and restarts.
package game

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/entity"
	"github.com/lixenwraith/breakout/status"
)

// Outcome labels published under status.KeyOutcome
const (
	OutcomeNone = ""
	OutcomeWon  = "cleared"
)

// Deps are the collaborators a session wires into its loop
type Deps struct {
	Sound     engine.SoundPlayer
	Repainter engine.Repainter
	Status    *status.Registry
	Clock     engine.TimeProvider
}

// Session owns one game: its world, its loop and the running score
type Session struct {
	cfg   config.Config
	world *engine.World
	loop  *engine.Loop

	totalBricks int
	broken      atomic.Int64
	misses      atomic.Int64

	mu   sync.Mutex
	done <-chan error

	statScore   *atomic.Int64
	statMisses  *atomic.Int64
	statBricks  *atomic.Int64
	statOutcome *status.AtomicString
}

// NewSession builds the world layout and the loop from cfg
func NewSession(cfg config.Config, deps Deps) *Session {
	world := engine.NewWorld(cfg.Field.Width, cfg.Field.Height)
	total := populate(world, cfg)

	loop := engine.NewLoop(world, cfg.Loop.MaxMoveCount, cfg.Loop.DT)
	loop.SetSpeedIncrementRatio(cfg.Loop.SpeedIncrementRatio)
	loop.SetRampInterval(cfg.Loop.RampInterval)
	loop.SetMinDT(cfg.Loop.MinDT)
	if deps.Clock != nil {
		loop.SetTimeProvider(deps.Clock)
	}
	if deps.Sound != nil {
		loop.SetSoundPlayer(deps.Sound)
	}
	if deps.Repainter != nil {
		loop.SetRepainter(deps.Repainter)
	}

	reg := deps.Status
	if reg == nil {
		reg = status.NewRegistry()
	}

	s := &Session{
		cfg:         cfg,
		world:       world,
		loop:        loop,
		totalBricks: total,
		statScore:   reg.Ints.Get(status.KeyScore),
		statMisses:  reg.Ints.Get(status.KeyMisses),
		statBricks:  reg.Ints.Get(status.KeyBricks),
		statOutcome: reg.Strings.Get(status.KeyOutcome),
	}
	loop.SetStatus(reg)
	loop.SetContactHandler(s)
	s.publish()
	return s
}

// populate adds bricks row-major, then the paddle, then the ball; returns the brick count
func populate(w *engine.World, cfg config.Config) int {
	b := cfg.Bricks
	left := cfg.BricksLeft()
	count := 0
	for row := 0; row < b.Rows; row++ {
		y := b.Top + row*(b.Height+b.Gap)
		for col := 0; col < b.Cols; col++ {
			x := left + col*(b.Width+b.Gap)
			w.Add(entity.NewBrick(x, y, b.Width, b.Height))
			count++
		}
	}

	p := cfg.Paddle
	w.Add(entity.NewBar((cfg.Field.Width-p.Width)/2, p.Row, p.Width, 1))

	ball := cfg.Ball
	w.Add(entity.NewBall(ball.X, ball.Y, ball.Size, ball.Size, ball.DX, ball.DY))
	return count
}

// World returns the session's world
func (s *Session) World() *engine.World {
	return s.world
}

// Loop returns the session's move loop
func (s *Session) Loop() *engine.Loop {
	return s.loop
}

// Config returns the configuration the session was built from
func (s *Session) Config() config.Config {
	return s.cfg
}

// Score returns points for broken bricks
func (s *Session) Score() int {
	return int(s.broken.Load()) * s.cfg.Game.BrickScore
}

// Misses returns the number of floor contacts
func (s *Session) Misses() int {
	return int(s.misses.Load())
}

// BricksLeft returns the number of intact bricks
func (s *Session) BricksLeft() int {
	return s.totalBricks - int(s.broken.Load())
}

// Won reports whether every brick is broken
func (s *Session) Won() bool {
	return s.totalBricks > 0 && s.BricksLeft() == 0
}

// HandleContact implements engine.ContactHandler
func (s *Session) HandleContact(c entity.Contact) {
	for _, hit := range c.Hits {
		if hit.Kind() == entity.KindBrick {
			s.broken.Add(1)
		}
	}
	if c.Floor {
		s.misses.Add(1)
	}
	s.publish()

	if s.Won() {
		s.statOutcome.Store(OutcomeWon)
		log.Printf("game: cleared with score %d, %d misses", s.Score(), s.Misses())
		s.loop.Stop()
	}
}

func (s *Session) publish() {
	s.statScore.Store(int64(s.Score()))
	s.statMisses.Store(int64(s.Misses()))
	s.statBricks.Store(int64(s.BricksLeft()))
}

// Start runs the loop on its own goroutine
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = s.loop.Start(ctx)
}

// Wait blocks until the current run ends and returns its result
// Returns nil when the session was never started
func (s *Session) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	err := <-done
	s.mu.Lock()
	if s.done == done {
		s.done = nil
	}
	s.mu.Unlock()
	return err
}

// Restart stops the current run, restores the layout and loop settings, and starts again
func (s *Session) Restart(ctx context.Context) error {
	s.loop.Stop()
	err := s.Wait()

	s.loop.Reset()
	s.loop.SetMaxMoveCount(s.cfg.Loop.MaxMoveCount)
	s.loop.SetDT(s.cfg.Loop.DT)
	s.loop.SetSpeedIncrementRatio(s.cfg.Loop.SpeedIncrementRatio)

	s.broken.Store(0)
	s.misses.Store(0)
	s.statOutcome.Store(OutcomeNone)
	s.publish()
	log.Printf("game: restart")

	s.Start(ctx)
	return err
}

// Close stops the loop and waits for it
func (s *Session) Close() error {
	s.loop.Stop()
	return s.Wait()
}
