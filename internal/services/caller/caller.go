package caller

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/bingobot/internal/dependencies/clock"
	"github.com/mcoot/bingobot/internal/dependencies/random"
	"github.com/mcoot/bingobot/internal/model"
)

// DefaultInterval is the time between calls
const DefaultInterval = 15 * time.Second

// Hooks receive the caller's output. They run with the owner's lock held
// and must not block.
type Hooks struct {
	OnCall      func(number, totalCalled int)
	OnExhausted func()
}

// Caller draws numbers on a fixed interval while a game is running.
//
// Every firing takes the owner's lock before touching state, so a tick is
// atomic with respect to the owner's commands. Start and Cancel must be
// called with that lock held.
type Caller struct {
	lock     sync.Locker
	clock    clock.Clock
	random   random.Random
	interval time.Duration
	logger   *slog.Logger

	// Guarded by lock
	generation uint64
	active     bool
	timer      clock.Timer
}

// New creates a Caller that synchronizes on lock
func New(lock sync.Locker, clock clock.Clock, random random.Random, interval time.Duration, logger *slog.Logger) *Caller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Caller{
		lock:     lock,
		clock:    clock,
		random:   random,
		interval: interval,
		logger:   logger.With(slog.String("component", "caller")),
	}
}

// Start schedules the first call one interval from now. Any previous run is
// cancelled first.
func (c *Caller) Start(called *model.CalledNumbers, hooks Hooks) {
	c.Cancel()
	c.generation++
	c.active = true
	gen := c.generation
	c.timer = c.clock.AfterFunc(c.interval, func() { c.fire(gen, called, hooks) })

	c.logger.Info("caller started", slog.Duration("interval", c.interval))
}

// Cancel stops future ticks. A tick already waiting on the lock sees the
// bumped generation and does nothing. Safe to call repeatedly.
func (c *Caller) Cancel() {
	if !c.active {
		return
	}
	c.active = false
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.logger.Info("caller cancelled")
}

// Draw returns a uniformly random number in [1, MaxNumber] that has not been
// called, or 0 if every number has been called
func (c *Caller) Draw(called *model.CalledNumbers) int {
	if called.Full() {
		return 0
	}
	for {
		n := 1 + c.random.Intn(model.MaxNumber)
		if !called.Contains(n) {
			return n
		}
	}
}

func (c *Caller) fire(gen uint64, called *model.CalledNumbers, hooks Hooks) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.active || c.generation != gen {
		return
	}
	c.timer = nil

	if called.Full() {
		c.Cancel()
		c.logger.Info("number pool exhausted", slog.Int("total_called", called.Len()))
		if hooks.OnExhausted != nil {
			hooks.OnExhausted()
		}
		return
	}

	n := c.Draw(called)
	called.Add(n)
	c.logger.Debug("number called",
		slog.Int("number", n),
		slog.Int("total_called", called.Len()),
	)
	if hooks.OnCall != nil {
		hooks.OnCall(n, called.Len())
	}
	if !c.active || c.generation != gen {
		return
	}

	c.timer = c.clock.AfterFunc(c.interval, func() { c.fire(gen, called, hooks) })
}
