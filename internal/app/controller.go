package app

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"kbc-quiz-game/internal/domain"
	"kbc-quiz-game/internal/game"
)

// Clock is the time source used for reveal delays and the countdown.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) clockwork.Timer
}

// SessionInfo identifies who is playing a session and on what.
type SessionInfo struct {
	ID         string       `json:"sessionId"`
	PlayerID   string       `json:"playerId"`
	PlayerName string       `json:"playerName"`
	Topic      domain.Topic `json:"topic"`
}

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	SessionInfo
	game.View
}

// Update is broadcast after every transition, together with the cues it produced.
type Update struct {
	Snapshot Snapshot     `json:"snapshot"`
	Cues     []domain.Cue `json:"cues,omitempty"`
}

// Controller owns one game session. It is the single writer of the session state:
// player input and timer callbacks are serialised through mu, and every callback
// carries the generation it was scheduled in so that restarts and closes drop
// anything still in flight.
type Controller struct {
	info    SessionInfo
	machine *game.Machine
	clock   Clock

	mu          sync.Mutex
	state       game.State
	gen         uint64
	closed      bool
	nextTimerID uint64
	timers      map[uint64]clockwork.Timer
	tickID      uint64
	tick        clockwork.Timer
	subscribers map[chan Update]struct{}
}

func newController(info SessionInfo, machine *game.Machine, clock Clock) *Controller {
	c := &Controller{
		info:        info,
		machine:     machine,
		clock:       clock,
		timers:      make(map[uint64]clockwork.Timer),
		subscribers: make(map[chan Update]struct{}),
	}
	c.mu.Lock()
	c.state = machine.Start()
	c.syncCountdownLocked()
	c.mu.Unlock()
	return c
}

func (c *Controller) ID() string {
	return c.info.ID
}

func (c *Controller) Info() SessionInfo {
	return c.info
}

// State returns the raw session state.
func (c *Controller) State() game.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the current render view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Select picks an answer option. Invalid picks are ignored.
func (c *Controller) Select(index int) {
	c.dispatch(game.SelectOption{Index: index})
}

// UseLifeline activates a lifeline. Used, disabled or untimely activations are ignored.
func (c *Controller) UseLifeline(kind domain.Lifeline) {
	c.dispatch(game.UseLifeline{Kind: kind})
}

// CloseOverlay dismisses the audience poll or phone dialog and resumes the countdown.
func (c *Controller) CloseOverlay() {
	c.dispatch(game.CloseOverlay{})
}

// Restart replaces the session state with a fresh one over the same questions.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.gen++
	c.stopTimersLocked()
	c.state = c.machine.Start()
	c.syncCountdownLocked()
	log.Info().Str("session_id", c.info.ID).Msg("session restarted")
	c.broadcastLocked([]domain.Cue{domain.CueLock})
}

// Close discards the session: pending timers are stopped, later callbacks are
// ignored and subscriber channels are closed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.broadcastLocked([]domain.Cue{domain.CueMenuClick})
	c.closed = true
	c.gen++
	c.stopTimersLocked()
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
	log.Info().Str("session_id", c.info.ID).Msg("session closed")
}

// Closed reports whether the session has been discarded.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Subscribe returns a channel that receives an Update after every transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (c *Controller) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	c.subscribers[ch] = struct{}{}
	initial := Update{Snapshot: c.snapshotLocked()}
	c.mu.Unlock()

	ch <- initial

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) dispatch(ev game.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.applyLocked(ev)
}

func (c *Controller) applyLocked(ev game.Event) {
	prev := c.state
	next, effects := c.machine.Apply(prev, ev)
	c.state = next

	var cues []domain.Cue
	for _, eff := range effects {
		switch e := eff.(type) {
		case game.PlayCue:
			cues = append(cues, e.Cue)
		case game.Schedule:
			c.scheduleLocked(e.After, e.Event)
		}
	}
	c.syncCountdownLocked()

	if next.Phase != prev.Phase {
		log.Debug().
			Str("session_id", c.info.ID).
			Int("position", next.Position).
			Str("from", string(prev.Phase)).
			Str("to", string(next.Phase)).
			Msg("phase changed")
	}
	if next.Terminal() && !prev.Terminal() {
		log.Info().
			Str("session_id", c.info.ID).
			Str("status", string(next.Status())).
			Int("position", next.Position).
			Int64("money", next.Money).
			Msg("game over")
	}
	if next != prev || len(cues) > 0 {
		c.broadcastLocked(cues)
	}
}

func (c *Controller) scheduleLocked(d time.Duration, ev game.Event) {
	gen := c.gen
	c.nextTimerID++
	id := c.nextTimerID
	c.timers[id] = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.timers, id)
		if c.closed || gen != c.gen {
			return
		}
		c.applyLocked(ev)
	})
}

// syncCountdownLocked arms the one-second tick while the countdown is active and
// disarms it otherwise. Remaining time lives in the state, so resuming continues
// from where the countdown paused.
func (c *Controller) syncCountdownLocked() {
	active := !c.closed && c.state.CountdownActive()
	switch {
	case active && c.tick == nil:
		gen := c.gen
		c.nextTimerID++
		id := c.nextTimerID
		c.tickID = id
		c.tick = c.clock.AfterFunc(game.TickInterval, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.closed || gen != c.gen || c.tickID != id {
				return
			}
			c.tick = nil
			c.tickID = 0
			c.applyLocked(game.Tick{})
		})
	case !active && c.tick != nil:
		c.tick.Stop()
		c.tick = nil
		c.tickID = 0
	}
}

func (c *Controller) stopTimersLocked() {
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	if c.tick != nil {
		c.tick.Stop()
		c.tick = nil
		c.tickID = 0
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{SessionInfo: c.info, View: c.machine.View(c.state)}
}

func (c *Controller) broadcastLocked(cues []domain.Cue) {
	update := Update{Snapshot: c.snapshotLocked(), Cues: cues}
	for ch := range c.subscribers {
		select {
		case ch <- update:
		default:
			// Slow subscribers lose the oldest update rather than blocking the session.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}
