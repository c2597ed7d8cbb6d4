// Package sim runs the authoritative world on its own fixed-rate timer,
// decoupled from however fast the presentation side consumes state. The only
// state shared across that boundary is a last-write-wins snapshot mailbox and
// one command mailbox per entity.
package sim

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"headball/game"
)

const (
	// TickHz is the fixed simulation rate.
	TickHz = 120
	// goal events are rare; the buffer only has to absorb the gap between
	// driver ticks and consumer frames.
	eventBufferSize = 16
)

// GoalEvent is the discrete goal message. It carries the same snapshot the
// per-tick state message does for that tick, taken after the reset so
// observers never see an out-of-bounds ball.
type GoalEvent struct {
	Side     game.GoalEvent
	Snapshot game.Snapshot
}

// mailbox is a single-slot last-write-wins command holder. A new command
// fully supersedes the previous one; take consumes the slot.
type mailbox struct {
	mu  sync.Mutex
	cmd game.Command
	set bool
}

func (m *mailbox) put(cmd game.Command) {
	m.mu.Lock()
	m.cmd = cmd
	m.set = true
	m.mu.Unlock()
}

func (m *mailbox) take() (game.Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return game.Command{}, false
	}
	m.set = false
	return m.cmd, true
}

// Config tunes the driver.
type Config struct {
	World  game.WorldConfig
	TickHz int
}

// DefaultConfig returns the reference 120 Hz tuning.
func DefaultConfig() Config {
	return Config{World: game.DefaultWorldConfig(), TickHz: TickHz}
}

// Driver steps the world at a fixed rate, detects goals, resets positions in
// the same tick, and publishes exactly one snapshot per tick. Only the driver
// goroutine ever mutates the world.
type Driver struct {
	world  *game.World
	tickHz int
	dt     float64

	inbox  [3]mailbox // indexed by game.EntityID; only player slots are used
	held   [3]game.Command
	latest atomic.Pointer[game.Snapshot]
	events chan GoalEvent

	resetRequested atomic.Bool
	tick           uint64
	quit           chan struct{}
	done           chan struct{}
	stopOnce       sync.Once
}

// New builds the driver and its world. A world construction failure is fatal
// to starting a match and surfaces here rather than producing a driver with a
// missing world.
func New(cfg Config) (*Driver, error) {
	if cfg.TickHz <= 0 {
		return nil, fmt.Errorf("sim: tick rate must be positive, got %d", cfg.TickHz)
	}
	w, err := game.NewWorld(cfg.World)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	d := &Driver{
		world:  w,
		tickHz: cfg.TickHz,
		dt:     1.0 / float64(cfg.TickHz),
		events: make(chan GoalEvent, eventBufferSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	snap := w.Snapshot(0, game.GoalNone)
	d.latest.Store(&snap)
	return d, nil
}

// Start launches the fixed-rate loop. The driver runs until Stop.
func (d *Driver) Start() {
	go d.run()
}

// Stop cancels the loop. Safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.quit) })
}

// Done is closed once the loop has exited.
func (d *Driver) Done() <-chan struct{} { return d.done }

// Submit places a command in the entity's mailbox, superseding any command
// already there. Fire-and-forget: there is no acknowledgment and a dropped
// intent is recovered by the producer's continuous re-send. Only the player
// entities accept commands; anything else is a no-op.
func (d *Driver) Submit(id game.EntityID, cmd game.Command) {
	if id != game.PlayerLeft && id != game.PlayerRight {
		return
	}
	d.inbox[id].put(cmd)
}

// RequestReset asks the driver to teleport everyone back to kickoff on the
// next tick.
func (d *Driver) RequestReset() {
	d.resetRequested.Store(true)
}

// Latest returns the most recent snapshot. Never nil after New.
func (d *Driver) Latest() *game.Snapshot {
	return d.latest.Load()
}

// Events exposes the discrete goal-event stream.
func (d *Driver) Events() <-chan GoalEvent { return d.events }

func (d *Driver) run() {
	defer close(d.done)
	ticker := time.NewTicker(time.Second / time.Duration(d.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-d.quit:
			return
		case <-ticker.C:
			d.step()
		}
	}
}

// step is one fixed tick: apply commands, advance the world, detect goals,
// reset before the snapshot is read. Impulse intents (jump, special) fire
// only on the tick that delivered them; movement latches until superseded.
func (d *Driver) step() {
	d.tick++

	if d.resetRequested.Swap(false) {
		d.world.ResetPositions()
	}

	for _, id := range [...]game.EntityID{game.PlayerLeft, game.PlayerRight} {
		if cmd, ok := d.inbox[id].take(); ok {
			d.held[id] = cmd
		} else {
			d.held[id].Jump = false
			d.held[id].SpecialImpulse = false
		}
		d.world.ApplyCommand(id, d.held[id])
	}

	d.world.Step(d.dt)

	goal := d.world.GoalSide()
	if goal != game.GoalNone {
		d.world.ResetPositions()
	}

	snap := d.world.Snapshot(d.tick, goal)
	d.latest.Store(&snap)

	if goal != game.GoalNone {
		select {
		case d.events <- GoalEvent{Side: goal, Snapshot: snap}:
		default:
			slog.Warn("sim: goal event buffer full, dropping", "side", goal.String(), "tick", d.tick)
		}
	}
}
