package sim

import (
	"testing"
	"time"

	"headball/game"
)

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	d, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNewFailsFastOnBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickHz = 0
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for zero tick rate")
	}

	cfg = DefaultConfig()
	cfg.World.Height = -1
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for invalid world bounds")
	}
}

func TestStepPublishesOneSnapshotPerTick(t *testing.T) {
	d := newTestDriver(t)

	d.step()
	first := d.Latest()
	if first.Tick != 1 {
		t.Fatalf("tick = %d, want 1", first.Tick)
	}
	d.step()
	if got := d.Latest().Tick; got != 2 {
		t.Fatalf("tick = %d, want 2", got)
	}
}

func TestMovementLatchesButImpulsesAreOneShot(t *testing.T) {
	d := newTestDriver(t)

	d.Submit(game.PlayerLeft, game.Command{MoveRight: true, Jump: true})
	d.step()
	afterJump := d.Latest().Body(game.PlayerLeft)
	if afterJump.VX <= 0 {
		t.Fatalf("vx = %f, want moving right", afterJump.VX)
	}
	if afterJump.VY <= 0 {
		t.Fatalf("vy = %f, want upward from jump", afterJump.VY)
	}

	// No new command: movement keeps latching, the jump does not re-fire.
	x1 := afterJump.X
	d.step()
	afterHold := d.Latest().Body(game.PlayerLeft)
	if afterHold.X <= x1 {
		t.Fatalf("player stopped moving without a superseding command")
	}

	// The special never re-applies on latched ticks either: velocity should
	// be falling under gravity, not pinned at the impulse speed.
	d.Submit(game.PlayerRight, game.Command{SpecialImpulse: true})
	d.step()
	v1 := d.Latest().Body(game.PlayerRight).VY
	d.step()
	v2 := d.Latest().Body(game.PlayerRight).VY
	if v2 >= v1 {
		t.Fatalf("special impulse re-applied: vy %f -> %f", v1, v2)
	}
}

func TestSubmitUnknownEntityIsNoOp(t *testing.T) {
	d := newTestDriver(t)
	d.Submit(game.EntityID(12), game.Command{MoveLeft: true})
	d.Submit(game.EntityID(-1), game.Command{Jump: true})
	d.step()
	// Nothing to assert beyond not panicking and bodies staying put.
	if got := d.Latest().Body(game.PlayerLeft).VX; got != 0 {
		t.Fatalf("unexpected movement from invalid submit: vx = %f", got)
	}
}

func TestGoalEmitsEventAndResetsSameTick(t *testing.T) {
	d := newTestDriver(t)

	// Fire the ball out the left goal mouth.
	d.world.SetVelocityForTest(game.Ball, -60, 0)

	var ev GoalEvent
	deadline := 10 * TickHz // up to ten simulated seconds
	scored := false
	for i := 0; i < deadline; i++ {
		d.step()
		select {
		case ev = <-d.Events():
			scored = true
		default:
		}
		if scored {
			break
		}
	}
	if !scored {
		t.Fatalf("ball never scored")
	}
	if ev.Side != game.GoalRightScored {
		t.Fatalf("goal side = %v, want rightScored", ev.Side)
	}

	// The event's snapshot is taken after the reset: ball back at center-top
	// with zero velocity, in bounds.
	ball := ev.Snapshot.Body(game.Ball)
	if ball.X != game.WorldWidth/2 || ball.Y != game.BallResetY {
		t.Fatalf("post-goal ball at (%f,%f), want kickoff", ball.X, ball.Y)
	}
	if ball.VX != 0 || ball.VY != 0 {
		t.Fatalf("post-goal ball velocity (%f,%f), want zero", ball.VX, ball.VY)
	}
	if ev.Snapshot.Goal != game.GoalRightScored {
		t.Fatalf("snapshot goal = %v, want rightScored", ev.Snapshot.Goal)
	}
}

func TestRequestResetAppliesNextTick(t *testing.T) {
	d := newTestDriver(t)
	d.world.SetVelocityForTest(game.Ball, 5, 3)
	d.step()
	if d.Latest().Body(game.Ball).VX == 0 {
		t.Fatalf("setup failed: ball should be moving")
	}

	d.RequestReset()
	d.step()
	ball := d.Latest().Body(game.Ball)
	if ball.X != game.WorldWidth/2 {
		t.Fatalf("ball x = %f after reset, want %f", ball.X, game.WorldWidth/2.0)
	}
}

func TestRunLoopTicksAndStops(t *testing.T) {
	d := newTestDriver(t)
	d.Start()

	time.Sleep(100 * time.Millisecond)
	tickAfterStart := d.Latest().Tick
	if tickAfterStart == 0 {
		t.Fatalf("driver did not tick after 100ms")
	}

	d.Stop()
	d.Stop() // idempotent
	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatalf("driver did not stop")
	}
	settled := d.Latest().Tick
	time.Sleep(50 * time.Millisecond)
	if d.Latest().Tick != settled {
		t.Fatalf("driver kept ticking after Stop")
	}
}
