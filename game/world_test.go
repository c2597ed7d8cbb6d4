package game

import (
	"math"
	"math/rand"
	"testing"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(DefaultWorldConfig())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestNewWorldRejectsBadConfig(t *testing.T) {
	cfg := DefaultWorldConfig()
	cfg.Width = 0
	if _, err := NewWorld(cfg); err == nil {
		t.Fatalf("expected error for zero width")
	}

	cfg = DefaultWorldConfig()
	cfg.VelocityIterations = 0
	if _, err := NewWorld(cfg); err == nil {
		t.Fatalf("expected error for zero velocity iterations")
	}
}

func TestResetPositionsPlacesKickoff(t *testing.T) {
	w := newTestWorld(t)
	w.bodies[Ball].X = -3
	w.bodies[Ball].VX = -12
	w.bodies[PlayerLeft].Y = 5

	w.ResetPositions()

	ball := w.bodies[Ball]
	if ball.X != WorldWidth/2 || ball.Y != BallResetY {
		t.Fatalf("ball at (%f,%f), want (%f,%f)", ball.X, ball.Y, WorldWidth/2.0, BallResetY)
	}
	if ball.VX != 0 || ball.VY != 0 {
		t.Fatalf("ball velocity not zeroed: (%f,%f)", ball.VX, ball.VY)
	}
	left := w.bodies[PlayerLeft]
	right := w.bodies[PlayerRight]
	if left.X != PlayerStartInset {
		t.Fatalf("left player x = %f, want %f", left.X, PlayerStartInset)
	}
	if right.X != WorldWidth-PlayerStartInset {
		t.Fatalf("right player x = %f, want %f", right.X, WorldWidth-PlayerStartInset)
	}
}

func TestGoalSideAttribution(t *testing.T) {
	w := newTestWorld(t)

	w.bodies[Ball].X = -GoalMargin - 0.01
	if got := w.GoalSide(); got != GoalRightScored {
		t.Fatalf("ball past left line: got %v, want rightScored", got)
	}

	w.bodies[Ball].X = WorldWidth + GoalMargin + 0.01
	if got := w.GoalSide(); got != GoalLeftScored {
		t.Fatalf("ball past right line: got %v, want leftScored", got)
	}

	w.bodies[Ball].X = WorldWidth / 2
	if got := w.GoalSide(); got != GoalNone {
		t.Fatalf("ball mid-field: got %v, want none", got)
	}
}

func TestApplyCommandHorizontal(t *testing.T) {
	w := newTestWorld(t)

	w.ApplyCommand(PlayerLeft, Command{MoveRight: true})
	if got := w.bodies[PlayerLeft].VX; got != MoveTargetSpeed {
		t.Fatalf("vx = %f, want %f", got, MoveTargetSpeed)
	}

	w.ApplyCommand(PlayerLeft, Command{MoveLeft: true})
	if got := w.bodies[PlayerLeft].VX; got != -MoveTargetSpeed {
		t.Fatalf("vx = %f, want %f", got, -MoveTargetSpeed)
	}

	// Opposing presses cancel to zero.
	w.ApplyCommand(PlayerLeft, Command{MoveLeft: true, MoveRight: true})
	if got := w.bodies[PlayerLeft].VX; got != 0 {
		t.Fatalf("vx with both directions = %f, want 0", got)
	}

	w.ApplyCommand(PlayerLeft, Command{})
	if got := w.bodies[PlayerLeft].VX; got != 0 {
		t.Fatalf("vx with no direction = %f, want 0", got)
	}
}

func TestApplyCommandUnknownEntityIsNoOp(t *testing.T) {
	w := newTestWorld(t)
	before := w.bodies
	w.ApplyCommand(EntityID(99), Command{MoveLeft: true, Jump: true})
	w.ApplyCommand(EntityID(-1), Command{SpecialImpulse: true})
	if w.bodies != before {
		t.Fatalf("unknown entity command mutated the world")
	}
}

func TestJumpGating(t *testing.T) {
	w := newTestWorld(t)

	// Grounded at kickoff: jump takes.
	w.ApplyCommand(PlayerLeft, Command{Jump: true})
	if got := w.bodies[PlayerLeft].VY; got != JumpSpeed {
		t.Fatalf("grounded jump vy = %f, want %f", got, JumpSpeed)
	}

	// Airborne: jump is ignored.
	w.bodies[PlayerRight].Y = PlayerRadius + 1.0
	w.bodies[PlayerRight].VY = 0
	w.ApplyCommand(PlayerRight, Command{Jump: true})
	if got := w.bodies[PlayerRight].VY; got != 0 {
		t.Fatalf("air jump vy = %f, want 0", got)
	}

	// At rest height but still moving vertically: jump is ignored.
	w.bodies[PlayerRight].Y = PlayerRadius
	w.bodies[PlayerRight].VY = RestSpeedLimit + 0.5
	w.ApplyCommand(PlayerRight, Command{Jump: true})
	if got := w.bodies[PlayerRight].VY; got != RestSpeedLimit+0.5 {
		t.Fatalf("moving jump vy = %f, want unchanged", got)
	}
}

func TestSpecialImpulseIgnoresGroundCheck(t *testing.T) {
	w := newTestWorld(t)
	w.bodies[PlayerLeft].Y = PlayerRadius + 2.0
	w.ApplyCommand(PlayerLeft, Command{SpecialImpulse: true})
	if got := w.bodies[PlayerLeft].VY; got != SpecialJumpSpeed {
		t.Fatalf("special vy = %f, want %f", got, SpecialJumpSpeed)
	}
}

func TestStepGravityAndGroundRest(t *testing.T) {
	w := newTestWorld(t)
	dt := 1.0 / 120.0

	// Ball drops from center-top and eventually settles on the ground.
	for i := 0; i < 120*6; i++ {
		w.Step(dt)
	}
	ball := w.bodies[Ball]
	if math.Abs(ball.Y-BallRadius) > GroundEpsilon {
		t.Fatalf("ball rest y = %f, want ~%f", ball.Y, BallRadius)
	}
	left := w.bodies[PlayerLeft]
	if math.Abs(left.Y-PlayerRadius) > GroundEpsilon {
		t.Fatalf("player rest y = %f, want ~%f", left.Y, PlayerRadius)
	}
}

func TestBallBouncesOffPlayer(t *testing.T) {
	w := newTestWorld(t)
	// Drop the ball straight onto the left player's head.
	w.bodies[Ball].X = w.bodies[PlayerLeft].X
	w.bodies[Ball].Y = PlayerRadius + 2.0
	w.bodies[Ball].VX = 0
	w.bodies[Ball].VY = -6

	dt := 1.0 / 120.0
	bounced := false
	for i := 0; i < 120; i++ {
		w.Step(dt)
		if w.bodies[Ball].VY > 1.0 {
			bounced = true
			break
		}
	}
	if !bounced {
		t.Fatalf("ball never bounced off the player")
	}
}

func TestFastBallDoesNotTunnelThroughGround(t *testing.T) {
	w := newTestWorld(t)
	w.bodies[Ball].Y = 2.0
	w.bodies[Ball].VY = -80 // far more than a radius per tick at 120 Hz

	dt := 1.0 / 120.0
	for i := 0; i < 30; i++ {
		w.Step(dt)
		if y := w.bodies[Ball].Y; y < 0 {
			t.Fatalf("ball tunneled below the ground: y = %f", y)
		}
	}
}

func TestBodiesStayInHorizontalBoundsUnderRandomPlay(t *testing.T) {
	w := newTestWorld(t)
	rng := rand.New(rand.NewSource(7))
	dt := 1.0 / 120.0

	for i := 0; i < 120*10; i++ {
		for _, id := range []EntityID{PlayerLeft, PlayerRight} {
			w.ApplyCommand(id, Command{
				MoveLeft:  rng.Intn(3) == 0,
				MoveRight: rng.Intn(3) == 0,
				Jump:      rng.Intn(10) == 0,
			})
		}
		w.Step(dt)

		// The goal tick is the one allowed excursion; the driver resets on it.
		if w.GoalSide() != GoalNone {
			w.ResetPositions()
			continue
		}
		for id := Ball; id <= PlayerRight; id++ {
			x := w.bodies[id].X
			if x < -GoalMargin || x > WorldWidth+GoalMargin {
				t.Fatalf("tick %d: %v out of bounds at x = %f", i, id, x)
			}
		}
	}
}

func TestSnapshotProjectsBodies(t *testing.T) {
	w := newTestWorld(t)
	w.bodies[Ball].VX = 3.5

	snap := w.Snapshot(42, GoalNone)
	if snap.Tick != 42 {
		t.Fatalf("tick = %d, want 42", snap.Tick)
	}
	if got := snap.Body(Ball); got.VX != 3.5 || got.X != WorldWidth/2 {
		t.Fatalf("ball projection = %+v", got)
	}
	if got := snap.Body(EntityID(99)); got != (BodyState{}) {
		t.Fatalf("invalid id projection = %+v, want zero", got)
	}
}
