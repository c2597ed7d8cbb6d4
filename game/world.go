package game

import (
	"fmt"
	"math"
)

// WorldConfig fixes bounds and solver iteration counts at construction.
type WorldConfig struct {
	Width, Height      float64
	Gravity            float64
	VelocityIterations int
	PositionIterations int
}

// DefaultWorldConfig returns the reference arena tuning.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:              WorldWidth,
		Height:             WorldHeight,
		Gravity:            Gravity,
		VelocityIterations: VelocityIterations,
		PositionIterations: PositionIterations,
	}
}

// World owns all body state. Boundary bodies (ground, two walls) are implicit
// planes; dynamic bodies are the ball and the two players. Only one goroutine
// may step or mutate a World.
type World struct {
	width, height float64
	gravity       float64
	velIters      int
	posIters      int
	bodies        [entityCount]Body
}

// NewWorld builds the arena and places everyone at kickoff positions.
// Construction failure is fatal to starting a match, so invalid tuning is an
// explicit error instead of a silently broken world.
func NewWorld(cfg WorldConfig) (*World, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("world: invalid bounds %gx%g", cfg.Width, cfg.Height)
	}
	if cfg.VelocityIterations < 1 || cfg.PositionIterations < 1 {
		return nil, fmt.Errorf("world: solver iterations must be >= 1 (vel=%d pos=%d)",
			cfg.VelocityIterations, cfg.PositionIterations)
	}
	w := &World{
		width:    cfg.Width,
		height:   cfg.Height,
		gravity:  cfg.Gravity,
		velIters: cfg.VelocityIterations,
		posIters: cfg.PositionIterations,
	}
	w.bodies[Ball] = Body{
		Radius:      BallRadius,
		Density:     BallDensity,
		Friction:    BallFriction,
		Restitution: BallRestitution,
		Bullet:      true,
	}
	w.bodies[PlayerLeft] = Body{
		Radius:        PlayerRadius,
		Density:       PlayerDensity,
		Friction:      PlayerFriction,
		Restitution:   PlayerRestitution,
		FixedRotation: true,
	}
	w.bodies[PlayerRight] = w.bodies[PlayerLeft]
	w.ResetPositions()
	return w, nil
}

// Width reports the arena width.
func (w *World) Width() float64 { return w.width }

// Height reports the arena height.
func (w *World) Height() float64 { return w.height }

// ApplyCommand applies one tick's intent to an entity. Horizontal velocity is
// set directly to the target speed, zero when no (or both) directions are
// held. Jump is gated on being grounded; the special impulse is not, since
// its throttle lives with whoever issues it. Unknown ids are a no-op because
// command producers and world lifecycle can race benignly.
func (w *World) ApplyCommand(id EntityID, cmd Command) {
	if !id.valid() {
		return
	}
	b := &w.bodies[id]

	switch {
	case cmd.MoveLeft && !cmd.MoveRight:
		b.VX = -MoveTargetSpeed
	case cmd.MoveRight && !cmd.MoveLeft:
		b.VX = MoveTargetSpeed
	default:
		b.VX = 0
	}

	if cmd.Jump && w.grounded(b) {
		b.VY = JumpSpeed
	}
	if cmd.SpecialImpulse {
		b.VY = SpecialJumpSpeed
	}
}

func (w *World) grounded(b *Body) bool {
	return b.Y <= b.Radius+GroundEpsilon && math.Abs(b.VY) <= RestSpeedLimit
}

// ResetPositions teleports the ball to center-top and both players to their
// kickoff offsets, zeroing all velocities. Called after every goal.
func (w *World) ResetPositions() {
	ball := &w.bodies[Ball]
	ball.X, ball.Y = w.width/2, BallResetY
	ball.VX, ball.VY = 0, 0

	left := &w.bodies[PlayerLeft]
	left.X, left.Y = PlayerStartInset, PlayerRadius
	left.VX, left.VY = 0, 0

	right := &w.bodies[PlayerRight]
	right.X, right.Y = w.width-PlayerStartInset, PlayerRadius
	right.VX, right.VY = 0, 0
}

// GoalSide reports whether the ball has crossed a goal line. The left goal
// belongs to the left player, so a ball exiting left credits the right side.
func (w *World) GoalSide() GoalEvent {
	ball := &w.bodies[Ball]
	switch {
	case ball.X < -GoalMargin:
		return GoalRightScored
	case ball.X > w.width+GoalMargin:
		return GoalLeftScored
	default:
		return GoalNone
	}
}

// Snapshot captures an immutable projection of the current body state.
func (w *World) Snapshot(tick uint64, goal GoalEvent) Snapshot {
	s := Snapshot{Tick: tick, Goal: goal}
	for i := range w.bodies {
		b := &w.bodies[i]
		s.Bodies[i] = BodyState{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY}
	}
	return s
}
