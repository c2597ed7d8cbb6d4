package game

const (
	WorldWidth  = 16.0
	WorldHeight = 9.0
	Gravity     = -25.0 // world units / s^2, y-up

	BallRadius   = 0.35
	PlayerRadius = 0.5

	BallDensity   = 0.4
	PlayerDensity = 5.0

	BallRestitution   = 0.78
	PlayerRestitution = 0.0
	BallFriction      = 0.15
	PlayerFriction    = 0.3

	MoveTargetSpeed  = 4.5  // horizontal speed set directly while a direction is held
	JumpSpeed        = 8.0  // one-shot vertical velocity when grounded
	SpecialJumpSpeed = 11.0 // special ability impulse, no ground gate

	// Grounded means resting height within epsilon and vertical speed near
	// zero. Gate for normal jumps only; the special ignores it.
	GroundEpsilon  = 0.03
	RestSpeedLimit = 0.2

	// Ball positions past this margin beyond the side lines count as goals.
	GoalMargin = 0.5

	BallResetY       = 6.5 // center-top drop point after a goal
	PlayerStartInset = 3.0 // starting x distance from each side line

	VelocityIterations = 8
	PositionIterations = 3

	// Bullet handling for the ball: cap per-substep travel so a fast ball
	// cannot tunnel through a player between integrations.
	maxSubSteps = 8
)
