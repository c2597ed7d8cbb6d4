package game

// Internal truth authoritative world state. Exactly one ball and two players
// exist for the lifetime of a match; ids are stable fixed indices rather than
// a loosely keyed map so a lookup can never miss.

type EntityID int

const (
	Ball EntityID = iota
	PlayerLeft
	PlayerRight
	entityCount
)

func (id EntityID) valid() bool {
	return id >= Ball && id < entityCount
}

func (id EntityID) String() string {
	switch id {
	case Ball:
		return "ball"
	case PlayerLeft:
		return "playerLeft"
	case PlayerRight:
		return "playerRight"
	default:
		return "unknown"
	}
}

// Body is a dynamic circle body. Players are fixed-rotation (never tip over),
// the ball is flagged bullet for continuous collision handling. Bodies are
// owned exclusively by the World; mutation happens only through commands and
// Step.
type Body struct {
	X, Y, VX, VY  float64
	Radius        float64
	Density       float64
	Friction      float64
	Restitution   float64
	FixedRotation bool
	Bullet        bool
}

func (b *Body) mass() float64 {
	return b.Density * b.Radius * b.Radius
}

// Command is a per-entity intent for one tick. Opposing horizontal presses
// cancel out. Commands are transient: applied once, never accumulated.
type Command struct {
	MoveLeft       bool
	MoveRight      bool
	Jump           bool
	SpecialImpulse bool
}

// GoalEvent is the derived goal status of a single tick.
type GoalEvent int

const (
	GoalNone GoalEvent = iota
	GoalLeftScored
	GoalRightScored
)

func (g GoalEvent) String() string {
	switch g {
	case GoalLeftScored:
		return "leftScored"
	case GoalRightScored:
		return "rightScored"
	default:
		return "none"
	}
}

// BodyState is the read-only projection of one body inside a Snapshot.
type BodyState struct {
	X, Y, VX, VY float64
}

// Snapshot is an immutable per-tick projection of all body state plus the
// tick's derived goal event. Safe to share across goroutines by value.
type Snapshot struct {
	Tick   uint64
	Bodies [entityCount]BodyState // indexed by EntityID
	Goal   GoalEvent
}

// Body returns the projected state for id, or a zero value for invalid ids.
func (s *Snapshot) Body(id EntityID) BodyState {
	if s == nil || !id.valid() {
		return BodyState{}
	}
	return s.Bodies[id]
}
