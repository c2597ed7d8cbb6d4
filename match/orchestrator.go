// Package match owns the rules layer: score, phase and clock. It consumes
// goal events and consumer-frame elapsed time; it never touches the world.
package match

import "headball/game"

// Phase of the match state machine.
type Phase int

const (
	PhaseRegulation Phase = iota
	PhaseOvertime
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRegulation:
		return "regulation"
	case PhaseOvertime:
		return "overtime"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

const (
	RegulationMs int64 = 90_000
	OvertimeMs   int64 = 30_000
)

// State is the externally visible match state.
type State struct {
	ScoreLeft   int
	ScoreRight  int
	Phase       Phase
	RemainingMs int64
}

// Orchestrator drives the Regulation -> Overtime -> Ended machine. The clock
// counts consumer-frame time down, not simulation ticks: a stalled
// presentation loop freezes the match clock while physics keeps running,
// which keeps the rules layer single-domain. Ended is terminal.
type Orchestrator struct {
	state     State
	completed bool
}

// NewOrchestrator starts a match in regulation with a full clock.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{state: State{Phase: PhaseRegulation, RemainingMs: RegulationMs}}
}

// State returns a copy of the current match state.
func (o *Orchestrator) State() State { return o.state }

// Advance applies one consumer frame: goal events first (score is bumped
// before any transition is evaluated), then the clock. Negative elapsed time
// from a stalled consumer is clamped so the clock never runs backwards.
// Returns true exactly once, on the frame the match ends.
func (o *Orchestrator) Advance(elapsedMs int64, goals []game.GoalEvent) bool {
	if o.state.Phase == PhaseEnded {
		return false
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	for _, g := range goals {
		if o.state.Phase == PhaseEnded {
			break
		}
		switch g {
		case game.GoalLeftScored:
			o.state.ScoreLeft++
		case game.GoalRightScored:
			o.state.ScoreRight++
		default:
			continue
		}
		// Golden goal: any goal in overtime ends the match on the spot.
		if o.state.Phase == PhaseOvertime {
			o.end()
		}
	}
	if o.state.Phase == PhaseEnded {
		return o.consumeCompletion()
	}

	o.state.RemainingMs -= elapsedMs
	if o.state.RemainingMs > 0 {
		return false
	}
	o.state.RemainingMs = 0

	switch o.state.Phase {
	case PhaseRegulation:
		if o.state.ScoreLeft == o.state.ScoreRight {
			o.state.Phase = PhaseOvertime
			o.state.RemainingMs = OvertimeMs
			return false
		}
		o.end()
	case PhaseOvertime:
		// Sudden-death timeout: no golden goal arrived, score stands.
		o.end()
	}
	return o.consumeCompletion()
}

func (o *Orchestrator) end() {
	o.state.Phase = PhaseEnded
	o.state.RemainingMs = 0
	o.completed = true
}

func (o *Orchestrator) consumeCompletion() bool {
	if !o.completed {
		return false
	}
	o.completed = false
	return true
}
