package replay

import "fmt"

// Player replays a record's frames at samplingInterval/speed, draining the
// same kind of accumulator the recorder fills. It holds no reference to the
// world: frame data drives presentation state directly, so two machines
// replaying the same record see the same frames at the same frame indices.
type Player struct {
	frames []Frame
	stepMs float64
	accMs  float64
	next   int
	done   bool
}

// NewPlayer prepares playback of rec at the given speed multiplier.
func NewPlayer(rec Record, speed float64) (*Player, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("replay: speed must be positive, got %g", speed)
	}
	return &Player{
		frames: rec.Frames,
		stepMs: SampleIntervalMs / speed,
	}, nil
}

// Update advances playback by elapsed consumer time and returns the frames
// that became due, in order. completed is true exactly once, on the update
// that emits the final frame.
func (p *Player) Update(elapsedMs float64) (due []Frame, completed bool) {
	if p.done || p.next >= len(p.frames) {
		if !p.done {
			// Empty record: complete immediately, once.
			p.done = true
			return nil, true
		}
		return nil, false
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	p.accMs += elapsedMs
	for p.accMs >= p.stepMs && p.next < len(p.frames) {
		p.accMs -= p.stepMs
		due = append(due, p.frames[p.next])
		p.next++
	}
	if p.next >= len(p.frames) {
		p.done = true
		return due, true
	}
	return due, false
}

// Done reports whether playback has finished.
func (p *Player) Done() bool { return p.done }

// Progress reports frames emitted and total.
func (p *Player) Progress() (emitted, total int) {
	return p.next, len(p.frames)
}

// Cancel stops playback at the current frame boundary. No completion signal
// is emitted for a cancelled replay.
func (p *Player) Cancel() {
	p.done = true
}
