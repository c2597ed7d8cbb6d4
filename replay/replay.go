// Package replay records live matches at a fixed low sampling rate and plays
// them back deterministically without re-running any physics. Playback is a
// pure function of the recorded frames and elapsed consumer time.
package replay

import (
	"time"

	"headball/game"
	"headball/match"
)

// SampleIntervalMs is the recording cadence. Velocities are intentionally
// left out of frames to keep records compact; playback is position-only.
const SampleIntervalMs = 100.0

// Pos is a recorded position.
type Pos struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

// Frame is one sampled instant of a match.
type Frame struct {
	Ball        Pos   `msgpack:"b"`
	Player1     Pos   `msgpack:"p1"`
	Player2     Pos   `msgpack:"p2"`
	ScoreLeft   int   `msgpack:"sl"`
	ScoreRight  int   `msgpack:"sr"`
	RemainingMs int64 `msgpack:"t"`
}

// Record is a finished match recording. Immutable once assembled; the store
// only ever appends or deletes whole records.
type Record struct {
	CreatedAt  time.Time `msgpack:"createdAt"`
	AILevel    string    `msgpack:"aiLevel"`
	FinalLeft  int       `msgpack:"finalLeft"`
	FinalRight int       `msgpack:"finalRight"`
	Frames     []Frame   `msgpack:"frames"`
}

// Recorder samples the live snapshot/match state every SampleIntervalMs of
// consumer time. The surplus accumulator is carried, not discarded, so frame
// timing cannot drift however ragged the consumer's frame intervals are.
type Recorder struct {
	accMs  float64
	frames []Frame
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Update accumulates elapsed consumer time and appends one frame per crossed
// sampling interval.
func (r *Recorder) Update(elapsedMs float64, snap *game.Snapshot, st match.State) {
	if elapsedMs < 0 || snap == nil {
		return
	}
	r.accMs += elapsedMs
	for r.accMs >= SampleIntervalMs {
		r.accMs -= SampleIntervalMs
		r.frames = append(r.frames, frameOf(snap, st))
	}
}

// Len reports the number of frames captured so far.
func (r *Recorder) Len() int { return len(r.frames) }

// Finish assembles the immutable record for a completed match. The recorder
// is spent afterwards.
func (r *Recorder) Finish(aiLevel string, final match.State, now time.Time) Record {
	rec := Record{
		CreatedAt:  now,
		AILevel:    aiLevel,
		FinalLeft:  final.ScoreLeft,
		FinalRight: final.ScoreRight,
		Frames:     r.frames,
	}
	r.frames = nil
	r.accMs = 0
	return rec
}

func frameOf(snap *game.Snapshot, st match.State) Frame {
	ball := snap.Body(game.Ball)
	p1 := snap.Body(game.PlayerLeft)
	p2 := snap.Body(game.PlayerRight)
	return Frame{
		Ball:        Pos{X: ball.X, Y: ball.Y},
		Player1:     Pos{X: p1.X, Y: p1.Y},
		Player2:     Pos{X: p2.X, Y: p2.Y},
		ScoreLeft:   st.ScoreLeft,
		ScoreRight:  st.ScoreRight,
		RemainingMs: st.RemainingMs,
	}
}
