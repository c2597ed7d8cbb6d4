// Package ai turns snapshots into commands for the non-human side. Reaction
// time is modelled as blindness: between decision instants the previously
// computed command is re-sent unchanged, no matter what the ball does.
package ai

import (
	"math"
	"math/rand"

	"headball/game"
	"headball/match"
)

const (
	// How far ahead the ball's horizontal position is linearly predicted.
	predictionSeconds = 0.5
	// No corrective movement inside this window around the target, so the
	// policy does not oscillate on a ball it is already under.
	deadBand = 0.05
	// Jump when the ball is at least this far overhead and this close.
	jumpHeightMargin = 1.2
	jumpProximity    = 1.5
	// Special ability: ball way up and nearly on top of us.
	specialHeightMargin = 2.8
	specialProximity    = 1.0
	specialCooldownMs   = 5000.0
)

// Policy is the per-match AI state: decision countdown, last issued command
// and the special-ability cooldown. Not safe for concurrent use; it lives on
// the consumer loop.
type Policy struct {
	profile match.AIProfile
	entity  game.EntityID
	rng     *rand.Rand

	countdownMs float64
	cooldownMs  float64
	cmd         game.Command
}

// New builds a policy controlling entity. rng may be nil for an unseeded
// source; tests pass a seeded one.
func New(profile match.AIProfile, entity game.EntityID, rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Policy{
		profile: profile,
		entity:  entity,
		rng:     rng,
	}
}

// Entity reports which side the policy controls.
func (p *Policy) Entity() game.EntityID { return p.entity }

// Update advances the policy by one consumer frame and returns the command
// to submit. Outside decision instants the held command is returned as-is,
// except that one-shot intents (jump, special) fire only on the decision
// frame itself.
func (p *Policy) Update(elapsedMs float64, snap *game.Snapshot) game.Command {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	p.countdownMs -= elapsedMs
	p.cooldownMs -= elapsedMs

	if p.countdownMs > 0 || snap == nil {
		return p.cmd
	}
	p.countdownMs = p.profile.ReactionTimeSeconds * 1000

	decided := p.decide(snap)
	// Hold movement between decisions, but never re-fire impulses.
	p.cmd = decided
	p.cmd.Jump = false
	p.cmd.SpecialImpulse = false
	return decided
}

func (p *Policy) decide(snap *game.Snapshot) game.Command {
	ball := snap.Body(game.Ball)
	me := snap.Body(p.entity)

	predicted := ball.X + ball.VX*predictionSeconds
	errScale := p.profile.AimErrorDegrees / 90.0
	offset := (p.rng.Float64()*2 - 1) * errScale * game.WorldWidth
	target := clamp(predicted+offset, 0, game.WorldWidth)

	var cmd game.Command
	dx := target - me.X
	switch {
	case dx < -deadBand:
		cmd.MoveLeft = true
	case dx > deadBand:
		cmd.MoveRight = true
	}

	overhead := ball.Y - me.Y
	horiz := math.Abs(ball.X - me.X)
	if overhead > jumpHeightMargin && horiz < jumpProximity {
		cmd.Jump = true
	}
	if overhead > specialHeightMargin && horiz < specialProximity && p.cooldownMs <= 0 {
		cmd.SpecialImpulse = true
		p.cooldownMs = specialCooldownMs
	}
	return cmd
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
