package game

import "math"

// Step advances every dynamic body by exactly dt seconds. Gravity, then
// integration, then the configured velocity/position solver iterations
// against the boundary bodies and the ball/player contact pairs.
//
// The ball is a bullet body: when its travel within dt exceeds a fraction of
// its radius the whole world is substepped so it cannot tunnel through a
// player or the ground at high speed.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	steps := 1
	ball := &w.bodies[Ball]
	if ball.Bullet {
		speed := math.Hypot(ball.VX, ball.VY)
		if travel := speed * dt; travel > ball.Radius*0.5 {
			steps = int(math.Ceil(travel / (ball.Radius * 0.5)))
			if steps > maxSubSteps {
				steps = maxSubSteps
			}
		}
	}
	sub := dt / float64(steps)
	for i := 0; i < steps; i++ {
		w.substep(sub)
	}
}

func (w *World) substep(dt float64) {
	for i := range w.bodies {
		b := &w.bodies[i]
		b.VY += w.gravity * dt
		b.X += b.VX * dt
		b.Y += b.VY * dt
	}

	for it := 0; it < w.velIters; it++ {
		for i := range w.bodies {
			w.solveBoundaryVelocity(EntityID(i))
		}
		w.solveContactVelocity(Ball, PlayerLeft)
		w.solveContactVelocity(Ball, PlayerRight)
	}

	for it := 0; it < w.posIters; it++ {
		for i := range w.bodies {
			w.correctBoundaryPosition(EntityID(i))
		}
		w.separate(Ball, PlayerLeft)
		w.separate(Ball, PlayerRight)
	}
}

// solveBoundaryVelocity bounces a body off ground and ceiling, and players
// additionally off the side walls. The walls have goal-mouth openings for the
// ball: it passes through and the driver turns that into a goal.
func (w *World) solveBoundaryVelocity(id EntityID) {
	b := &w.bodies[id]

	if b.Y < b.Radius && b.VY < 0 {
		b.VY = -b.VY * b.Restitution
		if math.Abs(b.VY) < RestSpeedLimit {
			b.VY = 0
		}
		// Coulomb-ish ground friction, tuning constant not a contract.
		b.VX *= 1 - b.Friction
	}
	if b.Y > w.height-b.Radius && b.VY > 0 {
		b.VY = -b.VY * b.Restitution
	}

	if id == Ball {
		return
	}
	if b.X < b.Radius && b.VX < 0 {
		b.VX = 0
	}
	if b.X > w.width-b.Radius && b.VX > 0 {
		b.VX = 0
	}
}

func (w *World) correctBoundaryPosition(id EntityID) {
	b := &w.bodies[id]
	if b.Y < b.Radius {
		b.Y = b.Radius
	}
	if b.Y > w.height-b.Radius {
		b.Y = w.height - b.Radius
	}
	if id == Ball {
		return
	}
	if b.X < b.Radius {
		b.X = b.Radius
	}
	if b.X > w.width-b.Radius {
		b.X = w.width - b.Radius
	}
}

// solveContactVelocity applies a normal impulse between two overlapping
// circles when they are approaching. Restitution combines as the max of the
// pair, matching common rigid-body solvers.
func (w *World) solveContactVelocity(a, bID EntityID) {
	ba := &w.bodies[a]
	bb := &w.bodies[bID]

	dx := bb.X - ba.X
	dy := bb.Y - ba.Y
	dist := math.Hypot(dx, dy)
	minDist := ba.Radius + bb.Radius
	if dist >= minDist || dist == 0 {
		return
	}
	nx := dx / dist
	ny := dy / dist

	rvx := bb.VX - ba.VX
	rvy := bb.VY - ba.VY
	along := rvx*nx + rvy*ny
	if along >= 0 {
		return // separating already
	}

	e := math.Max(ba.Restitution, bb.Restitution)
	invA := 1 / ba.mass()
	invB := 1 / bb.mass()
	j := -(1 + e) * along / (invA + invB)

	ba.VX -= j * nx * invA
	ba.VY -= j * ny * invA
	bb.VX += j * nx * invB
	bb.VY += j * ny * invB
}

// separate pushes two overlapping circles apart along the contact normal,
// weighted by inverse mass so the light ball moves more than a player.
func (w *World) separate(a, bID EntityID) {
	ba := &w.bodies[a]
	bb := &w.bodies[bID]

	dx := bb.X - ba.X
	dy := bb.Y - ba.Y
	dist := math.Hypot(dx, dy)
	minDist := ba.Radius + bb.Radius
	if dist >= minDist {
		return
	}
	nx, ny := 0.0, 1.0 // coincident centers push straight up
	if dist > 0 {
		nx = dx / dist
		ny = dy / dist
	}
	overlap := minDist - dist
	invA := 1 / ba.mass()
	invB := 1 / bb.mass()
	total := invA + invB
	ba.X -= nx * overlap * (invA / total)
	ba.Y -= ny * overlap * (invA / total)
	bb.X += nx * overlap * (invB / total)
	bb.Y += ny * overlap * (invB / total)
}
