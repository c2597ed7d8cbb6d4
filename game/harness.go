package game

// Test harness hooks. The production mutation path is ApplyCommand/Step;
// these exist so driver and replay tests can stage situations (a ball headed
// for a goal line) without simulating a whole rally.

// SetVelocityForTest overrides a body's velocity.
func (w *World) SetVelocityForTest(id EntityID, vx, vy float64) {
	if !id.valid() {
		return
	}
	w.bodies[id].VX = vx
	w.bodies[id].VY = vy
}

// SetPositionForTest overrides a body's position.
func (w *World) SetPositionForTest(id EntityID, x, y float64) {
	if !id.valid() {
		return
	}
	w.bodies[id].X = x
	w.bodies[id].Y = y
}
