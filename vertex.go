package drape

// Vertex is a point mass of the cloth. Its velocity is implicit: the
// displacement applied during the previous tick stands in for velocity × dt.
type Vertex struct {
	// Position is the current location of the vertex.
	Position Vec3
	// Force accumulates spring forces during a tick. Integrate clears it.
	Force Vec3
	// ForceMagnitude is |Force| as it was when the last tick integrated.
	// Used for colouring only.
	ForceMagnitude float64

	prior  Vec3
	pinned bool
}

// NewVertex returns an unpinned vertex at rest at pos.
func NewVertex(pos Vec3) Vertex {
	return Vertex{Position: pos}
}

// Pinned reports whether the vertex is excluded from force-driven motion.
func (v *Vertex) Pinned() bool {
	return v.pinned
}

// PriorDisplacement returns the displacement applied by the previous tick
// or by the last external Move of an unpinned vertex.
func (v *Vertex) PriorDisplacement() Vec3 {
	return v.prior
}

// Move places the vertex at pos. An unpinned vertex records the jump as its
// prior displacement so inertia carries it through the next ticks. A pinned
// vertex only moves when override is set, and keeps its prior displacement.
func (v *Vertex) Move(pos Vec3, override bool) {
	if v.pinned {
		if !override {
			return
		}
		v.Position = pos
		return
	}
	v.prior = pos.Sub(v.Position)
	v.Position = pos
}

// Pin sets the pinned flag. The prior displacement is always zeroed so a
// released vertex does not resume with a stale velocity.
func (v *Vertex) Pin(pinned bool) {
	v.pinned = pinned
	v.prior = Vec3{}
}

// Integrate advances an unpinned vertex by one explicit Verlet tick:
//
//	next = prior*Damping + (StaticForce + Force) * dt²/Mass
//
// The force magnitude is snapshotted before Force is cleared. A pinned vertex
// neither moves nor updates ForceMagnitude, so anchors keep their last free
// colour; its accumulator is still cleared so no force carries over.
func (v *Vertex) Integrate(dt float64, cfg *Config) {
	if v.pinned {
		v.Force = Vec3{}
		return
	}
	total := cfg.StaticForce.Add(v.Force)
	scale := dt * dt / cfg.Mass
	next := v.prior.Scale(cfg.Damping).Add(total.Scale(scale))
	v.Position = v.Position.Add(next)
	v.prior = next
	v.ForceMagnitude = v.Force.Len()
	v.Force = Vec3{}
}
