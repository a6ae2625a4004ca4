package drape

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// minVerticesPerWorker keeps goroutine overhead below the integration cost
// on small grids.
const minVerticesPerWorker = 256

// Step advances the sheet by one tick of length dt. Every spring adds its
// force before any vertex integrates. A non-nil ext replaces
// cfg.StaticForce before integration.
//
// dt is not clamped; an overly large dt makes the explicit integrator
// diverge.
func Step(vertices []Vertex, springs []Spring, cfg *Config, dt float64, ext *Vec3) {
	accumulate(vertices, springs, cfg.Stiffness)
	if ext != nil {
		cfg.StaticForce = *ext
	}
	integrate(vertices, cfg, dt)
}

// accumulate runs every spring once. Springs sharing a vertex add into the
// same accumulator, so this stays serial.
func accumulate(vertices []Vertex, springs []Spring, stiffness float64) {
	for i := range springs {
		springs[i].Update(vertices, stiffness)
	}
}

// integrate runs every vertex once, fanning out over contiguous index
// ranges when cfg.Workers > 1. Vertices are independent here, so the result
// does not depend on the worker count.
func integrate(vertices []Vertex, cfg *Config, dt float64) {
	workers := cfg.Workers
	if limit := len(vertices) / minVerticesPerWorker; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		for i := range vertices {
			vertices[i].Integrate(dt, cfg)
		}
		return
	}

	chunk := (len(vertices) + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < len(vertices); lo += chunk {
		hi := min(lo+chunk, len(vertices))
		part := vertices[lo:hi]
		g.Go(func() error {
			for i := range part {
				part[i].Integrate(dt, cfg)
			}
			return nil
		})
	}
	// Integrate cannot fail, so every worker returns nil; Wait only joins.
	_ = g.Wait()
}

// Step advances the cloth by one tick. See the package-level Step.
func (c *Cloth) Step(dt float64, ext *Vec3) {
	var t0, t1 time.Time
	if c.debug {
		t0 = time.Now()
	}
	accumulate(c.Vertices, c.Springs, c.Config.Stiffness)
	if ext != nil {
		c.Config.StaticForce = *ext
	}
	if c.debug {
		t1 = time.Now()
	}
	integrate(c.Vertices, &c.Config, dt)
	c.tick++

	if c.debug {
		c.stats.springTime = t1.Sub(t0)
		c.stats.integrateTime = time.Since(t1)
		c.debugLog()
		c.debugCheckFinite()
	}
	c.emit(Event{Type: EventStep, Vertex: -1, Tick: c.tick})
}
