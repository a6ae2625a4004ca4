// Package drape is a real-time cloth simulation built on a mass-spring
// network and explicit Verlet integration, with an optional [Ebitengine]
// front end.
//
// A cloth is a square grid of vertices joined by structural and shear
// springs. Each tick accumulates spring forces, integrates every free vertex
// and produces render-ready geometry: coloured line segments for a
// wireframe view or lit triangles for a shaded view.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	c, _ := drape.Build(drape.MeshConfig{SideCount: 27, SideLength: 200, StiffnessMultiplier: 0.001})
//	drape.Run(c, drape.RunConfig{
//		Title: "Cloth", Width: 800, Height: 600,
//		Oscillator: drape.NewOscillator(c),
//	})
//
// For headless use, drive a [Loop] yourself and read the geometry from its
// [Publisher]:
//
//	loop := &drape.Loop{Cloth: c, Drivers: []drape.Driver{drape.NewOscillator(c)}}
//	for i := 0; i < 100; i++ {
//		loop.Frame(0)
//	}
//	g := loop.Geometry()
//
// # Mesh
//
// [Build] lays out SideCount × SideCount vertices from the origin in the XZ
// plane. Every grid cell adds a vertical, a horizontal and one diagonal
// spring; the last row and column close the border. The four corners and
// the centre vertex start pinned.
//
// Per-vertex mass is BaseMass / SideCount², and spring stiffness is
// StiffnessMultiplier × (SideCount-1) / SideCount², so the cloth behaves
// about the same at any resolution.
//
// # Stepping
//
// [Cloth.Step] (or the free [Step]) runs one tick in two phases. First
// every spring adds its Hooke force to both endpoints in spring order. Then
// every vertex integrates:
//
//	next = prior × Damping + (StaticForce + Force) × dt² / Mass
//
// Pinned vertices never move, but their accumulators are cleared like the
// rest. The integration phase may run in parallel when Config.Workers is
// above one; results are identical to a serial run.
//
// # Pinning and moving
//
// [Cloth.PinVertex] and [Cloth.MoveVertex] are the only ways to change a
// vertex from outside the step. Pinning or unpinning zeroes the vertex's
// velocity. A move with override set relocates even a pinned vertex without
// touching its velocity, which is how the [Oscillator] and [Dragger] steer
// the cloth.
//
// # Geometry
//
// [Cloth.Extract] fills a reusable [Geometry] buffer. In [ModeWireframe]
// each spring becomes a segment coloured by its strain. In [ModeShaded]
// each grid cell becomes two triangles coloured by per-vertex force
// magnitude and carrying a face normal. Both ramps run from green at rest
// to red at saturation.
//
// # Drivers
//
// A [Driver] perturbs the cloth once per frame before the tick. [Oscillator]
// moves a vertex on a sine wave, [Tween] eases a parameter with gween,
// [Script] replays a JSON sequence of pins, moves and parameter changes,
// and [Dragger] follows a pointer through a harmonica spring.
//
// [Ebitengine]: https://ebitengine.org
package drape
