package drape

import "github.com/charmbracelet/harmonica"

const (
	// DefaultPickRadius is how close, in pixels, a pointer must be to a
	// projected vertex to grab it.
	DefaultPickRadius = 12.0
	dragFrequency     = 8.0
	dragDamping       = 1.0 // critically damped
)

// Dragger lets a pointer grab a vertex and pull it around in the camera's
// screen plane. The grabbed vertex is pinned while held and follows the
// pointer through a critically damped spring, so fast pointer motion does
// not inject a velocity spike into the cloth. On release the vertex returns
// to its previous pin state, which zeroes its prior displacement.
//
// Dragger implements Driver; place it after scripted drivers so a drag
// wins over an oscillator on the same vertex.
type Dragger struct {
	Camera     *Camera
	PickRadius float64

	spring    harmonica.Spring
	index     int
	wasPinned bool
	depth     float64
	target    Vec3
	pos, vel  Vec3
}

// NewDragger returns a dragger that smooths at the given frame rate.
func NewDragger(cam *Camera, fps int) *Dragger {
	return &Dragger{
		Camera:     cam,
		PickRadius: DefaultPickRadius,
		spring:     harmonica.NewSpring(harmonica.FPS(fps), dragFrequency, dragDamping),
		index:      -1,
	}
}

// Active reports whether a vertex is currently held.
func (d *Dragger) Active() bool {
	return d.index >= 0
}

// Index returns the held vertex, or -1.
func (d *Dragger) Index() int {
	return d.index
}

// Grab picks the vertex under (sx, sy) and pins it. It reports whether a
// vertex was grabbed.
func (d *Dragger) Grab(c *Cloth, sx, sy float64) bool {
	if d.Active() {
		return true
	}
	idx, depth, ok := d.Camera.Pick(c.Vertices, sx, sy, d.PickRadius)
	if !ok {
		return false
	}
	d.index = idx
	d.depth = depth
	d.wasPinned = c.Vertices[idx].Pinned()
	d.pos = c.Vertices[idx].Position
	d.target = d.pos
	d.vel = Vec3{}
	if !d.wasPinned {
		if err := c.PinVertex(idx, true); err != nil {
			d.index = -1
			return false
		}
	}
	return true
}

// MoveTo sets the pointer position. The vertex follows on the next Drive.
func (d *Dragger) MoveTo(sx, sy float64) {
	if !d.Active() {
		return
	}
	d.target = d.Camera.Unproject(sx, sy, d.depth)
}

// Release lets go of the held vertex and restores its pin state.
func (d *Dragger) Release(c *Cloth) error {
	if !d.Active() {
		return nil
	}
	idx := d.index
	d.index = -1
	return c.PinVertex(idx, d.wasPinned)
}

// Drive moves the held vertex one spring step toward the pointer target.
func (d *Dragger) Drive(c *Cloth, _, _ float64) error {
	if !d.Active() {
		return nil
	}
	d.pos.X, d.vel.X = d.spring.Update(d.pos.X, d.vel.X, d.target.X)
	d.pos.Y, d.vel.Y = d.spring.Update(d.pos.Y, d.vel.Y, d.target.Y)
	d.pos.Z, d.vel.Z = d.spring.Update(d.pos.Z, d.vel.Z, d.target.Z)
	return c.MoveVertex(d.index, d.pos, true)
}
