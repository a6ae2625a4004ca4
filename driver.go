package drape

import (
	"fmt"
	"math"
)

// Driver perturbs a cloth once per frame, before the physics tick. now is
// the accumulated simulation time including the current frame's dt.
type Driver interface {
	Drive(c *Cloth, now, dt float64) error
}

// DriverFunc adapts a plain function to the Driver interface.
type DriverFunc func(c *Cloth, now, dt float64) error

// Drive calls f.
func (f DriverFunc) Drive(c *Cloth, now, dt float64) error {
	return f(c, now, dt)
}

const (
	DefaultAmplitude = 10.0
	DefaultPeriod    = 16.0
)

// Oscillator moves one vertex up and down on a sine wave:
// Y = Amplitude * sin(now / Period). X and Z are kept. The move always
// overrides pinning, so the usual target is the pinned centre vertex.
type Oscillator struct {
	Index     int
	Amplitude float64
	Period    float64
}

// NewOscillator returns an oscillator on the cloth's centre vertex with the
// default amplitude and period.
func NewOscillator(c *Cloth) *Oscillator {
	return &Oscillator{
		Index:     c.CenterIndex(),
		Amplitude: DefaultAmplitude,
		Period:    DefaultPeriod,
	}
}

// Height returns the oscillator's target height at time now.
func (o *Oscillator) Height(now float64) float64 {
	if o.Period == 0 {
		return 0
	}
	return o.Amplitude * math.Sin(now/o.Period)
}

// Drive moves the target vertex to its height for now.
func (o *Oscillator) Drive(c *Cloth, now, _ float64) error {
	if o.Index < 0 || o.Index >= len(c.Vertices) {
		return fmt.Errorf("oscillate vertex %d: %w", o.Index, ErrIndexOutOfRange)
	}
	p := c.Vertices[o.Index].Position
	return c.MoveVertex(o.Index, Vec3{X: p.X, Y: o.Height(now), Z: p.Z}, true)
}
