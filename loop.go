package drape

import (
	"context"
	"fmt"
)

// DefaultTimeStep is the fixed tick length used when a Loop has none set.
const DefaultTimeStep = 0.2

// Frame is what a Loop hands to its Publisher after each tick. Geometry is
// owned by the Loop and overwritten on the next frame; publishers that keep
// it must copy.
type Frame struct {
	Tick     int
	Time     float64
	Geometry *Geometry
}

// Publisher consumes the geometry produced by each frame.
type Publisher interface {
	Publish(f Frame) error
}

// PublisherFunc adapts a plain function to the Publisher interface.
type PublisherFunc func(f Frame) error

// Publish calls f.
func (f PublisherFunc) Publish(fr Frame) error {
	return f(fr)
}

// Loop runs the per-frame body: drivers perturb the cloth, the cloth steps
// once, geometry is extracted and published.
type Loop struct {
	Cloth     *Cloth
	Drivers   []Driver
	Publisher Publisher
	Mode      RenderMode
	// TimeStep is used by Run and by Frame(0). Zero means DefaultTimeStep.
	TimeStep float64

	now  float64
	geom Geometry
}

// Now returns the accumulated simulation time.
func (l *Loop) Now() float64 {
	return l.now
}

// Geometry returns the geometry extracted by the last frame.
func (l *Loop) Geometry() *Geometry {
	return &l.geom
}

func (l *Loop) timeStep() float64 {
	if l.TimeStep > 0 {
		return l.TimeStep
	}
	return DefaultTimeStep
}

// Frame runs one loop body with tick length dt. dt <= 0 uses the loop's
// fixed TimeStep.
func (l *Loop) Frame(dt float64) error {
	if dt <= 0 {
		dt = l.timeStep()
	}
	l.now += dt
	for _, d := range l.Drivers {
		if err := d.Drive(l.Cloth, l.now, dt); err != nil {
			return fmt.Errorf("frame %d: %w", l.Cloth.Tick()+1, err)
		}
	}
	l.Cloth.Step(dt, nil)
	l.Cloth.Extract(&l.geom, l.Mode)
	if l.Publisher == nil {
		return nil
	}
	if err := l.Publisher.Publish(Frame{Tick: l.Cloth.Tick(), Time: l.now, Geometry: &l.geom}); err != nil {
		return fmt.Errorf("publish frame %d: %w", l.Cloth.Tick(), err)
	}
	return nil
}

// Run calls Frame with the fixed TimeStep until ctx is done, frames frames
// have run (0 means no limit) or a frame fails. Cancellation is checked
// between frames only; a started tick always completes.
func (l *Loop) Run(ctx context.Context, frames int) error {
	for i := 0; frames == 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := l.Frame(0); err != nil {
			return err
		}
	}
	return nil
}

// FrameClockScale converts host milliseconds into simulation time units.
const FrameClockScale = 0.01

// FrameClock turns host animation timestamps (milliseconds) into per-frame
// simulation time steps.
type FrameClock struct {
	then    float64
	started bool
}

// Advance records nowMillis and returns the elapsed simulation time since
// the previous call. The first call returns zero.
func (fc *FrameClock) Advance(nowMillis float64) float64 {
	now := nowMillis * FrameClockScale
	if !fc.started {
		fc.started = true
		fc.then = now
		return 0
	}
	dt := now - fc.then
	fc.then = now
	return dt
}
