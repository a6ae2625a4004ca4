package drape

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween eases a single float64 parameter toward a target and applies it
// through a setter each frame. It implements Driver so it can sit in a
// Loop's driver list; once finished it becomes a no-op.
//
// There is no global animation manager: a Loop or the caller advances it.
type Tween struct {
	tween *gween.Tween
	apply func(c *Cloth, v float64) error
	Done  bool
}

// NewTween creates a tween from one value to another over duration
// (simulation time units) using fn. apply receives each eased value.
func NewTween(from, to float64, duration float32, fn ease.TweenFunc, apply func(c *Cloth, v float64) error) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{
		tween: gween.New(float32(from), float32(to), duration, fn),
		apply: apply,
	}
}

// Drive advances the tween by dt and applies the eased value.
func (t *Tween) Drive(c *Cloth, _, dt float64) error {
	if t.Done {
		return nil
	}
	val, finished := t.tween.Update(float32(dt))
	t.Done = finished
	return t.apply(c, float64(val))
}

// TweenGravity ramps the gravity slider value from its current setting to
// the target.
func TweenGravity(c *Cloth, to float64, duration float32, fn ease.TweenFunc) *Tween {
	return NewTween(c.Config.Gravity(), to, duration, fn, func(c *Cloth, v float64) error {
		c.SetGravity(v)
		return nil
	})
}

// TweenDissipation ramps the per-tick dissipation to the target.
func TweenDissipation(c *Cloth, to float64, duration float32, fn ease.TweenFunc) *Tween {
	return NewTween(c.Config.Dissipation(), to, duration, fn, func(c *Cloth, v float64) error {
		return c.SetDissipation(v)
	})
}

// TweenAmplitude ramps an oscillator's amplitude to the target.
func TweenAmplitude(o *Oscillator, to float64, duration float32, fn ease.TweenFunc) *Tween {
	return NewTween(o.Amplitude, to, duration, fn, func(_ *Cloth, v float64) error {
		o.Amplitude = v
		return nil
	})
}
