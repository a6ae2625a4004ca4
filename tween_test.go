package drape

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenGravityLinear(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	tw := TweenGravity(c, 2, 1.0, ease.Linear)

	if err := tw.Drive(c, 0.5, 0.5); err != nil {
		t.Fatal(err)
	}
	if !approxEqual(c.Config.Gravity(), 1, 1e-6) {
		t.Errorf("halfway gravity = %v, want 1", c.Config.Gravity())
	}
	if tw.Done {
		t.Error("tween finished early")
	}

	if err := tw.Drive(c, 1.0, 0.5); err != nil {
		t.Fatal(err)
	}
	if !approxEqual(c.Config.Gravity(), 2, 1e-6) {
		t.Errorf("final gravity = %v, want 2", c.Config.Gravity())
	}
	if !tw.Done {
		t.Error("tween not done after full duration")
	}

	// Finished tweens no longer apply.
	c.SetGravity(0)
	if err := tw.Drive(c, 1.5, 0.5); err != nil {
		t.Fatal(err)
	}
	if c.Config.Gravity() != 0 {
		t.Errorf("finished tween still applied: %v", c.Config.Gravity())
	}
}

func TestTweenDissipation(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	tw := TweenDissipation(c, 0.05, 0.4, nil)
	for !tw.Done {
		if err := tw.Drive(c, 0, 0.2); err != nil {
			t.Fatal(err)
		}
	}
	if !approxEqual(c.Config.Dissipation(), 0.05, 1e-6) {
		t.Errorf("dissipation = %v, want 0.05", c.Config.Dissipation())
	}
}

func TestTweenDissipationRejectsInvalid(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	tw := TweenDissipation(c, 0, 0.2, nil)
	if err := tw.Drive(c, 0, 0.2); err == nil {
		t.Error("expected error for zero dissipation")
	}
}

func TestTweenAmplitude(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	o := NewOscillator(c)
	tw := TweenAmplitude(o, 30, 1, ease.Linear)
	_ = tw.Drive(c, 0, 0.25)
	if !approxEqual(o.Amplitude, 15, 1e-4) {
		t.Errorf("Amplitude = %v, want 15", o.Amplitude)
	}
}
