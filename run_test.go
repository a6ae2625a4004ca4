package drape

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestSliderNudge(t *testing.T) {
	s := Slider{Value: 0, Min: -2, Max: 2, Step: 0.2}
	if got := s.Nudge(1); !approxEqual(got, 0.2, 1e-12) {
		t.Errorf("Nudge(1) = %v, want 0.2", got)
	}
	if got := s.Nudge(-2); !approxEqual(got, -0.2, 1e-12) {
		t.Errorf("Nudge(-2) = %v, want -0.2", got)
	}
	if got := s.Nudge(100); got != 2 {
		t.Errorf("Nudge(100) = %v, want clamp to 2", got)
	}
	if got := s.Nudge(-100); got != -2 {
		t.Errorf("Nudge(-100) = %v, want clamp to -2", got)
	}
}

func TestRunSliders(t *testing.T) {
	c := mustBuild(t, 27, 200, 0.001)
	s := newRunSliders(c, nil)
	if s.amplitude.Max != 100 {
		t.Errorf("amplitude max = %v, want half the side", s.amplitude.Max)
	}
	if !approxEqual(s.dissipation.Value, DefaultDissipation, 1e-12) {
		t.Errorf("dissipation = %v", s.dissipation.Value)
	}
	if s.gravity.Min != -2 || s.gravity.Max != 2 {
		t.Errorf("gravity range = [%v, %v]", s.gravity.Min, s.gravity.Max)
	}

	o := &Oscillator{Amplitude: 25, Period: 7}
	s = newRunSliders(c, o)
	if s.amplitude.Value != 25 || s.period.Value != 7 {
		t.Errorf("oscillator sliders = %v, %v", s.amplitude.Value, s.period.Value)
	}
}

func TestRunSlidersTranslate(t *testing.T) {
	c := mustBuild(t, 3, 200, 1)
	cam := NewCamera(c, 800, 600)
	s := newRunSliders(c, nil)

	held := map[ebiten.Key]bool{ebiten.KeyL: true, ebiten.KeyK: true}
	pressed := func(k ebiten.Key) bool { return held[k] }
	for i := 0; i < 3; i++ {
		s.translate(cam, pressed)
	}
	if want := (Vec3{X: 6, Y: -6}); !vecApprox(cam.Translation, want, 1e-9) {
		t.Errorf("Translation = %+v, want %+v", cam.Translation, want)
	}

	held = map[ebiten.Key]bool{ebiten.KeyO: true, ebiten.KeyU: true}
	s.translate(cam, pressed)
	if cam.Translation.Z != 0 {
		t.Errorf("opposite keys moved Z to %v", cam.Translation.Z)
	}

	held = map[ebiten.Key]bool{ebiten.KeyO: true}
	for i := 0; i < 1000; i++ {
		s.translate(cam, pressed)
	}
	if cam.Translation.Z != 400 {
		t.Errorf("Z = %v, want clamp at 400", cam.Translation.Z)
	}
}
