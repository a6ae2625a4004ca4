package drape

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runScript(t *testing.T, s *Script, c *Cloth, frames int) {
	t.Helper()
	for i := 0; i < frames; i++ {
		if err := s.Drive(c, float64(i+1)*0.2, 0.2); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "unpin", "center": true},
			{"action": "move", "vertex": 1, "x": 1, "y": 2, "z": 3},
			{"action": "wait", "frames": 3},
			{"action": "gravity", "value": 1.2}
		]
	}`)

	s, err := LoadScript(data, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(s.steps))
	}
	if s.steps[0].Action != "unpin" || !s.steps[0].Center {
		t.Error("step 0 mismatch")
	}
	if s.steps[1].Vertex != 1 || s.steps[1].Y != 2 {
		t.Error("step 1 mismatch")
	}
	if s.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadScript_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `not json`, "parse script"},
		{"empty", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "explode"}]}`, "unknown action"},
		{"amplitude without oscillator", `{"steps": [{"action": "amplitude", "value": 3}]}`, "needs an oscillator"},
		{"period without oscillator", `{"steps": [{"action": "period", "value": 3}]}`, "needs an oscillator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestScriptRunsOneStepPerFrame(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "unpin", "center": true},
		{"action": "wait", "frames": 2},
		{"action": "gravity", "value": 1.5},
		{"action": "dissipation", "value": 0.01}
	]}`), nil)
	if err != nil {
		t.Fatal(err)
	}

	runScript(t, s, c, 1)
	if c.Vertices[c.CenterIndex()].Pinned() {
		t.Error("centre still pinned after frame 1")
	}

	// Two wait frames, then gravity.
	runScript(t, s, c, 2)
	if c.Config.Gravity() != 0 {
		t.Errorf("gravity applied during wait: %v", c.Config.Gravity())
	}
	runScript(t, s, c, 1)
	if !approxEqual(c.Config.Gravity(), 1.5, 1e-12) {
		t.Errorf("gravity = %v, want 1.5", c.Config.Gravity())
	}
	if s.Done() {
		t.Error("script done before last step")
	}

	runScript(t, s, c, 1)
	if !approxEqual(c.Config.Dissipation(), 0.01, 1e-12) {
		t.Errorf("dissipation = %v, want 0.01", c.Config.Dissipation())
	}
	if !s.Done() {
		t.Error("script not done after last step")
	}

	// Further frames are no-ops.
	runScript(t, s, c, 3)
}

func TestScriptMoveAndDrag(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "move", "vertex": 0, "y": 4},
		{"action": "drag", "vertex": 0, "y": 4},
		{"action": "move", "vertex": 1, "x": 1, "y": 1}
	]}`), nil)
	if err != nil {
		t.Fatal(err)
	}

	runScript(t, s, c, 1)
	if c.Vertices[0].Position != (Vec3{}) {
		t.Errorf("plain move relocated a pinned vertex: %+v", c.Vertices[0].Position)
	}
	runScript(t, s, c, 1)
	if c.Vertices[0].Position != (Vec3{Y: 4}) {
		t.Errorf("drag position = %+v, want (0,4,0)", c.Vertices[0].Position)
	}
	runScript(t, s, c, 1)
	if c.Vertices[1].Position != (Vec3{X: 1, Y: 1}) {
		t.Errorf("move position = %+v", c.Vertices[1].Position)
	}
}

func TestScriptTweenOutlivesSteps(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "gravity", "value": 2, "duration": 1}
	]}`), nil)
	if err != nil {
		t.Fatal(err)
	}

	runScript(t, s, c, 1)
	if s.Done() {
		t.Fatal("script done while tween is running")
	}
	for i := 0; i < 10 && !s.Done(); i++ {
		runScript(t, s, c, 1)
	}
	if !s.Done() {
		t.Fatal("tween never finished")
	}
	if !approxEqual(c.Config.Gravity(), 2, 1e-5) {
		t.Errorf("gravity = %v, want 2", c.Config.Gravity())
	}
}

func TestScriptOscillatorSteps(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	o := NewOscillator(c)
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "amplitude", "value": 4},
		{"action": "period", "value": 8}
	]}`), o)
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, s, c, 2)
	if o.Amplitude != 4 || o.Period != 8 {
		t.Errorf("oscillator = %+v", o)
	}
}

func TestScriptReset(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	c.SetGravity(1)
	for i := 0; i < 5; i++ {
		c.Step(0.2, nil)
	}
	s, _ := LoadScript([]byte(`{"steps": [{"action": "reset"}]}`), nil)
	runScript(t, s, c, 1)
	if c.Tick() != 0 || c.Vertices[1].Position != c.RestPosition(1) {
		t.Error("reset step did not restore the cloth")
	}
}

func TestScriptStepError(t *testing.T) {
	c := mustBuild(t, 3, 2, 1)
	s, _ := LoadScript([]byte(`{"steps": [{"action": "pin", "vertex": 50}]}`), nil)
	err := s.Drive(c, 0.2, 0.2)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if !strings.Contains(err.Error(), "script step 0 (pin)") {
		t.Errorf("err = %q, want step context", err)
	}
}

func TestBundledScriptsLoad(t *testing.T) {
	c := mustBuild(t, 27, 200, 0.001)
	for _, name := range []string{"drop.json", "lift.json"} {
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("examples", "_assets", name))
			if err != nil {
				t.Fatal(err)
			}
			s, err := LoadScript(data, NewOscillator(c))
			if err != nil {
				t.Fatal(err)
			}
			cp := c.Clone()
			for i := 0; i < 1000 && !s.Done(); i++ {
				if err := s.Drive(cp, float64(i)*0.2, 0.2); err != nil {
					t.Fatalf("frame %d: %v", i, err)
				}
				cp.Step(0.2, nil)
			}
			if !s.Done() {
				t.Error("script did not finish in 1000 frames")
			}
		})
	}
}
