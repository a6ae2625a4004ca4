package drape

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action   string  `json:"action"`
	Vertex   int     `json:"vertex,omitempty"`
	Center   bool    `json:"center,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Z        float64 `json:"z,omitempty"`
	Override bool    `json:"override,omitempty"`
	Value    float64 `json:"value,omitempty"`
	Duration float32 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"pin": true, "unpin": true, "move": true, "drag": true,
	"gravity": true, "dissipation": true, "amplitude": true, "period": true,
	"reset": true, "wait": true,
}

// Script sequences pin, move and parameter changes across frames for
// headless or reproducible runs. It executes one step per frame; "wait"
// holds for a number of frames. Parameter steps with a duration start a
// tween that keeps running alongside later steps.
//
// Supported actions:
//
//	pin, unpin          vertex | center
//	move, drag          vertex | center, x, y, z (drag overrides pinning)
//	gravity             value [, duration]
//	dissipation         value [, duration]
//	amplitude, period   value (requires an oscillator)
//	reset
//	wait                frames
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	osc       *Oscillator
	tweens    []*Tween
}

// LoadScript parses a JSON script. osc may be nil when the script does not
// use amplitude or period steps.
func LoadScript(jsonData []byte, osc *Oscillator) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		if (st.Action == "amplitude" || st.Action == "period") && osc == nil {
			return nil, fmt.Errorf("parse script: step %d: %s needs an oscillator", i, st.Action)
		}
	}
	return &Script{steps: f.Steps, osc: osc}, nil
}

// Done reports whether every step has run and every tween has finished.
func (s *Script) Done() bool {
	return s.done && len(s.tweens) == 0
}

// Drive advances the script by one frame.
func (s *Script) Drive(c *Cloth, now, dt float64) error {
	if err := s.driveTweens(c, now, dt); err != nil {
		return err
	}
	if s.done {
		return nil
	}
	if s.waitCount > 0 {
		s.waitCount--
		return nil
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return nil
	}

	st := s.steps[s.cursor]
	s.cursor++
	if err := s.exec(c, st); err != nil {
		return fmt.Errorf("script step %d (%s): %w", s.cursor-1, st.Action, err)
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
	return nil
}

func (s *Script) driveTweens(c *Cloth, now, dt float64) error {
	live := s.tweens[:0]
	for _, tw := range s.tweens {
		if err := tw.Drive(c, now, dt); err != nil {
			return err
		}
		if !tw.Done {
			live = append(live, tw)
		}
	}
	s.tweens = live
	return nil
}

func (s *Script) exec(c *Cloth, st scriptStep) error {
	idx := st.Vertex
	if st.Center {
		idx = c.CenterIndex()
	}
	switch st.Action {
	case "pin":
		return c.PinVertex(idx, true)
	case "unpin":
		return c.PinVertex(idx, false)
	case "move":
		return c.MoveVertex(idx, Vec3{st.X, st.Y, st.Z}, st.Override)
	case "drag":
		return c.MoveVertex(idx, Vec3{st.X, st.Y, st.Z}, true)
	case "gravity":
		if st.Duration > 0 {
			s.tweens = append(s.tweens, TweenGravity(c, st.Value, st.Duration, ease.InOutSine))
			return nil
		}
		c.SetGravity(st.Value)
	case "dissipation":
		if st.Duration > 0 {
			s.tweens = append(s.tweens, TweenDissipation(c, st.Value, st.Duration, ease.InOutSine))
			return nil
		}
		return c.SetDissipation(st.Value)
	case "amplitude":
		if st.Duration > 0 {
			s.tweens = append(s.tweens, TweenAmplitude(s.osc, st.Value, st.Duration, ease.InOutSine))
			return nil
		}
		s.osc.Amplitude = st.Value
	case "period":
		s.osc.Period = st.Value
	case "reset":
		c.Reset()
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	return nil
}
