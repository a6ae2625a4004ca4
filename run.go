package drape

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Mode          RenderMode
	// ShowFPS draws FPS, TPS and the current slider values in the corner.
	ShowFPS bool
	// TimeStep is the fixed tick length. Ignored when RealTime is set.
	TimeStep float64
	// RealTime derives each tick from wall-clock frame time (ms × 0.01)
	// instead of a fixed step.
	RealTime bool
	// Oscillator, when set, is driven every frame and exposed to the
	// amplitude and period keys.
	Oscillator *Oscillator
	// Drivers run after the oscillator and before pointer drag.
	Drivers []Driver
	// Publisher, when set, also receives every frame.
	Publisher Publisher
	// ClearColor fills the screen before drawing.
	ClearColor Color
}

// Slider is a bounded, stepped value adjusted from the keyboard.
type Slider struct {
	Value, Min, Max, Step float64
}

// Nudge moves the value by n steps and clamps it to [Min, Max].
func (s *Slider) Nudge(n int) float64 {
	s.Value = math.Max(s.Min, math.Min(s.Max, s.Value+float64(n)*s.Step))
	return s.Value
}

// runSliders are the parameters tunable from the keyboard in Run.
type runSliders struct {
	gravity     Slider
	dissipation Slider
	amplitude   Slider
	period      Slider
	// shift is the camera translation along X, Y and Z.
	shift [3]Slider
}

// translateKeys moves the camera translation while held: J/L along X,
// K/I along Y and U/O along Z.
var translateKeys = [3][2]ebiten.Key{
	{ebiten.KeyJ, ebiten.KeyL},
	{ebiten.KeyK, ebiten.KeyI},
	{ebiten.KeyU, ebiten.KeyO},
}

// translate nudges each translation slider by the held keys and copies the
// result into cam.Translation.
func (s *runSliders) translate(cam *Camera, pressed func(ebiten.Key) bool) {
	for axis, keys := range translateKeys {
		n := 0
		if pressed(keys[0]) {
			n--
		}
		if pressed(keys[1]) {
			n++
		}
		if n != 0 {
			s.shift[axis].Nudge(n)
		}
	}
	cam.Translation = Vec3{s.shift[0].Value, s.shift[1].Value, s.shift[2].Value}
}

func newRunSliders(c *Cloth, osc *Oscillator) runSliders {
	s := runSliders{
		gravity:     Slider{Value: c.Config.Gravity(), Min: -2, Max: 2, Step: 0.2},
		dissipation: Slider{Value: c.Config.Dissipation(), Min: 0.002, Max: 0.1, Step: 0.002},
		amplitude:   Slider{Value: DefaultAmplitude, Min: 0, Max: c.SideLength() / 2, Step: 1},
		period:      Slider{Value: DefaultPeriod, Min: 1, Max: 30, Step: 1},
	}
	for i := range s.shift {
		s.shift[i] = Slider{Min: -c.SideLength() * 2, Max: c.SideLength() * 2, Step: c.SideLength() / 100}
	}
	if osc != nil {
		s.amplitude.Value = osc.Amplitude
		s.period.Value = osc.Period
	}
	return s
}

type runGame struct {
	cfg      RunConfig
	cloth    *Cloth
	loop     *Loop
	renderer *Renderer
	dragger  *Dragger
	sliders  runSliders
	clock    FrameClock
	start    time.Time
	paused   bool
}

// Run opens a window and animates c until the window is closed. Mouse drag
// pulls vertices; keys adjust the shared parameters:
//
//	G / shift+G  gravity          D / shift+D  dissipation
//	A / shift+A  amplitude        P / shift+P  period
//	arrows, Q/E  rotate           I/J/K/L U/O  translate
//	W            wireframe/shaded
//	R            reset            space        pause
func Run(c *Cloth, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Title == "" {
		cfg.Title = "drape"
	}

	cam := NewCamera(c, cfg.Width, cfg.Height)
	g := &runGame{
		cfg:      cfg,
		cloth:    c,
		renderer: NewRenderer(cam),
		dragger:  NewDragger(cam, ebiten.TPS()),
		sliders:  newRunSliders(c, cfg.Oscillator),
		start:    time.Now(),
	}

	var drivers []Driver
	if cfg.Oscillator != nil {
		drivers = append(drivers, cfg.Oscillator)
	}
	drivers = append(drivers, cfg.Drivers...)
	drivers = append(drivers, g.dragger)

	g.loop = &Loop{
		Cloth:     c,
		Drivers:   drivers,
		Publisher: cfg.Publisher,
		Mode:      cfg.Mode,
		TimeStep:  cfg.TimeStep,
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func keyStep() int {
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		return -1
	}
	return 1
}

func (g *runGame) handleKeys() error {
	cam := g.renderer.Camera
	const rotStep = math.Pi / 90
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		cam.Rotation.Y -= rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		cam.Rotation.Y += rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		cam.Rotation.X -= rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		cam.Rotation.X += rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		cam.Rotation.Z -= rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		cam.Rotation.Z += rotStep
	}
	g.sliders.translate(cam, ebiten.IsKeyPressed)

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.cloth.SetGravity(g.sliders.gravity.Nudge(keyStep()))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		if err := g.cloth.SetDissipation(g.sliders.dissipation.Nudge(keyStep())); err != nil {
			return err
		}
	}
	if osc := g.cfg.Oscillator; osc != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyA) {
			osc.Amplitude = g.sliders.amplitude.Nudge(keyStep())
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			osc.Period = g.sliders.period.Nudge(keyStep())
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		if g.loop.Mode == ModeShaded {
			g.loop.Mode = ModeWireframe
		} else {
			g.loop.Mode = ModeShaded
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.dragger.Release(g.cloth); err != nil {
			return err
		}
		g.cloth.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	return nil
}

func (g *runGame) handlePointer() error {
	x, y := ebiten.CursorPosition()
	sx, sy := float64(x), float64(y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.dragger.Grab(g.cloth, sx, sy)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		return g.dragger.Release(g.cloth)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.dragger.MoveTo(sx, sy)
	}
	return nil
}

func (g *runGame) Update() error {
	if err := g.handleKeys(); err != nil {
		return err
	}
	if err := g.handlePointer(); err != nil {
		return err
	}
	if g.paused {
		return nil
	}

	dt := 0.0
	if g.cfg.RealTime {
		dt = g.clock.Advance(float64(time.Since(g.start).Milliseconds()))
		if dt <= 0 {
			return nil
		}
	}
	return g.loop.Frame(dt)
}

func (g *runGame) Draw(screen *ebiten.Image) {
	cc := g.cfg.ClearColor
	screen.Fill(color.RGBA{
		R: uint8(cc.R * 255), G: uint8(cc.G * 255), B: uint8(cc.B * 255), A: 255,
	})
	g.renderer.Prepare(g.loop.Geometry())
	g.renderer.Draw(screen)

	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f\nTPS: %.1f\ntick: %d\ngravity: %.1f\ndissipation: %.3f\namplitude: %.0f\nperiod: %.0f\nmode: %s",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.cloth.Tick(),
			g.sliders.gravity.Value, g.sliders.dissipation.Value,
			g.sliders.amplitude.Value, g.sliders.period.Value, g.loop.Mode))
	}
}

func (g *runGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.Camera.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
