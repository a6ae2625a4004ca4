package drape

import (
	"errors"
	"fmt"
)

const (
	// DefaultBaseMass is the total cloth mass spread across all vertices.
	DefaultBaseMass = 0.1
	// DefaultDissipation is the fraction of velocity lost per tick.
	DefaultDissipation = 0.002
	// GravityScale converts a gravity slider value into a per-vertex force:
	// StaticForce.Y = -slider * Mass / GravityScale.
	GravityScale = 100.0
)

var (
	ErrSideCount        = errors.New("drape: side count must be at least 2")
	ErrSideLength       = errors.New("drape: side length must be positive")
	ErrStiffness        = errors.New("drape: stiffness multiplier must be positive")
	ErrDamping          = errors.New("drape: damping must be in [0, 1)")
	ErrDegenerateSpring = errors.New("drape: spring endpoints coincide")
	ErrIndexOutOfRange  = errors.New("drape: vertex index out of range")
)

// Config holds the constants shared by every vertex and spring of one sheet.
// Build derives Mass and Stiffness from the mesh resolution; the shell may
// change StaticForce and Damping at any frame boundary.
type Config struct {
	// Mass of every vertex.
	Mass float64
	// StaticForce is applied to every unpinned vertex each tick (gravity).
	StaticForce Vec3
	// Damping is the fraction of the prior displacement retained per tick,
	// i.e. 1 - dissipation.
	Damping float64
	// Stiffness is the Hooke coefficient shared by all springs.
	Stiffness float64
	// Workers > 1 integrates vertices across that many goroutines.
	// Zero or one keeps the step single-threaded.
	Workers int
}

// Dissipation returns 1 - Damping.
func (c *Config) Dissipation() float64 {
	return 1 - c.Damping
}

// SetDissipation sets Damping to 1 - d. d must lie in (0, 1].
func (c *Config) SetDissipation(d float64) error {
	if d <= 0 || d > 1 {
		return fmt.Errorf("set dissipation %v: %w", d, ErrDamping)
	}
	c.Damping = 1 - d
	return nil
}

// SetGravity converts a gravity slider value into StaticForce. Positive
// values pull the cloth down (negative Y), scaled by vertex mass so the
// sheet sags the same way regardless of resolution.
func (c *Config) SetGravity(slider float64) {
	c.StaticForce = Vec3{Y: -slider * c.Mass / GravityScale}
}

// Gravity returns the slider value that SetGravity would need to produce
// the current StaticForce.Y.
func (c *Config) Gravity() float64 {
	if c.Mass == 0 {
		return 0
	}
	return -c.StaticForce.Y * GravityScale / c.Mass
}

// MeshConfig configures Build.
type MeshConfig struct {
	// SideCount is the number of vertices along each side (>= 2).
	SideCount int
	// SideLength is the rest length of each side of the sheet.
	SideLength float64
	// StiffnessMultiplier scales the resolution-normalised Hooke coefficient.
	StiffnessMultiplier float64
	// BaseMass is the total sheet mass. Zero means DefaultBaseMass.
	BaseMass float64
	// Dissipation is the fraction of velocity lost per tick.
	// Zero means DefaultDissipation.
	Dissipation float64
	// Workers is copied into Config.Workers.
	Workers int
}

func (mc *MeshConfig) validate() error {
	if mc.SideCount < 2 {
		return fmt.Errorf("build %d×%d mesh: %w", mc.SideCount, mc.SideCount, ErrSideCount)
	}
	if !(mc.SideLength > 0) {
		return fmt.Errorf("build mesh with side %v: %w", mc.SideLength, ErrSideLength)
	}
	if !(mc.StiffnessMultiplier > 0) {
		return fmt.Errorf("build mesh with stiffness %v: %w", mc.StiffnessMultiplier, ErrStiffness)
	}
	if mc.Dissipation < 0 || mc.Dissipation > 1 {
		return fmt.Errorf("build mesh with dissipation %v: %w", mc.Dissipation, ErrDamping)
	}
	return nil
}

// simConfig derives the per-vertex mass and per-spring stiffness so total
// sheet mass and restoring force stay roughly constant as SideCount grows.
func (mc *MeshConfig) simConfig() Config {
	n := float64(mc.SideCount)
	base := mc.BaseMass
	if base <= 0 {
		base = DefaultBaseMass
	}
	dissip := mc.Dissipation
	if dissip == 0 {
		dissip = DefaultDissipation
	}
	return Config{
		Mass:      base / (n * n),
		Damping:   1 - dissip,
		Stiffness: mc.StiffnessMultiplier * (n - 1) / (n * n),
		Workers:   mc.Workers,
	}
}
