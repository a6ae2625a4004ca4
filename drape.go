package drape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector used for positions, displacements and forces.
// The cloth lies in the XZ plane at rest; Y is height. The algebra is done
// by mgl64; Vec3 keeps named fields so vertices read as Position.Y.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) vec() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func fromVec(m mgl64.Vec3) Vec3 { return Vec3{m[0], m[1], m[2]} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return fromVec(v.vec().Add(o.vec())) }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return fromVec(v.vec().Sub(o.vec())) }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return fromVec(v.vec().Mul(s)) }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return v.Scale(-1) }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.vec().Dot(o.vec()) }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 { return fromVec(v.vec().Cross(o.vec())) }

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return v.vec().Len() }

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// Normalize returns v scaled to unit length. A zero vector is returned as-is.
func (v Vec3) Normalize() Vec3 {
	if v.vec().LenSqr() < 1e-24 {
		return v
	}
	return fromVec(v.vec().Normalize())
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// RenderMode selects which primitive set the geometry extractor produces.
type RenderMode uint8

const (
	ModeWireframe RenderMode = iota // one line segment per spring
	ModeShaded                      // two lit triangles per grid cell
)

// String returns the lowercase mode name.
func (m RenderMode) String() string {
	switch m {
	case ModeWireframe:
		return "wireframe"
	case ModeShaded:
		return "shaded"
	default:
		return "unknown"
	}
}
