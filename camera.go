package drape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective orbit camera. The cloth is first rotated about
// Target by Rotation (X, then Y, then Z, in radians) and shifted by
// Translation; the result is viewed from Eye looking at Target.
type Camera struct {
	Eye, Target, Up Vec3
	// FOV is the vertical field of view in radians.
	FOV       float64
	Near, Far float64
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	Rotation    Vec3
	Translation Vec3
}

// NewCamera returns a camera framing a cloth of the given side length laid
// out from the origin in the XZ plane, with a 60° field of view.
func NewCamera(c *Cloth, width, height int) *Camera {
	half := c.SideLength() / 2
	target := Vec3{X: half, Z: half}
	return &Camera{
		Eye:    target.Add(Vec3{X: c.SideLength() * 0.5, Y: c.SideLength() * 0.75, Z: c.SideLength()}),
		Target: target,
		Up:     Vec3{Y: 1},
		FOV:    mgl64.DegToRad(60),
		Near:   1,
		Far:    1000 + c.SideLength()*4,
		Width:  float64(width),
		Height: float64(height),
	}
}

// SetViewport updates the viewport size.
func (cam *Camera) SetViewport(width, height int) {
	cam.Width = float64(width)
	cam.Height = float64(height)
}

// Model returns the cloth-to-world matrix: rotate about Target, then
// translate.
func (cam *Camera) Model() mgl64.Mat4 {
	pivot := cam.Target.vec()
	return mgl64.Translate3D(cam.Translation.X+pivot[0], cam.Translation.Y+pivot[1], cam.Translation.Z+pivot[2]).
		Mul4(mgl64.HomogRotate3DX(cam.Rotation.X)).
		Mul4(mgl64.HomogRotate3DY(cam.Rotation.Y)).
		Mul4(mgl64.HomogRotate3DZ(cam.Rotation.Z)).
		Mul4(mgl64.Translate3D(-pivot[0], -pivot[1], -pivot[2]))
}

// View returns the world-to-eye matrix.
func (cam *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(cam.Eye.vec(), cam.Target.vec(), cam.Up.vec())
}

// Projection returns the perspective matrix for the current viewport.
func (cam *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(cam.FOV, cam.Width/cam.Height, cam.Near, cam.Far)
}

// viewProjection is a Camera frozen for one frame so per-vertex projection
// does not rebuild the matrices.
type viewProjection struct {
	model, modelview, proj mgl64.Mat4
	width, height          int
	near, far              float64
}

func (cam *Camera) freeze() viewProjection {
	model := cam.Model()
	return viewProjection{
		model:     model,
		modelview: cam.View().Mul4(model),
		proj:      cam.Projection(),
		width:     int(cam.Width),
		height:    int(cam.Height),
		near:      cam.Near,
		far:       cam.Far,
	}
}

func (vp *viewProjection) project(p Vec3) (sx, sy, depth float64, ok bool) {
	obj := p.vec()
	depth = -vp.modelview.Mul4x1(obj.Vec4(1)).Z()
	if depth < vp.near || depth > vp.far {
		return 0, 0, depth, false
	}
	win := mgl64.Project(obj, vp.modelview, vp.proj, 0, 0, vp.width, vp.height)
	return win.X(), float64(vp.height) - win.Y(), depth, true
}

// rotate applies the model rotation to a direction.
func (vp *viewProjection) rotate(n Vec3) Vec3 {
	return fromVec(vp.model.Mul4x1(n.vec().Vec4(0)).Vec3())
}

// World maps a cloth-space point into world space.
func (cam *Camera) World(p Vec3) Vec3 {
	return fromVec(mgl64.TransformCoordinate(p.vec(), cam.Model()))
}

// Project maps a cloth-space point to screen pixels. depth is the distance
// along the view direction. ok is false when the point lies outside the
// near/far range.
func (cam *Camera) Project(p Vec3) (sx, sy, depth float64, ok bool) {
	vp := cam.freeze()
	return vp.project(p)
}

// Unproject maps a screen pixel at the given depth back to cloth space.
// It inverts Project for any depth in the near/far range.
func (cam *Camera) Unproject(sx, sy, depth float64) Vec3 {
	proj := cam.Projection()
	clip := proj.Mul4x1(mgl64.Vec4{0, 0, -depth, 1})
	winZ := (clip.Z()/clip.W() + 1) / 2

	modelview := cam.View().Mul4(cam.Model())
	obj, err := mgl64.UnProject(mgl64.Vec3{sx, cam.Height - sy, winZ},
		modelview, proj, 0, 0, int(cam.Width), int(cam.Height))
	if err != nil {
		return Vec3{math.NaN(), math.NaN(), math.NaN()}
	}
	return fromVec(obj)
}

// Pick returns the index of the vertex whose projection lies nearest to
// (sx, sy), within radius pixels, and its depth. ok is false when no vertex
// is close enough.
func (cam *Camera) Pick(vertices []Vertex, sx, sy, radius float64) (index int, depth float64, ok bool) {
	vp := cam.freeze()
	best := radius * radius
	index = -1
	for i := range vertices {
		px, py, d, visible := vp.project(vertices[i].Position)
		if !visible {
			continue
		}
		dx, dy := px-sx, py-sy
		if d2 := dx*dx + dy*dy; d2 <= best {
			best = d2
			index = i
			depth = d
		}
	}
	return index, depth, index >= 0
}
