package drape

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxBatchVertices keeps every batch addressable by uint16 indices and a
// whole number of triangles (3) or line quads (4).
const maxBatchVertices = 65532

// meshBatch is one DrawTriangles call worth of vertices and indices.
type meshBatch struct {
	verts []ebiten.Vertex
	inds  []uint16
}

// Renderer turns extracted Geometry into ebiten triangle batches through a
// Camera. Shaded geometry becomes lit triangles; wireframe geometry becomes
// one thin screen-space quad per segment. Buffers are reused across frames.
type Renderer struct {
	Camera *Camera
	// LineWidth is the wireframe stroke width in pixels.
	LineWidth float64
	// LightDir points toward the light. It is normalised on use.
	LightDir Vec3
	// Ambient is the minimum brightness of a shaded face.
	Ambient float64

	batches []meshBatch
	used    int
}

// NewRenderer returns a renderer with a 1px line width and the light coming
// from (0.5, 0.7, 1).
func NewRenderer(cam *Camera) *Renderer {
	return &Renderer{
		Camera:    cam,
		LineWidth: 1,
		LightDir:  Vec3{0.5, 0.7, 1},
		Ambient:   0.25,
	}
}

// BatchCount returns the number of batches produced by the last Prepare.
func (r *Renderer) BatchCount() int {
	return r.used
}

// Batch returns the vertices and indices of batch i.
func (r *Renderer) Batch(i int) ([]ebiten.Vertex, []uint16) {
	b := &r.batches[i]
	return b.verts, b.inds
}

// batch returns a batch with room for need more vertices, starting a new
// one when the current batch is full.
func (r *Renderer) batch(need int) *meshBatch {
	if r.used > 0 {
		b := &r.batches[r.used-1]
		if len(b.verts)+need <= maxBatchVertices {
			return b
		}
	}
	if r.used == len(r.batches) {
		r.batches = append(r.batches, meshBatch{})
	}
	b := &r.batches[r.used]
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	r.used++
	return b
}

// Prepare rebuilds the batches from g.
func (r *Renderer) Prepare(g *Geometry) {
	r.used = 0
	switch g.Mode {
	case ModeShaded:
		r.prepareShaded(g)
	default:
		r.prepareWire(g)
	}
}

func screenVertex(x, y float64, c Color, shade float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R * shade),
		ColorG: float32(c.G * shade),
		ColorB: float32(c.B * shade),
		ColorA: float32(c.A),
	}
}

func (r *Renderer) prepareShaded(g *Geometry) {
	vp := r.Camera.freeze()
	light := r.LightDir.Normalize()
	n := g.VertexCount()
	for i := 0; i+2 < n; i += 3 {
		var xs, ys [3]float64
		visible := true
		for k := 0; k < 3; k++ {
			x, y, _, ok := vp.project(g.Position(i + k))
			if !ok {
				visible = false
				break
			}
			xs[k], ys[k] = x, y
		}
		if !visible {
			continue
		}
		normal := vp.rotate(g.NormalAt(i))
		// Both faces of the sheet are visible, so light by |n·l|.
		shade := math.Abs(normal.Dot(light))
		shade = r.Ambient + (1-r.Ambient)*shade

		b := r.batch(3)
		base := uint16(len(b.verts))
		for k := 0; k < 3; k++ {
			b.verts = append(b.verts, screenVertex(xs[k], ys[k], g.ColorAt(i+k), shade))
		}
		b.inds = append(b.inds, base, base+1, base+2)
	}
}

func (r *Renderer) prepareWire(g *Geometry) {
	vp := r.Camera.freeze()
	halfW := r.LineWidth / 2
	n := g.VertexCount()
	for i := 0; i+1 < n; i += 2 {
		x0, y0, _, ok0 := vp.project(g.Position(i))
		x1, y1, _, ok1 := vp.project(g.Position(i + 1))
		if !ok0 || !ok1 {
			continue
		}
		nx, ny := perpendicular(x0, y0, x1, y1)
		nx *= halfW
		ny *= halfW
		c0, c1 := g.ColorAt(i), g.ColorAt(i+1)

		b := r.batch(4)
		base := uint16(len(b.verts))
		b.verts = append(b.verts,
			screenVertex(x0+nx, y0+ny, c0, 1),
			screenVertex(x0-nx, y0-ny, c0, 1),
			screenVertex(x1+nx, y1+ny, c1, 1),
			screenVertex(x1-nx, y1-ny, c1, 1),
		)
		b.inds = append(b.inds, base, base+1, base+2, base+1, base+3, base+2)
	}
}

// perpendicular returns the unit left-perpendicular of the segment from
// (x0, y0) to (x1, y1).
func perpendicular(x0, y0, x1, y1 float64) (float64, float64) {
	dx := x1 - x0
	dy := y1 - y0
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// --- White pixel singleton (ebiten drawing is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source texture for untextured triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// Draw submits the prepared batches to dst.
func (r *Renderer) Draw(dst *ebiten.Image) {
	img := ensureWhitePixel()
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	for i := 0; i < r.used; i++ {
		b := &r.batches[i]
		if len(b.inds) == 0 {
			continue
		}
		dst.DrawTriangles(b.verts, b.inds, img, op)
	}
}
