package drape

const (
	// WireframeStrainGain scales spring strain into the colour ramp.
	WireframeStrainGain = 32.0
	// ColorSaturation is the ramp value at and beyond which a colour is pure red.
	ColorSaturation = 2.0
	// shadedReferenceDivisor derives the force reference for shaded colouring
	// from stiffness × the first spring's rest length.
	shadedReferenceDivisor = 16.0
)

// Geometry holds flat primitive arrays ready for upload. Positions has 3
// floats per primitive vertex, Colors 4 (RGBA) and Normals 3 (shaded only).
// Buffers grow to a high-water mark and are reused across extractions.
type Geometry struct {
	Mode      RenderMode
	Positions []float32
	Colors    []float32
	Normals   []float32
}

// VertexCount returns the number of primitive vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Position returns primitive vertex i.
func (g *Geometry) Position(i int) Vec3 {
	p := g.Positions[i*3 : i*3+3]
	return Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// ColorAt returns the colour of primitive vertex i.
func (g *Geometry) ColorAt(i int) Color {
	c := g.Colors[i*4 : i*4+4]
	return Color{float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3])}
}

// NormalAt returns the normal of primitive vertex i. Only valid for shaded
// geometry.
func (g *Geometry) NormalAt(i int) Vec3 {
	n := g.Normals[i*3 : i*3+3]
	return Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
}

func (g *Geometry) reset(mode RenderMode, verts int) {
	g.Mode = mode
	g.Positions = grow(g.Positions, verts*3)
	g.Colors = grow(g.Colors, verts*4)
	if mode == ModeShaded {
		g.Normals = grow(g.Normals, verts*3)
	} else {
		g.Normals = g.Normals[:0]
	}
}

func grow(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

// rampColor maps f in [0, ColorSaturation] from green to red. Values above
// saturation are pure red.
func rampColor(f float64) Color {
	if f > ColorSaturation {
		return Color{R: 1, A: 1}
	}
	t := f / ColorSaturation
	return Color{R: t, G: 1 - t, A: 1}
}

// StrainColor is the wireframe colour policy: the spring's relative length
// change, amplified by WireframeStrainGain.
func StrainColor(s *Spring) Color {
	return rampColor(s.Strain() * WireframeStrainGain)
}

// ForceReference returns the force magnitude that the shaded colour policy
// treats as half saturation.
func ForceReference(stiffness float64, springs []Spring) float64 {
	if len(springs) == 0 {
		return 0
	}
	return stiffness * springs[0].RestLength / shadedReferenceDivisor
}

// ForceColor is the shaded colour policy: a vertex's last force magnitude
// normalised by ref.
func ForceColor(magnitude, ref float64) Color {
	if ref <= 0 {
		return rampColor(0)
	}
	return rampColor(magnitude * 2 / ref)
}

func putVec(dst []float32, i int, v Vec3) {
	dst[i] = float32(v.X)
	dst[i+1] = float32(v.Y)
	dst[i+2] = float32(v.Z)
}

func putColor(dst []float32, i int, c Color) {
	dst[i] = float32(c.R)
	dst[i+1] = float32(c.G)
	dst[i+2] = float32(c.B)
	dst[i+3] = float32(c.A)
}

// ExtractWireframe writes one segment per spring into dst: tail position
// then head position, both coloured by StrainColor. vertices and springs
// are only read.
func ExtractWireframe(dst *Geometry, vertices []Vertex, springs []Spring) {
	dst.reset(ModeWireframe, len(springs)*2)
	for i := range springs {
		s := &springs[i]
		col := StrainColor(s)
		vi := i * 2
		putVec(dst.Positions, vi*3, vertices[s.Tail].Position)
		putVec(dst.Positions, (vi+1)*3, vertices[s.Head].Position)
		putColor(dst.Colors, vi*4, col)
		putColor(dst.Colors, (vi+1)*4, col)
	}
}

// ExtractShaded writes two triangles per grid cell into dst. For the cell
// with corners p1=(i,j), p2=(i,j+1), p3=(i+1,j) and p4=(i+1,j+1) the
// triangles are (p1, p2, p4) and (p1, p4, p3). Each vertex is coloured by
// ForceColor and carries its triangle's unit face normal.
func ExtractShaded(dst *Geometry, vertices []Vertex, springs []Spring, sideCount int, stiffness float64) {
	cells := sideCount - 1
	if cells < 1 {
		dst.reset(ModeShaded, 0)
		return
	}
	dst.reset(ModeShaded, cells*cells*6)
	ref := ForceReference(stiffness, springs)

	vi := 0
	emit := func(a, b, c int) {
		pa, pb, pc := vertices[a].Position, vertices[b].Position, vertices[c].Position
		normal := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
		for _, idx := range [3]int{a, b, c} {
			putVec(dst.Positions, vi*3, vertices[idx].Position)
			putVec(dst.Normals, vi*3, normal)
			putColor(dst.Colors, vi*4, ForceColor(vertices[idx].ForceMagnitude, ref))
			vi++
		}
	}

	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			p1 := i*sideCount + j
			p2 := p1 + 1
			p3 := p1 + sideCount
			p4 := p3 + 1
			emit(p1, p2, p4)
			emit(p1, p4, p3)
		}
	}
}

// Extract fills dst for mode from the cloth's current state.
func (c *Cloth) Extract(dst *Geometry, mode RenderMode) {
	switch mode {
	case ModeShaded:
		ExtractShaded(dst, c.Vertices, c.Springs, c.side, c.Config.Stiffness)
	default:
		ExtractWireframe(dst, c.Vertices, c.Springs)
	}
}
