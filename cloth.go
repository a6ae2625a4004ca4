package drape

import "fmt"

// Cloth is a square sheet of vertices connected by springs. The vertex and
// spring slices are allocated once by Build and never change length.
type Cloth struct {
	Vertices []Vertex
	Springs  []Spring
	Config   Config

	side    int
	length  float64
	restPos []Vec3 // rest layout for Reset
	tick    int

	sink  EventSink
	debug bool
	stats stepStats
}

// Build lays out a SideCount×SideCount grid in the XZ plane, pins the four
// corners and the centre, and connects each cell with a vertical, a
// horizontal and one diagonal shear spring.
//
// Vertex (row, col) lives at index row*SideCount+col.
func Build(mc MeshConfig) (*Cloth, error) {
	if err := mc.validate(); err != nil {
		return nil, err
	}
	n := mc.SideCount
	step := mc.SideLength / float64(n-1)

	c := &Cloth{
		Vertices: make([]Vertex, n*n),
		Springs:  make([]Spring, 0, SpringCount(n)),
		Config:   mc.simConfig(),
		side:     n,
		length:   mc.SideLength,
		restPos:  make([]Vec3, n*n),
	}

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			idx := row*n + col
			pos := Vec3{X: float64(row) * step, Z: float64(col) * step}
			c.Vertices[idx] = NewVertex(pos)
			c.restPos[idx] = pos
		}
	}
	c.pinInitial()

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			cur := row*n + col
			if row < n-1 {
				if err := c.addSpring(cur, cur+n); err != nil {
					return nil, err
				}
			}
			if col < n-1 {
				if err := c.addSpring(cur, cur+1); err != nil {
					return nil, err
				}
			}
			if row < n-1 && col < n-1 {
				if err := c.addSpring(cur, cur+n+1); err != nil {
					return nil, err
				}
			}
		}
	}
	return c, nil
}

// BuildMesh is the free-function form of Build. It returns the vertex and
// spring slices together with the derived simulation constants.
func BuildMesh(sideCount int, sideLength, stiffnessMultiplier float64) ([]Vertex, []Spring, Config, error) {
	c, err := Build(MeshConfig{
		SideCount:           sideCount,
		SideLength:          sideLength,
		StiffnessMultiplier: stiffnessMultiplier,
	})
	if err != nil {
		return nil, nil, Config{}, err
	}
	return c.Vertices, c.Springs, c.Config, nil
}

// SpringCount returns the number of springs Build creates for a grid with
// n vertices per side: 3(n-1)² + 2(n-1).
func SpringCount(n int) int {
	if n < 2 {
		return 0
	}
	return 3*(n-1)*(n-1) + 2*(n-1)
}

func (c *Cloth) addSpring(tail, head int) error {
	s, err := NewSpring(c.Vertices, tail, head)
	if err != nil {
		return fmt.Errorf("build mesh: %w", err)
	}
	c.Springs = append(c.Springs, s)
	return nil
}

func (c *Cloth) pinInitial() {
	for _, idx := range c.AnchorIndices() {
		c.Vertices[idx].Pin(true)
	}
}

// SideCount returns the number of vertices along each side.
func (c *Cloth) SideCount() int { return c.side }

// SideLength returns the rest length of each side.
func (c *Cloth) SideLength() float64 { return c.length }

// Tick returns the number of completed Step calls.
func (c *Cloth) Tick() int { return c.tick }

// Index returns the vertex index of grid cell (row, col).
func (c *Cloth) Index(row, col int) int { return row*c.side + col }

// CenterIndex returns the index of the centre vertex, floor((n²-1)/2).
func (c *Cloth) CenterIndex() int {
	return (c.side*c.side - 1) / 2
}

// AnchorIndices returns the five vertices pinned by Build: the corners in
// index order followed by the centre.
func (c *Cloth) AnchorIndices() [5]int {
	n := c.side
	return [5]int{0, n - 1, n * (n - 1), n*n - 1, c.CenterIndex()}
}

// RestPosition returns the layout position of vertex i.
func (c *Cloth) RestPosition(i int) Vec3 {
	return c.restPos[i]
}

// PinnedCount returns the number of pinned vertices.
func (c *Cloth) PinnedCount() int {
	count := 0
	for i := range c.Vertices {
		if c.Vertices[i].pinned {
			count++
		}
	}
	return count
}

// SetEventSink attaches an observer for pin, move and step events.
// Pass nil to detach.
func (c *Cloth) SetEventSink(sink EventSink) {
	c.sink = sink
}

// SetGravity sets the static force from a gravity slider value.
func (c *Cloth) SetGravity(slider float64) {
	c.Config.SetGravity(slider)
}

// SetDissipation sets the fraction of velocity lost per tick.
func (c *Cloth) SetDissipation(d float64) error {
	return c.Config.SetDissipation(d)
}

// MoveVertex moves vertex i. See Vertex.Move for pinned semantics.
func (c *Cloth) MoveVertex(i int, pos Vec3, override bool) error {
	if err := MoveVertex(c.Vertices, i, pos, override); err != nil {
		return err
	}
	c.emit(Event{Type: EventMove, Vertex: i, Position: c.Vertices[i].Position, Tick: c.tick})
	return nil
}

// PinVertex pins or unpins vertex i.
func (c *Cloth) PinVertex(i int, pinned bool) error {
	if err := PinVertex(c.Vertices, i, pinned); err != nil {
		return err
	}
	typ := EventUnpin
	if pinned {
		typ = EventPin
	}
	c.emit(Event{Type: typ, Vertex: i, Position: c.Vertices[i].Position, Tick: c.tick})
	return nil
}

// Reset returns every vertex to its rest position, clears all forces and
// displacements, restores the initial pin set and resets the tick counter.
// Config is left untouched.
func (c *Cloth) Reset() {
	for i := range c.Vertices {
		c.Vertices[i] = NewVertex(c.restPos[i])
	}
	for i := range c.Springs {
		c.Springs[i].DeformedLength = c.Springs[i].RestLength
	}
	c.pinInitial()
	c.tick = 0
}

// Clone returns a deep copy of the cloth. The copy has no event sink.
func (c *Cloth) Clone() *Cloth {
	cp := *c
	cp.Vertices = append([]Vertex(nil), c.Vertices...)
	cp.Springs = append([]Spring(nil), c.Springs...)
	cp.restPos = append([]Vec3(nil), c.restPos...)
	cp.sink = nil
	return &cp
}

// MoveVertex moves vertices[i] to pos. Out-of-range indices are rejected
// with ErrIndexOutOfRange.
func MoveVertex(vertices []Vertex, i int, pos Vec3, override bool) error {
	if i < 0 || i >= len(vertices) {
		return fmt.Errorf("move vertex %d of %d: %w", i, len(vertices), ErrIndexOutOfRange)
	}
	vertices[i].Move(pos, override)
	return nil
}

// PinVertex pins or unpins vertices[i]. Out-of-range indices are rejected
// with ErrIndexOutOfRange.
func PinVertex(vertices []Vertex, i int, pinned bool) error {
	if i < 0 || i >= len(vertices) {
		return fmt.Errorf("pin vertex %d of %d: %w", i, len(vertices), ErrIndexOutOfRange)
	}
	vertices[i].Pin(pinned)
	return nil
}
