package drape

import (
	"fmt"
	"math"
)

// Spring connects two vertices by index and pulls them toward RestLength.
// Springs never own vertices; the indices stay valid because the vertex
// slice never changes length after Build.
type Spring struct {
	Head, Tail     int
	RestLength     float64
	DeformedLength float64
}

// NewSpring creates a spring between verts[tail] and verts[head] whose rest
// length is their current distance. Coincident endpoints are rejected.
func NewSpring(verts []Vertex, tail, head int) (Spring, error) {
	if tail < 0 || tail >= len(verts) || head < 0 || head >= len(verts) {
		return Spring{}, fmt.Errorf("new spring %d→%d: %w", tail, head, ErrIndexOutOfRange)
	}
	if tail == head {
		return Spring{}, fmt.Errorf("new spring %d→%d: %w", tail, head, ErrDegenerateSpring)
	}
	dist := verts[tail].Position.Dist(verts[head].Position)
	if !(dist > 0) {
		return Spring{}, fmt.Errorf("new spring %d→%d: %w", tail, head, ErrDegenerateSpring)
	}
	return Spring{Head: head, Tail: tail, RestLength: dist, DeformedLength: dist}, nil
}

// Update measures the spring against the current vertex positions and adds
// the Hooke force to both endpoints' accumulators. The head receives
// delta*f and the tail -delta*f, where delta = tail - head and
// f = stiffness * (1 - rest/deformed).
func (s *Spring) Update(verts []Vertex, stiffness float64) {
	head := &verts[s.Head]
	tail := &verts[s.Tail]
	delta := tail.Position.Sub(head.Position)
	s.DeformedLength = delta.Len()
	f := stiffness * (1 - s.RestLength/s.DeformedLength)
	hf := delta.Scale(f)
	head.Force = head.Force.Add(hf)
	tail.Force = tail.Force.Add(hf.Neg())
}

// Strain returns |DeformedLength/RestLength - 1|.
func (s *Spring) Strain() float64 {
	return math.Abs(s.DeformedLength/s.RestLength - 1)
}
