package stream

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/phanxgames/drape"
)

// Binary frame layout, little-endian:
//
//	magic    [4]byte "DRP1"
//	tick     uint32
//	time     float64
//	mode     uint8
//	count    uint32   primitive vertices
//	pos      count*3 float32
//	color    count*4 float32
//	normal   count*3 float32 (shaded only)
const (
	frameMagic      = "DRP1"
	frameHeaderSize = 4 + 4 + 8 + 1 + 4
)

var ErrBadFrame = errors.New("stream: malformed frame")

// DecodedFrame is a frame read back from its binary form.
type DecodedFrame struct {
	Tick     int
	Time     float64
	Geometry drape.Geometry
}

func appendFloats(dst []byte, src []float32) []byte {
	for _, f := range src {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// EncodeFrame appends the binary form of f to dst.
func EncodeFrame(dst []byte, f drape.Frame) []byte {
	g := f.Geometry
	dst = append(dst, frameMagic...)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(f.Tick))
	dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(f.Time))
	dst = append(dst, byte(g.Mode))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(g.VertexCount()))
	dst = appendFloats(dst, g.Positions)
	dst = appendFloats(dst, g.Colors)
	if g.Mode == drape.ModeShaded {
		dst = appendFloats(dst, g.Normals)
	}
	return dst
}

func readFloats(b []byte, n int) ([]float32, []byte) {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, b[n*4:]
}

// DecodeFrame parses a frame produced by EncodeFrame.
func DecodeFrame(b []byte) (DecodedFrame, error) {
	if len(b) < frameHeaderSize || string(b[:4]) != frameMagic {
		return DecodedFrame{}, fmt.Errorf("decode frame of %d bytes: %w", len(b), ErrBadFrame)
	}
	var out DecodedFrame
	out.Tick = int(binary.LittleEndian.Uint32(b[4:]))
	out.Time = math.Float64frombits(binary.LittleEndian.Uint64(b[8:]))
	out.Geometry.Mode = drape.RenderMode(b[16])
	count := int(binary.LittleEndian.Uint32(b[17:]))
	b = b[frameHeaderSize:]

	per := 3 + 4
	if out.Geometry.Mode == drape.ModeShaded {
		per += 3
	}
	if len(b) != count*per*4 {
		return DecodedFrame{}, fmt.Errorf("decode frame: %d vertices need %d bytes, have %d: %w",
			count, count*per*4, len(b), ErrBadFrame)
	}
	out.Geometry.Positions, b = readFloats(b, count*3)
	out.Geometry.Colors, b = readFloats(b, count*4)
	if out.Geometry.Mode == drape.ModeShaded {
		out.Geometry.Normals, _ = readFloats(b, count*3)
	}
	return out, nil
}

// Envelope wraps a client command: T names the command, P carries its JSON
// payload.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// Command payloads sent by clients.
type (
	PinCommand struct {
		Vertex int  `json:"vertex"`
		Pinned bool `json:"pinned"`
	}
	MoveCommand struct {
		Vertex   int     `json:"vertex"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Z        float64 `json:"z"`
		Override bool    `json:"override"`
	}
	ValueCommand struct {
		Value float64 `json:"value"`
	}
)

// EncodeCommand wraps payload in an Envelope of type t.
func EncodeCommand(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode command: empty type")
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s command: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeCommand parses an Envelope and checks that its type is known.
func DecodeCommand(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode command: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode command: %w", err)
	}
	switch e.T {
	case "pin", "move", "gravity", "dissipation":
	default:
		return Envelope{}, fmt.Errorf("decode command: unknown type %q", e.T)
	}
	return e, nil
}

// applyCommand runs a decoded command against the cloth.
func applyCommand(c *drape.Cloth, e Envelope) error {
	switch e.T {
	case "pin":
		var p PinCommand
		if err := json.Unmarshal(e.P, &p); err != nil {
			return fmt.Errorf("pin command: %w", err)
		}
		return c.PinVertex(p.Vertex, p.Pinned)
	case "move":
		var p MoveCommand
		if err := json.Unmarshal(e.P, &p); err != nil {
			return fmt.Errorf("move command: %w", err)
		}
		return c.MoveVertex(p.Vertex, drape.Vec3{X: p.X, Y: p.Y, Z: p.Z}, p.Override)
	case "gravity":
		var p ValueCommand
		if err := json.Unmarshal(e.P, &p); err != nil {
			return fmt.Errorf("gravity command: %w", err)
		}
		c.SetGravity(p.Value)
	case "dissipation":
		var p ValueCommand
		if err := json.Unmarshal(e.P, &p); err != nil {
			return fmt.Errorf("dissipation command: %w", err)
		}
		return c.SetDissipation(p.Value)
	}
	return nil
}
