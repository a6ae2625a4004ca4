package drape

// EventType identifies a kind of cloth event.
type EventType uint8

const (
	EventPin  EventType = iota // a vertex was pinned
	EventUnpin                 // a vertex was released
	EventMove                  // a vertex was moved externally
	EventStep                  // a tick completed
)

// String returns the lowercase event name.
func (t EventType) String() string {
	switch t {
	case EventPin:
		return "pin"
	case EventUnpin:
		return "unpin"
	case EventMove:
		return "move"
	case EventStep:
		return "step"
	default:
		return "unknown"
	}
}

// Event carries one cloth event to an EventSink. Vertex is -1 for
// EventStep.
type Event struct {
	Type     EventType
	Vertex   int
	Position Vec3
	Tick     int
}

// EventSink is the interface for optional observers such as an ECS bridge.
// When set on a Cloth, pin, move and step events are forwarded to it.
type EventSink interface {
	EmitEvent(event Event)
}

func (c *Cloth) emit(e Event) {
	if c.sink != nil {
		c.sink.EmitEvent(e)
	}
}
