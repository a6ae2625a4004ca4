package ecs

import (
	"github.com/phanxgames/drape"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// ClothEventType is the Donburi event type for drape cloth events.
var ClothEventType = events.NewEventType[drape.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to ClothEventType and can be consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiSink(world donburi.World) drape.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event drape.Event) {
	ClothEventType.Publish(s.world, event)
}

// ClothData is the component payload for a simulated cloth entity.
type ClothData struct {
	Cloth *drape.Cloth
	// TimeStep is the tick length used by StepSystem. Zero means
	// drape.DefaultTimeStep.
	TimeStep float64
	// Paused entities are skipped by StepSystem.
	Paused bool
}

// ClothComponent marks entities that carry a cloth.
var ClothComponent = donburi.NewComponentType[ClothData]()

var clothQuery = donburi.NewQuery(filter.Contains(ClothComponent))

// AddCloth creates an entity carrying c.
func AddCloth(world donburi.World, c *drape.Cloth, timeStep float64) donburi.Entity {
	e := world.Create(ClothComponent)
	ClothComponent.SetValue(world.Entry(e), ClothData{Cloth: c, TimeStep: timeStep})
	return e
}

// StepSystem advances every unpaused cloth entity by one tick and returns
// how many were stepped.
func StepSystem(world donburi.World) int {
	stepped := 0
	clothQuery.Each(world, func(entry *donburi.Entry) {
		d := ClothComponent.Get(entry)
		if d.Paused || d.Cloth == nil {
			return
		}
		dt := d.TimeStep
		if dt <= 0 {
			dt = drape.DefaultTimeStep
		}
		d.Cloth.Step(dt, nil)
		stepped++
	})
	return stepped
}
