// Package ecs provides ECS adapters for drape.
//
// [NewDonburiSink] bridges cloth events (pin, unpin, move, step) into a
// [Donburi] world as typed events. Subscribe to [ClothEventType] in your ECS
// systems to receive them.
//
// [ClothComponent] stores a cloth and its tick length on an entity;
// [StepSystem] advances every such entity once per call.
//
// Usage:
//
//	world := donburi.NewWorld()
//	c.SetEventSink(ecs.NewDonburiSink(world))
//	ecs.AddCloth(world, c, 0.2)
//	// each frame:
//	ecs.StepSystem(world)
//	ecs.ClothEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
