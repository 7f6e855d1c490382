package ecs

import "reflect"

// Commands buffers structural operations queued by a System or ParSystem
// during a stage, applied against the World only at the next Flush
// barrier — the only point at which structural changes queued during a
// stage may be applied.
//
// Flush needs no id-remapping chain: Insert/Entry preserve an entity's
// EntityID across every archetype move, so a Delete or AddComponent queued
// against an id earlier in the buffer is still valid against that same id
// later in the buffer, even if another queued command already moved it.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityID
	adds    []addCommand
	removes []removeCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addCommand struct {
	entity    EntityID
	component any
}

type removeCommand struct {
	entity EntityID
	typ    reflect.Type
}

// Spawn queues an entity insert with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues entity's removal.
func (c *Commands) Delete(entity EntityID) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues attaching component to entity.
func (c *Commands) AddComponent(entity EntityID, component any) {
	c.adds = append(c.adds, addCommand{entity: entity, component: component})
}

// RemoveComponent queues detaching component type typ from entity.
func (c *Commands) RemoveComponent(entity EntityID, typ reflect.Type) {
	c.removes = append(c.removes, removeCommand{entity: entity, typ: typ})
}

// Defer queues an arbitrary side effect to run at flush time, after every
// structural command above has been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies every buffered command to w, then empties the buffer.
// Commands are batched by kind rather than true enqueue order: all deletes
// run first, then removes, then adds, then spawns, then defers. A
// RemoveComponent and an AddComponent queued against the same entity and
// component type within one buffer therefore always resolve with the
// component attached, regardless of which call was made first. Operations
// against an identifier that has since gone invalid (deleted earlier in the
// same buffer) are silent no-ops.
func (c *Commands) Flush(w *World) {
	for _, id := range c.deletes {
		w.Remove(id)
	}
	for _, cmd := range c.removes {
		w.Entry(cmd.entity).RemoveType(cmd.typ)
	}
	for _, cmd := range c.adds {
		w.Entry(cmd.entity).Add(cmd.component)
	}
	for _, cmd := range c.spawns {
		w.Insert(cmd.components...)
	}
	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
