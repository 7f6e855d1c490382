// Package ecs is an archetype-based entity-component-system data engine.
//
// Entities are grouped into archetypes by their exact component set; each
// archetype is a columnar (struct-of-arrays) table keyed by a canonical
// [Registry] ordering, so two entities with the same components always land
// in the same archetype regardless of the order components were added in.
//
// The package is organized around four subsystems: [Registry] (canonical
// component ordering), [Archetype]/[World] (columnar storage and the
// allocator that maps entity identifiers to their storage location),
// [Query]/[View] (filtered, typed iteration over archetypes), and
// [Schedule] (grouping of systems into parallel stages by component-claim
// conflict; [Scheduler] is its sequential single-stage form). See the
// package examples for end-to-end usage.
package ecs
