package ecs

import (
	"iter"
	"unsafe"

	"golang.org/x/sync/errgroup"
)

// Query combines a View[T] with a Filter against one World, caching the set
// of matching archetypes rather than recomputing it on every iteration. The
// cache is invalidated whenever the World has created a new archetype since
// the last refresh; it is never invalidated by row-level insert/remove
// within an already-matched archetype, since those never change which
// archetypes match.
type Query[T any] struct {
	world  *World
	view   *View[T]
	filter Filter

	cachedArchetypes   []*Archetype
	lastArchetypeCount int
}

// NewQuery builds a query over w for view struct T, narrowed by an optional
// Filter (defaulting to None, i.e. no extra constraint beyond the view's own
// induced Has<C> requirements).
func NewQuery[T any](w *World, filter ...Filter) *Query[T] {
	f := Filter(None())
	if len(filter) > 0 {
		f = filter[0]
	}
	return &Query[T]{
		world:              w,
		view:               newView[T](w.registry),
		filter:             f,
		lastArchetypeCount: -1,
	}
}

// init (re)binds the query to world; the scheduler calls this via reflection
// when it discovers a Query[T] field on a registered system, mirroring the
// teacher's Scheduler.initializeQueries.
func (q *Query[T]) init(w *World) {
	q.world = w
	q.view = newView[T](w.registry)
	q.lastArchetypeCount = -1
	q.cachedArchetypes = nil
}

func (q *Query[T]) refresh() {
	all := q.world.archetypes.archetypes()
	if len(all) == q.lastArchetypeCount {
		return
	}
	q.cachedArchetypes = q.cachedArchetypes[:0]
	for _, a := range all {
		if !q.view.matchesArchetype(a.ID()) {
			continue
		}
		if !q.filter.evaluate(q.world.registry, a.ID()) {
			continue
		}
		q.cachedArchetypes = append(q.cachedArchetypes, a)
	}
	q.lastArchetypeCount = len(all)
}

// claimSets implements the scheduler's queryClaimer interface.
func (q *Query[T]) claimSets() (mutable, immutable map[ComponentID]bool) {
	return q.view.claims()
}

// Iter returns a lazy, non-restartable iterator over every matching row.
// Consuming it concurrently with a structural mutation of the World is
// undefined outside of the scheduler's claims discipline.
func (q *Query[T]) Iter() iter.Seq2[EntityID, T] {
	q.refresh()
	archetypes := q.cachedArchetypes
	view := q.view
	return func(yield func(EntityID, T) bool) {
		for _, a := range archetypes {
			n := a.Len()
			for row := 0; row < n; row++ {
				var result T
				view.populate(a, uint32(row), unsafe.Pointer(&result))
				if !yield(a.entityAt(uint32(row)), result) {
					return
				}
			}
		}
	}
}

// Values is Iter without the entity identifiers.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range q.Iter() {
			if !yield(v) {
				return
			}
		}
	}
}

// ForEachParallel partitions the matching archetypes across a goroutine per
// archetype, joined before return, and calls fn for every row. Safe to call
// from a ParSystem within a scheduled stage, where the claims discipline
// guarantees no other task touches the same components concurrently.
func (q *Query[T]) ForEachParallel(fn func(EntityID, T)) {
	q.refresh()
	var g errgroup.Group
	for _, a := range q.cachedArchetypes {
		a := a
		g.Go(func() error {
			n := a.Len()
			for row := 0; row < n; row++ {
				var result T
				q.view.populate(a, uint32(row), unsafe.Pointer(&result))
				fn(a.entityAt(uint32(row)), result)
			}
			return nil
		})
	}
	_ = g.Wait()
}
