package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// queryClaimer is implemented by *Query[T]; it reports the component sets
// the scheduler's claim-extraction step needs.
type queryClaimer interface {
	claimSets() (mutable, immutable map[ComponentID]bool)
}

// fieldBinder is implemented by *Query[T] and *Singleton[T]; it binds the
// field to a concrete World before the first frame that uses it.
type fieldBinder interface {
	init(w *World)
}

// bindFields walks sys's struct fields (sys must be a pointer to a struct)
// and binds every Query[T]/Singleton[T] field to w.
func bindFields(w *World, sys any) {
	v := reflect.ValueOf(sys)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		name := t.Field(i).Type.Name()
		if !strings.HasPrefix(name, "Query[") && !strings.HasPrefix(name, "Singleton[") {
			continue
		}
		field := v.Field(i)
		if !field.CanAddr() {
			continue
		}
		if binder, ok := field.Addr().Interface().(fieldBinder); ok {
			binder.init(w)
		}
	}
}

// extractClaims walks sys's Query[T] fields and unions their mutable and
// immutable component claim sets. Optional and identifier view elements,
// and any non-Query field, contribute nothing.
func extractClaims(sys any) (mutable, immutable map[ComponentID]bool) {
	mutable = make(map[ComponentID]bool)
	immutable = make(map[ComponentID]bool)

	v := reflect.ValueOf(sys)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return mutable, immutable
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if !strings.HasPrefix(t.Field(i).Type.Name(), "Query[") {
			continue
		}
		field := v.Field(i)
		if !field.CanAddr() {
			continue
		}
		claimer, ok := field.Addr().Interface().(queryClaimer)
		if !ok {
			continue
		}
		m, im := claimer.claimSets()
		for k := range m {
			mutable[k] = true
		}
		for k := range im {
			immutable[k] = true
		}
	}
	return mutable, immutable
}

func disjoint(a, b map[ComponentID]bool) bool {
	for k := range a {
		if b[k] {
			return false
		}
	}
	return true
}

type taskKind int

const (
	taskSystem taskKind = iota
	taskParSystem
	taskFlush
)

type registeredTask struct {
	kind taskKind
	sys  any
	cmd  *Commands
}

func (t registeredTask) run(w *World, dt float64) {
	ctx := &StageContext{World: w, Commands: t.cmd, DeltaTime: dt}
	switch sys := t.sys.(type) {
	case System:
		sys.Run(ctx)
	case ParSystem:
		sys.Run(ctx)
	}
}

type stage struct {
	tasks   []registeredTask
	isFlush bool
}

// Schedule is an ordered list of tasks — Systems, ParSystems, and explicit
// Flush barriers — compiled into fork/join stages by a greedy
// claim-disjointness algorithm. Build the schedule once (registering every
// task), then call Run once per frame; Run rebuilds stages only when the
// task list has changed since the last build.
type Schedule struct {
	world  *World
	tasks  []registeredTask
	stages []stage
	built  bool
}

// NewSchedule creates an empty schedule over w.
func NewSchedule(w *World) *Schedule {
	return &Schedule{world: w}
}

// System appends a sequential task.
func (s *Schedule) System(sys System) *Schedule {
	bindFields(s.world, sys)
	s.tasks = append(s.tasks, registeredTask{kind: taskSystem, sys: sys, cmd: newCommands()})
	s.built = false
	return s
}

// ParSystem appends a task whose own Run is expected to parallelize
// internally.
func (s *Schedule) ParSystem(sys ParSystem) *Schedule {
	bindFields(s.world, sys)
	s.tasks = append(s.tasks, registeredTask{kind: taskParSystem, sys: sys, cmd: newCommands()})
	s.built = false
	return s
}

// Flush appends an explicit barrier: it always closes the open stage and
// drains every task's Commands buffer against the World with exclusive
// access before the next stage starts.
func (s *Schedule) Flush() *Schedule {
	s.tasks = append(s.tasks, registeredTask{kind: taskFlush})
	s.built = false
	return s
}

// build partitions s.tasks into stages using a running-sets algorithm: a
// task joins the open stage iff its mutable claims are disjoint from the
// stage's running mutable and immutable sets, and its immutable claims are
// disjoint from the running mutable set (shared/shared overlap is fine). A
// Flush always closes the stage.
func (s *Schedule) build() {
	s.stages = s.stages[:0]

	var cur stage
	M := make(map[ComponentID]bool)
	I := make(map[ComponentID]bool)

	closeStage := func() {
		if len(cur.tasks) > 0 {
			s.stages = append(s.stages, cur)
		}
		cur = stage{}
		M = make(map[ComponentID]bool)
		I = make(map[ComponentID]bool)
	}

	for _, t := range s.tasks {
		if t.kind == taskFlush {
			closeStage()
			s.stages = append(s.stages, stage{isFlush: true})
			continue
		}

		m, im := extractClaims(t.sys)
		compatible := disjoint(m, M) && disjoint(m, I) && disjoint(im, M)
		if !compatible {
			closeStage()
		}
		cur.tasks = append(cur.tasks, t)
		for k := range m {
			M[k] = true
		}
		for k := range im {
			I[k] = true
		}
	}
	closeStage()
	s.built = true
}

// Run executes every stage in declaration order for one frame of delta
// time dt. Within a stage, tasks run concurrently via fork/join; a
// panicking task unwinds its own stack and is re-raised after the stage's
// join, and no later stage runs.
func (s *Schedule) Run(dt float64) {
	if !s.built {
		s.build()
	}
	for _, st := range s.stages {
		if st.isFlush {
			for _, t := range s.tasks {
				if t.kind != taskFlush {
					t.cmd.Flush(s.world)
				}
			}
			continue
		}
		if len(st.tasks) == 1 {
			st.tasks[0].run(s.world, dt)
			continue
		}
		var g errgroup.Group
		panics := make([]any, len(st.tasks))
		for i, t := range st.tasks {
			i, t := i, t
			g.Go(func() error {
				defer func() { panics[i] = recover() }()
				t.run(s.world, dt)
				return nil
			})
		}
		_ = g.Wait()
		for _, p := range panics {
			if p != nil {
				panic(p)
			}
		}
	}
}

// Scheduler is the single-stage, systems-only degenerate case of Schedule:
// every registered System runs sequentially, in registration order, with an
// implicit Flush after each frame. This keeps a plain Once/Run model
// available for schedules that have no use for fork/join staging at all.
type Scheduler struct {
	world   *World
	systems []registeredTask
}

// NewScheduler creates an empty Scheduler for world.
func NewScheduler(world *World) *Scheduler {
	return &Scheduler{world: world}
}

// Register adds a system and binds its Query/Singleton fields.
func (s *Scheduler) Register(sys System) *Scheduler {
	bindFields(s.world, sys)
	s.systems = append(s.systems, registeredTask{kind: taskSystem, sys: sys, cmd: newCommands()})
	return s
}

// Once runs every registered system once, in registration order, then
// flushes every system's queued commands against the World.
func (s *Scheduler) Once(dt float64) {
	for _, t := range s.systems {
		t.run(s.world, dt)
	}
	for _, t := range s.systems {
		t.cmd.Flush(s.world)
	}
}

// Run calls Once every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Once(dt)
		}
	}
}
