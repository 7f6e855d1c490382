package ecs

// StageContext is handed to a System or ParSystem's Run method for one
// frame: the shared World (read through whatever Query[T]/Singleton[T]
// fields the system declared), a delta time, and the task's own Commands
// buffer for queuing structural changes that apply at the next Flush.
type StageContext struct {
	World     *World
	Commands  *Commands
	DeltaTime float64
}

// System is a sequential task. A schedule runs its Run method to
// completion; most systems iterate one or more Query[T] fields they
// declare at the type level, which the scheduler binds to the World before
// the first frame.
type System interface {
	Run(ctx *StageContext)
}

// ParSystem is a task whose Run body is expected to parallelize its own
// query iteration, typically via Query.ForEachParallel. It takes part in
// the same claims-based stage grouping as System; the distinction is about
// what a task does inside its own Run, not how the scheduler schedules it.
type ParSystem interface {
	Run(ctx *StageContext)
}
