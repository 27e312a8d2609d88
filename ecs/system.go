package ecs

// System is one step of a frame. Exported Query and Singleton fields are bound
// by the Scheduler; any other fields are private state that survives between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
