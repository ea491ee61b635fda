package app

// State is the lifecycle position of an App. It only moves forward.
type State int32

const (
	StateUninitialized State = iota
	StateBuilding
	StateServing
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilding:
		return "building"
	case StateServing:
		return "serving"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}
