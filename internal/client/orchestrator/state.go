package orchestrator

import "time"

type State int

const (
	StateIdle State = iota
	StateSyncing
	StateSynced
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSyncing:
		return "syncing"
	case StateSynced:
		return "synced"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Status is a point-in-time view of the orchestrator.
type Status struct {
	State        State
	LastError    error
	LastSyncedAt time.Time
	Pending      bool
}
