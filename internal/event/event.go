package event

type Type string

const (
	TypeSyncStarted     Type = "sync.started"
	TypeSyncProgress    Type = "sync.progress"
	TypeSyncCompleted   Type = "sync.completed"
	TypeSyncFailed      Type = "sync.failed"
	TypeEditSetExported Type = "editset.exported"
	TypeEditSetCleared  Type = "editset.cleared"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
