// Package tasklog defines the append-only change log consumed during index
// synchronization. Task ids are globally monotonic and never reused; the
// synchronizer only ever reads forward from a given id.
package tasklog

import "context"

// Kind is the type of change a task describes.
type Kind string

const (
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// IsValid checks if the kind is a known valid kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindUpdate, KindDelete:
		return true
	default:
		return false
	}
}

// Task is one entry in the change log. Tasks are immutable once created.
type Task struct {
	// ID is strictly increasing, globally ordered across all indices.
	ID int64 `json:"id" bson:"_id"`

	// RecordID names the record that changed.
	RecordID string `json:"record_id" bson:"record_id"`

	// Kind is the change kind.
	Kind Kind `json:"kind" bson:"kind"`

	// CreatedAt is the task creation timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at" bson:"created_at"`
}

// Log provides forward, bounded reads over the change log.
type Log interface {
	// Fetch returns up to limit tasks with id > afterID, ordered by id
	// ascending. An empty result means the log has no further entries.
	Fetch(ctx context.Context, afterID int64, limit int) ([]Task, error)
}

// Appender extends the log with the producer side. The synchronizer never
// appends; appends come from the record store when a tracked record changes.
type Appender interface {
	// Append allocates the next task id and writes a new task.
	Append(ctx context.Context, recordID string, kind Kind) (Task, error)
}
