package tasklog

import (
	"context"
	"sync"
	"time"
)

// MemoryLog is an in-memory change log for tests and embedded use.
type MemoryLog struct {
	mu     sync.RWMutex
	tasks  []Task
	nextID int64
}

// NewMemoryLog creates an empty in-memory change log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{nextID: 1}
}

func (l *MemoryLog) Fetch(_ context.Context, afterID int64, limit int) ([]Task, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []Task
	for _, task := range l.tasks {
		if task.ID <= afterID {
			continue
		}
		result = append(result, task)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (l *MemoryLog) Append(_ context.Context, recordID string, kind Kind) (Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	task := Task{
		ID:        l.nextID,
		RecordID:  recordID,
		Kind:      kind,
		CreatedAt: time.Now().UnixMilli(),
	}
	l.nextID++
	l.tasks = append(l.tasks, task)
	return task, nil
}

// Len returns the number of tasks in the log.
func (l *MemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tasks)
}
