package utility

import (
	"sync"

	"github.com/google/uuid"
)

// ExecutionID identifies one process invocation, RunID one simulated
// instrument inside it. Both are UUIDv7 so they sort by creation time.
type (
	ExecutionID = uuid.UUID
	RunID       = uuid.UUID
)

var (
	executionID     ExecutionID
	executionIDOnce sync.Once
)

func GetExecutionID() ExecutionID {
	executionIDOnce.Do(func() {
		executionID = uuid.Must(uuid.NewV7())
	})
	return executionID
}

func NewRunID() RunID {
	return uuid.Must(uuid.NewV7())
}
