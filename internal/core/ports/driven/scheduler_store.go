package driven

import (
	"context"

	"github.com/docsage/docsage/internal/core/domain"
)

// SchedulerStore persists scheduled task state and execution history.
type SchedulerStore interface {
	// GetTask retrieves a task by ID. Returns nil, nil when the task
	// does not exist.
	GetTask(ctx context.Context, id string) (*domain.ScheduledTask, error)

	// SaveTask stores or updates a task.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// ListTasks returns all tasks.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// RecordResult appends a task execution result.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// PruneHistory keeps only the most recent keep results per task.
	PruneHistory(ctx context.Context, keep int) error
}
