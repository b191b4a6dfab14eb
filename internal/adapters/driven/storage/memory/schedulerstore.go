package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Ensure SchedulerStore implements the interface.
var _ driven.SchedulerStore = (*SchedulerStore)(nil)

// SchedulerStore is an in-memory implementation of
// driven.SchedulerStore.
type SchedulerStore struct {
	mu      sync.RWMutex
	tasks   map[string]domain.ScheduledTask
	results []domain.TaskResult
}

// NewSchedulerStore creates a new in-memory scheduler store.
func NewSchedulerStore() *SchedulerStore {
	return &SchedulerStore{
		tasks: make(map[string]domain.ScheduledTask),
	}
}

// GetTask retrieves a task by ID. Returns nil, nil when absent.
func (s *SchedulerStore) GetTask(_ context.Context, id string) (*domain.ScheduledTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

// SaveTask stores or updates a task.
func (s *SchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

// ListTasks returns all tasks ordered by ID.
func (s *SchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ScheduledTask, 0, len(s.tasks))
	for id := range s.tasks {
		result = append(result, s.tasks[id])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// RecordResult appends a task execution result.
func (s *SchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

// PruneHistory keeps only the most recent keep results per task.
func (s *SchedulerStore) PruneHistory(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	perTask := make(map[string]int)
	kept := make([]domain.TaskResult, 0, len(s.results))
	for i := len(s.results) - 1; i >= 0; i-- {
		r := s.results[i]
		if perTask[r.TaskID] >= keep {
			continue
		}
		perTask[r.TaskID]++
		kept = append(kept, r)
	}
	// Restore chronological order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	s.results = kept
	return nil
}

// Results returns a copy of recorded results, for tests.
func (s *SchedulerStore) Results() []domain.TaskResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TaskResult, len(s.results))
	copy(out, s.results)
	return out
}
