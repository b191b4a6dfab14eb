package services

import (
	"context"
	"sync"
	"time"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/logger"
)

// taskHistoryKeep is how many results per task survive pruning.
const taskHistoryKeep = 100

var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs the briefing tasks on their configured intervals.
// It is a pure core service with no external control API; delivery is
// delegated to an optional Deliverer.
type Scheduler struct {
	config    domain.SchedulerConfig
	store     driven.SchedulerStore
	briefings driving.BriefingService
	deliverer driven.Deliverer
	tick      time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTick overrides the due-task polling interval.
func WithTick(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.tick = d }
}

// WithDeliverer attaches a delivery channel for generated briefings.
func WithDeliverer(d driven.Deliverer) SchedulerOption {
	return func(s *Scheduler) { s.deliverer = d }
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	briefings driving.BriefingService,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		config:    config,
		store:     store,
		briefings: briefings,
		tick:      time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the scheduler loop. Blocks until Stop is called or the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("Scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler and waits for running
// tasks to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// builtinTasks maps task IDs to display names in a fixed order.
var builtinTasks = []struct {
	id   string
	name string
}{
	{domain.TaskIDDailyWords, "Daily Words"},
	{domain.TaskIDDailyQuotes, "Daily Quotes"},
	{domain.TaskIDBookSummary, "Weekly Book Summary"},
	{domain.TaskIDNewsDigest, "Weekly Tech News"},
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	for _, t := range builtinTasks {
		if cfg := s.config.GetTaskConfig(t.id); cfg.Enabled {
			if err := s.ensureTask(ctx, t.id, t.name, cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  time.Now(),
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("Scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if task.Due(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task in the background.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	// Push NextRun out before launching, so a task still executing when
	// the next tick fires is not due a second time. Completion rewrites
	// it from the actual end time.
	task.NextRun = time.Now().Add(task.Interval)
	if err := s.store.SaveTask(ctx, task); err != nil {
		logger.Warn("Scheduler: failed to save task %s: %v", task.ID, err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		briefing, err := s.produce(ctx, task.ID)
		if err == nil && briefing != nil && s.deliverer != nil {
			if deliverErr := s.deliverer.Deliver(ctx, briefing); deliverErr != nil {
				logger.Warn("Scheduler: could not deliver %s: %v", task.ID, deliverErr)
			}
		}

		result.EndedAt = time.Now()
		if err != nil {
			logger.Error("Scheduler: task %s failed: %v", task.ID, err)
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Warn("Scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Warn("Scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneHistory(ctx, taskHistoryKeep); pruneErr != nil {
			logger.Warn("Scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// produce generates the briefing for one task ID.
func (s *Scheduler) produce(ctx context.Context, taskID string) (*domain.Briefing, error) {
	switch taskID {
	case domain.TaskIDDailyWords:
		return s.briefings.DailyWords(10), nil
	case domain.TaskIDDailyQuotes:
		return s.briefings.DailyQuotes(5), nil
	case domain.TaskIDBookSummary:
		return s.briefings.BookSummary(ctx)
	case domain.TaskIDNewsDigest:
		return s.briefings.NewsDigest(ctx)
	default:
		logger.Warn("Scheduler: unknown task ID: %s", taskID)
		return nil, nil
	}
}
