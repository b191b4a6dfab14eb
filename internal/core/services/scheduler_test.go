package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/adapters/driven/storage/memory"
	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driving"
)

// recordingDeliverer captures delivered briefings.
type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []*domain.Briefing
}

func (d *recordingDeliverer) Deliver(ctx context.Context, b *domain.Briefing) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, b)
	return nil
}

func (d *recordingDeliverer) kinds() []domain.BriefingKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.BriefingKind, len(d.delivered))
	for i, b := range d.delivered {
		out[i] = b.Kind
	}
	return out
}

func offlineConfig(interval time.Duration) domain.SchedulerConfig {
	return domain.SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDDailyWords:  {Enabled: true, Interval: interval},
			domain.TaskIDDailyQuotes: {Enabled: true, Interval: interval},
		},
	}
}

func TestScheduler_RunsDueTasksAndRecordsResults(t *testing.T) {
	store := memory.NewSchedulerStore()
	briefings := NewBriefings(nil)
	deliverer := &recordingDeliverer{}
	s := NewScheduler(offlineConfig(time.Hour), store, briefings,
		WithTick(10*time.Millisecond), WithDeliverer(deliverer))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Tasks become due immediately on first initialisation.
	require.Eventually(t, func() bool {
		return len(deliverer.kinds()) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	cancel()
	<-done

	assert.ElementsMatch(t, []domain.BriefingKind{domain.BriefingWords, domain.BriefingQuotes},
		deliverer.kinds()[:2])

	tasks, err := store.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.False(t, task.LastRun.IsZero())
		assert.False(t, task.LastSuccess.IsZero())
		assert.Empty(t, task.LastError)
		assert.True(t, task.NextRun.After(time.Now()), "hourly task rescheduled into the future")
	}

	results := store.Results()
	assert.GreaterOrEqual(t, len(results), 2)
	for _, res := range results {
		assert.True(t, res.Success)
	}
}

func TestScheduler_DisabledTasksNeverRun(t *testing.T) {
	store := memory.NewSchedulerStore()
	cfg := domain.SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDDailyWords: {Enabled: false, Interval: time.Hour},
		},
	}
	deliverer := &recordingDeliverer{}
	s := NewScheduler(cfg, store, NewBriefings(nil),
		WithTick(10*time.Millisecond), WithDeliverer(deliverer))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, s.Stop())
	cancel()
	<-done

	assert.Empty(t, deliverer.kinds())
	tasks, err := store.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks, "disabled tasks are not initialised")
}

func TestScheduler_TaskFailureRecorded(t *testing.T) {
	store := memory.NewSchedulerStore()
	cfg := domain.SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]domain.TaskConfig{
			// Needs an LLM; NewBriefings(nil) makes it fail.
			domain.TaskIDBookSummary: {Enabled: true, Interval: time.Hour},
		},
	}
	s := NewScheduler(cfg, store, NewBriefings(nil), WithTick(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		return len(store.Results()) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	cancel()
	<-done

	res := store.Results()[0]
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)

	task, err := store.GetTask(context.Background(), domain.TaskIDBookSummary)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.NotEmpty(t, task.LastError)
	assert.True(t, task.LastSuccess.IsZero())
}

// slowBriefings counts BookSummary starts and blocks each one until
// released.
type slowBriefings struct {
	driving.BriefingService
	starts  atomic.Int64
	release chan struct{}
}

func (b *slowBriefings) BookSummary(ctx context.Context) (*domain.Briefing, error) {
	b.starts.Add(1)
	<-b.release
	return &domain.Briefing{Kind: domain.BriefingBookSummary}, nil
}

func TestScheduler_SlowTaskNotRestartedByNextTick(t *testing.T) {
	store := memory.NewSchedulerStore()
	cfg := domain.SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDBookSummary: {Enabled: true, Interval: time.Hour},
		},
	}
	briefings := &slowBriefings{release: make(chan struct{})}
	s := NewScheduler(cfg, store, briefings, WithTick(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Let several ticks fire while the first run is still blocked.
	require.Eventually(t, func() bool {
		return briefings.starts.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	close(briefings.release)
	require.NoError(t, s.Stop())
	cancel()
	<-done

	assert.Equal(t, int64(1), briefings.starts.Load(),
		"an in-flight task must not be launched again by a later tick")

	task, err := store.GetTask(context.Background(), domain.TaskIDBookSummary)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.True(t, task.NextRun.After(time.Now()), "completion reschedules from the end time")
}

func TestScheduler_StartTwiceIsNoOp(t *testing.T) {
	store := memory.NewSchedulerStore()
	s := NewScheduler(offlineConfig(time.Hour), store, NewBriefings(nil),
		WithTick(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, s.Start(ctx), "second Start returns immediately")

	require.NoError(t, s.Stop())
	<-done
	assert.NoError(t, s.Stop(), "second Stop is a no-op")
}

func TestScheduler_IntervalChangeReschedules(t *testing.T) {
	store := memory.NewSchedulerStore()
	existing := &domain.ScheduledTask{
		ID:       domain.TaskIDDailyWords,
		Name:     "Daily Words",
		Interval: time.Hour,
		Enabled:  true,
		NextRun:  time.Now().Add(time.Hour),
	}
	require.NoError(t, store.SaveTask(context.Background(), existing))

	s := NewScheduler(offlineConfig(2*time.Hour), store, NewBriefings(nil))
	require.NoError(t, s.ensureTask(context.Background(), existing.ID, existing.Name,
		domain.TaskConfig{Enabled: true, Interval: 2 * time.Hour}))

	task, err := store.GetTask(context.Background(), existing.ID)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, 2*time.Hour, task.Interval)
	assert.True(t, task.NextRun.After(time.Now().Add(90*time.Minute)))
}
