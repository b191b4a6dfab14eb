package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func TestSchedulerStore_GetTask_AbsentReturnsNilNil(t *testing.T) {
	store := NewSchedulerStore()

	task, err := store.GetTask(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDDailyWords,
		Name:     "Daily Words",
		Interval: 24 * time.Hour,
		NextRun:  time.Now().Add(24 * time.Hour),
		Enabled:  true,
	}
	require.NoError(t, store.SaveTask(ctx, task))

	got, err := store.GetTask(ctx, domain.TaskIDDailyWords)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Daily Words", got.Name)
	assert.Equal(t, 24*time.Hour, got.Interval)
}

func TestSchedulerStore_SaveTask_Update(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "t-1", LastError: "boom"}))
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "t-1", LastError: ""}))

	got, err := store.GetTask(ctx, "t-1")
	require.NoError(t, err)
	assert.Empty(t, got.LastError)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestSchedulerStore_ListTasks_Ordered(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "b"}))
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "a"}))

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
}

func TestSchedulerStore_RecordResult(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "t-1", Success: true}))
	require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "t-1", Success: false, Error: "llm timeout"}))

	results := store.Results()
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "llm timeout", results[1].Error)
}

func TestSchedulerStore_PruneHistory(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{
			TaskID:    "t-1",
			StartedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "t-2"}))

	require.NoError(t, store.PruneHistory(ctx, 2))

	results := store.Results()
	perTask := make(map[string]int)
	for _, r := range results {
		perTask[r.TaskID]++
	}
	assert.Equal(t, 2, perTask["t-1"])
	assert.Equal(t, 1, perTask["t-2"])

	// Most recent t-1 results survive, in chronological order.
	var t1 []domain.TaskResult
	for _, r := range results {
		if r.TaskID == "t-1" {
			t1 = append(t1, r)
		}
	}
	require.Len(t, t1, 2)
	assert.True(t, t1[0].StartedAt.Before(t1[1].StartedAt))
}
