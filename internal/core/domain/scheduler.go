package domain

import "time"

// Built-in briefing task IDs.
const (
	TaskIDDailyWords  = "daily-words"
	TaskIDDailyQuotes = "daily-quotes"
	TaskIDBookSummary = "weekly-book-summary"
	TaskIDNewsDigest  = "weekly-news-digest"
)

// ScheduledTask is the durable state of one recurring briefing task.
// LastError and LastSuccess track the most recent outcome; detailed
// history lives in TaskResult rows.
type ScheduledTask struct {
	ID          string
	Name        string
	Interval    time.Duration
	LastRun     time.Time
	NextRun     time.Time
	LastError   string
	LastSuccess time.Time
	Enabled     bool
}

// Due reports whether the task should run at the given time. A zero
// NextRun means the task has never been scheduled and runs
// immediately, which also covers tasks that came due while the
// process was down.
func (t *ScheduledTask) Due(now time.Time) bool {
	if !t.Enabled {
		return false
	}
	return t.NextRun.IsZero() || !t.NextRun.After(now)
}

// TaskResult records one task execution for the history table.
type TaskResult struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time
	Success   bool

	// Error holds the failure message when Success is false.
	Error string
}

// SchedulerConfig holds the master switch and per-task overrides.
type SchedulerConfig struct {
	Enabled     bool
	TaskConfigs map[string]TaskConfig
}

// TaskConfig enables a single task and sets its cadence.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// GetTaskConfig returns the configuration for taskID, zero when the
// task is not configured.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	if c.TaskConfigs == nil {
		return TaskConfig{}
	}
	return c.TaskConfigs[taskID]
}

// DefaultSchedulerConfig enables every briefing task at its natural
// cadence: words and quotes daily, book summary and news digest
// weekly.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]TaskConfig{
			TaskIDDailyWords:  {Enabled: true, Interval: 24 * time.Hour},
			TaskIDDailyQuotes: {Enabled: true, Interval: 24 * time.Hour},
			TaskIDBookSummary: {Enabled: true, Interval: 7 * 24 * time.Hour},
			TaskIDNewsDigest:  {Enabled: true, Interval: 7 * 24 * time.Hour},
		},
	}
}
