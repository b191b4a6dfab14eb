package cli

import (
	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/adapters/driven/delivery/console"
	"github.com/docsage/docsage/internal/core/services"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Scheduled briefing tasks",
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the briefing scheduler in the foreground",
	Long: `Runs the scheduler until interrupted. Due tasks generate their
briefing and deliver it to the terminal. Task state survives restarts;
a task that was due while docsage was not running fires on startup.`,
	Args: cobra.NoArgs,
	RunE: runScheduleRun,
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled task state",
	Args:  cobra.NoArgs,
	RunE:  runScheduleStatus,
}

func init() {
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleStatusCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleRun(cmd *cobra.Command, _ []string) error {
	scheduler := services.NewScheduler(
		schedulerConfig(),
		store.SchedulerStore(),
		briefingService,
		services.WithDeliverer(console.New(cmd.OutOrStdout())),
	)

	cmd.Println("Scheduler running. Press ctrl-c to stop.")
	defer scheduler.Stop() //nolint:errcheck
	return scheduler.Start(cmd.Context())
}

func runScheduleStatus(cmd *cobra.Command, _ []string) error {
	tasks, err := store.SchedulerStore().ListTasks(cmd.Context())
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		cmd.Println("No scheduled tasks yet. Run 'docsage schedule run' once to initialise them.")
		return nil
	}

	for i := range tasks {
		t := &tasks[i]
		cmd.Printf("  %s (%s)\n", t.Name, t.ID)
		cmd.Printf("    Interval: %s\n", t.Interval)
		if !t.LastRun.IsZero() {
			cmd.Printf("    Last run: %s\n", t.LastRun.Format("2006-01-02 15:04:05"))
		}
		if !t.NextRun.IsZero() {
			cmd.Printf("    Next run: %s\n", t.NextRun.Format("2006-01-02 15:04:05"))
		}
		if t.LastError != "" {
			cmd.Printf("    Last error: %s\n", t.LastError)
		}
		cmd.Println()
	}
	return nil
}
