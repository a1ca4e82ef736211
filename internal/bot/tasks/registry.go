package tasks

import "context"

// ScheduledTaskFunc is the signature of every task. The context is
// cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys under scheduler.tasks in the config.
const (
	SQLMaintenance    = "sql_maintenance"
	ConversationPrune = "conversation_prune"
)

// RegisterAllTasks returns every task keyed by its config name. Each task
// reports its outcome to the task_runs metric.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		SQLMaintenance:    newSQLMaintenanceTask(deps),
		ConversationPrune: newConversationPruneTask(deps),
	}
	for name, task := range tasks {
		tasks[name] = observed(deps, name, task)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}

func observed(deps TaskDeps, name string, task ScheduledTaskFunc) ScheduledTaskFunc {
	return func(ctx context.Context) error {
		err := task(ctx)
		deps.Metrics.ObserveTaskRun(name, err)
		return err
	}
}
