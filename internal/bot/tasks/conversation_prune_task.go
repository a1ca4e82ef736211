package tasks

import (
	"context"
	"fmt"
	"time"
)

// newConversationPruneTask deletes conversations idle for longer than the
// configured retention. A zero retention keeps everything.
func newConversationPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", ConversationPrune)

	return func(ctx context.Context) error {
		retention := deps.Config.Scheduler.ConversationRetention
		if retention <= 0 {
			log.DebugContext(ctx, "Conversation retention disabled, skipping prune")
			return nil
		}

		cutoff := time.Now().UTC().Add(-retention)
		log.InfoContext(ctx, "Pruning idle conversations", "cutoff", cutoff)

		removed, err := deps.Store.DeleteConversationsBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Conversation prune failed", "error", err)
			return fmt.Errorf("conversation prune failed: %w", err)
		}

		log.InfoContext(ctx, "Conversation prune completed", "removed", removed)
		return nil
	}
}
