package tasks

import (
	"context"
)

// newSessionCleanupTask creates the scheduled task function that evicts
// browser sessions idle for longer than the configured TTL.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")
	ttl := deps.Config.Server.SessionTTL

	return func(ctx context.Context) error {
		removed := deps.Sessions.PruneIdle(ttl)
		if removed > 0 {
			log.InfoContext(ctx, "Pruned idle sessions", "removed", removed, "remaining", deps.Sessions.Len())
		} else {
			log.DebugContext(ctx, "No idle sessions to prune", "live", deps.Sessions.Len())
		}
		return nil
	}
}
