package prompt

import (
	"context"

	"techlead/internal/store"
)

// Apply persists a create or update result through the adapter and
// returns the background write, or nil if the result carries nothing to
// persist. The result itself is never changed by the outcome of the write.
func Apply(ctx context.Context, a *store.Adapter, userID string, res Result) *store.Write {
	switch {
	case res.Type == ResultCreate && res.Task != nil:
		return a.AddTask(ctx, userID, *res.Task)
	case res.Type == ResultUpdate && res.Status != nil:
		return a.UpdateTaskStatus(ctx, userID, res.Status.TaskID, res.Status.NewStatus)
	default:
		return nil
	}
}
