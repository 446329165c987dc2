package store

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"techlead/internal/events"
	"techlead/internal/service"
)

// DefaultPollInterval is how often the watcher re-reads the task list.
const DefaultPollInterval = 2 * time.Second

// Watcher delivers the full, ordered task list of a user whenever it
// changes. It polls the store; the first successful read is always delivered.
type Watcher struct {
	store    service.Store
	bus      *events.Bus
	log      zerolog.Logger
	interval time.Duration
}

// NewWatcher creates a watcher. A non-positive interval selects DefaultPollInterval.
func NewWatcher(s service.Store, bus *events.Bus, log zerolog.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{store: s, bus: bus, log: log, interval: interval}
}

// Run polls until ctx is done, calling fn with each changed snapshot.
// A failed read is published on the bus once per run of consecutive
// failures. Run returns ctx.Err().
func (w *Watcher) Run(ctx context.Context, userID string, fn func([]service.Task)) error {
	var (
		last    uint64
		seen    bool
		failing bool
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		tasks, err := w.store.ListTasks(ctx, userID)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			if !failing {
				failing = true
				path := service.CollectionPath(userID)
				w.log.Error().Err(err).Str("path", path).Msg("task listener failed")
				w.bus.Publish(&events.PermissionError{
					Operation: events.OpList,
					Path:      path,
					Err:       err,
				})
			}
		default:
			failing = false
			sum := fingerprint(tasks)
			if !seen || sum != last {
				seen = true
				last = sum
				w.log.Debug().Int("tasks", len(tasks)).Msg("snapshot changed")
				fn(tasks)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// fingerprint hashes every field of every task in order.
func fingerprint(tasks []service.Task) uint64 {
	h := xxhash.New()
	for _, t := range tasks {
		for _, s := range []string{t.ID, t.Project, t.Description, t.Assignee, t.Status, t.Deadline, t.Notes} {
			h.WriteString(s)
			h.Write([]byte{0})
		}
		h.WriteString(strconv.FormatInt(t.LastUpdated.UnixNano(), 10))
		h.Write([]byte{1})
	}
	return h.Sum64()
}
