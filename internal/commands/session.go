package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"techlead/internal/config"
	"techlead/internal/events"
	"techlead/internal/exitcode"
	"techlead/internal/output"
	"techlead/internal/service"
	"techlead/internal/store"
)

// newAdapter wraps the session's store with the configured write timeout.
func newAdapter(cfg *config.Config, sess *service.Session) *store.Adapter {
	a := store.NewAdapter(sess.Store, sess.Bus, cfg.Log)
	a.SetTimeout(cfg.Settings.WriteTimeout)
	return a
}

// flush waits for pending writes. It keeps waiting after ctx is cancelled,
// bounded by the write timeout.
func flush(ctx context.Context, cfg *config.Config, a *store.Adapter) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Settings.WriteTimeout)
	defer cancel()
	if err := a.Flush(ctx); err != nil {
		cfg.Log.Warn().Err(err).Msg("pending writes did not finish")
	}
}

// syncWriter serialises writes from the command and bus handlers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Fd exposes the underlying file descriptor so terminal detection still works.
func (s *syncWriter) Fd() uintptr {
	if f, ok := s.w.(interface{ Fd() uintptr }); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

// failureReporter prints permission errors from the bus as they arrive and
// remembers whether any were seen.
type failureReporter struct {
	mu    sync.Mutex
	count int
}

func reportFailures(bus *events.Bus, w io.Writer) (*failureReporter, func()) {
	r := &failureReporter{}
	unsubscribe := bus.Subscribe(func(e *events.PermissionError) {
		r.mu.Lock()
		r.count++
		r.mu.Unlock()
		output.FormatPermissionError(w, e)
	})
	return r, unsubscribe
}

// Failed reports whether any failure was published.
func (r *failureReporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count > 0
}

// writeExitCode maps a settled write error to an exit code.
func writeExitCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, store.ErrMissingIdentity):
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}

// finishWrite waits for w and reports its outcome. Failures published on
// the bus have already been printed by a failureReporter.
func finishWrite(ctx context.Context, cfg *config.Config, a *store.Adapter, w *store.Write, errOut io.Writer) int {
	flush(ctx, cfg, a)
	if w == nil {
		return exitcode.Success
	}
	err := w.Err()
	if errors.Is(err, store.ErrMissingIdentity) {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return writeExitCode(err)
}

// readError prints a failed synchronous read and maps it to an exit code.
func readError(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrPermissionDenied) {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
