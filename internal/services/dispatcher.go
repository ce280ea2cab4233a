package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"shoppingstats/internal/ledger"
	"shoppingstats/internal/log"
	"shoppingstats/internal/stats"
)

// Sink receives a computed report once the ledger has been saved.
// Sinks only read the ledger.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, l *ledger.Ledger, r stats.Report) error
}

// Dispatcher fans a report out to every sink concurrently. One failing sink
// does not cancel the others.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
}

func NewDispatcher(timeout time.Duration, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, timeout: timeout}
}

// Sinks returns the configured sink names.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, len(d.sinks))
	for i, s := range d.sinks {
		names[i] = s.Name()
	}
	return names
}

// Dispatch delivers r and joins the errors of every failed sink.
func (d *Dispatcher) Dispatch(ctx context.Context, l *ledger.Ledger, r stats.Report) error {
	if len(d.sinks) == 0 {
		return nil
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	logger := log.FromContext(ctx).WithComponent(log.ComponentApp)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, sink := range d.sinks {
		g.Go(func() error {
			start := time.Now()
			err := sink.Deliver(ctx, l, r)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
				mu.Unlock()
				return nil
			}
			logger.DebugContext(ctx, "Delivered report",
				log.FieldSink, sink.Name(),
				log.FieldReportMonth, r.Month.String(),
				log.FieldDuration, time.Since(start).Milliseconds())
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
