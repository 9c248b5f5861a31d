// Package notify connects the host's change signals to the save pass.
// Notifier fans out section-change events; AutoSaver coalesces bursts of
// them so rapid successive changes produce at most one save per interval.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notifier publishes section-change events to any number of subscribers.
// Publishing never blocks; a subscriber that has fallen behind misses
// events, which is acceptable since any event just means "save soon".
type Notifier struct {
	mu     sync.Mutex
	subs   []chan string
	closed bool
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe returns a channel of changed section names. The channel is
// closed by Close.
func (n *Notifier) Subscribe() <-chan string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan string, 16)
	if n.closed {
		close(ch)
		return ch
	}
	n.subs = append(n.subs, ch)
	return ch
}

// Changed reports that a section's live value was modified.
func (n *Notifier) Changed(section string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	for _, ch := range n.subs {
		select {
		case ch <- section:
		default:
		}
	}
}

// Close closes all subscriber channels. Changed becomes a no-op.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for _, ch := range n.subs {
		close(ch)
	}
	n.subs = nil
}

// SaveFunc performs one save pass over the whole store.
type SaveFunc func(ctx context.Context) error

// AutoSaver drains a change-event channel and debounces it into save
// passes: the first event after quiet arms a timer, further events within
// the window coalesce into the same save.
type AutoSaver struct {
	events <-chan string
	delay  time.Duration
	save   SaveFunc
	log    *slog.Logger
}

// AutoSaverOption configures an AutoSaver.
type AutoSaverOption func(*AutoSaver)

// WithAutoSaverLogger sets the logger used when a save pass fails.
func WithAutoSaverLogger(log *slog.Logger) AutoSaverOption {
	return func(a *AutoSaver) { a.log = log }
}

func NewAutoSaver(events <-chan string, delay time.Duration, save SaveFunc, opts ...AutoSaverOption) *AutoSaver {
	a := &AutoSaver{
		events: events,
		delay:  delay,
		save:   save,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run blocks until the context is canceled or the event channel is closed.
// A pending debounced save is flushed before returning. Save failures are
// logged, not fatal; the next event schedules another attempt.
func (a *AutoSaver) Run(ctx context.Context) error {
	timer := time.NewTimer(a.delay)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	flush := func() {
		if !pending {
			return
		}
		pending = false
		if err := a.save(ctx); err != nil {
			a.log.Warn("auto-save failed", "err", err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			flush()
			return ctx.Err()
		case _, ok := <-a.events:
			if !ok {
				flush()
				return nil
			}
			if !pending {
				pending = true
				timer.Reset(a.delay)
			}
		case <-timer.C:
			flush()
		}
	}
}
