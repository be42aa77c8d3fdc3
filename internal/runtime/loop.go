package runtime

import (
	"context"
	"fmt"
	"log/slog"
)

// Handler applies one event end to end: state mutation, derived
// re-evaluation, gate decisions, observation hooks. Implemented by app.App.
type Handler interface {
	Apply(ev Event) error
}

// Loop is the single-writer dispatch loop.
//
// Controls call Dispatch from any goroutine; Run must be called from
// exactly one goroutine, and every event is fully applied before the next
// is dequeued. No two events are ever interleaved.
type Loop struct {
	handler Handler
	clock   *Clock
	queue   *eventQueue
	tokens  TokenGenerator
}

// NewLoop creates a Loop around a handler.
//
// The clock is shared with the handler's trace recorder so event stamps and
// trace entry stamps form a single monotonic sequence.
func NewLoop(handler Handler, clock *Clock, tokens TokenGenerator) *Loop {
	return &Loop{
		handler: handler,
		clock:   clock,
		queue:   newEventQueue(),
		tokens:  tokens,
	}
}

// Dispatch submits an action for processing by the Run loop.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the action is unknown or the loop has been stopped.
func (l *Loop) Dispatch(a Action) bool {
	if !ValidAction(a) {
		slog.Warn("unknown action dropped", "action", string(a))
		return false
	}
	ev := Event{
		Action: a,
		Token:  l.tokens.Generate(),
		Seq:    l.clock.Next(),
	}
	return l.queue.Enqueue(ev)
}

// Run starts the single-writer loop.
// Blocks until the context is cancelled or Stop() is called.
//
// ERROR HANDLING: On event failure the error is logged with full event
// context and processing continues. Retrying would make the trace depend on
// how many attempts a run happened to need, so there is no retry.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("loop starting")

	for {
		event, ok := l.queue.TryDequeue()
		if ok {
			if err := l.process(event); err != nil {
				slog.Error("event processing failed",
					"error", err,
					"action", string(event.Action),
					"token", event.Token,
					"seq", event.Seq,
				)
			}
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// Signal received - loop back to TryDequeue. The signal channel
			// closes when the queue is closed, which fires this case
			// immediately.
			if l.queue.Len() == 0 {
				slog.Info("loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop gracefully shuts down the loop.
// Closes the event queue, which causes Run() to return once drained.
func (l *Loop) Stop() {
	l.queue.Close()
}

// process hands one event to the handler.
// Called only from the Run goroutine - single-writer guarantee.
func (l *Loop) process(ev Event) error {
	slog.Debug("processing event",
		"action", string(ev.Action),
		"token", ev.Token,
		"seq", ev.Seq,
	)

	if err := l.handler.Apply(ev); err != nil {
		return fmt.Errorf("apply %s: %w", ev.Action, err)
	}
	return nil
}

// QueueLen returns the number of pending events.
// Useful for monitoring and testing.
func (l *Loop) QueueLen() int {
	return l.queue.Len()
}

// Clock returns the loop's logical clock.
func (l *Loop) Clock() *Clock {
	return l.clock
}
