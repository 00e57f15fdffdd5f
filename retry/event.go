package retry

import "time"

// EventType names a step of the attempt sequence.
type EventType string

const (
	EventAttemptStart  EventType = "attempt_start"
	EventAttemptFailed EventType = "attempt_failed"
	EventRetrying      EventType = "retrying" // about to wait Delay
	EventSuccess       EventType = "success"
	EventExhausted     EventType = "exhausted" // every attempt failed with a retryable error
)

// Event reports progress of a retried call, e.g. for a CLI progress line.
type Event struct {
	Type        EventType
	Attempt     int // 1-indexed
	MaxAttempts int
	Error       error         // set on EventAttemptFailed and EventExhausted
	Delay       time.Duration // set on EventRetrying
	Retryable   bool          // set on EventAttemptFailed
	Timestamp   time.Time
}

// emit stamps and sends event without blocking; a full channel drops it.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
	}
}
