package graph

import (
	"sync"

	apperrors "histograph/errors"
)

// EventLog is the append-only, monotonically versioned record of accepted
// mutations. Version numbers start at 1; version 0 is the empty graph.
// Events are never edited or reordered once appended.
type EventLog struct {
	mu     sync.RWMutex
	events []Event
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append assigns the next version to e and records it. Integrity validation
// against the current snapshot is the caller's responsibility; the log only
// guarantees ordering and version assignment.
func (l *EventLog) Append(e Event) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.Version = uint64(len(l.events)) + 1
	l.events = append(l.events, e)
	return e.Version
}

// Len returns the version of the most recent event, which equals the number
// of events recorded.
func (l *EventLog) Len() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return uint64(len(l.events))
}

// Read returns a restartable cursor over the events that advance the graph
// from version `from` to version `to`, i.e. events with
// from < event.Version <= to. Fails with ErrOutOfRange if `to` exceeds the
// log length or the range is inverted.
func (l *EventLog) Read(from, to uint64) (*LogReader, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if to > uint64(len(l.events)) {
		return nil, apperrors.WrapErrorf(apperrors.ErrOutOfRange, "read to version %d, log length %d", to, len(l.events))
	}
	if from > to {
		return nil, apperrors.WrapErrorf(apperrors.ErrOutOfRange, "read from version %d to earlier version %d", from, to)
	}

	// Events are immutable and the slice is append-only, so holding the
	// sub-slice is safe without copying.
	return &LogReader{events: l.events[from:to]}, nil
}

// LogReader iterates a fixed range of events in version order. It is
// restartable via Reset and safe to re-consume; it is not safe for
// concurrent use by multiple goroutines.
type LogReader struct {
	events []Event
	pos    int
}

// Next returns the next event in the range, or false when exhausted.
func (r *LogReader) Next() (Event, bool) {
	if r.pos >= len(r.events) {
		return Event{}, false
	}
	e := r.events[r.pos]
	r.pos++
	return e, true
}

// Reset rewinds the cursor to the start of the range.
func (r *LogReader) Reset() {
	r.pos = 0
}

// Remaining returns how many events are left to consume.
func (r *LogReader) Remaining() int {
	return len(r.events) - r.pos
}
