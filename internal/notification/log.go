package notification

import (
	"sync"
	"time"
)

// MaxLogEntries bounds the notification history.
const MaxLogEntries = 100

// Log is a bounded, newest-first history of notifications.
type Log struct {
	mu      sync.RWMutex
	entries []Data
	max     int
	now     func() time.Time
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) LogOption {
	return func(l *Log) { l.now = now }
}

// WithCapacity overrides MaxLogEntries. Non-positive values are ignored.
func WithCapacity(n int) LogOption {
	return func(l *Log) {
		if n > 0 {
			l.max = n
		}
	}
}

// NewLog creates an empty log.
func NewLog(opts ...LogOption) *Log {
	l := &Log{
		max: MaxLogEntries,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append stamps d with the current time, stores it as the newest entry and
// drops the oldest entries beyond capacity. It returns the stored copy.
func (l *Log) Append(d Data) Data {
	d.Timestamp = FormatTimestamp(l.now())

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Data, 0, min(len(l.entries)+1, l.max))
	entries = append(entries, d)
	entries = append(entries, l.entries...)
	if len(entries) > l.max {
		entries = entries[:l.max]
	}
	l.entries = entries

	return d
}

// Entries returns a copy of the history, newest first.
func (l *Log) Entries() []Data {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Data, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
