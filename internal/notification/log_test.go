package notification

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestLogAppendStampsAndPrepends(t *testing.T) {
	clock := &stepClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	log := NewLog(WithClock(clock.now))

	first := log.Append(Data{Title: "first", Body: "a", Timestamp: "stale"})
	second := log.Append(Data{Title: "second", Body: "b"})

	assert.Equal(t, "2026-10-19T12:00:01.000Z", first.Timestamp)
	assert.Equal(t, "2026-10-19T12:00:02.000Z", second.Timestamp)

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Title)
	assert.Equal(t, "first", entries[1].Title)
}

func TestLogNeverExceedsCapacityAndStaysNewestFirst(t *testing.T) {
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	log := NewLog(WithClock(clock.now))

	rng := rand.New(rand.NewSource(7))
	total := 0
	for round := 0; round < 20; round++ {
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			total++
			log.Append(Data{Title: fmt.Sprintf("n%d", total), Body: "b"})
		}

		entries := log.Entries()
		assert.LessOrEqual(t, len(entries), MaxLogEntries)
		assert.Equal(t, min(total, MaxLogEntries), len(entries))
		for i := 1; i < len(entries); i++ {
			assert.True(t, entries[i-1].Time().After(entries[i].Time()), "entries must be newest first")
		}
		if total > 0 {
			assert.Equal(t, fmt.Sprintf("n%d", total), entries[0].Title)
		}
	}
}

func TestLogDropsOldest(t *testing.T) {
	log := NewLog(WithCapacity(3))
	for i := 1; i <= 5; i++ {
		log.Append(Data{Title: fmt.Sprintf("n%d", i), Body: "b"})
	}

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"n5", "n4", "n3"}, []string{entries[0].Title, entries[1].Title, entries[2].Title})
}

func TestLogEntriesIsACopy(t *testing.T) {
	log := NewLog()
	log.Append(Data{Title: "t", Body: "b"})

	entries := log.Entries()
	entries[0].Title = "mutated"

	assert.Equal(t, "t", log.Entries()[0].Title)
	assert.Equal(t, 1, log.Len())
}

func TestFromPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload MessagePayload
		want    Data
	}{
		{
			name:    "title only",
			payload: MessagePayload{Notification: &PayloadNotification{Title: "T"}},
			want:    Data{Title: "T", Body: "No Body"},
		},
		{
			name:    "no notification block",
			payload: MessagePayload{Data: map[string]string{"k": "v"}},
			want:    Data{Title: "No Title", Body: "No Body"},
		},
		{
			name: "all fields",
			payload: MessagePayload{Notification: &PayloadNotification{
				Title: "T", Body: "B", Icon: "https://i.test/i.png", Image: "https://i.test/m.png",
			}},
			want: Data{Title: "T", Body: "B", IconURL: "https://i.test/i.png", ImageURL: "https://i.test/m.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromPayload(tt.payload))
		})
	}
}
