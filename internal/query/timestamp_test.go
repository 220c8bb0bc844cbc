package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The default sort compares createdAt values as strings, so the layout must
// keep lexical order identical to chronological order. A trimmed fraction
// breaks that: "...00.5Z" would sort after "...00.5001Z".
func TestTimestampLayoutOrdersLexically(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	instants := []time.Time{
		base,
		base.Add(500 * time.Millisecond),    // 12:00:00.5
		base.Add(500100 * time.Microsecond), // 12:00:00.5001
		base.Add(time.Second),               // 12:00:01
		base.Add(time.Second + time.Nanosecond),
	}

	prev := ""
	for _, ts := range instants {
		formatted := ts.UTC().Format(timestampLayout)
		assert.Len(t, formatted, len("2006-01-02T15:04:05.000000000Z"),
			"fraction must be fixed-width")
		if prev != "" {
			assert.Less(t, prev, formatted,
				"later instants must format to lexically greater strings")
		}
		prev = formatted
	}
}

func TestTimestampLayoutRoundTrips(t *testing.T) {
	now := time.Now().UTC()
	parsed, err := time.Parse(time.RFC3339Nano, now.Format(timestampLayout))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(now))
}
