package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "empty", in: "", want: time.Time{}},
		{name: "garbage", in: "yesterday", want: time.Time{}},
		{name: "millisecond utc", in: "2024-05-01T10:20:30.123Z", want: time.Date(2024, 5, 1, 10, 20, 30, 123e6, time.UTC)},
		{name: "rfc3339", in: "2024-05-01T10:20:30Z", want: time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{name: "date", in: "2024-05-01", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseInstant(tt.in)))
		})
	}
}

func TestFormatInstant_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 20, 30, 123e6, time.UTC)
	s := FormatInstant(ts)
	assert.Equal(t, "2024-05-01T10:20:30.123Z", s)
	assert.True(t, ts.Equal(ParseInstant(s)))
	assert.Equal(t, "1970-01-01T00:00:00.000Z", EpochISO)
}

func TestLaterOf(t *testing.T) {
	assert.Equal(t, "2024-05-02", LaterOf("2024-05-01", "2024-05-02"))
	assert.Equal(t, "2024-05-02", LaterOf("2024-05-02", "2024-05-01"))
	assert.Equal(t, "2024-05-01", LaterOf("2024-05-01", ""))
	assert.Equal(t, "a", LaterOf("a", "b"))
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var v struct {
		D Duration `json:"d"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"d":"2s"}`), &v))
	assert.Equal(t, 2*time.Second, v.D.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"d":1000}`), &v))
	assert.Equal(t, time.Microsecond, v.D.Duration)

	require.Error(t, json.Unmarshal([]byte(`{"d":true}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"d":"soon"}`), &v))
}
