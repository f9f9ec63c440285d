package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		absent bool
	}{
		{
			name:  "rfc3339",
			input: "2024-03-01T10:30:00Z",
			want:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with nanos",
			input: "2024-03-01T10:30:00.123456789Z",
			want:  time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC),
		},
		{
			name:  "zoneless local date-time",
			input: "2024-03-01T10:30:00",
			want:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "zoneless with fraction",
			input: "2024-03-01T10:30:00.5",
			want:  time.Date(2024, 3, 1, 10, 30, 0, 500000000, time.UTC),
		},
		{name: "empty is absent", input: "", absent: true},
		{name: "garbage is absent not an error", input: "yesterday", absent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if tt.absent {
				assert.True(t, IsAbsent(got))
				return
			}
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(time.Time{}))
	assert.Equal(t, "2024-03-01T10:30:00Z",
		Format(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
}

func TestRoundTrip(t *testing.T) {
	orig := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	assert.True(t, orig.Equal(Parse(Format(orig))))
}
