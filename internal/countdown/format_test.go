package countdown

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{300, "05:00"},
		{599, "09:59"},
		{3599, "59:59"},
		{3661, "61:01"},
		{6000, "100:00"},
		{-1, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.seconds))
		})
	}
}

func TestFormat_MatchesSetDurationForAllSmallDurations(t *testing.T) {
	for d := 1; d <= 7200; d++ {
		tr := SetDurationSeconds(State{}, d)
		require.NoError(t, tr.Err)
		want := fmt.Sprintf("%02d:%02d", d/60, d%60)
		if got := tr.State.Display(); got != want {
			t.Fatalf("duration %d: got %q, want %q", d, got, want)
		}
	}
}
