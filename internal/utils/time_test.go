package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionDay(t *testing.T) {
	loc, err := LoadZone(DefaultZone)
	require.NoError(t, err)
	cutoff, ok := ParseHHMM("05:20")
	require.True(t, ok)

	testCases := []struct {
		at   time.Time
		want string
	}{
		{at: time.Date(2025, 5, 10, 15, 16, 0, 0, loc), want: "10-05"},
		{at: time.Date(2025, 5, 11, 0, 2, 0, 0, loc), want: "10-05"},
		{at: time.Date(2025, 5, 11, 5, 20, 0, 0, loc), want: "10-05"},
		{at: time.Date(2025, 5, 11, 5, 21, 0, 0, loc), want: "11-05"},
		{at: time.Date(2025, 1, 1, 3, 0, 0, 0, loc), want: "31-12"},
		// 23:00 UTC is 04:30 IST the next day, still collecting for the 10th.
		{at: time.Date(2025, 5, 10, 23, 0, 0, 0, time.UTC), want: "10-05"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, CollectionDay(tc.at, loc, cutoff), "at=%s", tc.at)
	}
}

func TestParseHHMM(t *testing.T) {
	m, ok := ParseHHMM("05:20")
	assert.True(t, ok)
	assert.Equal(t, 320, m)

	for _, bad := range []string{"", "5:20", "24:00", "12:60", "ab:cd", "12-30"} {
		_, ok := ParseHHMM(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, "00:05", FormatHHMM(5))
	assert.Equal(t, "23:59", FormatHHMM(-1))
}

func TestInWindow(t *testing.T) {
	assert.True(t, InWindow(915, 914, 920))
	assert.True(t, InWindow(920, 914, 920))
	assert.False(t, InWindow(921, 914, 920))

	// crosses midnight
	assert.True(t, InWindow(1438, 1435, 5))
	assert.True(t, InWindow(3, 1435, 5))
	assert.False(t, InWindow(6, 1435, 5))
}
