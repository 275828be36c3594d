package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	loc, err := LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2024-05-01 20:00 UTC is already 2024-05-02 03:00 in Jakarta.
	key := DayKey(time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, loc), key)

	sameDay := DayKey(time.Date(2024, 5, 2, 23, 59, 59, 0, loc), loc)
	assert.True(t, key.Equal(sameDay))

	nextDay := DayKey(time.Date(2024, 5, 3, 0, 0, 0, 0, loc), loc)
	assert.False(t, key.Equal(nextDay))
}

func TestLoadLocationDefault(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())

	_, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(9 * time.Hour)
	assert.Equal(t, start.Add(9*time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}
