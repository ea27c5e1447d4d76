package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetLocation(t *testing.T) {
	t.Cleanup(func() { Location = time.UTC })

	assert.NoError(t, SetLocation("Asia/Kolkata"))
	assert.Equal(t, "Asia/Kolkata", Location.String())

	assert.Error(t, SetLocation("Mars/Olympus"))
	assert.Equal(t, time.UTC, Location)

	assert.NoError(t, SetLocation(""))
	assert.Equal(t, time.UTC, Location)
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(2 * time.Hour)
	assert.Equal(t, time.April, c.Now().Month())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}
