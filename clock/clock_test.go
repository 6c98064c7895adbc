package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_Monotonic(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	m := NewManual(start)

	assert.Equal(t, uint64(1_700_000_000), Unix(m))

	m.Advance(90 * time.Second)
	assert.Equal(t, uint64(1_700_000_090), Unix(m))

	assert.False(t, m.Set(start), "earlier time must be ignored")
	assert.Equal(t, uint64(1_700_000_090), Unix(m))

	m.Advance(-time.Hour)
	assert.Equal(t, uint64(1_700_000_090), Unix(m))

	assert.True(t, m.Set(start.Add(time.Hour)))
	assert.Equal(t, uint64(1_700_003_600), Unix(m))
}

func TestUnix_ClampsPreEpoch(t *testing.T) {
	m := NewManual(time.Unix(-5, 0))
	assert.Equal(t, uint64(0), Unix(m))
}

func TestSystem_Now(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	assert.False(t, got.Before(before))
}
