package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldProcess(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	d := New(time.Minute, 3)
	d.now = func() time.Time { return now }

	assert.True(t, d.ShouldProcess("a"))
	assert.False(t, d.ShouldProcess("a"))
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))

	now = now.Add(61 * time.Second)
	assert.True(t, d.ShouldProcess("a"), "expired ids are processed again")
}

func TestCapacity(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	d := New(time.Hour, 2)
	d.now = func() time.Time { return now }

	assert.True(t, d.ShouldProcess("a"))
	now = now.Add(time.Second)
	assert.True(t, d.ShouldProcess("b"))
	now = now.Add(time.Second)
	assert.True(t, d.ShouldProcess("c"))

	assert.Equal(t, 2, d.Len())
	assert.True(t, d.ShouldProcess("a"), "oldest id was evicted")
	assert.False(t, d.ShouldProcess("c"))
}

func TestForget(t *testing.T) {
	d := New(time.Hour, 10)
	assert.True(t, d.ShouldProcess("a"))
	assert.False(t, d.ShouldProcess("a"))
	d.Forget("a")
	assert.True(t, d.ShouldProcess("a"))
}
