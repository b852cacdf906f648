package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, New(0, 3, 4).Distance(Zero), 1e-9)
	assert.InDelta(t, 0.0, New(1, 2, 3).Distance(New(1, 2, 3)), 1e-9)
}

func TestEqual(t *testing.T) {
	assert.True(t, New(1, 2, 3).Equal(New(1, 2, 3.00001), DefaultTolerance))
	assert.False(t, New(1, 2, 3).Equal(New(1, 2, 3.1), DefaultTolerance))
}

func TestAlmostEqual(t *testing.T) {
	assert.True(t, AlmostEqual(0.1+0.2, 0.3, DefaultTolerance))
	assert.False(t, AlmostEqual(1, 1.001, DefaultTolerance))
}

func TestString(t *testing.T) {
	assert.Equal(t, "<1 2.5 -3>", New(1, 2.5, -3).String())
}
