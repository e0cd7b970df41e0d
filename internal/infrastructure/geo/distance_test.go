package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceZero(t *testing.T) {
	assert.InDelta(t, 0, Distance(55.75, 37.61, 55.75, 37.61), 0.001)
}

func TestDistanceKnownValue(t *testing.T) {
	// One degree of latitude is ~111.2 km.
	d := Distance(55.0, 37.0, 56.0, 37.0)
	assert.InDelta(t, 111195, d, 200)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(55.75, 37.61, 55.76, 37.63)
	b := Distance(55.76, 37.63, 55.75, 37.61)
	assert.InDelta(t, a, b, 0.0001)
}

func TestWithinRadius(t *testing.T) {
	// ~0.001 deg latitude is ~111 m.
	assert.True(t, WithinRadius(55.750, 37.61, 55.751, 37.61, 200))
	assert.False(t, WithinRadius(55.750, 37.61, 55.751, 37.61, 50))
}
