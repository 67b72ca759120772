package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, HaversineDistance(45.4642, 9.1900, 45.4642, 9.1900), 0.001)

	// Milano Duomo to Castello Sforzesco, roughly 1.1 km.
	d := HaversineDistance(45.4642, 9.1900, 45.4706, 9.1793)
	assert.InDelta(t, 1100, d, 150)

	// One degree of latitude is about 111 km.
	d = HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 500)
}
