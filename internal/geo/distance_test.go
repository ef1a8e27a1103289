package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	p := Point(41.3275, 19.8187)
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Point(41.33, 19.82)
	b := Point(40.64, 22.94)

	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}

func TestDistanceKm_OneDegreeLatitude(t *testing.T) {
	a := Point(10, 20)
	b := Point(11, 20)

	// 1° широты ≈ 111.19 км при R = 6371
	assert.InDelta(t, 111.19, DistanceKm(a, b), 0.05)
}

func TestDistanceKm_TiranaFixture(t *testing.T) {
	store := Point(41.33, 19.82)
	customer := Point(41.35, 19.80)

	assert.InDelta(t, 2.78, DistanceKm(store, customer), 0.05)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.78, Round2(2.7812))
	assert.Equal(t, 2.79, Round2(2.786))
	assert.Equal(t, 0.0, Round2(0))
}
