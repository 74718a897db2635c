package geo

import (
	"math"
	"math/rand"
)

const earthRadiusKm = 6371.0

// NearbyPoint returns a random coordinate between minKm and maxKm from the
// given origin. Used to place a responding unit around an incident when no
// live AVL feed is wired up.
func NearbyPoint(lon, lat, minKm, maxKm float64) (float64, float64) {
	distKm := minKm + rand.Float64()*(maxKm-minKm)
	bearing := rand.Float64() * 2 * math.Pi

	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	angular := distKm / earthRadiusKm

	newLat := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearing))
	newLon := lonRad + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(newLat))

	return newLon * 180 / math.Pi, newLat * 180 / math.Pi
}
