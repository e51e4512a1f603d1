// Package matching scores and ranks guards against a booking request and
// maintains the day-level slot calendar used for conflict detection.
//
// Everything here is a pure function of its arguments.
package matching

import (
	"math"

	"guard-matching/internal/models"
)

const (
	earthRadiusKm          = 6371.0
	DefaultAverageSpeedKmh = 40.0
)

// DistanceKm returns the great-circle distance between two points in decimal degrees.
func DistanceKm(a, b models.GeoPoint) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	rLat1 := degreesToRadians(a.Latitude)
	rLat2 := degreesToRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// TravelTimeMinutes is a naive ETA at constant speed. It is not rounded.
func TravelTimeMinutes(distanceKm, speedKmh float64) float64 {
	if speedKmh <= 0 {
		speedKmh = DefaultAverageSpeedKmh
	}
	return distanceKm / speedKmh * 60
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
