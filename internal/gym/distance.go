package gym

import (
	"math"
	"sort"
)

const (
	earthRadiusKm       = 6371.0
	DefaultNearbyRadius = 10.0
)

// DistanceKm is the great-circle distance between two points, rounded to
// two decimal places.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(earthRadiusKm*c*100) / 100
}

// Nearby keeps gyms with coordinates within radiusKm of the center, closest
// first.
func Nearby(gyms []Gym, lat, lng, radiusKm float64) []GymWithDistance {
	out := []GymWithDistance{}
	for _, g := range gyms {
		if g.Latitude == nil || g.Longitude == nil {
			continue
		}
		d := DistanceKm(lat, lng, *g.Latitude, *g.Longitude)
		if d <= radiusKm {
			out = append(out, GymWithDistance{Gym: g, Distance: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
