package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// earthRadiusNm is the Earth's mean radius in nautical miles.
const earthRadiusNm = 3440.065

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// DistanceNm parses a "lat, lon" position string and returns the
// great-circle distance to ref, rounded to one decimal place, together with
// a display form like "123.4 nm". Malformed input (wrong field count,
// non-numeric tokens, empty string) yields (nil, nil) without error.
func DistanceNm(position string, ref Coordinates) (*float64, *string) {
	parts := strings.Split(position, ",")
	if len(parts) != 2 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, nil
	}

	d := haversine(Coordinates{Lat: lat, Lon: lon}, ref)
	d = math.Round(d*10) / 10

	display := fmt.Sprintf("%v nm", d)
	return &d, &display
}

// haversine computes the great-circle distance between two points in
// nautical miles.
func haversine(a, b Coordinates) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusNm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
