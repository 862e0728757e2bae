package weather

import (
	"fmt"
	"regexp"
	"strconv"

	"agromarket/internal/core/domain/model/kernel"
	"agromarket/internal/pkg/errs"
)

var coordinatesPattern = regexp.MustCompile(`^\s*(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)\s*$`)

// Place is a monitored location.
type Place struct {
	Coordinates kernel.Coordinates
	City        string
	Country     string
}

// DefaultPlace is Mexico City.
func DefaultPlace() Place {
	c, _ := kernel.NewCoordinates(19.4326, -99.1332)
	return Place{Coordinates: c, City: "Ciudad de México", Country: "MX"}
}

func NewPlace(lat, lon float64, city, country string) (Place, error) {
	c, err := kernel.NewCoordinates(lat, lon)
	if err != nil {
		return Place{}, err
	}
	return Place{Coordinates: c, City: city, Country: country}, nil
}

// Label is "City, Country", or just one of them when the other is unknown.
func (p Place) Label() string {
	switch {
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.City != "":
		return p.City
	case p.Country != "":
		return p.Country
	default:
		return p.Coordinates.String()
	}
}

// ParseCoordinates accepts "lat, lon" input such as "4.7110, -74.0721".
// ok is false when the input is not a coordinate pair, so the caller can geocode it as a city.
func ParseCoordinates(input string) (c kernel.Coordinates, ok bool, err error) {
	m := coordinatesPattern.FindStringSubmatch(input)
	if m == nil {
		return kernel.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return kernel.Coordinates{}, true, errs.NewValueIsInvalidErrorWithCause("latitude", err)
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return kernel.Coordinates{}, true, errs.NewValueIsInvalidErrorWithCause("longitude", err)
	}

	c, err = kernel.NewCoordinates(lat, lon)
	if err != nil {
		return kernel.Coordinates{}, true, fmt.Errorf("parse coordinates %q: %w", input, err)
	}
	return c, true, nil
}
