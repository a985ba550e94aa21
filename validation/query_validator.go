// Package validation checks search queries coming from any boundary and the
// quality of catalog data before it is published to the search core.
package validation

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
)

// Query field names, as exposed to callers
const (
	FieldMedicineName = "medicineName"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldMaxDistance  = "maxDistance"
)

// Compile-time check to ensure QueryValidatorImpl implements QueryValidator
var _ interfaces.QueryValidator = (*QueryValidatorImpl)(nil)

// RawQuery is the loosely-typed form of a search query, as read from a transport
type RawQuery = interfaces.RawQuery

// QueryValidatorImpl validates and normalizes raw search queries.
// MaxNameLength is a transport limit; zero means unbounded.
type QueryValidatorImpl struct {
	MaxNameLength int
}

// NewQueryValidator creates a validator with the given medicine name limit (0 = none)
func NewQueryValidator(maxNameLength int) *QueryValidatorImpl {
	return &QueryValidatorImpl{MaxNameLength: maxNameLength}
}

// ValidateQuery checks all four fields independently and returns either a
// normalized query or a *ValidationError listing every violation.
func (v *QueryValidatorImpl) ValidateQuery(raw RawQuery) (entities.SearchQuery, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(raw.MedicineName)
	switch {
	case name == "":
		verr.add(FieldMedicineName, "medicine name cannot be empty")
	case v.MaxNameLength > 0 && utf8.RuneCountInString(name) > v.MaxNameLength:
		verr.add(FieldMedicineName, "medicine name too long: maximum %d characters", v.MaxNameLength)
	}

	lat, ok := parseNumber(verr, FieldLatitude, raw.Latitude)
	if ok && (lat < -90 || lat > 90) {
		verr.add(FieldLatitude, "latitude must be between -90 and 90, got %s", formatNumber(lat))
	}

	lon, ok := parseNumber(verr, FieldLongitude, raw.Longitude)
	if ok && (lon < -180 || lon > 180) {
		verr.add(FieldLongitude, "longitude must be between -180 and 180, got %s", formatNumber(lon))
	}

	maxDistance, ok := parseNumber(verr, FieldMaxDistance, raw.MaxDistance)
	if ok && maxDistance <= 0 {
		verr.add(FieldMaxDistance, "max distance must be greater than 0 meters, got %s", formatNumber(maxDistance))
	}

	if len(verr.Fields) > 0 {
		return entities.SearchQuery{}, verr
	}

	return entities.SearchQuery{
		MedicineName:      name,
		Origin:            entities.Coordinate{Latitude: lat, Longitude: lon},
		MaxDistanceMeters: maxDistance,
	}, nil
}

// parseNumber parses a finite float, recording a field error otherwise
func parseNumber(verr *ValidationError, field, input string) (float64, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		verr.add(field, "%s is required", field)
		return 0, false
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		verr.add(field, "%s must be a number, got %q", field, input)
		return 0, false
	}

	return value, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
