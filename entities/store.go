// Package entities holds the data model shared by the search core, the catalog
// sources and the HTTP layer.
package entities

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Coordinate is a point on the Earth's surface, in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both latitude and longitude are within range.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Date is a calendar date without time of day
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day in UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD, or an empty string for the zero date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// ExpiredAt reports whether d falls on a day strictly before t's day.
// The zero date never expires.
func (d Date) ExpiredAt(t time.Time) bool {
	if d.IsZero() {
		return false
	}
	y, m, day := t.Date()
	return d.Time.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Collaborators sometimes send full timestamps
	if len(s) > len(dateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = NewDate(t.Date())
			return nil
		}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Medicine is one inventory line item of a store
type Medicine struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer"`
	BatchNumber  string  `json:"batchNumber"`
	ExpiryDate   Date    `json:"expiryDate"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
}

// Store is a pharmacy with its location and the medicines it owns
type Store struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	ContactNumber string     `json:"contactNumber"`
	Location      Coordinate `json:"location"`
	Medicines     []Medicine `json:"medicines"`
}

// StoreSummary is the presentation part of a store, without its inventory
type StoreSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	ContactNumber string     `json:"contactNumber"`
	Location      Coordinate `json:"location"`
}

// Summary returns the store fields exposed alongside search results
func (s Store) Summary() StoreSummary {
	return StoreSummary{
		ID:            s.ID,
		Name:          s.Name,
		Address:       s.Address,
		ContactNumber: s.ContactNumber,
		Location:      s.Location,
	}
}
