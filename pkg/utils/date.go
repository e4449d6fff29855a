package utils

import (
	"time"
	_ "time/tzdata"
)

// TimeNowIn returns the current time in the named IANA location, or UTC when
// the location cannot be loaded.
func TimeNowIn(location string) time.Time {
	return time.Now().In(LoadLocation(location))
}

// LoadLocation resolves an IANA location name, falling back to UTC.
func LoadLocation(location string) *time.Location {
	if location == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
