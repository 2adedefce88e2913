package timeutil

import (
	"fmt"
	"time"
)

// LoadLocation resolves an IANA timezone name, falling back to UTC when
// the name is empty or unknown.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Now returns the current time in the given location.
func Now(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// Parse converts a string into a time.Time using the given layout. The
// error names the expected layout so callers can surface it directly.
func Parse(value, layout string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as datetime: expected format %q", value, layout)
	}
	return t, nil
}
