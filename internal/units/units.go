// Package units holds the physical constants and unit conversions used across
// framevel.
//
// Internal base units are fixed: kilometres for length, seconds for time,
// radians for angles and km/s for velocities. Conversions happen only at the
// edges (CLI flags, scenario files, configuration).
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Length scales in kilometres.
const (
	Kilometre  = 1.0
	AU         = 149597870.700
	Parsec     = AU * 648000 / math.Pi
	Kiloparsec = 1000 * Parsec
)

// Time scales in seconds.
const (
	Second        = 1.0
	Day           = 86400.0
	JulianYear    = 365.25 * Day
	JulianCentury = 100 * JulianYear
)

// Angle scales in radians.
const (
	Degree         = math.Pi / 180
	Arcsecond      = Degree / 3600
	Milliarcsecond = Arcsecond / 1000
)

// MasPerYear is one milliarcsecond per Julian year expressed in rad/s.
const MasPerYear = Milliarcsecond / JulianYear

// j2000 is 2000-01-01T12:00:00, the zero point of every Epoch value.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// J2000 is the reference epoch in seconds since J2000 (always zero).
const J2000 = 0.0

// ParseEpoch converts an epoch string to seconds since J2000.
//
// Accepted forms:
//   - Julian epochs: "J2000", "J2017.5"
//   - Dates: "2017-01-01", "2017-01-01T06:30:00", RFC 3339
//
// Dates are read on the UTC scale and the TT-UTC offset is ignored.
func ParseEpoch(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty epoch")
	}

	if s[0] == 'J' || s[0] == 'j' {
		year, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid julian epoch %q: %w", s, err)
		}
		return (year - 2000) * JulianYear, nil
	}

	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Sub(j2000).Seconds(), nil
		}
	}
	return 0, fmt.Errorf("invalid epoch %q: want Jyyyy[.f] or yyyy-mm-dd[Thh:mm:ss]", s)
}

// FormatEpoch renders seconds since J2000 as a Julian epoch string.
func FormatEpoch(seconds float64) string {
	return "J" + strconv.FormatFloat(2000+seconds/JulianYear, 'f', -1, 64)
}

// ParseLength parses a length with a unit suffix ("7.8au", "10pc", "150 km").
// A bare number is taken as kilometres.
func ParseLength(s string) (float64, error) {
	suffixes := []struct {
		unit  string
		scale float64
	}{
		{"kpc", Kiloparsec},
		{"pc", Parsec},
		{"au", AU},
		{"km", Kilometre},
	}
	return parseScaled(s, suffixes)
}

// ParseDuration parses a finite-difference step. Go durations ("500ms", "1h")
// and unit-suffixed values ("1yr", "2d", "30s") are accepted; a bare number is
// taken as seconds.
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d.Seconds(), nil
	}
	suffixes := []struct {
		unit  string
		scale float64
	}{
		{"yr", JulianYear},
		{"d", Day},
		{"s", Second},
	}
	return parseScaled(s, suffixes)
}

func parseScaled(s string, suffixes []struct {
	unit  string
	scale float64
}) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf.unit) {
			num := strings.TrimSpace(strings.TrimSuffix(s, suf.unit))
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid value %q: %w", s, err)
			}
			return v * suf.scale, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}
