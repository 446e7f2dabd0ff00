// Package zone defines the time zone selection used when rendering timestamps.
package zone

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	// Embedded tz database so IANA names resolve on hosts without zoneinfo.
	_ "time/tzdata"
)

// Zone is a pflag compatible wrapper around a *time.Location. The zero value
// is the process local zone.
type Zone struct {
	name string
	loc  *time.Location
}

const (
	localName = "Local"
	utcName   = "UTC"
)

var (
	Local = Zone{}
	UTC   = Zone{name: utcName, loc: time.UTC}
)

// Parse resolves a zone name. Accepted forms are "local" or an empty string,
// "UTC" or "Z", numeric offsets such as "+08:00", "-0530" or "+8", and IANA
// names such as "Asia/Shanghai".
func Parse(name string) (Zone, error) {
	s := strings.TrimSpace(name)
	switch strings.ToLower(s) {
	case "", "local":
		return Local, nil
	case "utc", "z":
		return UTC, nil
	}
	if s[0] == '+' || s[0] == '-' {
		return parseOffset(s)
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return Zone{}, fmt.Errorf("invalid time zone '%s': %w", name, err)
	}
	return Zone{name: loc.String(), loc: loc}, nil
}

// MustParse is Parse that panics on error.
func MustParse(name string) Zone {
	z, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return z
}

func parseOffset(s string) (Zone, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := s[1:]

	var hh, mm string
	switch {
	case strings.Contains(body, ":"):
		parts := strings.SplitN(body, ":", 2)
		hh, mm = parts[0], parts[1]
	case len(body) == 4:
		hh, mm = body[:2], body[2:]
	case len(body) == 1 || len(body) == 2:
		hh, mm = body, "0"
	default:
		return Zone{}, fmt.Errorf("invalid zone offset: '%s'", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return Zone{}, fmt.Errorf("invalid zone offset hours: '%s'", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return Zone{}, fmt.Errorf("invalid zone offset minutes: '%s'", s)
	}
	offset := sign * (h*3600 + m*60)
	name := fmt.Sprintf("%c%02d:%02d", s[0], h, m)
	if offset == 0 {
		name = "+00:00"
	}
	return Zone{name: name, loc: time.FixedZone(name, offset)}, nil
}

// Location returns the zone as a *time.Location. Local is resolved at call
// time so changes to time.Local are observed.
func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.Local
	}
	return z.loc
}

// IsLocal reports whether z follows the process local zone.
func (z Zone) IsLocal() bool { return z.loc == nil }

// pflag.Value ======================================

func (z Zone) String() string {
	if z.loc == nil {
		return localName
	}
	return z.name
}

func (z *Zone) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*z = v
	return nil
}

func (z Zone) Type() string { return "zone" }

// Text marshaling ==================================

func (z Zone) MarshalText() ([]byte, error) { return []byte(z.String()), nil }

func (z *Zone) UnmarshalText(text []byte) error { return z.Set(string(text)) }
