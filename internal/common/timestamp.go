package common

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order after strict RFC 3339 parsing fails.
// The first layout covers the tracker's own format ("2 Oct 2025 01:43 UTC").
var timestampLayouts = []string{
	"2006-01-02T15:04:05", // ISO 8601 without zone, treated as UTC
	"2 Jan 2006 15:04 UTC",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
}

// ParseTimestamp parses heterogeneous timestamp text into a UTC instant.
// It never fails: empty or unparseable input yields now() and ok=false so
// the caller can log a recoverable warning.
func ParseTimestamp(text string, now func() time.Time) (t time.Time, ok bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return now().UTC(), false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}

	return now().UTC(), false
}

// DisplayZone re-expresses UTC instants in a fixed target zone for
// human-facing output.
type DisplayZone struct {
	loc *time.Location
}

// NewDisplayZone builds a display zone from an IANA zone name, falling back
// to a fixed UTC+8 zone when the name cannot be resolved (e.g. no tzdata on
// the host).
func NewDisplayZone(name string) DisplayZone {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return DisplayZone{loc: loc}
		}
	}
	return DisplayZone{loc: time.FixedZone("UTC+8", 8*60*60)}
}

// Local returns the machine-sortable offset form, e.g. "2025-10-02T10:20:00+08:00".
func (z DisplayZone) Local(t time.Time) string {
	return t.In(z.loc).Format("2006-01-02T15:04:05-07:00")
}

// Display returns the human-readable form, e.g. "2025-10-02 10:20:00".
func (z DisplayZone) Display(t time.Time) string {
	return t.In(z.loc).Format("2006-01-02 15:04:05")
}

// Location exposes the underlying zone (used by the cron scheduler).
func (z DisplayZone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

func (z DisplayZone) String() string {
	return fmt.Sprintf("DisplayZone(%s)", z.Location())
}
