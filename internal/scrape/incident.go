package scrape

import (
	"regexp"
	"strings"

	"github.com/manamurah/flotilla-watch/internal/models"
)

// IncidentClassifier decides whether a parsed record is a non-vessel
// incident entry (an attack or interception news item rendered in the same
// list as vessels). The policy is swappable without touching extraction.
type IncidentClassifier func(*models.VesselRecord) bool

var trailingStatusRe = regexp.MustCompile(`(?i)\s+(intercepted|sailing|docked)$`)

// DefaultIncidentClassifier is a best-effort heuristic: the source page has
// no reliable type marker, so incident entries are recognized by any of
//
//   - the name contains "attack" or "incident"
//   - the name ends with a status word ("Captain Nikos Intercepted")
//   - the record carries none of position, speed, course
//
// The last signal can misclassify a legitimate vessel that reported no
// telemetry.
func DefaultIncidentClassifier(rec *models.VesselRecord) bool {
	name := strings.ToLower(rec.Name)

	if strings.Contains(name, "attack") || strings.Contains(name, "incident") {
		return true
	}
	if trailingStatusRe.MatchString(rec.Name) {
		return true
	}
	return !rec.HasTelemetry()
}
