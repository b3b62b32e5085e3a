// Package report normalizes a raw vessel batch into a ReportEnvelope:
// timestamp conversion, distance enrichment, sorting, and summary stats.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/models"
)

// ReferencePoint is the fixed point all vessel distances are measured to
// (approximate center of Gaza).
var ReferencePoint = common.Coordinates{Lat: 31.5, Lon: 34.45}

// Builder turns extracted vessel batches into report envelopes.
type Builder struct {
	zone   common.DisplayZone
	logger *common.Logger

	// now is overridable for tests; it also feeds the timestamp parser's
	// unparseable-input fallback.
	now func() time.Time
}

// NewBuilder creates a report builder rendering display timestamps in zone.
func NewBuilder(zone common.DisplayZone, logger *common.Logger) *Builder {
	return &Builder{zone: zone, logger: logger, now: time.Now}
}

// Build normalizes the batch into an envelope stamped with now. Every input
// record appears in the output; incident filtering happened upstream.
func (b *Builder) Build(records []models.VesselRecord, now time.Time) *models.ReportEnvelope {
	b.logger.Info().Int("count", len(records)).Msg("processing vessel batch")

	vessels := make([]models.VesselRecord, len(records))
	for i, rec := range records {
		vessels[i] = b.enrich(rec)
	}

	// Most recent first; stable so equal timestamps keep their scrape order.
	sort.SliceStable(vessels, func(i, j int) bool {
		return vessels[i].LastUpdateUTC.After(vessels[j].LastUpdateUTC)
	})

	summary := summarize(vessels)

	env := &models.ReportEnvelope{
		ReportGenerated:        b.zone.Local(now),
		ReportGeneratedDisplay: b.zone.Display(now),
		TotalVessels:           len(vessels),
		Vessels:                vessels,
		Summary:                summary,
	}

	b.logger.Info().
		Int("total", env.TotalVessels).
		Int("sailing", summary.Sailing).
		Int("intercepted", summary.Intercepted).
		Msg("processing complete")

	return env
}

// enrich normalizes one record's timestamp and attaches the reference-point
// distance. Parse failures are recovered in place with safe defaults.
func (b *Builder) enrich(rec models.VesselRecord) models.VesselRecord {
	utc, ok := common.ParseTimestamp(rec.RawLastUpdate, b.now)
	if !ok && rec.RawLastUpdate != "" {
		b.logger.Warn().
			Str("vessel", rec.Name).
			Str("timestamp", rec.RawLastUpdate).
			Msg("unparseable timestamp, using current time")
	}

	rec.LastUpdateUTC = utc
	rec.LastUpdateLocal = b.zone.Local(utc)
	rec.LastUpdateDisplay = b.zone.Display(utc)

	if rec.Position != nil {
		rec.DistanceNm, rec.DistanceDisplay = common.DistanceNm(*rec.Position, ReferencePoint)
		if rec.DistanceNm == nil {
			b.logger.Warn().
				Str("vessel", rec.Name).
				Str("position", *rec.Position).
				Msg("malformed position, distance unavailable")
		}
	}

	return rec
}

// summarize counts vessels per lower-cased status bucket; anything outside
// the four known buckets lands in unknown.
func summarize(vessels []models.VesselRecord) models.SummaryStats {
	var s models.SummaryStats
	for _, v := range vessels {
		switch strings.ToLower(string(v.Status)) {
		case "sailing":
			s.Sailing++
		case "intercepted":
			s.Intercepted++
		case "docked":
			s.Docked++
		case "anchored":
			s.Anchored++
		default:
			s.Unknown++
		}
	}
	if len(vessels) > 0 {
		display := vessels[0].LastUpdateDisplay
		s.MostRecentUpdate = &display
	}
	return s
}
