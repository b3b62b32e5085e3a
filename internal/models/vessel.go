// Package models defines data structures for flotilla-watch
package models

import (
	"strings"
	"time"
)

// VesselStatus is the normalized status of a tracked vessel.
type VesselStatus string

const (
	StatusSailing     VesselStatus = "SAILING"
	StatusIntercepted VesselStatus = "INTERCEPTED"
	StatusDocked      VesselStatus = "DOCKED"
	StatusAnchored    VesselStatus = "ANCHORED"
	StatusUnknown     VesselStatus = "UNKNOWN"
)

// NormalizeStatus maps raw status text onto the fixed status set.
// "ASSUMED INTERCEPTED" collapses to INTERCEPTED; anything unrecognized
// (including empty input) becomes UNKNOWN.
func NormalizeStatus(raw string) VesselStatus {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if strings.Contains(s, "INTERCEPTED") {
		return StatusIntercepted
	}
	switch VesselStatus(s) {
	case StatusSailing, StatusDocked, StatusAnchored:
		return VesselStatus(s)
	default:
		return StatusUnknown
	}
}

// VesselRecord is one vessel row extracted from the tracking page.
// A fresh batch is produced every scrape cycle; records are not mutated
// after the report builder has enriched them.
type VesselRecord struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Location *string      `json:"location"`
	Status   VesselStatus `json:"status"`

	// RawLastUpdate is the last-update text as scraped; the report builder
	// normalizes it into LastUpdateUTC.
	RawLastUpdate string    `json:"-"`
	LastUpdateUTC time.Time `json:"last_update_utc"`

	// Display-zone forms, set by the report builder.
	LastUpdateLocal   string `json:"last_update_local"`
	LastUpdateDisplay string `json:"last_update_display"`

	Speed    *string `json:"speed"`
	Position *string `json:"position"`
	Course   *string `json:"course"`

	DistanceNm      *float64 `json:"distance_to_gaza_nm"`
	DistanceDisplay *string  `json:"distance_to_gaza"`
}

// HasTelemetry reports whether the record carries any of the vessel-specific
// fields (position, speed, course). Incident entries never do.
func (v *VesselRecord) HasTelemetry() bool {
	return v.Position != nil || v.Speed != nil || v.Course != nil
}

// SummaryStats holds per-status counts for one report.
type SummaryStats struct {
	Sailing          int     `json:"sailing"`
	Intercepted      int     `json:"intercepted"`
	Docked           int     `json:"docked"`
	Anchored         int     `json:"anchored"`
	Unknown          int     `json:"unknown"`
	MostRecentUpdate *string `json:"most_recent_update"`
}

// ReportEnvelope is the full report produced by one cycle. It is persisted
// to the latest-report slot and projected into a HistoryEntry.
type ReportEnvelope struct {
	ReportGenerated        string         `json:"report_generated"`
	ReportGeneratedDisplay string         `json:"report_generated_display"`
	TotalVessels           int            `json:"total_vessels"`
	Vessels                []VesselRecord `json:"vessels"`
	Summary                SummaryStats   `json:"summary"`
}

// HistoryEntry is the compacted projection of a past report.
type HistoryEntry struct {
	Timestamp    string       `json:"timestamp"`
	TotalVessels int          `json:"total_vessels"`
	Summary      SummaryStats `json:"summary"`
}

// HistoryEntryOf projects an envelope into its history form.
func HistoryEntryOf(env *ReportEnvelope) HistoryEntry {
	return HistoryEntry{
		Timestamp:    env.ReportGenerated,
		TotalVessels: env.TotalVessels,
		Summary:      env.Summary,
	}
}

// DeliveryResult reports the outcome of an email delivery.
type DeliveryResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Recipient string `json:"recipient"`
}
