// Package scrape acquires vessel entries from the rendered tracking page
// and parses each entry's text into a typed record.
package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/models"
)

// Entity is the full rendered text of one expandable row plus its revealed
// detail panel, tagged with its 1-based position in the list.
type Entity struct {
	Index int
	Text  string
}

var (
	ordinalRe   = regexp.MustCompile(`^\d+\.$`)
	statusRe    = regexp.MustCompile(`(?i)^(sailing|intercepted|docked|anchored|assumed\s+intercepted)$`)
	nameGroupRe = regexp.MustCompile(`^(.+?)(?:\s*\((.+)\))?$`)
	fieldLabels = []string{"LAST UPDATE", "SPEED", "COURSE", "POSITION"}
)

func isFieldLabel(line string) bool {
	u := strings.ToUpper(line)
	for _, label := range fieldLabels {
		if u == label {
			return true
		}
	}
	return false
}

// ExtractRecord parses one entity text block into a VesselRecord. It makes a
// single forward pass over the non-blank trimmed lines:
//
//   - bare ordinal markers ("1.", "2.") are skipped
//   - the first line that is neither parenthesized nor a field label becomes
//     the name; a trailing parenthesized group splits into name + location
//   - a standalone "(...)" line sets the location
//   - a status word line sets the status
//   - a field label line (LAST UPDATE, SPEED, COURSE, POSITION) consumes the
//     following line as that field's value
//
// Fields not found stay nil; a missing name is synthesized as "Vessel {index}"
// and a missing status normalizes to UNKNOWN. The raw last-update text is
// carried as-is for the report builder to normalize.
func ExtractRecord(text string, index int) *models.VesselRecord {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	rec := &models.VesselRecord{
		ID:     index,
		Status: models.StatusUnknown,
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if ordinalRe.MatchString(line) {
			continue
		}

		if rec.Name == "" && !strings.HasPrefix(line, "(") && !isFieldLabel(line) {
			if m := nameGroupRe.FindStringSubmatch(line); m != nil {
				rec.Name = strings.TrimSpace(m[1])
				if m[2] != "" {
					loc := strings.TrimSpace(m[2])
					rec.Location = &loc
				}
			} else {
				rec.Name = line
			}
			continue
		}

		if strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")") {
			loc := strings.TrimSpace(line[1 : len(line)-1])
			rec.Location = &loc
			continue
		}

		if statusRe.MatchString(line) {
			rec.Status = models.NormalizeStatus(line)
			continue
		}

		if i+1 < len(lines) && isFieldLabel(line) {
			value := lines[i+1]
			switch strings.ToUpper(line) {
			case "LAST UPDATE":
				rec.RawLastUpdate = value
			case "SPEED":
				rec.Speed = &value
			case "COURSE":
				rec.Course = &value
			case "POSITION":
				rec.Position = &value
			}
			i++
			continue
		}
	}

	if rec.Name == "" {
		rec.Name = fmt.Sprintf("Vessel %d", index)
	}

	return rec
}

// ExtractAll parses a batch of entities and drops the ones the classifier
// flags as incidents. A parse failure on one entity is isolated: that entry
// is skipped and processing continues.
func ExtractAll(entities []Entity, classify IncidentClassifier, logger *common.Logger) []models.VesselRecord {
	records := make([]models.VesselRecord, 0, len(entities))

	for _, e := range entities {
		rec := safeExtract(e, logger)
		if rec == nil {
			continue
		}

		if classify(rec) {
			logger.Info().
				Str("name", rec.Name).
				Int("index", e.Index).
				Msg("filtered incident entry")
			continue
		}

		logger.Info().
			Str("name", rec.Name).
			Str("status", string(rec.Status)).
			Msg("accepted vessel")
		records = append(records, *rec)
	}

	return records
}

// safeExtract isolates a panic in the parser to the affected entity.
func safeExtract(e Entity, logger *common.Logger) (rec *models.VesselRecord) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().
				Int("index", e.Index).
				Str("error", fmt.Sprintf("%v", r)).
				Msg("failed to parse entity text")
			rec = nil
		}
	}()
	return ExtractRecord(e.Text, e.Index)
}
