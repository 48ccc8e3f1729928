package tourslots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contour-tours/backend/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// validDate reports whether d is a YYYY-MM-DD calendar date. Dates are stored
// as text, so anything else would corrupt range queries and the calendar.
func validDate(d string) bool {
	_, err := time.Parse(dateLayout, d)
	return err == nil
}

// validTime reports whether t is a 24-hour HH:MM string.
func validTime(t string) bool {
	_, err := time.Parse(timeLayout, t)
	return err == nil
}

// ExpandDates returns the consecutive calendar dates a creation request
// expands into: 1 for none, 7 for week, 30 for month, starting at start
// inclusive.
func ExpandDates(start string, repeat models.RepeatType) ([]string, error) {
	day, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", start, err)
	}

	var count int
	switch repeat {
	case models.RepeatNone, "":
		count = 1
	case models.RepeatWeek:
		count = 7
	case models.RepeatMonth:
		count = 30
	default:
		return nil, fmt.Errorf("invalid repeat type %q", repeat)
	}

	dates := make([]string, count)
	for i := 0; i < count; i++ {
		dates[i] = day.AddDate(0, 0, i).Format(dateLayout)
	}
	return dates, nil
}

// toggleGuide returns the availability set with the guide removed when
// present and appended when absent, preserving the order of everyone else.
func toggleGuide(guides []models.GuideRef, g models.GuideRef) []models.GuideRef {
	out := make([]models.GuideRef, 0, len(guides)+1)
	found := false
	for _, cur := range guides {
		if cur.ID == g.ID {
			found = true
			continue
		}
		out = append(out, cur)
	}
	if !found {
		out = append(out, g)
	}
	return out
}

// addGuide appends the guide unless already in the set.
func addGuide(guides []models.GuideRef, g models.GuideRef) []models.GuideRef {
	for _, cur := range guides {
		if cur.ID == g.ID {
			return guides
		}
	}
	return append(guides, g)
}

// removeGuide drops the guide from the set if present.
func removeGuide(guides []models.GuideRef, id uuid.UUID) []models.GuideRef {
	out := make([]models.GuideRef, 0, len(guides))
	for _, cur := range guides {
		if cur.ID != id {
			out = append(out, cur)
		}
	}
	return out
}

// guideIDs projects a guide set onto its user ids.
func guideIDs(guides []models.GuideRef) []uuid.UUID {
	ids := make([]uuid.UUID, len(guides))
	for i, g := range guides {
		ids[i] = g.ID
	}
	return ids
}
