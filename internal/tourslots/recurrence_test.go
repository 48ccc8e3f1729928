package tourslots

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contour-tours/backend/internal/models"
)

func TestExpandDatesNone(t *testing.T) {
	dates, err := ExpandDates("2025-10-15", models.RepeatNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10-15"}, dates)
}

func TestExpandDatesEmptyRepeatDefaultsToSingle(t *testing.T) {
	dates, err := ExpandDates("2025-10-15", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10-15"}, dates)
}

func TestExpandDatesWeek(t *testing.T) {
	dates, err := ExpandDates("2025-10-15", models.RepeatWeek)
	require.NoError(t, err)
	require.Len(t, dates, 7)
	assert.Equal(t, "2025-10-15", dates[0])
	assert.Equal(t, "2025-10-21", dates[6])
}

func TestExpandDatesMonth(t *testing.T) {
	dates, err := ExpandDates("2025-01-20", models.RepeatMonth)
	require.NoError(t, err)
	require.Len(t, dates, 30)
	assert.Equal(t, "2025-01-20", dates[0])
	// 30 consecutive days, not a calendar month
	assert.Equal(t, "2025-02-18", dates[29])
}

func TestExpandDatesCrossesMonthBoundary(t *testing.T) {
	dates, err := ExpandDates("2025-10-29", models.RepeatWeek)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2025-10-29", "2025-10-30", "2025-10-31",
		"2025-11-01", "2025-11-02", "2025-11-03", "2025-11-04",
	}, dates)
}

func TestExpandDatesCrossesYearBoundary(t *testing.T) {
	dates, err := ExpandDates("2025-12-30", models.RepeatWeek)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", dates[6])
}

func TestExpandDatesLeapDay(t *testing.T) {
	dates, err := ExpandDates("2024-02-28", models.RepeatWeek)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", dates[1])
	assert.Equal(t, "2024-03-01", dates[2])
}

func TestExpandDatesInvalidDate(t *testing.T) {
	_, err := ExpandDates("15-10-2025", models.RepeatNone)
	assert.Error(t, err)

	_, err = ExpandDates("", models.RepeatWeek)
	assert.Error(t, err)
}

func TestExpandDatesInvalidRepeat(t *testing.T) {
	_, err := ExpandDates("2025-10-15", "yearly")
	assert.Error(t, err)
}

func TestValidDate(t *testing.T) {
	assert.True(t, validDate("2025-10-15"))
	assert.False(t, validDate("15-10-2025"))
	assert.False(t, validDate("2025-13-01"))
	assert.False(t, validDate("banana"))
	assert.False(t, validDate(""))
}

// Stored times feed the calendar time axis, so garbage must be rejected at
// the boundary.
func TestValidTime(t *testing.T) {
	assert.True(t, validTime("09:30"))
	assert.True(t, validTime("23:59"))
	assert.False(t, validTime("24:00"))
	assert.False(t, validTime("99:99"))
	assert.False(t, validTime("banana"))
	assert.False(t, validTime(""))
}

func guideRefs(ids ...uuid.UUID) []models.GuideRef {
	out := make([]models.GuideRef, len(ids))
	for i, id := range ids {
		out[i] = models.GuideRef{ID: id}
	}
	return out
}

func TestToggleGuideAppendsWhenAbsent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	next := toggleGuide(guideRefs(a), models.GuideRef{ID: b})
	assert.Equal(t, []uuid.UUID{a, b}, guideIDs(next))
}

func TestToggleGuideRemovesWhenPresent(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	next := toggleGuide(guideRefs(a, b, c), models.GuideRef{ID: b})
	assert.Equal(t, []uuid.UUID{a, c}, guideIDs(next))
}

func TestToggleGuideTwiceRestoresMembership(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	g := models.GuideRef{ID: b}

	once := toggleGuide(guideRefs(a, b), g)
	twice := toggleGuide(once, g)

	assert.ElementsMatch(t, []uuid.UUID{a, b}, guideIDs(twice))
}

func TestToggleGuideOnEmptySet(t *testing.T) {
	a := uuid.New()
	next := toggleGuide(nil, models.GuideRef{ID: a})
	assert.Equal(t, []uuid.UUID{a}, guideIDs(next))
}

func TestAddGuideIsIdempotent(t *testing.T) {
	a := uuid.New()
	set := addGuide(nil, models.GuideRef{ID: a})
	set = addGuide(set, models.GuideRef{ID: a})
	assert.Equal(t, []uuid.UUID{a}, guideIDs(set))
}

func TestRemoveGuideMissingIDIsNoop(t *testing.T) {
	a := uuid.New()
	set := removeGuide(guideRefs(a), uuid.New())
	assert.Equal(t, []uuid.UUID{a}, guideIDs(set))
}

func TestUpdateRequestAvailabilityOnly(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	assert.True(t, UpdateRequest{AvailableGuideIDs: &ids}.availabilityOnly())
	assert.True(t, UpdateRequest{}.availabilityOnly())

	lang := "en"
	assert.False(t, UpdateRequest{AvailableGuideIDs: &ids, Language: &lang}.availabilityOnly())
	assert.False(t, UpdateRequest{AvailableGuideIDs: &ids, AssignedGuideIDs: &ids}.availabilityOnly())
}
