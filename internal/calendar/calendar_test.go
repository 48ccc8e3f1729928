package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contour-tours/backend/internal/models"
)

func date(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestWeekStartEveryWeekday(t *testing.T) {
	// 2025-10-13 is a Monday.
	for i := 0; i < 7; i++ {
		day := date("2025-10-13").AddDate(0, 0, i)
		assert.Equal(t, "2025-10-13", WeekStart(day).Format(dateLayout), day.Weekday().String())
	}
}

func TestWeekStartSundayBelongsToEndingWeek(t *testing.T) {
	assert.Equal(t, "2025-10-13", WeekStart(date("2025-10-19")).Format(dateLayout))
	assert.Equal(t, "2025-10-20", WeekStart(date("2025-10-20")).Format(dateLayout))
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(date("2025-12-29"))
	assert.Equal(t, []string{
		"2025-12-29", "2025-12-30", "2025-12-31",
		"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04",
	}, days)
}

func TestNavigation(t *testing.T) {
	day := date("2025-10-15")
	assert.Equal(t, "2025-10-22", NextWeek(day).Format(dateLayout))
	assert.Equal(t, "2025-10-08", PreviousWeek(day).Format(dateLayout))

	now := time.Date(2025, 10, 15, 14, 30, 45, 0, time.UTC)
	assert.Equal(t, "2025-10-15", Today(now).Format(dateLayout))
	assert.True(t, Today(now).Equal(date("2025-10-15")))
}

func TestTourColorIsStable(t *testing.T) {
	assert.Equal(t, TourColor("CITY"), TourColor("CITY"))

	// "A" = 65, 65 % 6 = 5 -> yellow
	assert.Equal(t, "yellow", TourColor("A"))
	// "AB" = 131, 131 % 6 = 5 -> yellow; "ABC" = 198, 198 % 6 = 0 -> blue
	assert.Equal(t, "blue", TourColor("ABC"))
	assert.Equal(t, "blue", TourColor(""))
}

func TestGuideInitials(t *testing.T) {
	cases := []struct {
		name, email, want string
	}{
		{"Ada Lovelace", "", "AL"},
		{"ada lovelace", "", "AL"},
		{"Ada Byron Lovelace", "", "AB"},
		{"Ada", "", "A"},
		{"", "guide@contour.com", "G"},
		{"  ", "guide@contour.com", "G"},
		{"", "", ""},
	}
	for _, tc := range cases {
		got := GuideInitials(models.GuideRef{Name: tc.name, Email: tc.email})
		assert.Equal(t, tc.want, got, "name=%q email=%q", tc.name, tc.email)
	}
}

func TestIsMine(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	slot := &models.TourSlot{AssignedGuides: []models.GuideRef{{ID: other}}}
	assert.False(t, IsMine(slot, me))

	slot.AssignedGuides = append(slot.AssignedGuides, models.GuideRef{ID: me})
	assert.True(t, IsMine(slot, me))
}

func TestLanguageFlag(t *testing.T) {
	assert.Equal(t, "🇪🇸", LanguageFlag("es"))
	assert.Equal(t, "🇪🇸", LanguageFlag("ES"))
	assert.Equal(t, "🌐", LanguageFlag("klingon"))
	assert.Equal(t, "🌐", LanguageFlag(""))
}

func TestBuildWeekViewEmptyWeekGetsDefaultTimeAxis(t *testing.T) {
	view := BuildWeekView(date("2025-10-13"), nil, uuid.New())
	assert.Equal(t, "2025-10-13", view.WeekStart)
	assert.Len(t, view.Days, 7)
	assert.Equal(t, []string{"10:00"}, view.Times)
	assert.Empty(t, view.Cells)
}

func TestBuildWeekViewGroupsAndSortsTimes(t *testing.T) {
	me := uuid.New()
	slots := []*models.TourSlot{
		{ID: uuid.New(), Date: "2025-10-14", Time: "14:00", TourTag: "ABC", Language: "en"},
		{ID: uuid.New(), Date: "2025-10-13", Time: "09:30", TourTag: "ABC", Language: "es",
			AssignedGuides: []models.GuideRef{{ID: me, Name: "Ada Lovelace"}}},
		{ID: uuid.New(), Date: "2025-10-13", Time: "14:00", TourTag: "A", Language: "fr"},
	}

	view := BuildWeekView(date("2025-10-13"), slots, me)

	assert.Equal(t, []string{"09:30", "14:00"}, view.Times)
	require.Len(t, view.Cells["2025-10-13"]["09:30"], 1)
	require.Len(t, view.Cells["2025-10-13"]["14:00"], 1)
	require.Len(t, view.Cells["2025-10-14"]["14:00"], 1)

	mine := view.Cells["2025-10-13"]["09:30"][0]
	assert.True(t, mine.IsMine)
	assert.Equal(t, []string{"AL"}, mine.Initials)
	assert.Equal(t, "🇪🇸", mine.Flag)
	assert.Equal(t, "blue", mine.Color)

	assert.False(t, view.Cells["2025-10-14"]["14:00"][0].IsMine)
	assert.Equal(t, "yellow", view.Cells["2025-10-13"]["14:00"][0].Color)
}

func TestBuildWeekViewKeepsCellInsertionOrder(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	slots := []*models.TourSlot{
		{ID: first, Date: "2025-10-13", Time: "10:00", TourTag: "X"},
		{ID: second, Date: "2025-10-13", Time: "10:00", TourTag: "Y"},
	}
	view := BuildWeekView(date("2025-10-13"), slots, uuid.New())
	cell := view.Cells["2025-10-13"]["10:00"]
	require.Len(t, cell, 2)
	assert.Equal(t, first, cell[0].ID)
	assert.Equal(t, second, cell[1].ID)
}
