// Package calendar builds the weekly grid view model for an organization's
// tour slots. Everything here is pure: persistence stays in tourslots, and
// all date handling works on organization-local YYYY-MM-DD strings.
package calendar

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/contour-tours/backend/internal/models"
)

const dateLayout = "2006-01-02"

// defaultTime is shown as the only row when the week has no slots at all.
const defaultTime = "10:00"

// palette is the fixed tour-tag color space. Order matters: the same tag must
// land on the same color on every render.
var palette = [...]string{"blue", "green", "purple", "orange", "pink", "yellow"}

// flags maps a slot language to a display flag. Unknown languages fall back
// to the globe.
var flags = map[string]string{
	"en": "🇬🇧",
	"es": "🇪🇸",
	"fr": "🇫🇷",
	"de": "🇩🇪",
	"it": "🇮🇹",
	"pt": "🇵🇹",
	"nl": "🇳🇱",
	"pl": "🇵🇱",
	"ru": "🇷🇺",
	"ja": "🇯🇵",
	"zh": "🇨🇳",
}

// SlotCard is one slot decorated for calendar display.
type SlotCard struct {
	models.TourSlot
	Color    string   `json:"color"`
	Flag     string   `json:"flag"`
	Initials []string `json:"initials"`
	IsMine   bool     `json:"is_mine"`
}

// WeekView is the weekly grid: seven day columns, a shared time axis, and
// slot cards bucketed by (date, time).
type WeekView struct {
	WeekStart string                           `json:"week_start"`
	Days      []string                         `json:"days"`
	Times     []string                         `json:"times"`
	Cells     map[string]map[string][]SlotCard `json:"cells"`
}

// WeekStart returns the Monday of the ISO week containing day. Sunday belongs
// to the week that ends on it.
func WeekStart(day time.Time) time.Time {
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// WeekDays returns the seven dates of the week starting at monday.
func WeekDays(monday time.Time) []string {
	days := make([]string, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i).Format(dateLayout)
	}
	return days
}

// NextWeek moves the reference date forward seven days.
func NextWeek(day time.Time) time.Time { return day.AddDate(0, 0, 7) }

// PreviousWeek moves the reference date back seven days.
func PreviousWeek(day time.Time) time.Time { return day.AddDate(0, 0, -7) }

// Today truncates now to its calendar date.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// TourColor picks the tag's palette entry: sum of the tag's byte values
// modulo the palette size. Stable across processes.
func TourColor(tag string) string {
	sum := 0
	for _, b := range []byte(tag) {
		sum += int(b)
	}
	return palette[sum%len(palette)]
}

// GuideInitials derives up to two uppercase initials from the guide's name,
// falling back to the email when the name is empty.
func GuideInitials(g models.GuideRef) string {
	source := g.Name
	if strings.TrimSpace(source) == "" {
		source = g.Email
	}
	var initials []rune
	for _, token := range strings.Fields(source) {
		for _, r := range token {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
	}
	if len(initials) > 2 {
		initials = initials[:2]
	}
	return string(initials)
}

// IsMine reports whether the viewer is in the slot's assigned set.
func IsMine(slot *models.TourSlot, viewer uuid.UUID) bool {
	for _, g := range slot.AssignedGuides {
		if g.ID == viewer {
			return true
		}
	}
	return false
}

// LanguageFlag maps a language code to its flag, case-insensitively.
func LanguageFlag(language string) string {
	if flag, ok := flags[strings.ToLower(language)]; ok {
		return flag
	}
	return "🌐"
}

// timeRank orders HH:MM strings by minutes since midnight. Unparseable times
// sort first.
func timeRank(t string) int {
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// BuildWeekView assembles the grid for the week starting at monday from the
// slots already scoped to that week. viewer drives the IsMine flag.
func BuildWeekView(monday time.Time, slots []*models.TourSlot, viewer uuid.UUID) WeekView {
	view := WeekView{
		WeekStart: monday.Format(dateLayout),
		Days:      WeekDays(monday),
		Cells:     make(map[string]map[string][]SlotCard),
	}

	seen := make(map[string]bool)
	for _, slot := range slots {
		if !seen[slot.Time] {
			seen[slot.Time] = true
			view.Times = append(view.Times, slot.Time)
		}

		card := SlotCard{
			TourSlot: *slot,
			Color:    TourColor(slot.TourTag),
			Flag:     LanguageFlag(slot.Language),
			IsMine:   IsMine(slot, viewer),
			Initials: make([]string, 0, len(slot.AssignedGuides)),
		}
		for _, g := range slot.AssignedGuides {
			card.Initials = append(card.Initials, GuideInitials(g))
		}

		day := view.Cells[slot.Date]
		if day == nil {
			day = make(map[string][]SlotCard)
			view.Cells[slot.Date] = day
		}
		day[slot.Time] = append(day[slot.Time], card)
	}

	if len(view.Times) == 0 {
		view.Times = []string{defaultTime}
	} else {
		sort.SliceStable(view.Times, func(i, j int) bool {
			return timeRank(view.Times[i]) < timeRank(view.Times[j])
		})
	}
	return view
}
