package models

import (
	"time"

	"github.com/google/uuid"
)

// RepeatType controls how many consecutive dates a slot-creation request
// expands into.
type RepeatType string

const (
	RepeatNone  RepeatType = "none"
	RepeatWeek  RepeatType = "week"  // rolling 7-day window from the start date
	RepeatMonth RepeatType = "month" // rolling 30-day window from the start date
)

// GuideRef is the guide projection carried inside slot payloads.
type GuideRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TourSlot is one scheduled occurrence of a tour. Date is an organization-local
// calendar date (YYYY-MM-DD) and Time a 24-hour HH:MM string; no timezone
// conversion is performed anywhere.
//
// AvailableGuides is the self-declared "I can work this" set; AssignedGuides is
// the staff decision. Assignment is not constrained to availability.
type TourSlot struct {
	ID              uuid.UUID  `json:"id"`
	TourID          uuid.UUID  `json:"tour_id"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	Language        string     `json:"language"`
	IsPrivate       bool       `json:"is_private"`
	Adults          int        `json:"adults"`
	Childs          int        `json:"childs"`
	TourName        string     `json:"tour_name,omitempty"`
	TourTag         string     `json:"tour_tag,omitempty"`
	OrganizationID  uuid.UUID  `json:"organization_id"`
	AvailableGuides []GuideRef `json:"available_guides"`
	AssignedGuides  []GuideRef `json:"assigned_guides"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
