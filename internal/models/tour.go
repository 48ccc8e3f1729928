package models

import (
	"time"

	"github.com/google/uuid"
)

// Tour is a bookable activity template owned by an organization. TourTag is a
// short human-readable identifier used for calendar color-coding; it is not
// required to be globally unique. ListNames holds the ordered sub-list labels
// and always contains at least one entry.
type Tour struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	TourTag        string    `json:"tour_tag"`
	Capacity       int       `json:"capacity"`
	ListNames      []string  `json:"list_names"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
