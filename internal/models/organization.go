package models

import (
	"time"

	"github.com/google/uuid"
)

// Default IMAP endpoint for organizations that enable booking-mail ingestion.
const (
	DefaultEmailHost = "imap.gmail.com"
	DefaultEmailPort = 993
)

// Organization represents a tenant. It owns users, tours and slots; the
// optional email fields configure the per-organization booking-mail inbox
// (disabled by default, password stored encrypted).
type Organization struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Logo          string    `json:"logo,omitempty"`
	EmailUser     string    `json:"email_user,omitempty"`
	EmailPassword string    `json:"-"` // encrypted at rest, never serialized
	EmailHost     string    `json:"email_host,omitempty"`
	EmailPort     int       `json:"email_port,omitempty"`
	EmailEnabled  bool      `json:"email_enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrganizationWithCounts is an organization plus member/tour totals for the
// super-admin overview.
type OrganizationWithCounts struct {
	Organization
	UserCount int `json:"user_count"`
	TourCount int `json:"tour_count"`
}
