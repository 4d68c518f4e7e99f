package application

import (
	"time"

	"itboard/internal/common"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusInterview Status = "interview"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

// Application links an engineer to a listing. HasContactPermission is a
// one-way latch: it is set when the engineer first messages on the thread
// and never reverts.
type Application struct {
	ID                   common.UUID `json:"id"`
	ListingID            common.UUID `json:"listing_id"`
	EngineerID           common.UUID `json:"engineer_id"`
	Status               Status      `json:"status"`
	CoverLetter          string      `json:"cover_letter,omitempty"`
	HasContactPermission bool        `json:"has_contact_permission"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}
