package listing

import (
	"time"

	"itboard/internal/common"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusHidden    Status = "hidden"
	StatusClosed    Status = "closed"
)

// Kind distinguishes permanent jobs from freelance IT projects. The two are
// structurally identical, so they share one table and one application flow.
type Kind string

const (
	KindJob     Kind = "job"
	KindProject Kind = "project"
)

type Listing struct {
	ID           common.UUID `json:"id"`
	CompanyID    common.UUID `json:"company_id"`
	Kind         Kind        `json:"kind"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Requirements []string    `json:"requirements"`
	Budget       string      `json:"budget"`
	Location     string      `json:"location"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
