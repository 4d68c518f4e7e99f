package profile

import (
	"time"

	"itboard/internal/common"
)

type Plan string

const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

type EngineerProfile struct {
	UserID     common.UUID `json:"user_id"`
	Name       string      `json:"name"`
	Skills     []string    `json:"skills"`
	Experience string      `json:"experience"`
	Bio        string      `json:"bio"`
	Phone      string      `json:"phone,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CompanyProfile carries the subscription and scout state next to the public
// profile fields. IsTrialActive and HasScoutAccess are cached hints refreshed
// on write; the billing evaluator recomputes access from the date columns.
type CompanyProfile struct {
	UserID               common.UUID `json:"user_id"`
	Name                 string      `json:"name"`
	Description          string      `json:"description"`
	Website              string      `json:"website,omitempty"`
	Plan                 Plan        `json:"plan"`
	SubscriptionExpires  *time.Time  `json:"subscription_expires_at,omitempty"`
	TrialStartedAt       *time.Time  `json:"trial_started_at,omitempty"`
	TrialEndsAt          *time.Time  `json:"trial_ends_at,omitempty"`
	HasUsedTrial         bool        `json:"has_used_trial"`
	IsTrialActive        bool        `json:"is_trial_active"`
	HasScoutAccess       bool        `json:"has_scout_access"`
	ScoutAccessExpiresAt *time.Time  `json:"scout_access_expires_at,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}
