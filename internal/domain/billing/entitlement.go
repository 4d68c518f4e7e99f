package billing

import (
	"time"

	"itboard/internal/domain/profile"
)

// TrialStatus is the recomputed view of a company's trial window. It is
// derived from the date columns on every evaluation; the cached
// is_trial_active flag on the profile is never consulted.
type TrialStatus struct {
	IsActive      bool `json:"is_active"`
	HasExpired    bool `json:"has_expired"`
	DaysRemaining int  `json:"days_remaining"`
}

// HasActivePaidPlan reports whether the paid subscription is currently
// valid. Expiry exactly equal to now counts as expired.
func HasActivePaidPlan(c profile.CompanyProfile, now time.Time) bool {
	return c.Plan != profile.PlanFree && c.SubscriptionExpires != nil && c.SubscriptionExpires.After(now)
}

func EvaluateTrial(c profile.CompanyProfile, now time.Time) TrialStatus {
	var status TrialStatus
	if c.TrialEndsAt == nil {
		return status
	}
	if c.TrialEndsAt.After(now) {
		status.IsActive = true
		remaining := c.TrialEndsAt.Sub(now)
		days := int(remaining / (24 * time.Hour))
		if remaining%(24*time.Hour) > 0 {
			days++
		}
		status.DaysRemaining = days
		return status
	}
	if !HasActivePaidPlan(c, now) {
		status.HasExpired = true
	}
	return status
}

// CanAccessPaidFeatures gates job/project posting and company-detail
// viewing: a valid paid plan or a running trial, nothing else.
func CanAccessPaidFeatures(c profile.CompanyProfile, now time.Time) bool {
	return HasActivePaidPlan(c, now) || EvaluateTrial(c, now).IsActive
}

// HasScoutAccess is a separate paid add-on, independent of the posting
// entitlement.
func HasScoutAccess(c profile.CompanyProfile, now time.Time) bool {
	return c.HasScoutAccess && c.ScoutAccessExpiresAt != nil && c.ScoutAccessExpiresAt.After(now)
}

// Entitlements is the dashboard summary for a company.
type Entitlements struct {
	Plan            profile.Plan `json:"plan"`
	PaidPlanActive  bool         `json:"paid_plan_active"`
	Trial           TrialStatus  `json:"trial"`
	CanPost         bool         `json:"can_post"`
	ScoutAccess     bool         `json:"scout_access"`
	RequiresPayment bool         `json:"requires_payment"`
}

func Evaluate(c profile.CompanyProfile, now time.Time) Entitlements {
	trial := EvaluateTrial(c, now)
	paid := HasActivePaidPlan(c, now)
	canPost := paid || trial.IsActive
	return Entitlements{
		Plan:            c.Plan,
		PaidPlanActive:  paid,
		Trial:           trial,
		CanPost:         canPost,
		ScoutAccess:     HasScoutAccess(c, now),
		RequiresPayment: !canPost,
	}
}
