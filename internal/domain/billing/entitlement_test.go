package billing

import (
	"testing"
	"time"

	"itboard/internal/domain/profile"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestHasActivePaidPlan(t *testing.T) {
	cases := []struct {
		name    string
		company profile.CompanyProfile
		want    bool
	}{
		{
			name:    "free plan",
			company: profile.CompanyProfile{Plan: profile.PlanFree},
			want:    false,
		},
		{
			name:    "paid plan without expiry",
			company: profile.CompanyProfile{Plan: profile.PlanBasic},
			want:    false,
		},
		{
			name:    "paid plan valid",
			company: profile.CompanyProfile{Plan: profile.PlanBasic, SubscriptionExpires: timePtr(now.Add(time.Hour))},
			want:    true,
		},
		{
			name:    "paid plan expired",
			company: profile.CompanyProfile{Plan: profile.PlanPremium, SubscriptionExpires: timePtr(now.Add(-time.Hour))},
			want:    false,
		},
		{
			name:    "expiry exactly now counts as expired",
			company: profile.CompanyProfile{Plan: profile.PlanBasic, SubscriptionExpires: timePtr(now)},
			want:    false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasActivePaidPlan(tc.company, now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluateTrial_Active(t *testing.T) {
	company := profile.CompanyProfile{
		TrialStartedAt: timePtr(now.Add(-9 * 24 * time.Hour)),
		TrialEndsAt:    timePtr(now.Add(5 * 24 * time.Hour)),
		HasUsedTrial:   true,
	}
	status := EvaluateTrial(company, now)
	if !status.IsActive {
		t.Fatal("expected trial to be active")
	}
	if status.HasExpired {
		t.Fatal("expected trial not to be expired")
	}
	if status.DaysRemaining != 5 {
		t.Fatalf("expected 5 days remaining, got %d", status.DaysRemaining)
	}
}

func TestEvaluateTrial_PartialDayRoundsUp(t *testing.T) {
	company := profile.CompanyProfile{
		TrialEndsAt:  timePtr(now.Add(4*24*time.Hour + time.Minute)),
		HasUsedTrial: true,
	}
	status := EvaluateTrial(company, now)
	if status.DaysRemaining != 5 {
		t.Fatalf("expected partial day to round up to 5, got %d", status.DaysRemaining)
	}
}

func TestEvaluateTrial_EndExactlyNowIsExpired(t *testing.T) {
	company := profile.CompanyProfile{
		TrialEndsAt:  timePtr(now),
		HasUsedTrial: true,
	}
	status := EvaluateTrial(company, now)
	if status.IsActive {
		t.Fatal("expected trial ending exactly now to be inactive")
	}
	if !status.HasExpired {
		t.Fatal("expected trial to be reported expired")
	}
}

func TestEvaluateTrial_ExpiredSuppressedByPaidPlan(t *testing.T) {
	company := profile.CompanyProfile{
		Plan:                profile.PlanBasic,
		SubscriptionExpires: timePtr(now.Add(time.Hour)),
		TrialEndsAt:         timePtr(now.Add(-24 * time.Hour)),
		HasUsedTrial:        true,
	}
	status := EvaluateTrial(company, now)
	if status.HasExpired {
		t.Fatal("expected has_expired to be false while a paid plan is active")
	}
}

func TestEvaluateTrial_NeverStarted(t *testing.T) {
	status := EvaluateTrial(profile.CompanyProfile{}, now)
	if status.IsActive || status.HasExpired || status.DaysRemaining != 0 {
		t.Fatalf("expected zero status, got %+v", status)
	}
}

func TestEvaluateTrial_IgnoresCachedFlag(t *testing.T) {
	// stale cached flag says active; the dates say otherwise
	company := profile.CompanyProfile{
		IsTrialActive: true,
		TrialEndsAt:   timePtr(now.Add(-time.Hour)),
		HasUsedTrial:  true,
	}
	if EvaluateTrial(company, now).IsActive {
		t.Fatal("expected dates to win over the cached flag")
	}
}

func TestCanAccessPaidFeatures(t *testing.T) {
	trialing := profile.CompanyProfile{TrialEndsAt: timePtr(now.Add(time.Hour)), HasUsedTrial: true}
	if !CanAccessPaidFeatures(trialing, now) {
		t.Fatal("expected trialing company to have access")
	}
	paid := profile.CompanyProfile{Plan: profile.PlanBasic, SubscriptionExpires: timePtr(now.Add(time.Hour))}
	if !CanAccessPaidFeatures(paid, now) {
		t.Fatal("expected paid company to have access")
	}
	if CanAccessPaidFeatures(profile.CompanyProfile{}, now) {
		t.Fatal("expected free company to be blocked")
	}
}

func TestHasScoutAccess_IndependentOfPlan(t *testing.T) {
	// scout add-on valid although the posting subscription expired
	company := profile.CompanyProfile{
		Plan:                 profile.PlanBasic,
		SubscriptionExpires:  timePtr(now.Add(-time.Hour)),
		HasScoutAccess:       true,
		ScoutAccessExpiresAt: timePtr(now.Add(time.Hour)),
	}
	if !HasScoutAccess(company, now) {
		t.Fatal("expected scout access to be independent of the subscription")
	}
	if CanAccessPaidFeatures(company, now) {
		t.Fatal("expected posting access to stay blocked")
	}
}

func TestHasScoutAccess_ExpiryExactlyNow(t *testing.T) {
	company := profile.CompanyProfile{
		HasScoutAccess:       true,
		ScoutAccessExpiresAt: timePtr(now),
	}
	if HasScoutAccess(company, now) {
		t.Fatal("expected scout access expiring exactly now to be gone")
	}
}

func TestEvaluate(t *testing.T) {
	company := profile.CompanyProfile{Plan: profile.PlanFree}
	summary := Evaluate(company, now)
	if summary.CanPost {
		t.Fatal("expected can_post false for a free company")
	}
	if !summary.RequiresPayment {
		t.Fatal("expected requires_payment for a free company")
	}

	company.TrialEndsAt = timePtr(now.Add(48 * time.Hour))
	company.HasUsedTrial = true
	summary = Evaluate(company, now)
	if !summary.CanPost || summary.RequiresPayment {
		t.Fatalf("expected trial to grant posting, got %+v", summary)
	}
	if summary.Trial.DaysRemaining != 2 {
		t.Fatalf("expected 2 days remaining, got %d", summary.Trial.DaysRemaining)
	}
}
