package app

import (
	"context"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/billing"
	"itboard/internal/domain/profile"
)

const paidPeriod = 30 * 24 * time.Hour

type BillingService struct {
	payments  billing.PaymentRepository
	companies profile.CompanyRepository
	analytics analytics.Repository
	now       func() time.Time
}

func NewBillingService(payments billing.PaymentRepository, companies profile.CompanyRepository, analytics analytics.Repository) *BillingService {
	return &BillingService{payments: payments, companies: companies, analytics: analytics, now: func() time.Time { return time.Now().UTC() }}
}

// Entitlements recomputes the access summary from the stored dates. The
// cached boolean columns on the profile are ignored here on purpose.
func (s *BillingService) Entitlements(ctx context.Context, companyID common.UUID) (*billing.Entitlements, error) {
	companyProfile, err := s.companies.GetByUserID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	summary := billing.Evaluate(*companyProfile, s.now())
	return &summary, nil
}

// PollPayment reports the payment's provider status and, on the first
// observation of a completed payment, grants the purchased entitlement.
// The payment record itself is written by the provider callback and the
// manual approval flow, never here.
func (s *BillingService) PollPayment(ctx context.Context, paymentID, companyID common.UUID) (*billing.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.CompanyID != companyID {
		return nil, common.NewError(common.CodeForbidden, "payment belongs to another company", nil)
	}
	if payment.Status != billing.PaymentCompleted || payment.Applied {
		return payment, nil
	}
	// Grant before flipping the one-shot flag: a failed grant leaves
	// applied=false so the next poll retries it. Re-granting on a lost
	// race just rewrites the same plan and expiry.
	expiresAt := s.now().Add(paidPeriod)
	switch payment.Kind {
	case billing.PaymentKindScout:
		if _, err := s.companies.ApplyScoutAccess(ctx, companyID, expiresAt); err != nil {
			return nil, err
		}
	default:
		plan := payment.Plan
		if plan == "" || plan == profile.PlanFree {
			plan = profile.PlanBasic
		}
		if _, err := s.companies.ApplySubscription(ctx, companyID, plan, expiresAt); err != nil {
			return nil, err
		}
	}
	applied, err := s.payments.MarkApplied(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	payment.Applied = true
	if applied {
		_ = s.analytics.Create(ctx, analytics.Event{Name: "billing.payment_completed", UserID: &companyID, Payload: analyticsPayload(ctx, map[string]string{"payment_id": payment.ID.String(), "kind": string(payment.Kind)})})
	}
	return payment, nil
}
