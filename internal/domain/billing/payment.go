package billing

import (
	"context"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/profile"
)

// PaymentStatus is written by the payment provider and the manual approval
// flow, both outside this service. We only read it.
type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "pending"
	PaymentPendingApproval PaymentStatus = "pending_approval"
	PaymentCompleted       PaymentStatus = "completed"
	PaymentFailed          PaymentStatus = "failed"
)

type PaymentKind string

const (
	PaymentKindSubscription PaymentKind = "subscription"
	PaymentKindScout        PaymentKind = "scout"
)

type Payment struct {
	ID        common.UUID   `json:"id"`
	CompanyID common.UUID   `json:"company_id"`
	Kind      PaymentKind   `json:"kind"`
	Plan      profile.Plan  `json:"plan,omitempty"`
	Status    PaymentStatus `json:"status"`
	Applied   bool          `json:"applied"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type PaymentRepository interface {
	GetByID(ctx context.Context, id common.UUID) (*Payment, error)
	// MarkApplied flips the applied flag only when it is still false, so a
	// completed payment grants its entitlement exactly once.
	MarkApplied(ctx context.Context, id common.UUID) (bool, error)
}
