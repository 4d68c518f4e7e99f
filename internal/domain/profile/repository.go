package profile

import (
	"context"
	"time"

	"itboard/internal/common"
)

type EngineerRepository interface {
	Upsert(ctx context.Context, p EngineerProfile) (*EngineerProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*EngineerProfile, error)
}

type CompanyRepository interface {
	Upsert(ctx context.Context, p CompanyProfile) (*CompanyProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*CompanyProfile, error)
	// StartTrial sets the trial window and the has_used_trial latch in one
	// statement guarded on has_used_trial = false; returns CodeConflict when
	// the trial was already consumed.
	StartTrial(ctx context.Context, userID common.UUID, startedAt, endsAt time.Time) (*CompanyProfile, error)
	// ApplySubscription is the only writer of plan/subscription_expires_at.
	ApplySubscription(ctx context.Context, userID common.UUID, plan Plan, expiresAt time.Time) (*CompanyProfile, error)
	ApplyScoutAccess(ctx context.Context, userID common.UUID, expiresAt time.Time) (*CompanyProfile, error)
}
