package app

import (
	"context"
	"strings"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/profile"
)

type ProfileService struct {
	engineers profile.EngineerRepository
	companies profile.CompanyRepository
	analytics analytics.Repository
	trialFor  time.Duration
	now       func() time.Time
}

func NewProfileService(engineers profile.EngineerRepository, companies profile.CompanyRepository, analytics analytics.Repository, trialFor time.Duration) *ProfileService {
	return &ProfileService{engineers: engineers, companies: companies, analytics: analytics, trialFor: trialFor, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ProfileService) UpsertEngineer(ctx context.Context, p profile.EngineerProfile) (*profile.EngineerProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"name": "name is required"})
	}
	saved, err := s.engineers.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "profile.engineer_saved", UserID: &p.UserID, Payload: analyticsPayload(ctx, nil)})
	return saved, nil
}

func (s *ProfileService) GetEngineer(ctx context.Context, userID common.UUID) (*profile.EngineerProfile, error) {
	return s.engineers.GetByUserID(ctx, userID)
}

// UpsertCompany touches only the public profile fields; subscription and
// trial columns are owned by the billing flow.
func (s *ProfileService) UpsertCompany(ctx context.Context, p profile.CompanyProfile) (*profile.CompanyProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"name": "name is required"})
	}
	saved, err := s.companies.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "profile.company_saved", UserID: &p.UserID, Payload: analyticsPayload(ctx, nil)})
	return saved, nil
}

func (s *ProfileService) GetCompany(ctx context.Context, userID common.UUID) (*profile.CompanyProfile, error) {
	return s.companies.GetByUserID(ctx, userID)
}

// StartTrial opens the one-off trial window. The repository enforces the
// has_used_trial latch, so a second call conflicts even under concurrency.
func (s *ProfileService) StartTrial(ctx context.Context, userID common.UUID) (*profile.CompanyProfile, error) {
	if _, err := s.companies.GetByUserID(ctx, userID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "company profile is required", nil)
		}
		return nil, err
	}
	startedAt := s.now()
	updated, err := s.companies.StartTrial(ctx, userID, startedAt, startedAt.Add(s.trialFor))
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "billing.trial_started", UserID: &userID, Payload: analyticsPayload(ctx, map[string]string{"trial_ends_at": updated.TrialEndsAt.Format(time.RFC3339)})})
	return updated, nil
}
