package app

import (
	"context"
	"strings"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/billing"
	"itboard/internal/domain/profile"
	"itboard/internal/domain/scout"
)

type ScoutService struct {
	repo      scout.Repository
	companies profile.CompanyRepository
	engineers profile.EngineerRepository
	analytics analytics.Repository
	now       func() time.Time
}

func NewScoutService(repo scout.Repository, companies profile.CompanyRepository, engineers profile.EngineerRepository, analytics analytics.Repository) *ScoutService {
	return &ScoutService{repo: repo, companies: companies, engineers: engineers, analytics: analytics, now: func() time.Time { return time.Now().UTC() }}
}

// Send requires the scout add-on, which is evaluated from the expiry date
// and independent of the posting entitlement.
func (s *ScoutService) Send(ctx context.Context, companyID, engineerID common.UUID, subject, content string, matchScore int) (*scout.Email, error) {
	companyProfile, err := s.companies.GetByUserID(ctx, companyID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "company profile is required", nil)
		}
		return nil, err
	}
	if !billing.HasScoutAccess(*companyProfile, s.now()) {
		return nil, common.NewEntitlementError("scout access is required to contact engineers directly")
	}
	if _, err := s.engineers.GetByUserID(ctx, engineerID); err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)
	content = strings.TrimSpace(content)
	fields := map[string]string{}
	if subject == "" {
		fields["subject"] = "subject is required"
	}
	if content == "" {
		fields["content"] = "content is required"
	}
	if matchScore < 0 || matchScore > 100 {
		fields["match_score"] = "match_score must be between 0 and 100"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid scout email", fields)
	}
	created, err := s.repo.Create(ctx, scout.Email{
		CompanyID:  companyID,
		EngineerID: engineerID,
		Subject:    subject,
		Content:    content,
		MatchScore: matchScore,
	})
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "scout.sent", UserID: &companyID, Payload: analyticsPayload(ctx, map[string]string{"scout_id": created.ID.String(), "engineer_id": engineerID.String()})})
	return created, nil
}

func (s *ScoutService) ListForEngineer(ctx context.Context, engineerID common.UUID) ([]scout.Email, error) {
	return s.repo.ListByEngineer(ctx, engineerID)
}

func (s *ScoutService) ListForCompany(ctx context.Context, companyID common.UUID) ([]scout.Email, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// GetForEngineer opens the email and marks it read.
func (s *ScoutService) GetForEngineer(ctx context.Context, scoutID, engineerID common.UUID) (*scout.Email, error) {
	email, err := s.repo.GetByID(ctx, scoutID)
	if err != nil {
		return nil, err
	}
	if email.EngineerID != engineerID {
		return nil, common.NewError(common.CodeForbidden, "scout email belongs to another engineer", nil)
	}
	if !email.IsRead {
		if err := s.repo.MarkRead(ctx, email.ID, s.now()); err != nil {
			return nil, err
		}
		email.IsRead = true
	}
	return email, nil
}

func (s *ScoutService) Reply(ctx context.Context, scoutID, engineerID common.UUID) (*scout.Email, error) {
	email, err := s.repo.GetByID(ctx, scoutID)
	if err != nil {
		return nil, err
	}
	if email.EngineerID != engineerID {
		return nil, common.NewError(common.CodeForbidden, "scout email belongs to another engineer", nil)
	}
	if !email.IsReplied {
		if err := s.repo.MarkReplied(ctx, email.ID, s.now()); err != nil {
			return nil, err
		}
		email.IsReplied = true
		email.IsRead = true
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "scout.replied", UserID: &engineerID, Payload: analyticsPayload(ctx, map[string]string{"scout_id": email.ID.String()})})
	return email, nil
}
