package app

import (
	"context"
	"strings"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/application"
	"itboard/internal/domain/listing"
	"itboard/internal/domain/profile"
)

type ApplicationService struct {
	repo      application.Repository
	listings  listing.Repository
	engineers profile.EngineerRepository
	analytics analytics.Repository
}

func NewApplicationService(repo application.Repository, listings listing.Repository, engineers profile.EngineerRepository, analytics analytics.Repository) *ApplicationService {
	return &ApplicationService{repo: repo, listings: listings, engineers: engineers, analytics: analytics}
}

func (s *ApplicationService) Apply(ctx context.Context, listingID, engineerID common.UUID, coverLetter string) (*application.Application, error) {
	if _, err := s.engineers.GetByUserID(ctx, engineerID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "engineer profile is required", nil)
		}
		return nil, err
	}
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.Status != listing.StatusPublished {
		return nil, common.NewError(common.CodeValidation, "listing is not published", nil)
	}
	if _, err := s.repo.FindByListingAndEngineer(ctx, listingID, engineerID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	app := application.Application{
		ListingID:   listingID,
		EngineerID:  engineerID,
		Status:      application.StatusPending,
		CoverLetter: strings.TrimSpace(coverLetter),
	}
	created, err := s.repo.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "application.created", UserID: &engineerID, Payload: analyticsPayload(ctx, map[string]string{"application_id": created.ID.String(), "listing_id": listingID.String()})})
	return created, nil
}

// UpdateStatus overwrites the status with any known label. There is no
// enforced transition graph: companies move applications back and forth,
// including out of accepted/rejected. No audit trail is recorded.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID common.UUID, status application.Status, companyID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	l, err := s.listings.GetByID(ctx, app.ListingID)
	if err != nil {
		return nil, err
	}
	if l.CompanyID != companyID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another company", nil)
	}
	next := application.Status(strings.ToLower(strings.TrimSpace(string(status))))
	if !isKnownStatus(next) {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, reviewed, interview, accepted, or rejected"})
	}
	updated, err := s.repo.UpdateStatus(ctx, applicationID, next)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "application.status_changed", UserID: &companyID, Payload: analyticsPayload(ctx, map[string]string{"application_id": updated.ID.String(), "status": string(next)})})
	return updated, nil
}

func isKnownStatus(status application.Status) bool {
	switch status {
	case application.StatusPending, application.StatusReviewed, application.StatusInterview, application.StatusAccepted, application.StatusRejected:
		return true
	default:
		return false
	}
}

func (s *ApplicationService) ListByEngineer(ctx context.Context, engineerID common.UUID) ([]application.Application, error) {
	return s.repo.ListByEngineer(ctx, engineerID)
}

func (s *ApplicationService) ListByCompany(ctx context.Context, companyID common.UUID) ([]application.Application, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

// ApplicationDetail is the company-facing view: the engineer's phone is
// blanked until the contact-permission latch is set.
type ApplicationDetail struct {
	Application application.Application  `json:"application"`
	Engineer    *profile.EngineerProfile `json:"engineer,omitempty"`
}

func (s *ApplicationService) GetForCompany(ctx context.Context, applicationID, companyID common.UUID) (*ApplicationDetail, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	l, err := s.listings.GetByID(ctx, app.ListingID)
	if err != nil {
		return nil, err
	}
	if l.CompanyID != companyID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another company", nil)
	}
	detail := &ApplicationDetail{Application: *app}
	engineerProfile, err := s.engineers.GetByUserID(ctx, app.EngineerID)
	if err == nil {
		view := *engineerProfile
		if !app.HasContactPermission {
			view.Phone = ""
		}
		detail.Engineer = &view
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	return detail, nil
}

func (s *ApplicationService) GetForEngineer(ctx context.Context, applicationID, engineerID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.EngineerID != engineerID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another engineer", nil)
	}
	return app, nil
}
