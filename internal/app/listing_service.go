package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/billing"
	"itboard/internal/domain/listing"
	"itboard/internal/domain/profile"
)

type ListingService struct {
	repo      listing.Repository
	companies profile.CompanyRepository
	engineers profile.EngineerRepository
	analytics analytics.Repository
	now       func() time.Time
}

func NewListingService(repo listing.Repository, companies profile.CompanyRepository, engineers profile.EngineerRepository, analytics analytics.Repository) *ListingService {
	return &ListingService{repo: repo, companies: companies, engineers: engineers, analytics: analytics, now: func() time.Time { return time.Now().UTC() }}
}

// ensureEntitled blocks posting for companies without a valid subscription
// or running trial. The error carries the requires_payment hint so clients
// can send the user into the upgrade flow.
func (s *ListingService) ensureEntitled(ctx context.Context, companyID common.UUID) (*profile.CompanyProfile, error) {
	companyProfile, err := s.companies.GetByUserID(ctx, companyID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "company profile is required", nil)
		}
		return nil, err
	}
	if !billing.CanAccessPaidFeatures(*companyProfile, s.now()) {
		return nil, common.NewEntitlementError("an active subscription or trial is required to post listings")
	}
	return companyProfile, nil
}

func (s *ListingService) Create(ctx context.Context, l listing.Listing) (*listing.Listing, error) {
	if _, err := s.ensureEntitled(ctx, l.CompanyID); err != nil {
		return nil, err
	}
	if l.Kind == "" {
		l.Kind = listing.KindJob
	}
	if err := validateListingKind(l.Kind); err != nil {
		return nil, err
	}
	if l.Status == "" {
		l.Status = listing.StatusDraft
	}
	if err := validateListingStatus(l.Status); err != nil {
		return nil, err
	}
	if l.Status == listing.StatusPublished {
		if err := validateListingForPublish(l); err != nil {
			return nil, err
		}
	} else if strings.TrimSpace(l.Title) == "" {
		return nil, common.NewError(common.CodeValidation, "title is required", nil)
	}
	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, err
	}
	event := "listing.created"
	if created.Status == listing.StatusPublished {
		event = "listing.published"
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: event, UserID: &l.CompanyID, Payload: analyticsPayload(ctx, map[string]string{"listing_id": created.ID.String(), "kind": string(created.Kind)})})
	return created, nil
}

func (s *ListingService) Update(ctx context.Context, l listing.Listing) (*listing.Listing, error) {
	current, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if current.CompanyID != l.CompanyID {
		return nil, common.NewError(common.CodeForbidden, "listing belongs to another company", nil)
	}
	if l.Kind == "" {
		l.Kind = current.Kind
	}
	if l.Status == "" {
		l.Status = current.Status
	}
	if err := validateListingStatus(l.Status); err != nil {
		return nil, err
	}
	if l.Status == listing.StatusPublished && current.Status != listing.StatusPublished {
		if _, err := s.ensureEntitled(ctx, l.CompanyID); err != nil {
			return nil, err
		}
		if err := validateListingForPublish(l); err != nil {
			return nil, err
		}
	}
	updated, err := s.repo.Update(ctx, l)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "listing.updated", UserID: &l.CompanyID, Payload: analyticsPayload(ctx, map[string]string{"listing_id": updated.ID.String()})})
	return updated, nil
}

func (s *ListingService) UpdateStatus(ctx context.Context, companyID, listingID common.UUID, status listing.Status) (*listing.Listing, error) {
	l, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.CompanyID != companyID {
		return nil, common.NewError(common.CodeForbidden, "listing belongs to another company", nil)
	}
	normalized, err := normalizeListingStatus(status)
	if err != nil {
		return nil, err
	}
	if normalized == listing.StatusPublished && l.Status != listing.StatusPublished {
		if _, err := s.ensureEntitled(ctx, companyID); err != nil {
			return nil, err
		}
		if err := validateListingForPublish(*l); err != nil {
			return nil, err
		}
	}
	l.Status = normalized
	updated, err := s.repo.Update(ctx, *l)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "listing.status_changed", UserID: &companyID, Payload: analyticsPayload(ctx, map[string]string{"listing_id": updated.ID.String(), "status": string(normalized)})})
	return updated, nil
}

func (s *ListingService) Get(ctx context.Context, id common.UUID) (*listing.Listing, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != listing.StatusPublished {
		return nil, common.NewError(common.CodeNotFound, "listing not found", nil)
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "listing.viewed", Payload: analyticsPayload(ctx, map[string]string{"listing_id": item.ID.String()})})
	return item, nil
}

func (s *ListingService) GetByCompany(ctx context.Context, companyID, listingID common.UUID) (*listing.Listing, error) {
	item, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if item.CompanyID != companyID {
		return nil, common.NewError(common.CodeForbidden, "listing belongs to another company", nil)
	}
	return item, nil
}

func (s *ListingService) ListPublished(ctx context.Context, limit, offset int) ([]listing.Listing, error) {
	return s.repo.ListPublished(ctx, limit, offset)
}

// ListRecommended filters published listings by the engineer's skills.
func (s *ListingService) ListRecommended(ctx context.Context, engineerID common.UUID, limit, offset int) ([]listing.Listing, error) {
	engineerProfile, err := s.engineers.GetByUserID(ctx, engineerID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeValidation, "engineer profile is required", nil)
		}
		return nil, err
	}
	return s.repo.ListPublishedFiltered(ctx, limit, offset, engineerProfile.Skills)
}

func (s *ListingService) ListByCompany(ctx context.Context, companyID common.UUID) ([]listing.Listing, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func validateListingForPublish(l listing.Listing) error {
	fields := map[string]string{}
	if len(l.Title) < 4 || len(l.Title) > 120 {
		fields["title"] = "title must be between 4 and 120 characters"
	}
	if l.Description == "" {
		fields["description"] = "description is required"
	}
	if len(l.Requirements) == 0 {
		fields["requirements"] = "at least one requirement is required"
	}
	for i, req := range l.Requirements {
		if len(req) < 2 {
			fields[fmt.Sprintf("requirements[%d]", i)] = "requirement must be at least 2 characters"
		}
	}
	if l.Budget == "" {
		fields["budget"] = "budget is required"
	}
	if l.Location == "" {
		fields["location"] = "location is required"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid listing", fields)
	}
	return nil
}

func validateListingStatus(status listing.Status) error {
	_, err := normalizeListingStatus(status)
	return err
}

func normalizeListingStatus(status listing.Status) (listing.Status, error) {
	normalized := listing.Status(strings.ToLower(strings.TrimSpace(string(status))))
	switch normalized {
	case listing.StatusDraft, listing.StatusPublished, listing.StatusHidden, listing.StatusClosed:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid listing status", map[string]string{"status": "status must be draft, published, hidden, or closed"})
	}
}

func validateListingKind(kind listing.Kind) error {
	switch kind {
	case listing.KindJob, listing.KindProject:
		return nil
	default:
		return common.NewValidationError("invalid listing kind", map[string]string{"kind": "kind must be job or project"})
	}
}
