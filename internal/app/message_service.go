package app

import (
	"context"
	"strings"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/application"
	"itboard/internal/domain/listing"
	"itboard/internal/domain/message"
	"itboard/internal/domain/user"
)

// UnreadCache is an optional short-TTL cache for the dashboard badge.
// Dashboards poll on a fixed interval, so values one interval stale are fine.
type UnreadCache interface {
	Get(ctx context.Context, userID common.UUID) (int, bool)
	Set(ctx context.Context, userID common.UUID, total int)
	Invalidate(ctx context.Context, userID common.UUID)
}

type MessageService struct {
	messages     message.Repository
	markers      message.ReadMarkerRepository
	applications application.Repository
	listings     listing.Repository
	analytics    analytics.Repository
	cache        UnreadCache
}

func NewMessageService(messages message.Repository, markers message.ReadMarkerRepository, applications application.Repository, listings listing.Repository, analytics analytics.Repository, cache UnreadCache) *MessageService {
	return &MessageService{messages: messages, markers: markers, applications: applications, listings: listings, analytics: analytics, cache: cache}
}

// authorize resolves the sender's side of the thread and rejects outsiders.
func (s *MessageService) authorize(ctx context.Context, applicationID, userID common.UUID, role user.Role) (*application.Application, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	switch role {
	case user.RoleEngineer:
		if app.EngineerID != userID {
			return nil, common.NewError(common.CodeForbidden, "application belongs to another engineer", nil)
		}
	case user.RoleCompany:
		l, err := s.listings.GetByID(ctx, app.ListingID)
		if err != nil {
			return nil, err
		}
		if l.CompanyID != userID {
			return nil, common.NewError(common.CodeForbidden, "application belongs to another company", nil)
		}
	default:
		return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
	return app, nil
}

// Send stores the message. Engineer messages flip the application's
// contact-permission latch; the repository applies both in one transaction.
func (s *MessageService) Send(ctx context.Context, applicationID, userID common.UUID, role user.Role, body string) (*message.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.NewValidationError("message body is required", map[string]string{"body": "body must not be blank"})
	}
	app, err := s.authorize(ctx, applicationID, userID, role)
	if err != nil {
		return nil, err
	}
	created, err := s.messages.Create(ctx, message.Message{
		ApplicationID: app.ID,
		SenderID:      userID,
		SenderRole:    role,
		Body:          body,
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.invalidateCounterpart(ctx, app, role)
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "message.sent", UserID: &userID, Payload: analyticsPayload(ctx, map[string]string{"application_id": app.ID.String(), "sender_role": string(role)})})
	return created, nil
}

// List returns the thread and records the view: the caller's read marker
// moves to now, so its unread count for this application drops to zero.
func (s *MessageService) List(ctx context.Context, applicationID, userID common.UUID, role user.Role, limit, offset int) ([]message.Message, error) {
	app, err := s.authorize(ctx, applicationID, userID, role)
	if err != nil {
		return nil, err
	}
	items, err := s.messages.ListByApplication(ctx, app.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.markers.Upsert(ctx, app.ID, role, time.Now().UTC()); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return items, nil
}

// Unread counts counterpart messages newer than the caller's read marker.
func (s *MessageService) Unread(ctx context.Context, applicationID, userID common.UUID, role user.Role) (int, error) {
	app, err := s.authorize(ctx, applicationID, userID, role)
	if err != nil {
		return 0, err
	}
	return s.unreadFor(ctx, app.ID, role)
}

func (s *MessageService) unreadFor(ctx context.Context, applicationID common.UUID, role user.Role) (int, error) {
	var after time.Time
	marker, err := s.markers.Get(ctx, applicationID, role)
	if err != nil {
		if !common.Is(err, common.CodeNotFound) {
			return 0, err
		}
	} else if marker != nil {
		after = marker.LastReadAt
	}
	return s.messages.CountUnread(ctx, applicationID, role, after)
}

// UnreadTotal sums per-application unread counts across the actor's side of
// the board. It is recomputed on demand; the cache only has to survive one
// dashboard poll interval.
func (s *MessageService) UnreadTotal(ctx context.Context, userID common.UUID, role user.Role) (int, error) {
	if s.cache != nil {
		if total, ok := s.cache.Get(ctx, userID); ok {
			return total, nil
		}
	}
	var apps []application.Application
	var err error
	switch role {
	case user.RoleEngineer:
		apps, err = s.applications.ListByEngineer(ctx, userID)
	case user.RoleCompany:
		apps, err = s.applications.ListByCompany(ctx, userID)
	default:
		return 0, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
	if err != nil {
		return 0, err
	}
	total := 0
	for _, app := range apps {
		count, err := s.unreadFor(ctx, app.ID, role)
		if err != nil {
			return 0, err
		}
		total += count
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, total)
	}
	return total, nil
}

func (s *MessageService) invalidateCounterpart(ctx context.Context, app *application.Application, senderRole user.Role) {
	if senderRole == user.RoleCompany {
		s.cache.Invalidate(ctx, app.EngineerID)
		return
	}
	l, err := s.listings.GetByID(ctx, app.ListingID)
	if err != nil {
		return
	}
	s.cache.Invalidate(ctx, l.CompanyID)
}
