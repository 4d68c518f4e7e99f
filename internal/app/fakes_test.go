package app

import (
	"context"
	"sync"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/analytics"
	"itboard/internal/domain/application"
	"itboard/internal/domain/auth"
	"itboard/internal/domain/listing"
	"itboard/internal/domain/message"
	"itboard/internal/domain/profile"
	"itboard/internal/domain/scout"
	"itboard/internal/domain/user"
)

type noopAnalyticsRepo struct{}

func (noopAnalyticsRepo) Create(ctx context.Context, event analytics.Event) error {
	return nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*user.User
	byID    map[common.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*user.User),
		byID:    make(map[common.UUID]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.NewError(common.CodeConflict, "email is already registered", nil)
	}
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	stored := u
	r.byEmail[u.Email] = &stored
	r.byID[u.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copied := *account
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byEmail[email]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copied := *account
	return &copied, nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]auth.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]auth.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Store(ctx context.Context, token auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	copied := value
	return &copied, nil
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, token string, revokedAtUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	revokedAt := time.Unix(revokedAtUnix, 0).UTC()
	value.RevokedAt = &revokedAt
	r.tokens[token] = value
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAll(ctx context.Context, userID common.UUID, revokedAtUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	revokedAt := time.Unix(revokedAtUnix, 0).UTC()
	for key, value := range r.tokens {
		if value.UserID == userID {
			value.RevokedAt = &revokedAt
			r.tokens[key] = value
		}
	}
	return nil
}

type fakeEngineerRepo struct {
	mu       sync.Mutex
	profiles map[common.UUID]*profile.EngineerProfile
}

func newFakeEngineerRepo() *fakeEngineerRepo {
	return &fakeEngineerRepo{profiles: make(map[common.UUID]*profile.EngineerProfile)}
}

func (r *fakeEngineerRepo) Upsert(ctx context.Context, p profile.EngineerProfile) (*profile.EngineerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := p
	stored.UpdatedAt = time.Now().UTC()
	r.profiles[p.UserID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeEngineerRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.EngineerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[userID]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "engineer profile not found", nil)
	}
	copied := *p
	return &copied, nil
}

type fakeCompanyRepo struct {
	mu       sync.Mutex
	profiles map[common.UUID]*profile.CompanyProfile
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{profiles: make(map[common.UUID]*profile.CompanyProfile)}
}

func (r *fakeCompanyRepo) put(p profile.CompanyProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := p
	r.profiles[p.UserID] = &stored
}

func (r *fakeCompanyRepo) Upsert(ctx context.Context, p profile.CompanyProfile) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.profiles[p.UserID]
	if current == nil {
		stored := profile.CompanyProfile{UserID: p.UserID, Plan: profile.PlanFree}
		current = &stored
		r.profiles[p.UserID] = current
	}
	current.Name = p.Name
	current.Description = p.Description
	current.Website = p.Website
	current.UpdatedAt = time.Now().UTC()
	copied := *current
	return &copied, nil
}

func (r *fakeCompanyRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[userID]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "company profile not found", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeCompanyRepo) StartTrial(ctx context.Context, userID common.UUID, startedAt, endsAt time.Time) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[userID]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "company profile not found", nil)
	}
	if p.HasUsedTrial {
		return nil, common.NewError(common.CodeConflict, "trial has already been used", nil)
	}
	p.TrialStartedAt = &startedAt
	p.TrialEndsAt = &endsAt
	p.HasUsedTrial = true
	p.IsTrialActive = true
	copied := *p
	return &copied, nil
}

func (r *fakeCompanyRepo) ApplySubscription(ctx context.Context, userID common.UUID, plan profile.Plan, expiresAt time.Time) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[userID]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "company profile not found", nil)
	}
	p.Plan = plan
	p.SubscriptionExpires = &expiresAt
	copied := *p
	return &copied, nil
}

func (r *fakeCompanyRepo) ApplyScoutAccess(ctx context.Context, userID common.UUID, expiresAt time.Time) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[userID]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "company profile not found", nil)
	}
	p.HasScoutAccess = true
	p.ScoutAccessExpiresAt = &expiresAt
	copied := *p
	return &copied, nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[common.UUID]*listing.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[common.UUID]*listing.Listing)}
}

func (r *fakeListingRepo) Create(ctx context.Context, l listing.Listing) (*listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = common.NewUUID()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	stored := l
	r.listings[l.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, l listing.Listing) (*listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "listing not found", nil)
	}
	l.UpdatedAt = time.Now().UTC()
	stored := l
	r.listings[l.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id common.UUID) (*listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.listings[id]
	if l == nil {
		return nil, common.NewError(common.CodeNotFound, "listing not found", nil)
	}
	copied := *l
	return &copied, nil
}

func (r *fakeListingRepo) ListPublished(ctx context.Context, limit, offset int) ([]listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []listing.Listing
	for _, l := range r.listings {
		if l.Status == listing.StatusPublished {
			items = append(items, *l)
		}
	}
	return items, nil
}

func (r *fakeListingRepo) ListPublishedFiltered(ctx context.Context, limit, offset int, skills []string) ([]listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(skills))
	for _, skill := range skills {
		wanted[skill] = true
	}
	var items []listing.Listing
	for _, l := range r.listings {
		if l.Status != listing.StatusPublished {
			continue
		}
		for _, req := range l.Requirements {
			if wanted[req] {
				items = append(items, *l)
				break
			}
		}
	}
	return items, nil
}

func (r *fakeListingRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []listing.Listing
	for _, l := range r.listings {
		if l.CompanyID == companyID {
			items = append(items, *l)
		}
	}
	return items, nil
}

type fakeApplicationRepo struct {
	mu       sync.Mutex
	apps     map[common.UUID]*application.Application
	listings *fakeListingRepo
}

func newFakeApplicationRepo(listings *fakeListingRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[common.UUID]*application.Application), listings: listings}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.ListingID == app.ListingID && existing.EngineerID == app.EngineerID {
			return nil, common.NewError(common.CodeConflict, "already applied to this listing", nil)
		}
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	stored := app
	r.apps[app.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.apps[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByListingAndEngineer(ctx context.Context, listingID, engineerID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.ListingID == listingID && app.EngineerID == engineerID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) ListByEngineer(ctx context.Context, engineerID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.apps {
		if app.EngineerID == engineerID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.apps {
		l, err := r.listings.GetByID(ctx, app.ListingID)
		if err != nil {
			continue
		}
		if l.CompanyID == companyID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.apps[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) grantContactPermission(id common.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app := r.apps[id]; app != nil {
		app.HasContactPermission = true
	}
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []message.Message
	apps     *fakeApplicationRepo
}

func newFakeMessageRepo(apps *fakeApplicationRepo) *fakeMessageRepo {
	return &fakeMessageRepo{apps: apps}
}

func (r *fakeMessageRepo) Create(ctx context.Context, m message.Message) (*message.Message, error) {
	r.mu.Lock()
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, m)
	r.mu.Unlock()
	if m.SenderRole == user.RoleEngineer {
		r.apps.grantContactPermission(m.ApplicationID)
	}
	copied := m
	return &copied, nil
}

func (r *fakeMessageRepo) ListByApplication(ctx context.Context, applicationID common.UUID, limit, offset int) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []message.Message
	for _, m := range r.messages {
		if m.ApplicationID == applicationID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, applicationID common.UUID, readerRole user.Role, after time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.messages {
		if m.ApplicationID == applicationID && m.SenderRole != readerRole && m.CreatedAt.After(after) {
			count++
		}
	}
	return count, nil
}

type markerKey struct {
	applicationID common.UUID
	role          user.Role
}

type fakeReadMarkerRepo struct {
	mu      sync.Mutex
	markers map[markerKey]time.Time
}

func newFakeReadMarkerRepo() *fakeReadMarkerRepo {
	return &fakeReadMarkerRepo{markers: make(map[markerKey]time.Time)}
}

func (r *fakeReadMarkerRepo) Get(ctx context.Context, applicationID common.UUID, role user.Role) (*message.ReadMarker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	readAt, ok := r.markers[markerKey{applicationID: applicationID, role: role}]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "read marker not found", nil)
	}
	return &message.ReadMarker{ApplicationID: applicationID, Role: role, LastReadAt: readAt}, nil
}

func (r *fakeReadMarkerRepo) Upsert(ctx context.Context, applicationID common.UUID, role user.Role, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := markerKey{applicationID: applicationID, role: role}
	if current, ok := r.markers[key]; !ok || readAt.After(current) {
		r.markers[key] = readAt
	}
	return nil
}

type fakeScoutRepo struct {
	mu     sync.Mutex
	emails map[common.UUID]*scout.Email
}

func newFakeScoutRepo() *fakeScoutRepo {
	return &fakeScoutRepo{emails: make(map[common.UUID]*scout.Email)}
}

func (r *fakeScoutRepo) Create(ctx context.Context, e scout.Email) (*scout.Email, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = common.NewUUID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	stored := e
	r.emails[e.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeScoutRepo) GetByID(ctx context.Context, id common.UUID) (*scout.Email, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.emails[id]
	if e == nil {
		return nil, common.NewError(common.CodeNotFound, "scout email not found", nil)
	}
	copied := *e
	return &copied, nil
}

func (r *fakeScoutRepo) ListByEngineer(ctx context.Context, engineerID common.UUID) ([]scout.Email, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []scout.Email
	for _, e := range r.emails {
		if e.EngineerID == engineerID {
			items = append(items, *e)
		}
	}
	return items, nil
}

func (r *fakeScoutRepo) ListByCompany(ctx context.Context, companyID common.UUID) ([]scout.Email, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []scout.Email
	for _, e := range r.emails {
		if e.CompanyID == companyID {
			items = append(items, *e)
		}
	}
	return items, nil
}

func (r *fakeScoutRepo) MarkRead(ctx context.Context, id common.UUID, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.emails[id]
	if e == nil {
		return common.NewError(common.CodeNotFound, "scout email not found", nil)
	}
	e.IsRead = true
	return nil
}

func (r *fakeScoutRepo) MarkReplied(ctx context.Context, id common.UUID, repliedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.emails[id]
	if e == nil {
		return common.NewError(common.CodeNotFound, "scout email not found", nil)
	}
	e.IsReplied = true
	e.IsRead = true
	return nil
}

type fakeUnreadCache struct {
	mu            sync.Mutex
	totals        map[common.UUID]int
	invalidations []common.UUID
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{totals: make(map[common.UUID]int)}
}

func (c *fakeUnreadCache) Get(ctx context.Context, userID common.UUID) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	total, ok := c.totals[userID]
	return total, ok
}

func (c *fakeUnreadCache) Set(ctx context.Context, userID common.UUID, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totals[userID] = total
}

func (c *fakeUnreadCache) Invalidate(ctx context.Context, userID common.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.totals, userID)
	c.invalidations = append(c.invalidations, userID)
}
