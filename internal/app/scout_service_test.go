package app

import (
	"context"
	"testing"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/profile"
)

type scoutFixture struct {
	service    *ScoutService
	scouts     *fakeScoutRepo
	companies  *fakeCompanyRepo
	companyID  common.UUID
	engineerID common.UUID
}

func newScoutFixture(t *testing.T, withAccess bool) *scoutFixture {
	t.Helper()
	scouts := newFakeScoutRepo()
	companies := newFakeCompanyRepo()
	engineers := newFakeEngineerRepo()
	service := NewScoutService(scouts, companies, engineers, noopAnalyticsRepo{})
	service.now = func() time.Time { return testNow }

	companyID := common.NewUUID()
	companyProfile := profile.CompanyProfile{UserID: companyID, Name: "Acme", Plan: profile.PlanFree}
	if withAccess {
		expiresAt := testNow.Add(30 * 24 * time.Hour)
		companyProfile.HasScoutAccess = true
		companyProfile.ScoutAccessExpiresAt = &expiresAt
	}
	companies.put(companyProfile)

	engineerID := common.NewUUID()
	if _, err := engineers.Upsert(context.Background(), profile.EngineerProfile{UserID: engineerID, Name: "Dev"}); err != nil {
		t.Fatalf("expected profile, got %v", err)
	}
	return &scoutFixture{service: service, scouts: scouts, companies: companies, companyID: companyID, engineerID: engineerID}
}

func TestScoutServiceSend_RequiresScoutAccess(t *testing.T) {
	f := newScoutFixture(t, false)

	_, err := f.service.Send(context.Background(), f.companyID, f.engineerID, "Opportunity", "We like your work", 80)
	if !common.Is(err, common.CodeNotEntitled) {
		t.Fatalf("expected not_entitled error, got %v", err)
	}
}

func TestScoutServiceSend_ExpiredAccessBlocked(t *testing.T) {
	f := newScoutFixture(t, true)
	expired := testNow.Add(-time.Hour)
	companyProfile := mustGetCompany(t, f.companies, f.companyID)
	companyProfile.ScoutAccessExpiresAt = &expired
	f.companies.put(*companyProfile)

	_, err := f.service.Send(context.Background(), f.companyID, f.engineerID, "Opportunity", "We like your work", 80)
	if !common.Is(err, common.CodeNotEntitled) {
		t.Fatalf("expected not_entitled error, got %v", err)
	}
}

func TestScoutServiceSend_Success(t *testing.T) {
	f := newScoutFixture(t, true)

	email, err := f.service.Send(context.Background(), f.companyID, f.engineerID, " Opportunity ", " We like your work ", 80)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if email.Subject != "Opportunity" || email.Content != "We like your work" {
		t.Fatalf("expected trimmed fields, got %q %q", email.Subject, email.Content)
	}
	if email.IsRead || email.IsReplied {
		t.Fatal("expected new email to be unread and unreplied")
	}
}

func TestScoutServiceSend_Validation(t *testing.T) {
	f := newScoutFixture(t, true)

	_, err := f.service.Send(context.Background(), f.companyID, f.engineerID, "", "", 120)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScoutServiceSend_UnknownEngineer(t *testing.T) {
	f := newScoutFixture(t, true)

	_, err := f.service.Send(context.Background(), f.companyID, common.NewUUID(), "Opportunity", "Content", 50)
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not_found error, got %v", err)
	}
}

func TestScoutServiceGetForEngineer_MarksRead(t *testing.T) {
	f := newScoutFixture(t, true)
	email, err := f.service.Send(context.Background(), f.companyID, f.engineerID, "Opportunity", "Content", 50)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	opened, err := f.service.GetForEngineer(context.Background(), email.ID, f.engineerID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !opened.IsRead {
		t.Fatal("expected email to be marked read on open")
	}
	stored, err := f.scouts.GetByID(context.Background(), email.ID)
	if err != nil {
		t.Fatalf("expected email, got %v", err)
	}
	if !stored.IsRead {
		t.Fatal("expected read state to be persisted")
	}
}

func TestScoutServiceGetForEngineer_WrongEngineer(t *testing.T) {
	f := newScoutFixture(t, true)
	email, err := f.service.Send(context.Background(), f.companyID, f.engineerID, "Opportunity", "Content", 50)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	_, err = f.service.GetForEngineer(context.Background(), email.ID, common.NewUUID())
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestScoutServiceReply_MarksRepliedAndRead(t *testing.T) {
	f := newScoutFixture(t, true)
	email, err := f.service.Send(context.Background(), f.companyID, f.engineerID, "Opportunity", "Content", 50)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	replied, err := f.service.Reply(context.Background(), email.ID, f.engineerID)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !replied.IsReplied || !replied.IsRead {
		t.Fatal("expected reply to mark the email replied and read")
	}
}
