package app

import (
	"context"

	"itboard/internal/common"
	"itboard/internal/domain/application"
	"itboard/internal/domain/user"
)

// Actor is the capability surface shared by both sides of the marketplace.
// Handlers resolve one from the session instead of branching on the role
// string at every call site.
type Actor interface {
	ID() common.UUID
	Role() user.Role
	Applications(ctx context.Context) ([]application.Application, error)
	UnreadTotal(ctx context.Context) (int, error)
}

type ActorResolver struct {
	applications *ApplicationService
	messages     *MessageService
}

func NewActorResolver(applications *ApplicationService, messages *MessageService) *ActorResolver {
	return &ActorResolver{applications: applications, messages: messages}
}

func (r *ActorResolver) Resolve(userID common.UUID, role user.Role) (Actor, error) {
	switch role {
	case user.RoleEngineer:
		return &engineerActor{id: userID, applications: r.applications, messages: r.messages}, nil
	case user.RoleCompany:
		return &companyActor{id: userID, applications: r.applications, messages: r.messages}, nil
	default:
		return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
}

type engineerActor struct {
	id           common.UUID
	applications *ApplicationService
	messages     *MessageService
}

func (a *engineerActor) ID() common.UUID { return a.id }
func (a *engineerActor) Role() user.Role { return user.RoleEngineer }

func (a *engineerActor) Applications(ctx context.Context) ([]application.Application, error) {
	return a.applications.ListByEngineer(ctx, a.id)
}

func (a *engineerActor) UnreadTotal(ctx context.Context) (int, error) {
	return a.messages.UnreadTotal(ctx, a.id, user.RoleEngineer)
}

type companyActor struct {
	id           common.UUID
	applications *ApplicationService
	messages     *MessageService
}

func (a *companyActor) ID() common.UUID { return a.id }
func (a *companyActor) Role() user.Role { return user.RoleCompany }

func (a *companyActor) Applications(ctx context.Context) ([]application.Application, error) {
	return a.applications.ListByCompany(ctx, a.id)
}

func (a *companyActor) UnreadTotal(ctx context.Context) (int, error) {
	return a.messages.UnreadTotal(ctx, a.id, user.RoleCompany)
}
