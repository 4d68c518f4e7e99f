package application

import (
	"context"

	"itboard/internal/common"
)

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByListingAndEngineer(ctx context.Context, listingID, engineerID common.UUID) (*Application, error)
	ListByEngineer(ctx context.Context, engineerID common.UUID) ([]Application, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Application, error)
}
