package listing

import (
	"context"

	"itboard/internal/common"
)

type Repository interface {
	Create(ctx context.Context, l Listing) (*Listing, error)
	Update(ctx context.Context, l Listing) (*Listing, error)
	GetByID(ctx context.Context, id common.UUID) (*Listing, error)
	ListPublished(ctx context.Context, limit, offset int) ([]Listing, error)
	ListPublishedFiltered(ctx context.Context, limit, offset int, skills []string) ([]Listing, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Listing, error)
}
