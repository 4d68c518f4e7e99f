package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"itboard/internal/common"
	"itboard/internal/domain/listing"
)

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, company_id, kind, title, description, requirements, budget, location, status, created_at, updated_at`

func (r *ListingRepository) Create(ctx context.Context, l listing.Listing) (*listing.Listing, error) {
	l.ID = common.NewUUID()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO listings (id, company_id, kind, title, description, requirements, budget, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.CompanyID, l.Kind, l.Title, l.Description, pq.Array(l.Requirements), l.Budget, l.Location, l.Status, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create listing", err)
	}
	return &l, nil
}

func (r *ListingRepository) Update(ctx context.Context, l listing.Listing) (*listing.Listing, error) {
	l.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE listings
		SET kind = $1, title = $2, description = $3, requirements = $4, budget = $5, location = $6, status = $7, updated_at = $8
		WHERE id = $9`,
		l.Kind, l.Title, l.Description, pq.Array(l.Requirements), l.Budget, l.Location, l.Status, l.UpdatedAt, l.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update listing", err)
	}
	return r.GetByID(ctx, l.ID)
}

func (r *ListingRepository) GetByID(ctx context.Context, id common.UUID) (*listing.Listing, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	var l listing.Listing
	if err := row.Scan(&l.ID, &l.CompanyID, &l.Kind, &l.Title, &l.Description, pq.Array(&l.Requirements), &l.Budget, &l.Location, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "listing not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load listing", err)
	}
	return &l, nil
}

func (r *ListingRepository) ListPublished(ctx context.Context, limit, offset int) ([]listing.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list listings", err)
	}
	return collectListings(rows)
}

func (r *ListingRepository) ListPublishedFiltered(ctx context.Context, limit, offset int, skills []string) ([]listing.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings
		WHERE status = 'published' AND requirements && $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, pq.Array(skills), limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list listings", err)
	}
	return collectListings(rows)
}

func (r *ListingRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]listing.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings
		WHERE company_id = $1
		ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list company listings", err)
	}
	return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]listing.Listing, error) {
	defer rows.Close()
	var items []listing.Listing
	for rows.Next() {
		var l listing.Listing
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Kind, &l.Title, &l.Description, pq.Array(&l.Requirements), &l.Budget, &l.Location, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan listing", err)
		}
		items = append(items, l)
	}
	return items, nil
}
