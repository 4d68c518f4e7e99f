package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/billing"
	"itboard/internal/domain/profile"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(ctx context.Context, id common.UUID) (*billing.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, company_id, kind, plan, status, applied, created_at, updated_at
		FROM payments WHERE id = $1`, id)
	var p billing.Payment
	var plan sql.NullString
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Kind, &plan, &p.Status, &p.Applied, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "payment not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load payment", err)
	}
	if plan.Valid {
		p.Plan = profile.Plan(plan.String)
	}
	return &p, nil
}

// MarkApplied flips the applied flag only when it is still false. The
// conditional update makes concurrent pollers grant the entitlement once.
func (r *PaymentRepository) MarkApplied(ctx context.Context, id common.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE payments SET applied = true, updated_at = $1
		WHERE id = $2 AND applied = false`, time.Now().UTC(), id)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to mark payment applied", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to mark payment applied", err)
	}
	return affected > 0, nil
}
