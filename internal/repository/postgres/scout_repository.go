package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/scout"
)

type ScoutRepository struct {
	db *sql.DB
}

func NewScoutRepository(db *sql.DB) *ScoutRepository {
	return &ScoutRepository{db: db}
}

const scoutColumns = `id, company_id, engineer_id, subject, content, match_score, is_read, is_replied, created_at, updated_at`

func (r *ScoutRepository) Create(ctx context.Context, e scout.Email) (*scout.Email, error) {
	e.ID = common.NewUUID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO scout_emails (id, company_id, engineer_id, subject, content, match_score, is_read, is_replied, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.CompanyID, e.EngineerID, e.Subject, e.Content, e.MatchScore, e.IsRead, e.IsReplied, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create scout email", err)
	}
	return &e, nil
}

func (r *ScoutRepository) GetByID(ctx context.Context, id common.UUID) (*scout.Email, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scoutColumns+` FROM scout_emails WHERE id = $1`, id)
	var e scout.Email
	if err := row.Scan(&e.ID, &e.CompanyID, &e.EngineerID, &e.Subject, &e.Content, &e.MatchScore, &e.IsRead, &e.IsReplied, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "scout email not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load scout email", err)
	}
	return &e, nil
}

func (r *ScoutRepository) ListByEngineer(ctx context.Context, engineerID common.UUID) ([]scout.Email, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scoutColumns+` FROM scout_emails
		WHERE engineer_id = $1
		ORDER BY created_at DESC`, engineerID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list scout emails", err)
	}
	return collectScoutEmails(rows)
}

func (r *ScoutRepository) ListByCompany(ctx context.Context, companyID common.UUID) ([]scout.Email, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scoutColumns+` FROM scout_emails
		WHERE company_id = $1
		ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list scout emails", err)
	}
	return collectScoutEmails(rows)
}

func (r *ScoutRepository) MarkRead(ctx context.Context, id common.UUID, readAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scout_emails SET is_read = true, updated_at = $1 WHERE id = $2`, readAt, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to mark scout email read", err)
	}
	return nil
}

func (r *ScoutRepository) MarkReplied(ctx context.Context, id common.UUID, repliedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scout_emails SET is_replied = true, is_read = true, updated_at = $1 WHERE id = $2`, repliedAt, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to mark scout email replied", err)
	}
	return nil
}

func collectScoutEmails(rows *sql.Rows) ([]scout.Email, error) {
	defer rows.Close()
	var items []scout.Email
	for rows.Next() {
		var e scout.Email
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.EngineerID, &e.Subject, &e.Content, &e.MatchScore, &e.IsRead, &e.IsReplied, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan scout email", err)
		}
		items = append(items, e)
	}
	return items, nil
}
