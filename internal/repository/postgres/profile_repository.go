package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"itboard/internal/common"
	"itboard/internal/domain/profile"
)

type EngineerProfileRepository struct {
	db *sql.DB
}

func NewEngineerProfileRepository(db *sql.DB) *EngineerProfileRepository {
	return &EngineerProfileRepository{db: db}
}

func (r *EngineerProfileRepository) Upsert(ctx context.Context, p profile.EngineerProfile) (*profile.EngineerProfile, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO engineer_profiles (user_id, name, skills, experience, bio, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			skills = EXCLUDED.skills,
			experience = EXCLUDED.experience,
			bio = EXCLUDED.bio,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Name, pq.Array(p.Skills), p.Experience, p.Bio, p.Phone, now)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to save engineer profile", err)
	}
	return r.GetByUserID(ctx, p.UserID)
}

func (r *EngineerProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.EngineerProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, name, skills, experience, bio, phone, created_at, updated_at
		FROM engineer_profiles WHERE user_id = $1`, userID)
	var p profile.EngineerProfile
	if err := row.Scan(&p.UserID, &p.Name, pq.Array(&p.Skills), &p.Experience, &p.Bio, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "engineer profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load engineer profile", err)
	}
	return &p, nil
}

type CompanyProfileRepository struct {
	db *sql.DB
}

func NewCompanyProfileRepository(db *sql.DB) *CompanyProfileRepository {
	return &CompanyProfileRepository{db: db}
}

const companyProfileColumns = `user_id, name, description, website, plan, subscription_expires_at,
	trial_started_at, trial_ends_at, has_used_trial, is_trial_active,
	has_scout_access, scout_access_expires_at, created_at, updated_at`

func (r *CompanyProfileRepository) Upsert(ctx context.Context, p profile.CompanyProfile) (*profile.CompanyProfile, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO company_profiles (user_id, name, description, website, plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'free', $5, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Name, p.Description, p.Website, now)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to save company profile", err)
	}
	return r.GetByUserID(ctx, p.UserID)
}

func (r *CompanyProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.CompanyProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+companyProfileColumns+` FROM company_profiles WHERE user_id = $1`, userID)
	return scanCompanyProfile(row)
}

func (r *CompanyProfileRepository) StartTrial(ctx context.Context, userID common.UUID, startedAt, endsAt time.Time) (*profile.CompanyProfile, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE company_profiles
		SET trial_started_at = $1, trial_ends_at = $2, has_used_trial = true, is_trial_active = true, updated_at = $3
		WHERE user_id = $4 AND has_used_trial = false`,
		startedAt, endsAt, time.Now().UTC(), userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to start trial", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to start trial", err)
	}
	if affected == 0 {
		if _, getErr := r.GetByUserID(ctx, userID); getErr != nil {
			return nil, getErr
		}
		return nil, common.NewError(common.CodeConflict, "trial has already been used", nil)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *CompanyProfileRepository) ApplySubscription(ctx context.Context, userID common.UUID, plan profile.Plan, expiresAt time.Time) (*profile.CompanyProfile, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE company_profiles
		SET plan = $1, subscription_expires_at = $2, updated_at = $3
		WHERE user_id = $4`,
		plan, expiresAt, time.Now().UTC(), userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to apply subscription", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *CompanyProfileRepository) ApplyScoutAccess(ctx context.Context, userID common.UUID, expiresAt time.Time) (*profile.CompanyProfile, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE company_profiles
		SET has_scout_access = true, scout_access_expires_at = $1, updated_at = $2
		WHERE user_id = $3`,
		expiresAt, time.Now().UTC(), userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to apply scout access", err)
	}
	return r.GetByUserID(ctx, userID)
}

func scanCompanyProfile(row *sql.Row) (*profile.CompanyProfile, error) {
	var p profile.CompanyProfile
	if err := row.Scan(&p.UserID, &p.Name, &p.Description, &p.Website, &p.Plan, &p.SubscriptionExpires,
		&p.TrialStartedAt, &p.TrialEndsAt, &p.HasUsedTrial, &p.IsTrialActive,
		&p.HasScoutAccess, &p.ScoutAccessExpiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "company profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load company profile", err)
	}
	return &p, nil
}
