package scout

import (
	"context"
	"time"

	"itboard/internal/common"
)

type Email struct {
	ID         common.UUID `json:"id"`
	CompanyID  common.UUID `json:"company_id"`
	EngineerID common.UUID `json:"engineer_id"`
	Subject    string      `json:"subject"`
	Content    string      `json:"content"`
	MatchScore int         `json:"match_score"`
	IsRead     bool        `json:"is_read"`
	IsReplied  bool        `json:"is_replied"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, e Email) (*Email, error)
	GetByID(ctx context.Context, id common.UUID) (*Email, error)
	ListByEngineer(ctx context.Context, engineerID common.UUID) ([]Email, error)
	ListByCompany(ctx context.Context, companyID common.UUID) ([]Email, error)
	MarkRead(ctx context.Context, id common.UUID, readAt time.Time) error
	MarkReplied(ctx context.Context, id common.UUID, repliedAt time.Time) error
}
