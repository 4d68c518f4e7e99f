package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/message"
	"itboard/internal/domain/user"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts the message and, for engineer senders, flips the
// application's contact-permission latch in the same transaction.
func (r *MessageRepository) Create(ctx context.Context, m message.Message) (*message.Message, error) {
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO messages (id, application_id, sender_role, sender_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ApplicationID, m.SenderRole, m.SenderID, m.Body, m.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create message", err)
	}

	if m.SenderRole == user.RoleEngineer {
		_, err = tx.ExecContext(ctx, `UPDATE applications SET has_contact_permission = true, updated_at = $1
			WHERE id = $2 AND has_contact_permission = false`,
			m.CreatedAt, m.ApplicationID)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to grant contact permission", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit message", err)
	}
	return &m, nil
}

func (r *MessageRepository) ListByApplication(ctx context.Context, applicationID common.UUID, limit, offset int) ([]message.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, sender_role, sender_id, body, created_at
		FROM messages
		WHERE application_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`, applicationID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list messages", err)
	}
	defer rows.Close()
	var items []message.Message
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.ApplicationID, &m.SenderRole, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan message", err)
		}
		items = append(items, m)
	}
	return items, nil
}

// CountUnread counts messages sent by the other side after the reader's
// last-read mark.
func (r *MessageRepository) CountUnread(ctx context.Context, applicationID common.UUID, readerRole user.Role, after time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages
		WHERE application_id = $1 AND sender_role <> $2 AND created_at > $3`,
		applicationID, readerRole, after).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count unread messages", err)
	}
	return count, nil
}

type ReadMarkerRepository struct {
	db *sql.DB
}

func NewReadMarkerRepository(db *sql.DB) *ReadMarkerRepository {
	return &ReadMarkerRepository{db: db}
}

func (r *ReadMarkerRepository) Get(ctx context.Context, applicationID common.UUID, role user.Role) (*message.ReadMarker, error) {
	row := r.db.QueryRowContext(ctx, `SELECT application_id, role, last_read_at FROM read_markers
		WHERE application_id = $1 AND role = $2`, applicationID, role)
	var marker message.ReadMarker
	if err := row.Scan(&marker.ApplicationID, &marker.Role, &marker.LastReadAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "read marker not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load read marker", err)
	}
	return &marker, nil
}

func (r *ReadMarkerRepository) Upsert(ctx context.Context, applicationID common.UUID, role user.Role, readAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO read_markers (application_id, role, last_read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (application_id, role) DO UPDATE SET last_read_at = GREATEST(read_markers.last_read_at, EXCLUDED.last_read_at)`,
		applicationID, role, readAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to save read marker", err)
	}
	return nil
}
