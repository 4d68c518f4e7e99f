package message

import (
	"context"
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/user"
)

type Repository interface {
	// Create inserts the message and, for engineer senders, sets the
	// application's contact-permission latch in the same transaction.
	Create(ctx context.Context, m Message) (*Message, error)
	ListByApplication(ctx context.Context, applicationID common.UUID, limit, offset int) ([]Message, error)
	CountUnread(ctx context.Context, applicationID common.UUID, readerRole user.Role, after time.Time) (int, error)
}

type ReadMarkerRepository interface {
	Get(ctx context.Context, applicationID common.UUID, role user.Role) (*ReadMarker, error)
	Upsert(ctx context.Context, applicationID common.UUID, role user.Role, readAt time.Time) error
}
