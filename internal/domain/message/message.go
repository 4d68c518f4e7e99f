package message

import (
	"time"

	"itboard/internal/common"
	"itboard/internal/domain/user"
)

type Message struct {
	ID            common.UUID `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	SenderRole    user.Role   `json:"sender_role"`
	SenderID      common.UUID `json:"sender_id"`
	Body          string      `json:"body"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ReadMarker divides read from unread per (application, reader role). A
// missing marker means nothing has been read yet.
type ReadMarker struct {
	ApplicationID common.UUID `json:"application_id"`
	Role          user.Role   `json:"role"`
	LastReadAt    time.Time   `json:"last_read_at"`
}
