package common

import (
	guuid "github.com/google/uuid"
)

// UUID is the identifier type shared by all entities. It stays a string so
// it scans and marshals without adapters.
type UUID string

func NewUUID() UUID {
	return UUID(guuid.NewString())
}

func ParseUUID(value string) (UUID, error) {
	parsed, err := guuid.Parse(value)
	if err != nil {
		return "", err
	}
	return UUID(parsed.String()), nil
}

func (u UUID) String() string {
	return string(u)
}
