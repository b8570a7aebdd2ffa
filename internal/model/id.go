package model

import "github.com/google/uuid"

// ID identifies a project or task. Server-assigned IDs are permanent;
// IDs minted on the client before the server has confirmed the entity
// are local and must not be sent to entity endpoints.
type ID struct {
	Value string `json:"value"`
	Local bool   `json:"local,omitempty"`
}

// RemoteID wraps a server-assigned identifier.
func RemoteID(value string) ID {
	return ID{Value: value}
}

// NewLocalID mints an identifier for an entity created offline or as a
// fallback after a failed remote call.
func NewLocalID() ID {
	return ID{Value: uuid.New().String(), Local: true}
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id.Value == ""
}

// String returns the raw identifier value.
func (id ID) String() string {
	return id.Value
}
