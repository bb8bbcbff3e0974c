// Package uuid wraps google/uuid with query string binding for gin.
package uuid

import (
	"github.com/centbook/backend/internal/httputil"
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

func NewString() string {
	return google_uuid.NewString()
}

// UnmarshalParam binds a path or query string parameter to a UUID.
//
// An empty parameter binds to Nil so that optional query filters
// can be skipped. Parse failures return a user-facing error.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return httputil.ErrInvalidUUID
	}

	*u = UUID{parsed}
	return nil
}
