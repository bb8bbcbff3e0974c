package v1

import (
	cb_uuid "github.com/centbook/backend/internal/uuid"
)

type URIID struct {
	ID cb_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}
