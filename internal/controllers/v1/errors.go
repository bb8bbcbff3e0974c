package v1

import (
	"errors"
	"net/http"

	"github.com/centbook/backend/internal/importer"
	"github.com/centbook/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) || errors.Is(err, importer.ErrStorageFault) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errLedgerIDParameter = errors.New("the ledgerId parameter must be set")
	errTransferTarget    = errors.New("a transfer requires a target account")
)

// Import errors
var (
	errNoFilePost      = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix = errors.New("this endpoint only supports files of the following types")
	errNoMappingPost   = errors.New("the mapping form field must be set")
)
