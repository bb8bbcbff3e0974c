package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/centbook/backend/internal/controllers/v1"
	"github.com/centbook/backend/internal/models"
	"github.com/centbook/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func createTestLedger(t *testing.T, l v1.LedgerEditable, expectedStatus ...int) v1.LedgerResponse {
	if l.Name == "" {
		l.Name = uuid.NewString()
	}

	if l.Currency == "" {
		l.Currency = "EUR"
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/ledgers", l)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var ledger v1.LedgerResponse
	test.DecodeResponse(t, &r, &ledger)

	return ledger
}

// TestLedgersDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestLedgersDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestLedger(t, v1.LedgerEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/ledgers", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.LedgerListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestLedgersOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestLedgersOptions() {
	tests := []struct {
		name   string
		id     string // path at the Ledgers endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Ledger with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Ledger exists", createTestLedger(suite.T(), v1.LedgerEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/ledgers", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestLedgersCreate() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{Name: "Personal", Currency: "chf"})

	// The currency is normalized to upper case
	assert.Equal(suite.T(), "CHF", ledger.Data.Currency)
	assert.NotEmpty(suite.T(), ledger.Data.Links.Import)
}

func (suite *TestSuiteStandard) TestLedgersCreateDuplicateName() {
	createTestLedger(suite.T(), v1.LedgerEditable{Name: "Twice"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/ledgers", v1.LedgerEditable{Name: "Twice", Currency: "EUR"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.LedgerResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrLedgerNameNotUnique.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestLedgersGetSingle() {
	l := createTestLedger(suite.T(), v1.LedgerEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Ledger", l.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No Ledger with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/ledgers/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestLedgersUpdate() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{Name: "Before"})

	r := test.Request(suite.T(), http.MethodPatch, ledger.Data.Links.Self, map[string]any{
		"name": "After",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.LedgerResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "After", updated.Data.Name)
}

func (suite *TestSuiteStandard) TestLedgersDelete() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{})

	r := test.Request(suite.T(), http.MethodDelete, ledger.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, ledger.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
