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

func createTestAccount(t *testing.T, a v1.AccountEditable, expectedStatus ...int) v1.AccountResponse {
	if a.LedgerID == uuid.Nil {
		a.LedgerID = createTestLedger(t, v1.LedgerEditable{}).Data.ID
	}

	if a.Name == "" {
		a.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/accounts", a)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var account v1.AccountResponse
	test.DecodeResponse(t, &r, &account)

	return account
}

func (suite *TestSuiteStandard) TestAccountsCreate() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{})
	account := createTestAccount(suite.T(), v1.AccountEditable{LedgerID: ledger.Data.ID, Name: "Checking"})

	assert.Equal(suite.T(), "Checking", account.Data.Name)
	assert.Equal(suite.T(), ledger.Data.ID, account.Data.LedgerID)
}

func (suite *TestSuiteStandard) TestAccountsCreateNoLedger() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/accounts", v1.AccountEditable{LedgerID: uuid.New(), Name: "Orphan"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAccountsCreateDuplicateName() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{})
	createTestAccount(suite.T(), v1.AccountEditable{LedgerID: ledger.Data.ID, Name: "Twice"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/accounts", v1.AccountEditable{LedgerID: ledger.Data.ID, Name: "Twice"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrAccountNameNotUnique.Error(), *response.Error)
}

// TestAccountsGetFilter verifies that the ledger filter returns only the
// accounts of that ledger.
func (suite *TestSuiteStandard) TestAccountsGetFilter() {
	first := createTestLedger(suite.T(), v1.LedgerEditable{})
	second := createTestLedger(suite.T(), v1.LedgerEditable{})

	createTestAccount(suite.T(), v1.AccountEditable{LedgerID: first.Data.ID})
	createTestAccount(suite.T(), v1.AccountEditable{LedgerID: first.Data.ID})
	createTestAccount(suite.T(), v1.AccountEditable{LedgerID: second.Data.ID})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts?ledger=%s", first.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 2)
}

func (suite *TestSuiteStandard) TestAccountsOptions() {
	tests := []struct {
		name   string
		id     string // path at the Accounts endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Account with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Account exists", createTestAccount(suite.T(), v1.AccountEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/accounts", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsUpdateArchive() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	r := test.Request(suite.T(), http.MethodPatch, account.Data.Links.Self, map[string]any{
		"archived": true,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.True(suite.T(), updated.Data.Archived)

	// Un-archiving sets a zero value, it must be written nonetheless
	r = test.Request(suite.T(), http.MethodPatch, account.Data.Links.Self, map[string]any{
		"archived": false,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var stored models.Account
	suite.Require().NoError(models.DB.First(&stored, account.Data.ID).Error)
	assert.False(suite.T(), stored.Archived)
	assert.Equal(suite.T(), account.Data.Name, stored.Name, "name must not be changed by an archived-only update")
}

func (suite *TestSuiteStandard) TestAccountsDelete() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	r := test.Request(suite.T(), http.MethodDelete, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
