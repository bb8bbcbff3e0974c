package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/centbook/backend/internal/controllers/v1"
	"github.com/centbook/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simpleMapping is the column mapping for testdata/importer/simple.csv.
const simpleMapping = `{"date":"Date","type":"Type","amount":"Amount","category":"Category","dateFormat":"YYYY-MM-DD"}`

func (suite *TestSuiteStandard) TestImportPreview() {
	body, headers := test.LoadTestFile(suite.T(), "importer/simple.csv", map[string]string{
		"mapping": simpleMapping,
	})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/preview", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ImportPreviewResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data)

	assert.Equal(suite.T(), []string{"Date", "Type", "Amount", "Category"}, response.Data.Headers)
	assert.Equal(suite.T(), 3, response.Data.RowCount)
	assert.Equal(suite.T(), []string{"Food", "Salary"}, response.Data.Entities.Categories)
	assert.Empty(suite.T(), response.Data.Entities.Accounts)
}

func (suite *TestSuiteStandard) TestImportPreviewErrors() {
	tests := []struct {
		name    string
		file    string
		mapping string
	}{
		{"No mapping", "importer/simple.csv", ""},
		{"Unknown column", "importer/simple.csv", `{"date":"Date","type":"Type","amount":"Nope","dateFormat":"YYYY-MM-DD"}`},
		{"Unbound required field", "importer/simple.csv", `{"date":"Date","type":"Type","dateFormat":"YYYY-MM-DD"}`},
		{"Empty file", "importer/empty.csv", simpleMapping},
		{"Broken file", "importer/broken.csv", simpleMapping},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			fields := map[string]string{}
			if tt.mapping != "" {
				fields["mapping"] = tt.mapping
			}

			body, headers := test.LoadTestFile(t, tt.file, fields)

			r := test.Request(t, http.MethodPost, "http://example.com/v1/import/preview", body, headers)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

// TestImportCSV verifies a full import run: the duplicate row of the file
// is skipped and the categories are created.
func (suite *TestSuiteStandard) TestImportCSV() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{Currency: "EUR"})

	body, headers := test.LoadTestFile(suite.T(), "importer/simple.csv", map[string]string{
		"mapping": simpleMapping,
	})

	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/import?ledgerId=%s", ledger.Data.ID), body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.ImportRunResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.NotNil(suite.T(), response.Data)

	assert.Equal(suite.T(), 2, response.Data.Imported)
	assert.Equal(suite.T(), 1, response.Data.Skipped)
	assert.Equal(suite.T(), 1, response.Data.DuplicatesSkipped)
	assert.Equal(suite.T(), 2, response.Data.CreatedCategories)
	// All rows without an account column end up on the default account
	assert.Equal(suite.T(), 1, response.Data.CreatedAccounts)
	assert.Empty(suite.T(), response.Data.Errors)

	// The imported transactions are visible through the API
	list := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?ledger=%s", ledger.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &list, http.StatusOK)

	var transactions v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &list, &transactions)
	assert.Len(suite.T(), transactions.Data, 2)
}

// TestImportCSVIdempotent verifies that importing the same file again
// skips every row as a duplicate.
func (suite *TestSuiteStandard) TestImportCSVIdempotent() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{Currency: "EUR"})

	for i, expected := range []struct{ imported, duplicates int }{
		{2, 1},
		{0, 3},
	} {
		body, headers := test.LoadTestFile(suite.T(), "importer/simple.csv", map[string]string{
			"mapping": simpleMapping,
		})

		r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/import?ledgerId=%s", ledger.Data.ID), body, headers)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

		var response v1.ImportRunResponse
		test.DecodeResponse(suite.T(), &r, &response)
		require.NotNil(suite.T(), response.Data, "run %d", i)

		assert.Equal(suite.T(), expected.imported, response.Data.Imported, "run %d", i)
		assert.Equal(suite.T(), expected.duplicates, response.Data.DuplicatesSkipped, "run %d", i)
	}
}

func (suite *TestSuiteStandard) TestImportCSVErrors() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"Missing ledgerId", "", http.StatusBadRequest},
		{"Unknown ledger", fmt.Sprintf("ledgerId=%s", uuid.New()), http.StatusNotFound},
		{"Invalid ledgerId", "ledgerId=notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			body, headers := test.LoadTestFile(t, "importer/simple.csv", map[string]string{
				"mapping": simpleMapping,
			})

			r := test.Request(t, http.MethodPost, fmt.Sprintf("http://example.com/v1/import?%s", tt.query), body, headers)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	suite.T().Run("Missing mapping", func(t *testing.T) {
		body, headers := test.LoadTestFile(t, "importer/simple.csv", nil)

		r := test.Request(t, http.MethodPost, fmt.Sprintf("http://example.com/v1/import?ledgerId=%s", ledger.Data.ID), body, headers)
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})
}
