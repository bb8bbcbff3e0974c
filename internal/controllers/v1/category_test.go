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

func createTestCategory(t *testing.T, c v1.CategoryEditable, expectedStatus ...int) v1.CategoryResponse {
	if c.LedgerID == uuid.Nil {
		c.LedgerID = createTestLedger(t, v1.LedgerEditable{}).Data.ID
	}

	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", c)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var category v1.CategoryResponse
	test.DecodeResponse(t, &r, &category)

	return category
}

func createTestSubcategory(t *testing.T, s v1.SubcategoryEditable, expectedStatus ...int) v1.SubcategoryResponse {
	if s.LedgerID == uuid.Nil {
		s.LedgerID = createTestLedger(t, v1.LedgerEditable{}).Data.ID
	}

	if s.Name == "" {
		s.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/subcategories", s)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var subcategory v1.SubcategoryResponse
	test.DecodeResponse(t, &r, &subcategory)

	return subcategory
}

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	assert.Equal(suite.T(), "Groceries", category.Data.Name)
}

func (suite *TestSuiteStandard) TestCategoriesGetSingle() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing Category", c.Data.ID.String(), http.StatusOK},
		{"No Category with this ID", uuid.New().String(), http.StatusNotFound},
		{"Invalid ID (string)", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/categories/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestCategoriesLinkSubcategory verifies subcategory linking, including
// that linking the same pair twice is not an error.
func (suite *TestSuiteStandard) TestCategoriesLinkSubcategory() {
	ledger := createTestLedger(suite.T(), v1.LedgerEditable{})
	category := createTestCategory(suite.T(), v1.CategoryEditable{LedgerID: ledger.Data.ID})
	subcategory := createTestSubcategory(suite.T(), v1.SubcategoryEditable{LedgerID: ledger.Data.ID, Name: "Vegetables"})

	link := map[string]any{"subcategoryId": subcategory.Data.ID}

	r := test.Request(suite.T(), http.MethodPost, category.Data.Links.Subcategories, link)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// Linking again is a no-op
	r = test.Request(suite.T(), http.MethodPost, category.Data.Links.Subcategories, link)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, category.Data.Links.Subcategories, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var linked v1.SubcategoryListResponse
	test.DecodeResponse(suite.T(), &r, &linked)
	require.Len(suite.T(), linked.Data, 1)
	assert.Equal(suite.T(), "Vegetables", linked.Data[0].Name)
}

func (suite *TestSuiteStandard) TestCategoriesLinkUnknownSubcategory() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})

	r := test.Request(suite.T(), http.MethodPost, category.Data.Links.Subcategories, map[string]any{
		"subcategoryId": uuid.New(),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestSubcategoriesGetFilter() {
	first := createTestLedger(suite.T(), v1.LedgerEditable{})
	second := createTestLedger(suite.T(), v1.LedgerEditable{})

	createTestSubcategory(suite.T(), v1.SubcategoryEditable{LedgerID: first.Data.ID})
	createTestSubcategory(suite.T(), v1.SubcategoryEditable{LedgerID: second.Data.ID})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/subcategories?ledger=%s", first.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SubcategoryListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 1)
}
