// Package importer implements the CSV import pipeline: column mapping,
// entity resolution, currency normalization and duplicate detection.
package importer

import (
	"errors"

	"github.com/centbook/backend/internal/models"
	"github.com/google/uuid"
)

// Store provides the ledger operations the import pipeline needs. It is
// implemented by models.LedgerStore.
//
// All lookups by name are case-insensitive. Errors returned by Store
// methods are storage faults and abort the remaining rows of a run.
type Store interface {
	BaseCurrency() string

	FindAccountByName(name string) (uuid.UUID, bool, error)
	CreateAccount(name string) (uuid.UUID, error)

	FindCategoryByName(name string) (uuid.UUID, bool, error)
	CreateCategory(name string) (uuid.UUID, error)

	FindSubcategoryByName(name string) (uuid.UUID, bool, error)
	CreateSubcategory(name string) (uuid.UUID, error)
	LinkSubcategoryToCategory(subcategoryID, categoryID uuid.UUID) error

	ExistingTransactions() ([]models.Transaction, error)
	AppendTransaction(transaction *models.Transaction) error

	ImportRules() ([]models.ImportRule, error)
}

// Decision resolves one distinct raw value from a CSV file to a ledger
// entity. With Create set, an entity named Target is created, otherwise
// Target names an existing entity. An empty Target falls back to the raw
// value itself.
type Decision struct {
	Target string `json:"target"`
	Create bool   `json:"create"`
}

// EntityMapping holds the user-approved resolutions for the distinct raw
// account, category and subcategory values of one file. It may be partial
// or empty, unresolved values are auto-created with the raw value as name.
type EntityMapping struct {
	Accounts      map[string]Decision `json:"accounts"`
	Categories    map[string]Decision `json:"categories"`
	Subcategories map[string]Decision `json:"subcategories"`
}

// Result is the auditable summary of one import run.
//
// Invariants: Imported + Skipped equals the number of processed rows and
// Skipped >= DuplicatesSkipped, duplicates are counted as skips too.
type Result struct {
	Imported             int      `json:"importedCount" example:"18"`                                 // Number of committed transactions
	Skipped              int      `json:"skippedCount" example:"2"`                                   // Number of rows that were not committed, including duplicates
	DuplicatesSkipped    int      `json:"duplicatesSkipped" example:"1"`                              // Number of rows skipped because they duplicate a transaction
	CreatedAccounts      int      `json:"createdAccounts" example:"1"`                                // Number of accounts created during the run
	CreatedCategories    int      `json:"createdCategories" example:"3"`                              // Number of categories created during the run
	CreatedSubcategories int      `json:"createdSubcategories" example:"0"`                           // Number of subcategories created during the run
	Errors               []string `json:"errors" example:"row 4: could not parse 'abc' as an amount"` // One message per failed row
}

// DefaultAccountName is the account used for rows that do not carry an
// account value, either because no account column is mapped or because
// the cell is empty.
const DefaultAccountName = "Imported"

var (
	ErrInvalidDate   = errors.New("could not parse the date")
	ErrInvalidType   = errors.New("could not recognize the transaction type")
	ErrInvalidAmount = errors.New("could not parse the amount")

	ErrMappingHeaderMissing = errors.New("the mapped column does not exist in the file")
	ErrMappingFieldUnbound  = errors.New("a required field is not bound to a column")
	ErrMappingDateFormat    = errors.New("the date format is not supported")
	ErrMappingListSeparator = errors.New("the subcategory separator must be one of ';', ',' or '|'")
	ErrMissingHeaderRow     = errors.New("the file does not contain a header row")
	ErrStorageFault         = errors.New("the ledger storage failed")
)
