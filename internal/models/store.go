package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerStore provides the ledger operations the import pipeline needs,
// scoped to a single ledger. It satisfies importer.Store.
type LedgerStore struct {
	db     *gorm.DB
	ledger Ledger
}

// NewLedgerStore returns a store for the given ledger.
func NewLedgerStore(db *gorm.DB, ledger Ledger) *LedgerStore {
	return &LedgerStore{db: db, ledger: ledger}
}

// BaseCurrency returns the base currency of the ledger.
func (s *LedgerStore) BaseCurrency() string {
	return s.ledger.Currency
}

// FindAccountByName looks up an account by name, case-insensitively.
// The bool return is false when no account matches.
func (s *LedgerStore) FindAccountByName(name string) (uuid.UUID, bool, error) {
	var account Account
	err := s.db.
		Where("ledger_id = ?", s.ledger.ID).
		Where("name LIKE ?", name).
		First(&account).Error

	return account.ID, err == nil, ignoreNotFound(err)
}

// CreateAccount creates a new account with the given name.
func (s *LedgerStore) CreateAccount(name string) (uuid.UUID, error) {
	account := Account{LedgerID: s.ledger.ID, Name: name}
	err := s.db.Create(&account).Error

	return account.ID, err
}

// FindCategoryByName looks up a category by name, case-insensitively.
func (s *LedgerStore) FindCategoryByName(name string) (uuid.UUID, bool, error) {
	var category Category
	err := s.db.
		Where("ledger_id = ?", s.ledger.ID).
		Where("name LIKE ?", name).
		First(&category).Error

	return category.ID, err == nil, ignoreNotFound(err)
}

// CreateCategory creates a new category with the given name.
func (s *LedgerStore) CreateCategory(name string) (uuid.UUID, error) {
	category := Category{LedgerID: s.ledger.ID, Name: name}
	err := s.db.Create(&category).Error

	return category.ID, err
}

// FindSubcategoryByName looks up a subcategory by name, case-insensitively.
func (s *LedgerStore) FindSubcategoryByName(name string) (uuid.UUID, bool, error) {
	var subcategory Subcategory
	err := s.db.
		Where("ledger_id = ?", s.ledger.ID).
		Where("name LIKE ?", name).
		First(&subcategory).Error

	return subcategory.ID, err == nil, ignoreNotFound(err)
}

// CreateSubcategory creates a new subcategory with the given name.
func (s *LedgerStore) CreateSubcategory(name string) (uuid.UUID, error) {
	subcategory := Subcategory{LedgerID: s.ledger.ID, Name: name}
	err := s.db.Create(&subcategory).Error

	return subcategory.ID, err
}

// LinkSubcategoryToCategory records the category/subcategory combination
// if it is not recorded yet.
func (s *LedgerStore) LinkSubcategoryToCategory(subcategoryID, categoryID uuid.UUID) error {
	return LinkSubcategory(s.db, categoryID, subcategoryID)
}

// ExistingTransactions returns all committed transactions of the ledger.
func (s *LedgerStore) ExistingTransactions() ([]Transaction, error) {
	var transactions []Transaction
	err := s.db.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.ledger_id = ?", s.ledger.ID).
		Find(&transactions).Error

	return transactions, err
}

// AppendTransaction commits a transaction to the ledger. Subcategories
// are referenced by ID only, the transaction is created without them and
// the already persisted subcategory records are attached afterwards.
func (s *LedgerStore) AppendTransaction(transaction *Transaction) error {
	stubs := transaction.Subcategories
	transaction.Subcategories = nil

	err := s.db.Omit("Subcategories").Create(transaction).Error
	if err != nil {
		return err
	}

	if len(stubs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(stubs))
	for _, subcategory := range stubs {
		ids = append(ids, subcategory.ID)
	}

	var subcategories []Subcategory
	err = s.db.Where("id IN ?", ids).Find(&subcategories).Error
	if err != nil {
		return err
	}

	err = s.db.Model(transaction).Association("Subcategories").Append(&subcategories)
	if err != nil {
		return err
	}

	transaction.Subcategories = subcategories
	return nil
}

// ImportRules returns the import rules of the ledger in priority order.
func (s *LedgerStore) ImportRules() ([]ImportRule, error) {
	var rules []ImportRule
	err := s.db.
		Where("ledger_id = ?", s.ledger.ID).
		Order("priority asc").
		Find(&rules).Error

	return rules, err
}

// ignoreNotFound suppresses the not-found error since lookups by name
// are expected to miss. All other errors are storage faults.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrResourceNotFound) {
		return nil
	}

	return err
}
