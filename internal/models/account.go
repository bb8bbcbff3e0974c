package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents an asset account, e.g. a bank account.
type Account struct {
	DefaultModel
	Ledger   Ledger    `json:"-"`
	LedgerID uuid.UUID `gorm:"uniqueIndex:account_name_ledger_id"`
	Name     string    `gorm:"uniqueIndex:account_name_ledger_id"`
	Note     string
	Archived bool
}

// BeforeSave trims whitespace from all strings.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	return nil
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	return a.checkIntegrity(tx)
}

// checkIntegrity verifies references to other resources
func (a *Account) checkIntegrity(tx *gorm.DB) error {
	return tx.First(&Ledger{}, a.LedgerID).Error
}

// Transactions returns all transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	// Get all transactions where the account is either the source or the target
	db.Where(Transaction{AccountID: a.ID}).Or("target_account_id = ?", a.ID).Find(&transactions)
	return transactions
}
