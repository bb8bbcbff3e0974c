package models

import (
	"strings"

	"gorm.io/gorm"
)

// Ledger is the top-level container for accounts, categories and transactions.
// All amounts in a ledger are reported in its base currency.
type Ledger struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex"`
	Currency string // Base currency as ISO 4217 code, e.g. "EUR"
	Note     string
}

// BeforeSave trims whitespace and normalizes the base currency code.
func (l *Ledger) BeforeSave(_ *gorm.DB) error {
	l.Name = strings.TrimSpace(l.Name)
	l.Note = strings.TrimSpace(l.Note)
	l.Currency = strings.ToUpper(strings.TrimSpace(l.Currency))

	return nil
}
