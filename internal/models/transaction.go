package models

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType determines the sign semantics of a transaction amount.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense || t == TransactionTypeTransfer
}

// Transaction represents a movement of money on an account.
//
// The amount is always the non-negative magnitude, the type carries the
// sign semantics. Transfers additionally reference the target account.
type Transaction struct {
	DefaultModel
	Date            time.Time
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Type            TransactionType
	Currency        string
	Note            string
	Account         Account   `json:"-"`
	AccountID       uuid.UUID `gorm:"check:account_target_different,(target_account_id IS NULL) OR (account_id != target_account_id)"`
	TargetAccount   *Account  `json:"-"`
	TargetAccountID *uuid.UUID
	Category        *Category `json:"-"`
	CategoryID      *uuid.UUID
	Subcategories   []Subcategory `json:"-" gorm:"many2many:transaction_subcategories"`

	// Set for transactions generated from a recurring series, nil for
	// manually created and imported transactions.
	RecurringSeriesID *uuid.UUID

	// Composite fingerprint used for duplicate detection during imports
	Fingerprint string `gorm:"index"`
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	_ = t.DefaultModel.AfterFind(tx)

	t.Date = t.Date.In(time.UTC)
	return nil
}

// BeforeSave validates the transaction, sets the timezone for the Date to
// UTC and computes the fingerprint if it is not set yet.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if !t.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if t.Amount.IsNegative() {
		return ErrTransactionAmountNegative
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	t.Note = strings.TrimSpace(t.Note)
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))

	if t.Fingerprint == "" {
		t.Fingerprint = t.ComputeFingerprint()
	}

	return nil
}

// ComputeFingerprint derives the composite key used for duplicate detection.
//
// Two transactions with the same day, absolute amount, currency, type,
// account and normalized note are considered duplicates of each other.
// The transaction ID and subcategories are deliberately not part of the
// fingerprint: candidates checked during imports do not have an ID yet.
func (t Transaction) ComputeFingerprint() string {
	day := t.Date.In(time.UTC).Format("2006-01-02")

	fields := strings.Join([]string{
		day,
		t.Amount.Abs().String(),
		strings.ToUpper(strings.TrimSpace(t.Currency)),
		string(t.Type),
		t.AccountID.String(),
		NormalizeNote(t.Note),
	}, "\x1f")

	return fmt.Sprintf("%x", sha256.Sum256([]byte(fields)))
}

// NormalizeNote normalizes a description for fingerprinting: lower case,
// surrounding whitespace removed, inner whitespace runs collapsed.
func NormalizeNote(note string) string {
	return strings.ToLower(strings.Join(strings.Fields(note), " "))
}
