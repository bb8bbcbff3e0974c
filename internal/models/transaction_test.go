package models_test

import (
	"strings"
	"time"

	"github.com/centbook/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestTransactionCreate() {
	ledger := suite.createTestLedger(models.Ledger{Currency: "EUR"})
	account := suite.createTestAccount(models.Account{LedgerID: ledger.ID})

	transaction := suite.createTestTransaction(models.Transaction{
		Date:      time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("12.50"),
		Type:      models.TransactionTypeExpense,
		Currency:  "eur",
		Note:      "  Weekly shopping  ",
		AccountID: account.ID,
	})

	suite.Assert().Equal("EUR", transaction.Currency, "currency must be normalized to upper case")
	suite.Assert().Equal("Weekly shopping", transaction.Note, "note must be trimmed")
	suite.Assert().NotEmpty(transaction.Fingerprint, "the fingerprint must be set on save")
}

func (suite *TestSuiteStandard) TestTransactionValidation() {
	ledger := suite.createTestLedger(models.Ledger{})
	account := suite.createTestAccount(models.Account{LedgerID: ledger.ID})

	tests := []struct {
		name        string
		transaction models.Transaction
		err         error
	}{
		{
			"invalid type",
			models.Transaction{Type: "donation", Amount: decimal.NewFromInt(1), AccountID: account.ID},
			models.ErrTransactionTypeInvalid,
		},
		{
			"negative amount",
			models.Transaction{Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(-1), AccountID: account.ID},
			models.ErrTransactionAmountNegative,
		},
	}

	for _, tt := range tests {
		err := models.DB.Create(&tt.transaction).Error
		suite.Assert().ErrorIs(err, tt.err, "test case: %s", tt.name)
	}
}

func (suite *TestSuiteStandard) TestTransactionTransferSameAccount() {
	ledger := suite.createTestLedger(models.Ledger{})
	account := suite.createTestAccount(models.Account{LedgerID: ledger.ID})

	err := models.DB.Create(&models.Transaction{
		Type:            models.TransactionTypeTransfer,
		Amount:          decimal.NewFromInt(1),
		AccountID:       account.ID,
		TargetAccountID: &account.ID,
	}).Error

	suite.Assert().ErrorIs(err, models.ErrAccountDoesNotEqualTarget)
}

// TestTransactionFingerprintStability verifies that the fingerprint of a
// committed transaction equals the one computed from the draft it was
// created from.
func (suite *TestSuiteStandard) TestTransactionFingerprintStability() {
	ledger := suite.createTestLedger(models.Ledger{})
	account := suite.createTestAccount(models.Account{LedgerID: ledger.ID})

	draft := models.Transaction{
		Date:      time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("12.50"),
		Type:      models.TransactionTypeExpense,
		Currency:  "EUR",
		Note:      "Weekly  Shopping",
		AccountID: account.ID,
	}
	draftFingerprint := draft.ComputeFingerprint()

	committed := suite.createTestTransaction(draft)
	suite.Assert().Equal(draftFingerprint, committed.Fingerprint)

	var reloaded models.Transaction
	err := models.DB.First(&reloaded, committed.ID).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(draftFingerprint, reloaded.ComputeFingerprint(), "the fingerprint must be stable across commit and reload")
}

func (suite *TestSuiteStandard) TestTransactionFingerprintFields() {
	accountID := suite.createTestAccount(models.Account{
		LedgerID: suite.createTestLedger(models.Ledger{}).ID,
	}).ID

	base := models.Transaction{
		Date:      time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("12.50"),
		Type:      models.TransactionTypeExpense,
		Currency:  "EUR",
		Note:      "Lunch",
		AccountID: accountID,
	}

	// Same day at a different time, differently cased and spaced note
	same := base
	same.Date = time.Date(2024, 1, 5, 22, 15, 0, 0, time.UTC)
	same.Note = "  LUNCH "
	suite.Assert().Equal(base.ComputeFingerprint(), same.ComputeFingerprint())

	different := base
	different.Date = base.Date.AddDate(0, 0, 1)
	suite.Assert().NotEqual(base.ComputeFingerprint(), different.ComputeFingerprint())

	different = base
	different.Type = models.TransactionTypeIncome
	suite.Assert().NotEqual(base.ComputeFingerprint(), different.ComputeFingerprint())

	different = base
	different.Currency = "USD"
	suite.Assert().NotEqual(base.ComputeFingerprint(), different.ComputeFingerprint())
}

func (suite *TestSuiteStandard) TestNormalizeNote() {
	suite.Assert().Equal("weekly shopping", models.NormalizeNote("  Weekly   Shopping "))
	suite.Assert().Equal("", models.NormalizeNote(strings.Repeat(" ", 5)))
}
