package models_test

import (
	"time"

	"github.com/centbook/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAccountTrimWhitespace() {
	ledger := suite.createTestLedger(models.Ledger{})

	account := suite.createTestAccount(models.Account{
		LedgerID: ledger.ID,
		Name:     " Checking ",
		Note:     " Main account ",
	})

	suite.Assert().Equal("Checking", account.Name)
	suite.Assert().Equal("Main account", account.Note)
}

func (suite *TestSuiteStandard) TestAccountNameUniquePerLedger() {
	ledger := suite.createTestLedger(models.Ledger{})
	suite.createTestAccount(models.Account{LedgerID: ledger.ID, Name: "Checking"})

	err := models.DB.Create(&models.Account{LedgerID: ledger.ID, Name: "Checking"}).Error
	suite.Assert().ErrorIs(err, models.ErrAccountNameNotUnique)

	// The same name is fine in another ledger
	other := suite.createTestLedger(models.Ledger{})
	suite.createTestAccount(models.Account{LedgerID: other.ID, Name: "Checking"})
}

func (suite *TestSuiteStandard) TestAccountNeedsLedger() {
	err := models.DB.Create(&models.Account{Name: "Orphan"}).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAccountTransactions() {
	ledger := suite.createTestLedger(models.Ledger{})
	account := suite.createTestAccount(models.Account{LedgerID: ledger.ID})
	target := suite.createTestAccount(models.Account{LedgerID: ledger.ID})

	suite.createTestTransaction(models.Transaction{
		Date:      time.Now(),
		Amount:    decimal.NewFromInt(10),
		Type:      models.TransactionTypeExpense,
		Currency:  "EUR",
		AccountID: account.ID,
	})

	suite.createTestTransaction(models.Transaction{
		Date:            time.Now(),
		Amount:          decimal.NewFromInt(5),
		Type:            models.TransactionTypeTransfer,
		Currency:        "EUR",
		AccountID:       target.ID,
		TargetAccountID: &account.ID,
	})

	suite.Assert().Len(account.Transactions(models.DB), 2, "transfers into the account count as well")
	suite.Assert().Len(target.Transactions(models.DB), 1)
}

func (suite *TestSuiteStandard) TestCategoryNameUniquePerLedger() {
	ledger := suite.createTestLedger(models.Ledger{})
	suite.createTestCategory(models.Category{LedgerID: ledger.ID, Name: "Food"})

	err := models.DB.Create(&models.Category{LedgerID: ledger.ID, Name: "Food"}).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNameNotUnique)
}

func (suite *TestSuiteStandard) TestLedgerNameUnique() {
	suite.createTestLedger(models.Ledger{Name: "Personal"})

	err := models.DB.Create(&models.Ledger{Name: "Personal", Currency: "EUR"}).Error
	suite.Assert().ErrorIs(err, models.ErrLedgerNameNotUnique)
}

func (suite *TestSuiteStandard) TestLedgerCurrencyNormalized() {
	ledger := suite.createTestLedger(models.Ledger{Currency: " eur "})
	suite.Assert().Equal("EUR", ledger.Currency)
}
