package models_test

import (
	"context"
	"strings"
	"time"

	"github.com/centbook/backend/internal/currency"
	"github.com/centbook/backend/internal/importer"
	"github.com/centbook/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestLedgerStoreFindByName() {
	ledger := suite.createTestLedger(models.Ledger{Currency: "CHF"})
	other := suite.createTestLedger(models.Ledger{})

	account := suite.createTestAccount(models.Account{LedgerID: ledger.ID, Name: "Checking"})
	suite.createTestAccount(models.Account{LedgerID: other.ID, Name: "Savings"})

	store := models.NewLedgerStore(models.DB, ledger)

	suite.Assert().Equal("CHF", store.BaseCurrency())

	id, found, err := store.FindAccountByName("checking")
	suite.Require().NoError(err)
	suite.Require().True(found, "lookup must be case-insensitive")
	suite.Assert().Equal(account.ID, id)

	// Accounts of other ledgers are invisible
	_, found, err = store.FindAccountByName("Savings")
	suite.Require().NoError(err)
	suite.Assert().False(found)

	_, found, err = store.FindCategoryByName("does-not-exist")
	suite.Require().NoError(err)
	suite.Assert().False(found, "a miss is not an error")
}

func (suite *TestSuiteStandard) TestLedgerStoreCreate() {
	ledger := suite.createTestLedger(models.Ledger{})
	store := models.NewLedgerStore(models.DB, ledger)

	accountID, err := store.CreateAccount("Checking")
	suite.Require().NoError(err)

	categoryID, err := store.CreateCategory("Food")
	suite.Require().NoError(err)

	subcategoryID, err := store.CreateSubcategory("Vegetables")
	suite.Require().NoError(err)

	id, found, err := store.FindAccountByName("Checking")
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Assert().Equal(accountID, id)

	// Linking twice must not error
	suite.Require().NoError(store.LinkSubcategoryToCategory(subcategoryID, categoryID))
	suite.Require().NoError(store.LinkSubcategoryToCategory(subcategoryID, categoryID))

	var category models.Category
	suite.Require().NoError(models.DB.First(&category, categoryID).Error)

	subcategories, err := category.Subcategories(models.DB)
	suite.Require().NoError(err)
	suite.Require().Len(subcategories, 1)
	suite.Assert().Equal("Vegetables", subcategories[0].Name)
}

func (suite *TestSuiteStandard) TestLedgerStoreTransactions() {
	ledger := suite.createTestLedger(models.Ledger{})
	other := suite.createTestLedger(models.Ledger{})

	account := suite.createTestAccount(models.Account{LedgerID: ledger.ID})
	otherAccount := suite.createTestAccount(models.Account{LedgerID: other.ID})

	store := models.NewLedgerStore(models.DB, ledger)

	err := store.AppendTransaction(&models.Transaction{
		Date:      time.Now(),
		Amount:    decimal.NewFromInt(10),
		Type:      models.TransactionTypeExpense,
		Currency:  "EUR",
		AccountID: account.ID,
	})
	suite.Require().NoError(err)

	suite.createTestTransaction(models.Transaction{
		Date:      time.Now(),
		Amount:    decimal.NewFromInt(20),
		Type:      models.TransactionTypeExpense,
		Currency:  "EUR",
		AccountID: otherAccount.ID,
	})

	transactions, err := store.ExistingTransactions()
	suite.Require().NoError(err)
	suite.Assert().Len(transactions, 1, "transactions of other ledgers are invisible")
}

func (suite *TestSuiteStandard) TestLedgerStoreImportRules() {
	ledger := suite.createTestLedger(models.Ledger{})

	for _, rule := range []models.ImportRule{
		{LedgerID: ledger.ID, Kind: models.EntityKindCategory, Priority: 2, Match: "AMZN*", Target: "Shopping"},
		{LedgerID: ledger.ID, Kind: models.EntityKindCategory, Priority: 1, Match: "PAYPAL*", Target: "Online"},
	} {
		suite.Require().NoError(models.DB.Create(&rule).Error)
	}

	store := models.NewLedgerStore(models.DB, ledger)

	rules, err := store.ImportRules()
	suite.Require().NoError(err)
	suite.Require().Len(rules, 2)
	suite.Assert().Equal("Online", rules[0].Target, "rules must be ordered by priority")
}

// TestLedgerStoreImportSubcategories runs a full import against the
// gorm-backed store with a mapped subcategories column. The subcategory
// join records must reference the subcategories created during the run.
func (suite *TestSuiteStandard) TestLedgerStoreImportSubcategories() {
	ledger := suite.createTestLedger(models.Ledger{Currency: "EUR"})
	store := models.NewLedgerStore(models.DB, ledger)

	file, err := importer.ReadCSV(strings.NewReader(
		"Date,Type,Amount,Category,Tags\n" +
			"2024-01-05,expense,12.50,Food,vegetables;drinks\n" +
			"2024-01-07,income,1000,Salary,\n"))
	suite.Require().NoError(err)

	mapping := importer.ColumnMapping{
		Date:          "Date",
		Type:          "Type",
		Amount:        "Amount",
		Category:      "Category",
		Subcategories: "Tags",
		DateFormat:    "YYYY-MM-DD",
	}

	run := importer.New(store, currency.New("EUR", nil, 0), mapping, importer.EntityMapping{})
	result, err := run.Run(context.Background(), file)
	suite.Require().NoError(err)

	suite.Assert().Equal(2, result.Imported)
	suite.Assert().Empty(result.Errors)
	suite.Assert().Equal(2, result.CreatedSubcategories)

	transactions, err := store.ExistingTransactions()
	suite.Require().NoError(err)
	suite.Require().Len(transactions, 2)

	var stored models.Transaction
	suite.Require().NoError(models.DB.Preload("Subcategories").
		Where("type = ?", models.TransactionTypeExpense).
		First(&stored).Error)
	suite.Require().Len(stored.Subcategories, 2)

	names := []string{stored.Subcategories[0].Name, stored.Subcategories[1].Name}
	suite.Assert().ElementsMatch([]string{"vegetables", "drinks"}, names)

	for _, subcategory := range stored.Subcategories {
		suite.Assert().Equal(ledger.ID, subcategory.LedgerID, "join records must reference the persisted subcategories")
	}
}

func (suite *TestSuiteStandard) TestLedgerStoreStorageFault() {
	ledger := suite.createTestLedger(models.Ledger{})
	store := models.NewLedgerStore(models.DB, ledger)

	suite.CloseDB()

	_, _, err := store.FindAccountByName("Checking")
	suite.Assert().Error(err, "a closed database is a storage fault, not a miss")
}
