package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/centbook/backend/internal/currency"
	"github.com/centbook/backend/internal/httputil"
	"github.com/centbook/backend/internal/models"
	cb_uuid "github.com/centbook/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rateCache converts between currencies for the summary endpoint and
// the CSV import. It is set once during route registration.
var rateCache *currency.Cache

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup, rates *currency.Cache) {
	rateCache = rates

	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}

	// Summary
	{
		r.OPTIONS("/summary", OptionsTransactionSummary)
		r.GET("/summary", GetTransactionSummary)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	Date            time.Time              `json:"date" example:"2024-02-15T00:00:00Z"`
	Amount          decimal.Decimal        `json:"amount" example:"14.50" minimum:"0.00000001" maximum:"999999999999" multipleOf:"0.00000001"`
	Type            models.TransactionType `json:"type" example:"expense"`
	Currency        string                 `json:"currency" example:"EUR"`
	Note            string                 `json:"note" example:"Groceries for the week" default:""`
	AccountID       uuid.UUID              `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	TargetAccountID *uuid.UUID             `json:"targetAccountId" example:"8e16b456-a719-48ce-9dcc-3e08fe2f8471"`
	CategoryID      *uuid.UUID             `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"`
	SubcategoryIDs  []uuid.UUID            `json:"subcategoryIds"`
}

func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Date:            editable.Date,
		Amount:          editable.Amount,
		Type:            editable.Type,
		Currency:        editable.Currency,
		Note:            editable.Note,
		AccountID:       editable.AccountID,
		TargetAccountID: editable.TargetAccountID,
		CategoryID:      editable.CategoryID,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"`
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	subcategoryIDs := make([]uuid.UUID, 0, len(model.Subcategories))
	for _, subcategory := range model.Subcategories {
		subcategoryIDs = append(subcategoryIDs, subcategory.ID)
	}

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Date:            model.Date,
			Amount:          model.Amount,
			Type:            model.Type,
			Currency:        model.Currency,
			Note:            model.Note,
			AccountID:       model.AccountID,
			TargetAccountID: model.TargetAccountID,
			CategoryID:      model.CategoryID,
			SubcategoryIDs:  subcategoryIDs,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type TransactionListResponse struct {
	Data  []Transaction `json:"data"`
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type TransactionQueryFilter struct {
	AccountID cb_uuid.UUID `form:"account"` // By ID of the account
	LedgerID  cb_uuid.UUID `form:"ledger"`  // By ID of the ledger
	Type      string       `form:"type"`    // By transaction type
}

// Summary is the aggregated view over the transactions of a ledger,
// with all amounts converted into a single currency.
type Summary struct {
	Currency string          `json:"currency" example:"EUR"`                                 // Currency the totals are expressed in
	Income   decimal.Decimal `json:"income" example:"3500"`                                  // Sum of all income transactions
	Expense  decimal.Decimal `json:"expense" example:"2134.50"`                              // Sum of all expense transactions
	Balance  decimal.Decimal `json:"balance" example:"1365.50"`                              // Income minus expense
	Pending  int             `json:"pendingConversions" example:"0" default:"0"`             // Transactions counted at face value because no rate was available
}

type SummaryResponse struct {
	Data  *Summary `json:"data"`
	Error *string  `json:"error" example:"the ledgerId parameter must be set"`
}

type SummaryQuery struct {
	LedgerID cb_uuid.UUID `form:"ledgerId"` // ID of the ledger to summarize
	Currency string       `form:"currency"` // Currency to convert to, defaults to the ledger base currency
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions/summary [options]
func OptionsTransactionSummary(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Transaction{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create transaction
// @Description	Creates a new transaction
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func CreateTransaction(c *gin.Context) {
	var editable TransactionEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	if editable.Type == models.TransactionTypeTransfer && editable.TargetAccountID == nil {
		s := errTransferTarget.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &s})
		return
	}

	transaction := editable.model()

	err = models.DB.First(&models.Account{}, transaction.AccountID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	if transaction.TargetAccountID != nil {
		err = models.DB.First(&models.Account{}, *transaction.TargetAccountID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{Error: &s})
			return
		}
	}

	subcategories, err := subcategoriesByID(editable.SubcategoryIDs)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	// The subcategories already exist, only the join records are needed
	err = models.DB.Omit("Subcategories").Create(&transaction).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	if len(subcategories) > 0 {
		err = models.DB.Model(&transaction).Association("Subcategories").Append(&subcategories)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{Error: &s})
			return
		}
	}
	transaction.Subcategories = subcategories

	data := newTransaction(c, transaction)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &data})
}

// @Summary		Get transactions
// @Description	Returns a list of transactions
// @Tags			Transactions
// @Produce		json
// @Success		200		{object}	TransactionListResponse
// @Failure		500		{object}	TransactionListResponse
// @Param			account	query		string	false	"Filter by account ID"
// @Param			ledger	query		string	false	"Filter by ledger ID"
// @Param			type	query		string	false	"Filter by transaction type"
// @Router			/v1/transactions [get]
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	_ = c.Bind(&filter)

	q := models.DB.Preload("Subcategories").Order("date DESC")

	if filter.AccountID != cb_uuid.Nil {
		q = q.Where("transactions.account_id = ?", filter.AccountID.UUID)
	}

	if filter.LedgerID != cb_uuid.Nil {
		q = q.
			Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Where("accounts.ledger_id = ?", filter.LedgerID.UUID)
	}

	if filter.Type != "" {
		q = q.Where("transactions.type = ?", filter.Type)
	}

	var transactions []models.Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &s})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: data})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var transaction models.Transaction
	err = models.DB.Preload("Subcategories").First(&transaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values to be updated need to be specified.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Param			id			path		string				true	"ID formatted as string"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var transaction models.Transaction
	err = models.DB.Preload("Subcategories").First(&transaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	var editable TransactionEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &s})
		return
	}

	if editable.Type == models.TransactionTypeTransfer && editable.TargetAccountID == nil && transaction.TargetAccountID == nil {
		s := errTransferTarget.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &s})
		return
	}

	// Subcategories are a many2many association, not a column
	columnFields := make([]any, 0, len(updateFields))
	for _, field := range updateFields {
		if field != "SubcategoryIDs" {
			columnFields = append(columnFields, field)
		}
	}

	if len(columnFields) > 0 {
		err = models.DB.Model(&transaction).Select("", columnFields...).Updates(editable.model()).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{Error: &s})
			return
		}

		// The fingerprint depends on the stored fields, recompute it from
		// the merged row so duplicate detection keeps working after edits.
		err = models.DB.First(&transaction, uri.ID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{Error: &s})
			return
		}

		transaction.Fingerprint = transaction.ComputeFingerprint()
		err = models.DB.Model(&transaction).Update("fingerprint", transaction.Fingerprint).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{Error: &s})
			return
		}
	}

	if editable.SubcategoryIDs != nil {
		subcategories, err := subcategoriesByID(editable.SubcategoryIDs)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{Error: &s})
			return
		}

		err = models.DB.Model(&transaction).Association("Subcategories").Replace(subcategories)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{Error: &s})
			return
		}
		transaction.Subcategories = subcategories
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&transaction).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Transaction summary
// @Description	Returns income, expense and balance totals for a ledger. Amounts in foreign currencies are converted with cached exchange rates; transactions without an available rate are counted at face value and reported in pendingConversions.
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	SummaryResponse
// @Failure		400			{object}	SummaryResponse
// @Failure		404			{object}	SummaryResponse
// @Failure		500			{object}	SummaryResponse
// @Param			ledgerId	query		string	true	"ID of the ledger"
// @Param			currency	query		string	false	"Currency to convert to, defaults to the ledger base currency"
// @Router			/v1/transactions/summary [get]
func GetTransactionSummary(c *gin.Context) {
	var query SummaryQuery
	err := c.Bind(&query)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{Error: &s})
		return
	}

	if query.LedgerID == cb_uuid.Nil {
		s := errLedgerIDParameter.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{Error: &s})
		return
	}

	var ledger models.Ledger
	err = models.DB.First(&ledger, query.LedgerID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{Error: &s})
		return
	}

	target := ledger.Currency
	if query.Currency != "" {
		target = query.Currency
	}

	var transactions []models.Transaction
	err = models.DB.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.ledger_id = ?", ledger.ID).
		Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{Error: &s})
		return
	}

	summary := Summary{Currency: target}
	for _, transaction := range transactions {
		amount := transaction.Amount
		if rateCache != nil {
			converted, ok := rateCache.Convert(c.Request.Context(), transaction.Amount, transaction.Currency, target)
			if ok {
				amount = converted
			} else {
				summary.Pending++
			}
		} else if transaction.Currency != target {
			summary.Pending++
		}

		switch transaction.Type {
		case models.TransactionTypeIncome:
			summary.Income = summary.Income.Add(amount)
		case models.TransactionTypeExpense:
			summary.Expense = summary.Expense.Add(amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)

	c.JSON(http.StatusOK, SummaryResponse{Data: &summary})
}

func subcategoriesByID(ids []uuid.UUID) ([]models.Subcategory, error) {
	subcategories := make([]models.Subcategory, 0, len(ids))
	for _, id := range ids {
		var subcategory models.Subcategory
		err := models.DB.First(&subcategory, id).Error
		if err != nil {
			return nil, err
		}
		subcategories = append(subcategories, subcategory)
	}

	return subcategories, nil
}
