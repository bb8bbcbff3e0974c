package v1

import (
	"fmt"
	"net/http"

	"github.com/centbook/backend/internal/httputil"
	"github.com/centbook/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterLedgerRoutes registers the routes for ledgers with
// the RouterGroup that is passed.
func RegisterLedgerRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLedgerList)
		r.GET("", GetLedgers)
		r.POST("", CreateLedger)
	}

	// Ledger with ID
	{
		r.OPTIONS("/:id", OptionsLedgerDetail)
		r.GET("/:id", GetLedger)
		r.PATCH("/:id", UpdateLedger)
		r.DELETE("/:id", DeleteLedger)
	}
}

// LedgerEditable represents all user configurable parameters
type LedgerEditable struct {
	Name     string `json:"name" example:"Personal" default:""`           // Name of the ledger
	Currency string `json:"currency" example:"EUR" default:""`            // Base currency of the ledger
	Note     string `json:"note" example:"My personal finances" default:""` // Notes about the ledger
}

func (editable LedgerEditable) model() models.Ledger {
	return models.Ledger{
		Name:     editable.Name,
		Currency: editable.Currency,
		Note:     editable.Note,
	}
}

type LedgerLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/ledgers/3b1ea324-d438-4419-882a-2fc91d71772f"`                // The ledger itself
	Accounts     string `json:"accounts" example:"https://example.com/api/v1/accounts?ledger=3b1ea324-d438-4419-882a-2fc91d71772f"`     // Accounts for this ledger
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?ledger=3b1ea324-d438-4419-882a-2fc91d71772f"` // Transactions for this ledger
	Import       string `json:"import" example:"https://example.com/api/v1/import?ledgerId=3b1ea324-d438-4419-882a-2fc91d71772f"`       // CSV import for this ledger
}

type Ledger struct {
	models.DefaultModel
	LedgerEditable
	Links LedgerLinks `json:"links"`
}

func newLedger(c *gin.Context, model models.Ledger) Ledger {
	url := c.GetString(string(models.DBContextURL))

	return Ledger{
		DefaultModel: model.DefaultModel,
		LedgerEditable: LedgerEditable{
			Name:     model.Name,
			Currency: model.Currency,
			Note:     model.Note,
		},
		Links: LedgerLinks{
			Self:         fmt.Sprintf("%s/v1/ledgers/%s", url, model.ID),
			Accounts:     fmt.Sprintf("%s/v1/accounts?ledger=%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?ledger=%s", url, model.ID),
			Import:       fmt.Sprintf("%s/v1/import?ledgerId=%s", url, model.ID),
		},
	}
}

type LedgerResponse struct {
	Data  *Ledger `json:"data"`                                                          // Data for the ledger
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type LedgerListResponse struct {
	Data  []Ledger `json:"data"`                                                          // List of ledgers
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Ledgers
// @Success		204
// @Router			/v1/ledgers [options]
func OptionsLedgerList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Ledgers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/ledgers/{id} [options]
func OptionsLedgerDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Ledger{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create ledger
// @Description	Creates a new ledger
// @Tags			Ledgers
// @Accept			json
// @Produce		json
// @Success		201		{object}	LedgerResponse
// @Failure		400		{object}	LedgerResponse
// @Failure		500		{object}	LedgerResponse
// @Param			ledger	body		LedgerEditable	true	"Ledger"
// @Router			/v1/ledgers [post]
func CreateLedger(c *gin.Context) {
	var editable LedgerEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	ledger := editable.model()

	err = models.DB.Create(&ledger).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	data := newLedger(c, ledger)
	c.JSON(http.StatusCreated, LedgerResponse{Data: &data})
}

// @Summary		Get ledgers
// @Description	Returns a list of ledgers
// @Tags			Ledgers
// @Produce		json
// @Success		200	{object}	LedgerListResponse
// @Failure		500	{object}	LedgerListResponse
// @Router			/v1/ledgers [get]
func GetLedgers(c *gin.Context) {
	var ledgers []models.Ledger

	err := models.DB.Order("name ASC").Find(&ledgers).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerListResponse{Error: &s})
		return
	}

	data := make([]Ledger, 0, len(ledgers))
	for _, ledger := range ledgers {
		data = append(data, newLedger(c, ledger))
	}

	c.JSON(http.StatusOK, LedgerListResponse{Data: data})
}

// @Summary		Get ledger
// @Description	Returns a specific ledger
// @Tags			Ledgers
// @Produce		json
// @Success		200	{object}	LedgerResponse
// @Failure		400	{object}	LedgerResponse
// @Failure		404	{object}	LedgerResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/ledgers/{id} [get]
func GetLedger(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	var ledger models.Ledger
	err = models.DB.First(&ledger, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	data := newLedger(c, ledger)
	c.JSON(http.StatusOK, LedgerResponse{Data: &data})
}

// @Summary		Update ledger
// @Description	Updates an existing ledger. Only values to be updated need to be specified.
// @Tags			Ledgers
// @Accept			json
// @Produce		json
// @Success		200		{object}	LedgerResponse
// @Failure		400		{object}	LedgerResponse
// @Failure		404		{object}	LedgerResponse
// @Param			id		path		string			true	"ID formatted as string"
// @Param			ledger	body		LedgerEditable	true	"Ledger"
// @Router			/v1/ledgers/{id} [patch]
func UpdateLedger(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	var ledger models.Ledger
	err = models.DB.First(&ledger, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, LedgerEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	var editable LedgerEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	err = models.DB.Model(&ledger).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LedgerResponse{Error: &s})
		return
	}

	data := newLedger(c, ledger)
	c.JSON(http.StatusOK, LedgerResponse{Data: &data})
}

// @Summary		Delete ledger
// @Description	Deletes a ledger
// @Tags			Ledgers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/ledgers/{id} [delete]
func DeleteLedger(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var ledger models.Ledger
	err = models.DB.First(&ledger, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&ledger).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
