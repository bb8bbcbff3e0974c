package v1

import (
	"fmt"
	"net/http"

	"github.com/centbook/backend/internal/httputil"
	"github.com/centbook/backend/internal/models"
	cb_uuid "github.com/centbook/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterSubcategoryRoutes registers the routes for subcategories with
// the RouterGroup that is passed.
func RegisterSubcategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsSubcategoryList)
		r.GET("", GetSubcategories)
		r.POST("", CreateSubcategory)
	}

	// Subcategory with ID
	{
		r.OPTIONS("/:id", OptionsSubcategoryDetail)
		r.GET("/:id", GetSubcategory)
		r.PATCH("/:id", UpdateSubcategory)
		r.DELETE("/:id", DeleteSubcategory)
	}
}

// SubcategoryEditable represents all user configurable parameters
type SubcategoryEditable struct {
	LedgerID uuid.UUID `json:"ledgerId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the ledger the subcategory belongs to
	Name     string    `json:"name" example:"Vegetables" default:""`                    // Name of the subcategory
}

func (editable SubcategoryEditable) model() models.Subcategory {
	return models.Subcategory{
		LedgerID: editable.LedgerID,
		Name:     editable.Name,
	}
}

type SubcategoryLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/subcategories/d1b7fe57-42a4-4714-9d9d-07faebc55e29"`
}

type Subcategory struct {
	models.DefaultModel
	SubcategoryEditable
	Links SubcategoryLinks `json:"links"`
}

func newSubcategory(c *gin.Context, model models.Subcategory) Subcategory {
	url := c.GetString(string(models.DBContextURL))

	return Subcategory{
		DefaultModel: model.DefaultModel,
		SubcategoryEditable: SubcategoryEditable{
			LedgerID: model.LedgerID,
			Name:     model.Name,
		},
		Links: SubcategoryLinks{
			Self: fmt.Sprintf("%s/v1/subcategories/%s", url, model.ID),
		},
	}
}

type SubcategoryResponse struct {
	Data  *Subcategory `json:"data"`
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type SubcategoryListResponse struct {
	Data  []Subcategory `json:"data"`
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"`
}

type SubcategoryQueryFilter struct {
	LedgerID cb_uuid.UUID `form:"ledger"` // By ID of the ledger
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Subcategories
// @Success		204
// @Router			/v1/subcategories [options]
func OptionsSubcategoryList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Subcategories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/subcategories/{id} [options]
func OptionsSubcategoryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.Subcategory{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create subcategory
// @Description	Creates a new subcategory
// @Tags			Subcategories
// @Accept			json
// @Produce		json
// @Success		201			{object}	SubcategoryResponse
// @Failure		400			{object}	SubcategoryResponse
// @Failure		404			{object}	SubcategoryResponse
// @Failure		500			{object}	SubcategoryResponse
// @Param			subcategory	body		SubcategoryEditable	true	"Subcategory"
// @Router			/v1/subcategories [post]
func CreateSubcategory(c *gin.Context) {
	var editable SubcategoryEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	subcategory := editable.model()

	err = models.DB.Create(&subcategory).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	data := newSubcategory(c, subcategory)
	c.JSON(http.StatusCreated, SubcategoryResponse{Data: &data})
}

// @Summary		Get subcategories
// @Description	Returns a list of subcategories
// @Tags			Subcategories
// @Produce		json
// @Success		200		{object}	SubcategoryListResponse
// @Failure		500		{object}	SubcategoryListResponse
// @Param			ledger	query		string	false	"Filter by ledger ID"
// @Router			/v1/subcategories [get]
func GetSubcategories(c *gin.Context) {
	var filter SubcategoryQueryFilter
	_ = c.Bind(&filter)

	q := models.DB.Order("name ASC")
	if filter.LedgerID != cb_uuid.Nil {
		q = q.Where("ledger_id = ?", filter.LedgerID.UUID)
	}

	var subcategories []models.Subcategory
	err := q.Find(&subcategories).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryListResponse{Error: &s})
		return
	}

	data := make([]Subcategory, 0, len(subcategories))
	for _, subcategory := range subcategories {
		data = append(data, newSubcategory(c, subcategory))
	}

	c.JSON(http.StatusOK, SubcategoryListResponse{Data: data})
}

// @Summary		Get subcategory
// @Description	Returns a specific subcategory
// @Tags			Subcategories
// @Produce		json
// @Success		200	{object}	SubcategoryResponse
// @Failure		400	{object}	SubcategoryResponse
// @Failure		404	{object}	SubcategoryResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/subcategories/{id} [get]
func GetSubcategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	var subcategory models.Subcategory
	err = models.DB.First(&subcategory, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	data := newSubcategory(c, subcategory)
	c.JSON(http.StatusOK, SubcategoryResponse{Data: &data})
}

// @Summary		Update subcategory
// @Description	Updates an existing subcategory. Only values to be updated need to be specified.
// @Tags			Subcategories
// @Accept			json
// @Produce		json
// @Success		200			{object}	SubcategoryResponse
// @Failure		400			{object}	SubcategoryResponse
// @Failure		404			{object}	SubcategoryResponse
// @Param			id			path		string				true	"ID formatted as string"
// @Param			subcategory	body		SubcategoryEditable	true	"Subcategory"
// @Router			/v1/subcategories/{id} [patch]
func UpdateSubcategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	var subcategory models.Subcategory
	err = models.DB.First(&subcategory, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, SubcategoryEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	var editable SubcategoryEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	err = models.DB.Model(&subcategory).Select("", updateFields...).Updates(editable.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SubcategoryResponse{Error: &s})
		return
	}

	data := newSubcategory(c, subcategory)
	c.JSON(http.StatusOK, SubcategoryResponse{Data: &data})
}

// @Summary		Delete subcategory
// @Description	Deletes a subcategory
// @Tags			Subcategories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/subcategories/{id} [delete]
func DeleteSubcategory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var subcategory models.Subcategory
	err = models.DB.First(&subcategory, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&subcategory).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
