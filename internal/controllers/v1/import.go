package v1

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/centbook/backend/internal/currency"
	"github.com/centbook/backend/internal/httputil"
	"github.com/centbook/backend/internal/importer"
	"github.com/centbook/backend/internal/models"
	cb_uuid "github.com/centbook/backend/internal/uuid"
	"github.com/gin-gonic/gin"
)

type ImportQuery struct {
	LedgerID cb_uuid.UUID `form:"ledgerId" binding:"required"` // ID of the ledger to import into
}

// RegisterImportRoutes registers the routes for imports.
func RegisterImportRoutes(r *gin.RouterGroup, rates *currency.Cache) {
	rateCache = rates

	// Root group
	{
		r.OPTIONS("", OptionsImport)
		r.GET("", GetImport)
		r.POST("", ImportCSV)

		r.OPTIONS("/preview", OptionsImportPreview)
		r.POST("/preview", ImportCSVPreview)
	}
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// importParameters reads the mapping and entities form fields. The
// mapping is required, the entities field may be left out for a run
// that auto-creates everything.
func importParameters(c *gin.Context) (importer.ColumnMapping, importer.EntityMapping, error) {
	var mapping importer.ColumnMapping
	var entities importer.EntityMapping

	raw := c.PostForm("mapping")
	if raw == "" {
		return mapping, entities, errNoMappingPost
	}

	err := json.Unmarshal([]byte(raw), &mapping)
	if err != nil {
		return mapping, entities, fmt.Errorf("mapping: %w", err)
	}

	if raw := c.PostForm("entities"); raw != "" {
		err = json.Unmarshal([]byte(raw), &entities)
		if err != nil {
			return mapping, entities, fmt.Errorf("entities: %w", err)
		}
	}

	return mapping, entities, nil
}

type ImportResponse struct {
	Links ImportLinks `json:"links"` // Links for the import API
}

type ImportLinks struct {
	CSV     string `json:"csv" example:"https://example.com/api/v1/import"`             // URL of the CSV import endpoint
	Preview string `json:"preview" example:"https://example.com/api/v1/import/preview"` // URL of the import preview endpoint
}

// ImportPreview is the dry-run response for a CSV file: the parsed
// header row, the first rows of data and the distinct entity values that
// an EntityMapping can resolve.
type ImportPreview struct {
	Headers  []string             `json:"headers"`  // Header row of the file
	Rows     [][]string           `json:"rows"`     // First rows of the file
	RowCount int                  `json:"rowCount"` // Total number of data rows
	Entities importer.EntityNames `json:"entities"` // Distinct entity values
}

type ImportPreviewResponse struct {
	Data  *ImportPreview `json:"data"`
	Error *string        `json:"error" example:"you must send a file to this endpoint"`
}

type ImportRunResponse struct {
	Data  *importer.Result `json:"data"`
	Error *string          `json:"error" example:"you must send a file to this endpoint"`
}

// previewRowLimit caps the rows echoed back by the preview endpoint.
const previewRowLimit = 25

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Import
// @Success		204
// @Router			/v1/import/preview [options]
func OptionsImportPreview(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Import API overview
// @Description	Returns general information about the import API
// @Tags			Import
// @Success		200	{object}	ImportResponse
// @Router			/v1/import [get]
func GetImport(c *gin.Context) {
	c.JSON(http.StatusOK, ImportResponse{
		Links: ImportLinks{
			CSV:     c.GetString(string(models.DBContextURL)) + "/v1/import",
			Preview: c.GetString(string(models.DBContextURL)) + "/v1/import/preview",
		},
	})
}

// @Summary		Import preview
// @Description	Parses a CSV file without committing anything and returns the header row, the first rows of data and the distinct account, category and subcategory values. Use the entity values to build the entities form field for the import itself.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		200		{object}	ImportPreviewResponse
// @Failure		400		{object}	ImportPreviewResponse
// @Param			file	formData	file	true	"CSV file to preview"
// @Param			mapping	formData	string	true	"Column mapping as JSON"
// @Router			/v1/import/preview [post]
func ImportCSVPreview(c *gin.Context) {
	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{Error: &s})
		return
	}

	mapping, _, err := importParameters(c)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{Error: &s})
		return
	}

	file, err := importer.ReadCSV(f)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{Error: &s})
		return
	}

	err = mapping.Validate(file.Headers)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewResponse{Error: &s})
		return
	}

	data := ImportPreview{
		Headers:  file.Headers,
		Rows:     file.Preview(previewRowLimit),
		RowCount: file.RowCount(),
		Entities: importer.DistinctEntityNames(file, mapping),
	}

	c.JSON(http.StatusOK, ImportPreviewResponse{Data: &data})
}

// @Summary		Import CSV
// @Description	Imports the transactions of a CSV file into a ledger. The run resolves entities, converts foreign currencies with cached exchange rates and skips duplicates of already existing transactions. The response reports what happened to every row.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201			{object}	ImportRunResponse
// @Failure		400			{object}	ImportRunResponse
// @Failure		404			{object}	ImportRunResponse
// @Failure		500			{object}	ImportRunResponse
// @Param			file		formData	file		true	"CSV file to import"
// @Param			mapping		formData	string		true	"Column mapping as JSON"
// @Param			entities	formData	string		false	"Entity resolutions as JSON"
// @Param			ledgerId	query		ImportQuery	false	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/import [post]
func ImportCSV(c *gin.Context) {
	var query ImportQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := fmt.Errorf("ledgerId: %w", err).Error()
		c.JSON(http.StatusBadRequest, ImportRunResponse{Error: &s})
		return
	}

	if query.LedgerID == cb_uuid.Nil {
		s := errLedgerIDParameter.Error()
		c.JSON(http.StatusBadRequest, ImportRunResponse{Error: &s})
		return
	}

	var ledger models.Ledger
	err = models.DB.First(&ledger, query.LedgerID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRunResponse{Error: &s})
		return
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportRunResponse{Error: &s})
		return
	}

	mapping, entities, err := importParameters(c)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportRunResponse{Error: &s})
		return
	}

	file, err := importer.ReadCSV(f)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ImportRunResponse{Error: &s})
		return
	}

	store := models.NewLedgerStore(models.DB, ledger)
	run := importer.New(store, rateCache, mapping, entities)

	result, err := run.Run(c.Request.Context(), file)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportRunResponse{Data: &result, Error: &s})
		return
	}

	c.JSON(http.StatusCreated, ImportRunResponse{Data: &result})
}
