package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/catalogo/catalog-service/internal/export"
	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/types"
	"github.com/catalogo/catalog-service/internal/validation"
)

// ValidateRequest carries the rows and mappings to validate
type ValidateRequest struct {
	Rows     []types.RawRow        `json:"rows" binding:"required"`
	Mappings []types.ColumnMapping `json:"mappings" binding:"required"`
}

// ValidateRows validates mapped rows and returns the findings. With
// ?format=csv the findings are returned as a downloadable CSV report.
// POST /internal/import/validate
func ValidateRows(c *gin.Context) {
	var req ValidateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result := validation.Validate(req.Rows, req.Mappings, fields.All())

	if c.Query("format") == "csv" {
		data, err := export.ValidationReportCSV(result.Errors)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="errores_validacion.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
		return
	}

	c.JSON(http.StatusOK, result)
}
