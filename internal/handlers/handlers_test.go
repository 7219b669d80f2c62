package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogo/catalog-service/internal/types"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/internal/import/parse", ParseUpload)
	r.POST("/internal/import/validate", ValidateRows)
	r.GET("/internal/import/runs/:runId", GetImportRun)
	return r
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestParseUploadCSV(t *testing.T) {
	router := testRouter()
	body, contentType := multipartUpload(t, "catalogo.csv",
		[]byte("Codigo,Producto,Precio\nA-1,Uno,10\nB-2,Dos,20\n"))

	req := httptest.NewRequest(http.MethodPost, "/internal/import/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Codigo", "Producto", "Precio"}, resp.Columns)
	assert.Equal(t, 2, resp.TotalRows)
	assert.Len(t, resp.Rows, 2)
	assert.True(t, resp.Stats.AllRequiredMapped)
}

func TestParseUploadMissingFile(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/internal/import/parse", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseUploadUnsupportedExtension(t *testing.T) {
	router := testRouter()
	body, contentType := multipartUpload(t, "catalogo.pdf", []byte("whatever"))

	req := httptest.NewRequest(http.MethodPost, "/internal/import/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseUploadHeaderOnlyCSV(t *testing.T) {
	router := testRouter()
	body, contentType := multipartUpload(t, "catalogo.csv", []byte("Codigo,Producto\n"))

	req := httptest.NewRequest(http.MethodPost, "/internal/import/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestConfigureUploadLimit(t *testing.T) {
	Configure(0, 1)
	defer Configure(0, 20)

	router := testRouter()
	big := bytes.Repeat([]byte("Codigo,Producto\nA-1,Uno\n"), 80_000)
	body, contentType := multipartUpload(t, "catalogo.csv", big)

	req := httptest.NewRequest(http.MethodPost, "/internal/import/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestValidateRows(t *testing.T) {
	router := testRouter()

	payload := ValidateRequest{
		Rows: []types.RawRow{
			{"Codigo": types.StringCell("A"), "Producto": types.StringCell("Uno"), "Precio": types.StringCell("mal")},
		},
		Mappings: []types.ColumnMapping{
			{SystemField: "codigo", SheetColumn: types.StringPtr("Codigo")},
			{SystemField: "producto", SheetColumn: types.StringPtr("Producto")},
			{SystemField: "precio", SheetColumn: types.StringPtr("Precio")},
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/internal/import/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result types.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Valor no numérico: 'mal'", result.Errors[0].Message)
}

func TestValidateRowsCSVReport(t *testing.T) {
	router := testRouter()

	payload := ValidateRequest{
		Rows: []types.RawRow{
			{"Codigo": types.StringCell(""), "Producto": types.StringCell("Uno"), "Precio": types.StringCell("1")},
		},
		Mappings: []types.ColumnMapping{
			{SystemField: "codigo", SheetColumn: types.StringPtr("Codigo")},
			{SystemField: "producto", SheetColumn: types.StringPtr("Producto")},
			{SystemField: "precio", SheetColumn: types.StringPtr("Precio")},
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/internal/import/validate?format=csv", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Fila,Columna,Campo,Error,Valor,Severidad")
	assert.Contains(t, w.Body.String(), "Valor vacío en campo requerido")
}

func TestValidateRowsBadBody(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/internal/import/validate", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImportRunUnknown(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/internal/import/runs/run_missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
