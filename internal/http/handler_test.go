package http

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/auth"
	"github.com/hieuld/liftcare/internal/db"
	"github.com/hieuld/liftcare/internal/docx"
	"github.com/hieuld/liftcare/internal/excel"
	"github.com/hieuld/liftcare/internal/http/middleware"
	"github.com/hieuld/liftcare/internal/pdf"
	"github.com/hieuld/liftcare/internal/repository"
	"github.com/hieuld/liftcare/internal/service"
)

type stubPDFGen struct{}

func (stubPDFGen) Generate(pdf.VisitLog) ([]byte, error) { return []byte("%PDF-stub"), nil }

type stubExcelGen struct{}

func (stubExcelGen) Generate([]excel.ContractSummary) ([]byte, error) {
	return []byte("xlsx-stub"), nil
}

func testTemplate(t *testing.T) *docx.Template {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	w, err := writer.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>{{no}} {{customerName}}</w:t></w:r></w:p><w:sectPr/></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	template, err := docx.NewTemplate(buf.Bytes())
	require.NoError(t, err)
	return template
}

func setupRouter(t *testing.T, authMW gin.HandlerFunc) *gin.Engine {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	customerRepo := repository.NewCustomerRepository(database)
	contractRepo := repository.NewContractRepository(database)
	historyRepo := repository.NewHistoryRepository(database)

	log := zerolog.Nop()
	handler := NewHandler(
		service.NewCustomerService(database, customerRepo, contractRepo, historyRepo),
		service.NewContractService(database, customerRepo, contractRepo),
		service.NewHistoryService(database, customerRepo, historyRepo),
		service.NewTrashService(database, customerRepo, contractRepo),
		service.NewReportService(database, customerRepo, contractRepo, historyRepo, testTemplate(t), t.TempDir(), log),
		service.NewExportService(customerRepo, contractRepo, historyRepo, stubPDFGen{}, stubExcelGen{}),
		log,
	)
	return NewRouter(handler, authMW, "test")
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createCustomerViaAPI(t *testing.T, router *gin.Engine) uuid.UUID {
	t.Helper()
	rec := doJSON(t, router, "POST", "/api/customers", map[string]interface{}{
		"customerName": "Anh Minh",
		"companyName":  "Cty TNHH Minh Phát",
		"address":      "12 Lê Lợi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created.ID
}

func TestHealthz(t *testing.T) {
	router := setupRouter(t, nil)
	rec := doJSON(t, router, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateCustomer_ValidationAndRoundTrip(t *testing.T) {
	router := setupRouter(t, nil)

	rec := doJSON(t, router, "POST", "/api/customers", map[string]interface{}{
		"companyName": "no name, no address",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := createCustomerViaAPI(t, router)

	rec = doJSON(t, router, "GET", "/api/customers/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		CustomerName string `json:"customerName"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Anh Minh", detail.CustomerName)
}

func TestCreateCustomer_BadDateRejected(t *testing.T) {
	router := setupRouter(t, nil)
	rec := doJSON(t, router, "POST", "/api/customers", map[string]interface{}{
		"customerName":          "Anh Minh",
		"address":               "12 Lê Lợi",
		"acceptanceSigningDate": "10/03/2025",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCustomer_NullClearsDate(t *testing.T) {
	router := setupRouter(t, nil)

	rec := doJSON(t, router, "POST", "/api/customers", map[string]interface{}{
		"customerName":        "Anh Minh",
		"address":             "12 Lê Lợi",
		"contractSigningDate": "2025-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest("PUT", "/api/customers/"+created.ID.String(),
		bytes.NewReader([]byte(`{"contractSigningDate":null}`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Nil(t, updated["contractSigningDate"])
}

func TestGetCustomer_NotFoundAndBadID(t *testing.T) {
	router := setupRouter(t, nil)

	rec := doJSON(t, router, "GET", "/api/customers/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, "GET", "/api/customers/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateContract_DuplicateNumberConflict(t *testing.T) {
	router := setupRouter(t, nil)
	customerID := createCustomerViaAPI(t, router)

	payload := map[string]interface{}{
		"customerId":     customerID.String(),
		"contractNumber": "HD-2025-001",
		"startDate":      "2025-01-01",
		"endDate":        "2025-12-31",
	}
	rec := doJSON(t, router, "POST", "/api/contracts", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "POST", "/api/contracts", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTrashFlow_DeleteListRestore(t *testing.T) {
	router := setupRouter(t, nil)
	customerID := createCustomerViaAPI(t, router)

	rec := doJSON(t, router, "DELETE", "/api/customers/"+customerID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/trash/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trashed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trashed))
	require.Len(t, trashed, 1)

	rec = doJSON(t, router, "POST", "/api/trash/customers/"+customerID.String()+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/customers/"+customerID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateReports_InvalidTaskType(t *testing.T) {
	router := setupRouter(t, nil)
	customerID := createCustomerViaAPI(t, router)

	rec := doJSON(t, router, "POST", "/api/reports/generate", map[string]interface{}{
		"requests": []map[string]interface{}{
			{
				"customerId": customerID.String(),
				"taskType":   "vandalism",
				"visitDate":  "2025-07-05",
			},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoints_AttachmentHeaders(t *testing.T) {
	router := setupRouter(t, nil)
	customerID := createCustomerViaAPI(t, router)

	rec := doJSON(t, router, "GET", "/api/customers/"+customerID.String()+"/history/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = doJSON(t, router, "GET", "/api/contracts/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestAuth_BearerTokenRequired(t *testing.T) {
	secret := "test-secret"
	parser := auth.NewParser(secret)
	router := setupRouter(t, middleware.Auth(parser))

	rec := doJSON(t, router, "GET", "/api/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health stays open even with auth enabled.
	rec = doJSON(t, router, "GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	token, err := auth.NewBridgeToken(secret)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
