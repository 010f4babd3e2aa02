package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schema-forge/internal/column"
	"schema-forge/internal/ddl"
	"schema-forge/internal/middleware"
	"schema-forge/internal/service"
	"schema-forge/internal/utils"
)

type envelope struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data"`
	Message       string          `json:"message"`
	CorrelationID string          `json:"correlationId"`
	Error         *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *service.ModelRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := service.NewModelRegistry(nil, nil)
	require.NoError(t, registry.RegisterAttributes("users", column.Attributes{
		{Name: "id", Column: column.Integer().PrimaryKey().AutoIncrement()},
		{Name: "name", Column: column.String().NotNull()},
		{Name: "age", Column: column.Integer()},
	}))

	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.GET("/health", NewHealthController(nil, registry).HealthCheck)
	NewSchemaController(service.NewSchemaService(registry), registry).RegisterRoutes(router.Group("/api/v1"))
	return router, registry
}

func perform(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestListModels(t *testing.T) {
	router, _ := setupRouter(t)

	w, env := perform(t, router, http.MethodGet, "/api/v1/models", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.True(t, utils.IsValidUUID(env.CorrelationID))

	var models []service.ModelInfo
	require.NoError(t, json.Unmarshal(env.Data, &models))
	require.Len(t, models, 1)
	assert.Equal(t, "users", models[0].Name)
}

func TestGetSchema(t *testing.T) {
	router, _ := setupRouter(t)

	w, env := perform(t, router, http.MethodGet, "/api/v1/models/users/schemas/insert", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp service.SchemaResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "users", resp.Model)
	assert.Equal(t, "object", resp.Schema.Type)
	require.Len(t, resp.Schema.Properties, 2)
	assert.Equal(t, "name", resp.Schema.Properties[0].Name)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown variant", "/api/v1/models/users/schemas/upsert", http.StatusBadRequest, utils.ErrCodeInvalidVariant},
		{"unknown model", "/api/v1/models/ghosts/schemas/select", http.StatusNotFound, utils.ErrCodeModelNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := perform(t, router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestValidatePayload(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name    string
		variant string
		body    string
		valid   bool
	}{
		{"insert ok", "insert", `{"name":"Ada","age":36}`, true},
		{"insert missing name", "insert", `{"age":36}`, false},
		{"insert null name", "insert", `{"name":null}`, false},
		{"fractional age", "update", `{"age":36.5}`, false},
		{"update empty", "update", `{}`, true},
		{"select requires id", "select", `{"name":"Ada"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := perform(t, router, http.MethodPost, "/api/v1/models/users/validate/"+tt.variant, tt.body)
			require.Equal(t, http.StatusOK, w.Code, "an invalid payload is not a request error")

			var result service.ValidationResult
			require.NoError(t, json.Unmarshal(env.Data, &result))
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Issues)
			}
		})
	}
}

func TestValidatePayloadBadBody(t *testing.T) {
	router, _ := setupRouter(t)

	for _, body := range []string{`{"name":`, `null`, `[1,2]`, `{"name":"Ada"} junk`, `{"name":"Ada"}{"name":"Bob"}`} {
		t.Run(body, func(t *testing.T) {
			w, env := perform(t, router, http.MethodPost, "/api/v1/models/users/validate/insert", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, utils.ErrCodeInvalidJSON, env.Error.Code)
		})
	}
}

func TestValidatePayloadTooLarge(t *testing.T) {
	router, _ := setupRouter(t)

	body := `{"name":"` + strings.Repeat("a", maxPayloadBytes) + `"}`
	w, env := perform(t, router, http.MethodPost, "/api/v1/models/users/validate/insert", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodePayloadTooLarge, env.Error.Code)
}

func TestValidateBlobPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	table, err := ddl.NewParser().ParseCreateTable(
		"CREATE TABLE files (id INT PRIMARY KEY AUTO_INCREMENT, data BLOB NOT NULL)")
	require.NoError(t, err)
	registry := service.NewModelRegistry(nil, nil)
	require.NoError(t, registry.RegisterDDL(table))

	router := gin.New()
	router.Use(middleware.CorrelationID())
	NewSchemaController(service.NewSchemaService(registry), registry).RegisterRoutes(router.Group("/api/v1"))

	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"base64", `{"data":"aGVsbG8="}`, true},
		{"empty", `{"data":""}`, true},
		{"not base64", `{"data":"hello!"}`, false},
		{"number array", `{"data":[104,101]}`, false},
		{"missing", `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := perform(t, router, http.MethodPost, "/api/v1/models/files/validate/insert", tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			var result service.ValidationResult
			require.NoError(t, json.Unmarshal(env.Data, &result))
			assert.Equal(t, tt.valid, result.Valid, "%+v", result.Issues)
		})
	}
}

func TestRefreshModel(t *testing.T) {
	router, _ := setupRouter(t)

	w, env := perform(t, router, http.MethodPost, "/api/v1/models/users/refresh", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Model metadata refreshed", env.Message)

	w, env = perform(t, router, http.MethodPost, "/api/v1/models/ghosts/refresh", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeModelNotFound, env.Error.Code)

	w, env = perform(t, router, http.MethodPost, "/api/v1/models/refresh", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All model metadata refreshed", env.Message)
}

func TestHealthCheckWithoutDatabase(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "disabled", health.Database.Status)
	assert.Equal(t, 1, health.Models)
}
