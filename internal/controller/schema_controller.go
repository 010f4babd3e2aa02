package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"schema-forge/internal/middleware"
	"schema-forge/internal/schema"
	"schema-forge/internal/service"
	"schema-forge/internal/utils"
	"schema-forge/pkg/response"
)

// maxPayloadBytes bounds the body of a validation request
const maxPayloadBytes = 1 << 20

var (
	errPayloadNotObject = errors.New("payload must be a JSON object")
	errTrailingData     = errors.New("unexpected data after the JSON object")
)

type SchemaController struct {
	service   service.SchemaService
	registry  *service.ModelRegistry
	validator *validator.Validate
}

type schemaParams struct {
	Name    string `uri:"name" validate:"required,max=128"`
	Variant string `uri:"variant" validate:"required,oneof=select insert update"`
}

type modelParams struct {
	Name string `uri:"name" validate:"required,max=128"`
}

func NewSchemaController(svc service.SchemaService, registry *service.ModelRegistry) *SchemaController {
	return &SchemaController{
		service:   svc,
		registry:  registry,
		validator: validator.New(),
	}
}

// RegisterRoutes mounts the schema endpoints on a router group. admin
// handlers guard the operations that change server state.
func (sc *SchemaController) RegisterRoutes(rg *gin.RouterGroup, admin ...gin.HandlerFunc) {
	models := rg.Group("/models")
	models.GET("", sc.ListModels)
	models.GET("/:name/schemas/:variant", sc.GetSchema)
	models.POST("/:name/validate/:variant", sc.ValidatePayload)
	models.POST("/refresh", withAdmin(admin, sc.RefreshAll)...)
	models.POST("/:name/refresh", withAdmin(admin, sc.RefreshModel)...)
}

func withAdmin(admin []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc{}, admin...), h)
}

// ListModels godoc
// @Summary List registered models
// @Tags models
// @Produce json
// @Success 200 {object} response.StandardResponse{data=[]service.ModelInfo}
// @Router /api/v1/models [get]
func (sc *SchemaController) ListModels(c *gin.Context) {
	models := sc.service.ListModels(c.Request.Context())
	c.JSON(http.StatusOK, response.SuccessResponse(models, middleware.GetCorrelationID(c)))
}

// GetSchema godoc
// @Summary Describe the schema of a model variant
// @Tags models
// @Produce json
// @Param name path string true "Model name"
// @Param variant path string true "select, insert or update"
// @Success 200 {object} response.StandardResponse{data=service.SchemaResponse}
// @Failure 400 {object} response.StandardResponse
// @Failure 404 {object} response.StandardResponse
// @Router /api/v1/models/{name}/schemas/{variant} [get]
func (sc *SchemaController) GetSchema(c *gin.Context) {
	params, ok := sc.bindSchemaParams(c)
	if !ok {
		return
	}

	result, err := sc.service.Describe(c.Request.Context(), params.Name, schema.Variant(params.Variant))
	if err != nil {
		sc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse(result, middleware.GetCorrelationID(c)))
}

// ValidatePayload godoc
// @Summary Validate a JSON object against a model variant
// @Description Responds 200 with the issues list; an invalid payload is not a request error
// @Tags models
// @Accept json
// @Produce json
// @Param name path string true "Model name"
// @Param variant path string true "select, insert or update"
// @Success 200 {object} response.StandardResponse{data=service.ValidationResult}
// @Failure 400 {object} response.StandardResponse
// @Failure 404 {object} response.StandardResponse
// @Router /api/v1/models/{name}/validate/{variant} [post]
func (sc *SchemaController) ValidatePayload(c *gin.Context) {
	params, ok := sc.bindSchemaParams(c)
	if !ok {
		return
	}

	payload, err := decodePayload(c.Writer, c.Request)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sc.sendError(c, utils.NewErrorBuilder(utils.ErrCodePayloadTooLarge).
				WithDetails(fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit)).
				WithCause(err).
				Build())
			return
		}
		sc.sendError(c, utils.NewErrorBuilder(utils.ErrCodeInvalidJSON).
			WithDetails(err.Error()).
			WithCause(err).
			Build())
		return
	}

	result, err := sc.service.Validate(c.Request.Context(), params.Name, schema.Variant(params.Variant), payload)
	if err != nil {
		sc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse(result, middleware.GetCorrelationID(c)))
}

// RefreshModel godoc
// @Summary Drop cached metadata of a live table model
// @Tags models
// @Param name path string true "Model name"
// @Success 200 {object} response.StandardResponse
// @Failure 404 {object} response.StandardResponse
// @Router /api/v1/models/{name}/refresh [post]
func (sc *SchemaController) RefreshModel(c *gin.Context) {
	var params modelParams
	if err := c.ShouldBindUri(&params); err != nil {
		sc.sendError(c, utils.NewValidationError("Invalid path parameters", err))
		return
	}
	if err := sc.validator.Struct(&params); err != nil {
		sc.sendError(c, utils.NewValidationError("Invalid path parameters", err))
		return
	}

	if err := sc.registry.Invalidate(params.Name); err != nil {
		sc.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessageResponse("Model metadata refreshed", middleware.GetCorrelationID(c)))
}

// RefreshAll godoc
// @Summary Drop the cached metadata of every live table model
// @Tags models
// @Success 200 {object} response.StandardResponse
// @Router /api/v1/models/refresh [post]
func (sc *SchemaController) RefreshAll(c *gin.Context) {
	sc.registry.InvalidateAll()
	c.JSON(http.StatusOK, response.SuccessMessageResponse("All model metadata refreshed", middleware.GetCorrelationID(c)))
}

func (sc *SchemaController) bindSchemaParams(c *gin.Context) (schemaParams, bool) {
	var params schemaParams
	if err := c.ShouldBindUri(&params); err != nil {
		sc.sendError(c, utils.NewValidationError("Invalid path parameters", err))
		return params, false
	}
	if err := sc.validator.Struct(&params); err != nil {
		sc.sendError(c, utils.NewErrorBuilder(utils.ErrCodeInvalidVariant).
			WithDetails(err.Error()).
			WithCause(err).
			Build())
		return params, false
	}
	return params, true
}

func (sc *SchemaController) sendError(c *gin.Context, err error) {
	status, body := response.FromError(err, middleware.GetCorrelationID(c))
	c.AbortWithStatusJSON(status, body)
}

// decodePayload reads a single JSON object. Numbers are kept as json.Number
// so integer columns can reject fractional values exactly.
func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return nil, io.ErrUnexpectedEOF
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errPayloadNotObject
	}
	if _, err := dec.Token(); err != io.EOF {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errTrailingData
	}
	return payload, nil
}
