package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"schema-forge/internal/database/metadata"
	"schema-forge/internal/service"
)

type HealthResponse struct {
	Status      string              `json:"status"`
	Timestamp   time.Time           `json:"timestamp"`
	Service     string              `json:"service"`
	Version     string              `json:"version"`
	Database    DatabaseStatus      `json:"database"`
	Models      int                 `json:"models"`
	Cache       metadata.CacheStats `json:"cache"`
	Connections map[string]string   `json:"connections,omitempty"`
}

type DatabaseStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthController struct {
	db       *gorm.DB
	registry *service.ModelRegistry
}

// NewHealthController creates a health controller. db may be nil when the
// service runs without a database.
func NewHealthController(db *gorm.DB, registry *service.ModelRegistry) *HealthController {
	return &HealthController{
		db:       db,
		registry: registry,
	}
}

func (hc *HealthController) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now(),
		Service:     "schema-forge",
		Version:     "1.0.0",
		Connections: make(map[string]string),
	}
	if hc.registry != nil {
		response.Models = hc.registry.Len()
		response.Cache = hc.registry.CacheStats()
	}

	if hc.db == nil {
		response.Database = DatabaseStatus{Status: "disabled"}
		c.JSON(http.StatusOK, response)
		return
	}

	sqlDB, err := hc.db.DB()
	if err != nil {
		response.Status = "unhealthy"
		response.Database = DatabaseStatus{
			Status:  "disconnected",
			Message: "Failed to get database instance",
		}
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response.Status = "unhealthy"
		response.Database = DatabaseStatus{
			Status:  "disconnected",
			Message: "Database ping failed: " + err.Error(),
		}
	} else {
		stats := sqlDB.Stats()
		response.Database = DatabaseStatus{
			Status:  "connected",
			Message: "Database connection healthy",
		}
		response.Connections["database_open_connections"] = fmt.Sprintf("%d", stats.OpenConnections)
		response.Connections["database_in_use"] = fmt.Sprintf("%d", stats.InUse)
		response.Connections["database_idle"] = fmt.Sprintf("%d", stats.Idle)
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
