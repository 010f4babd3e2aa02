package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"schema-forge/internal/config"
	"schema-forge/internal/controller"
	"schema-forge/internal/database/metadata"
	"schema-forge/internal/ddl"
	"schema-forge/internal/middleware"
	"schema-forge/internal/security"
	"schema-forge/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection, only needed for live table models
	var db *gorm.DB
	var extractor *metadata.MetadataExtractor
	if cfg.Database.Enabled {
		db, err = config.InitDatabase(cfg)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		extractor = metadata.NewMetadataExtractor(db)
	}

	cache := metadata.NewSchemaCache(cfg.Models.CacheTTL)
	go cache.Start(ctx)
	defer cache.Stop()

	var registry *service.ModelRegistry
	if extractor != nil {
		registry = service.NewModelRegistry(cache, extractor)
	} else {
		registry = service.NewModelRegistry(cache, nil)
	}
	if err := loadModels(ctx, registry, extractor, cfg); err != nil {
		log.Fatal("Failed to load models:", err)
	}
	log.Printf("Serving %d models", registry.Len())

	metrics := middleware.InitMetrics()
	metrics.SetRegisteredModels(registry.Len())

	schemaService := service.NewSchemaService(registry,
		service.WithStrict(cfg.Models.Strict),
		service.WithObserver(metrics),
	)

	var rateLimiter *middleware.RateLimiter
	if cfg.Security.EnableRateLimit {
		limits := middleware.DefaultRateLimiterConfig()
		limits.RPM = cfg.Security.RateLimitPerMinute
		limits.Burst = cfg.Security.RateLimitBurst
		rateLimiter = middleware.NewRateLimiter(limits)
		go rateLimiter.Start(ctx)
	}

	var auth *security.AuthMiddleware
	if cfg.Security.EnableAuth {
		auth = security.NewAuthMiddleware(security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenDuration))
	}

	router := newRouter(routerDeps{
		schemaController: controller.NewSchemaController(schemaService, registry),
		healthController: controller.NewHealthController(db, registry),
		metrics:          metrics,
		rateLimiter:      rateLimiter,
		auth:             auth,
		adminRole:        cfg.Security.AdminRole,
	})

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// loadModels registers the configured DDL files and live tables.
// A "*" table entry registers every table of the connected database.
func loadModels(ctx context.Context, registry *service.ModelRegistry, extractor *metadata.MetadataExtractor, cfg *config.Config) error {
	parser := ddl.NewParser()
	for _, path := range cfg.Models.DDLPaths {
		n, err := registry.LoadDDLFile(parser, path)
		if err != nil {
			return err
		}
		log.Printf("Loaded %d tables from %s", n, path)
	}

	tables := cfg.Models.Tables
	if len(tables) == 1 && tables[0] == "*" && extractor != nil {
		all, err := extractor.ListTables(ctx)
		if err != nil {
			return err
		}
		tables = all
	}
	for _, table := range tables {
		if err := registry.RegisterTable(table); err != nil {
			return err
		}
	}
	return nil
}

type routerDeps struct {
	schemaController *controller.SchemaController
	healthController *controller.HealthController
	metrics          *middleware.PrometheusMetrics
	rateLimiter      *middleware.RateLimiter
	auth             *security.AuthMiddleware
	adminRole        string
}

func newRouter(deps routerDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.PrometheusMiddleware(deps.metrics))

	// Health and metrics are never rate limited
	router.GET("/health", deps.healthController.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	if deps.rateLimiter != nil {
		api.Use(deps.rateLimiter.RateLimit())
	}
	var admin []gin.HandlerFunc
	if deps.auth != nil {
		api.Use(deps.auth.RequireAuth())
		admin = append(admin, deps.auth.RequireRole(deps.adminRole))
	}
	deps.schemaController.RegisterRoutes(api, admin...)

	return router
}
