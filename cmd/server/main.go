package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ratewise/ratewise/internal/anomaly"
	"github.com/ratewise/ratewise/internal/api"
	"github.com/ratewise/ratewise/internal/config"
	"github.com/ratewise/ratewise/internal/currency"
	"github.com/ratewise/ratewise/internal/logging"
	"github.com/ratewise/ratewise/internal/repository"
	"github.com/ratewise/ratewise/internal/service"
)

// defaultRates seeds the in-process rate table. Inverse pairs are derived,
// so only one direction per pair is listed.
var defaultRates = map[string]float64{
	"EUR/USD": 1.08,
	"GBP/USD": 1.27,
	"USD/JPY": 149.50,
	"AUD/USD": 0.65,
	"USD/CHF": 0.88,
	"USD/CAD": 1.36,
}

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up database")
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Currency normalization backed by the fixed rate table
	normalizer := currency.NewNormalizer(currency.NewFixedSource(defaultRates), cfg.Currency.LookupTimeout)

	anomalyCfg := anomaly.Settings{
		ScopeOverrunMultiple:  cfg.Anomaly.ScopeOverrunMultiple,
		UnderperformanceWeeks: cfg.Anomaly.UnderperformanceWeeks,
		TrailingWindowWeeks:   cfg.Anomaly.TrailingWindowWeeks,
	}

	// Create service
	svc := service.NewDefaultService(repo, cfg.Auth.JWTSecret, normalizer, anomalyCfg, logger)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(logger))

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", serverAddr).Msg("starting server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
