package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/models"
	"github.com/ratewise/ratewise/internal/service"
)

// Handler holds the HTTP handlers and their service dependency
type Handler struct {
	svc service.Service
}

// NewHandler creates a new Handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/auth/signup", h.SignUp)
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/shared/:token", h.ResolveShareLink)
	router.POST("/api/shared/:token/review", h.ReviewTimesheet)

	// Authenticated routes
	auth := router.Group("/api", AuthMiddleware())
	{
		auth.PUT("/settings", h.UpdateSettings)

		auth.POST("/projects", h.CreateProject)
		auth.GET("/projects", h.ListProjects)

		auth.POST("/entries", h.CreateTimeEntry)
		auth.GET("/entries", h.ListTimeEntries)
		auth.PUT("/entries/:id", h.UpdateTimeEntry)
		auth.DELETE("/entries/:id", h.DeleteTimeEntry)

		auth.POST("/costs", h.CreateCostEntry)
		auth.GET("/costs", h.ListCostEntries)
		auth.DELETE("/costs/:id", h.DeleteCostEntry)

		auth.GET("/projects/:id/profitability", h.ComputeProfitability)
		auth.POST("/projects/:id/anomalies/scan", h.DetectAnomalies)
		auth.GET("/projects/:id/flags", h.ListFlags)
		auth.POST("/flags/:id/dismiss", h.DismissFlag)

		auth.GET("/actions", h.ListAiActions)
		auth.POST("/actions/:id/transition", h.TransitionAiAction)

		auth.POST("/reports", h.AggregateWeeklyReport)
		auth.GET("/reports", h.ListWeeklyReports)

		auth.POST("/timesheets", h.CreateTimesheet)
		auth.POST("/timesheets/:id/submit", h.SubmitTimesheet)

		auth.POST("/share-links", h.CreateShareLink)
	}
}

// userID extracts the authenticated user's ID set by AuthMiddleware.
func userID(c *gin.Context) string {
	return c.GetString("userId")
}

// writeError maps a service error onto the HTTP response envelope.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := apperrors.CodeInternal
	message := "Internal server error"

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
		switch appErr.Code {
		case apperrors.CodeValidation:
			status = http.StatusBadRequest
		case apperrors.CodeNotFound:
			status = http.StatusNotFound
		case apperrors.CodeInvalidState:
			status = http.StatusConflict
		case apperrors.CodeLocked:
			status = http.StatusLocked
		case apperrors.CodeRateUnavailable:
			status = http.StatusBadGateway
		case apperrors.CodeUpstreamTimeout:
			status = http.StatusGatewayTimeout
		default:
			message = "Internal server error"
		}
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    string(code),
		Message: message,
	})
}

// writeBindError reports a request that failed binding validation.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    string(apperrors.CodeValidation),
		Message: err.Error(),
	})
}
