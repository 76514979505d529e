package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ratewise/ratewise/internal/models"
)

func (h *Handler) AggregateWeeklyReport(c *gin.Context) {
	var req models.AggregateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.AggregateWeeklyReport(c.Request.Context(), userID(c), req.WeekStart)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListWeeklyReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	reports, err := h.svc.ListWeeklyReports(c.Request.Context(), userID(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "reports": reports})
}

func (h *Handler) CreateTimesheet(c *gin.Context) {
	var req models.CreateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ts, err := h.svc.CreateTimesheet(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ts)
}

func (h *Handler) SubmitTimesheet(c *gin.Context) {
	var req models.SubmitTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ts, err := h.svc.SubmitTimesheet(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *Handler) CreateShareLink(c *gin.Context) {
	var req models.CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.CreateShareLink(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ResolveShareLink serves the public, token-gated view of a shared report
// or timesheet. No authentication: the token is the credential.
func (h *Handler) ResolveShareLink(c *gin.Context) {
	view, err := h.svc.ResolveShareLink(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ReviewTimesheet records a reviewer decision made through a share link.
func (h *Handler) ReviewTimesheet(c *gin.Context) {
	var req models.ReviewTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ts, err := h.svc.ReviewTimesheet(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}
