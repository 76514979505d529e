package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ratewise/ratewise/internal/models"
)

func (h *Handler) ComputeProfitability(c *gin.Context) {
	resp, err := h.svc.ComputeProfitability(
		c.Request.Context(),
		userID(c),
		c.Param("id"),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DetectAnomalies(c *gin.Context) {
	projectID := c.Param("id")
	deltas, err := h.svc.DetectAnomalies(c.Request.Context(), userID(c), projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DetectAnomaliesResponse{
		Status:    "success",
		ProjectID: projectID,
		Deltas:    deltas,
	})
}

func (h *Handler) ListFlags(c *gin.Context) {
	flags, err := h.svc.ListFlags(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "flags": flags})
}

func (h *Handler) DismissFlag(c *gin.Context) {
	flag, err := h.svc.DismissFlag(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flag)
}

func (h *Handler) ListAiActions(c *gin.Context) {
	actions, err := h.svc.ListAiActions(c.Request.Context(), userID(c), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "actions": actions})
}

func (h *Handler) TransitionAiAction(c *gin.Context) {
	var req models.TransitionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	action, err := h.svc.TransitionAiAction(c.Request.Context(), userID(c), c.Param("id"), req.Target)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}
