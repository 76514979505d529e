package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ratewise/ratewise/internal/models"
)

func (h *Handler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.svc.ListProjects(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "projects": projects})
}

func (h *Handler) CreateTimeEntry(c *gin.Context) {
	var req models.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	entry, err := h.svc.CreateTimeEntry(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) UpdateTimeEntry(c *gin.Context) {
	var req models.UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	entry, err := h.svc.UpdateTimeEntry(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteTimeEntry(c *gin.Context) {
	if err := h.svc.DeleteTimeEntry(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ListTimeEntries(c *gin.Context) {
	entries, err := h.svc.ListTimeEntries(
		c.Request.Context(),
		userID(c),
		c.Query("projectId"),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "entries": entries})
}

func (h *Handler) CreateCostEntry(c *gin.Context) {
	var req models.CreateCostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	cost, err := h.svc.CreateCostEntry(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cost)
}

func (h *Handler) DeleteCostEntry(c *gin.Context) {
	if err := h.svc.DeleteCostEntry(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ListCostEntries(c *gin.Context) {
	costs, err := h.svc.ListCostEntries(
		c.Request.Context(),
		userID(c),
		c.Query("projectId"),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "costs": costs})
}
