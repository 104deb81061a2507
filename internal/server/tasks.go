package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

// listBacklog returns the raw backlog list, cache permitting.
func (h *handlers) listBacklog(c *gin.Context) {
	tasks, err := h.tracker.GetTasks(c.Request.Context(), h.cfg.ClickUp.BacklogListID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// listTasks returns the caller's tasks. Admins may pass all=true to see
// the unfiltered list; everyone else is scoped to their own assignments.
func (h *handlers) listTasks(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	tasks, err := h.tracker.GetTasks(c.Request.Context(), h.cfg.ClickUp.BacklogListID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !(id.IsAdmin() && c.Query("all") == "true") {
		tasks = tracker.FilterByAssignee(tasks, id.Email)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// updateTaskStatus moves one task to a new tracker status.
func (h *handlers) updateTaskStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Status) == "" {
		writeError(c, fmt.Errorf("%w: status is required", errBadRequest))
		return
	}

	task, err := h.tracker.UpdateTask(c.Request.Context(), c.Param("id"), tracker.TaskUpdate{Status: in.Status})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}
