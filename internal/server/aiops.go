package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/sprintdeck/internal/ai"
	"github.com/zulandar/sprintdeck/internal/models"
	"github.com/zulandar/sprintdeck/internal/standup"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

// emptySummary is returned when there is nothing to summarize. The model
// is not invoked in that case.
const emptySummary = "No updates available to summarize."

// summarize produces a team-grouped summary of the caller's visible
// updates, optionally scoped to one calendar day.
func (h *handlers) summarize(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var in struct {
		Date string `json:"date"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	entries, err := h.standups.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	entries = standup.FilterByDate(entries, in.Date)
	if len(entries) == 0 {
		c.JSON(http.StatusOK, gin.H{"summary": emptySummary})
		return
	}

	var roles []models.UserRole
	if err := h.db.WithContext(c.Request.Context()).Preload("Team").Find(&roles).Error; err != nil {
		writeError(c, fmt.Errorf("server: load roles: %w", err))
		return
	}
	groups := standup.GroupByTeam(entries, roles)

	summary, err := h.gen.Generate(c.Request.Context(), ai.BuildSummaryPrompt(groups, in.Date))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"stats":   standup.ComputeStats(entries),
	})
}

// groomTask rewrites one backlog item through the grooming contract. The
// item comes either from the tracker by id or inline from the request.
func (h *handlers) groomTask(c *gin.Context) {
	var in struct {
		TaskID      string `json:"task_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var task tracker.Task
	switch {
	case in.TaskID != "":
		fetched, err := h.tracker.GetTask(c.Request.Context(), in.TaskID)
		if err != nil {
			writeError(c, err)
			return
		}
		task = fetched
	case strings.TrimSpace(in.Name) != "":
		task = tracker.Task{Name: in.Name, Description: in.Description}
	default:
		writeError(c, fmt.Errorf("%w: task_id or name is required", errBadRequest))
		return
	}

	raw, err := h.gen.Generate(c.Request.Context(), ai.BuildGroomPrompt(task))
	if err != nil {
		writeError(c, err)
		return
	}
	var groomed ai.GroomedTask
	if err := ai.DecodeValidated(raw, &groomed); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, groomed)
}

// analyzeBacklog scores every backlog item for sprint readiness.
func (h *handlers) analyzeBacklog(c *gin.Context) {
	tasks, err := h.tracker.GetTasks(c.Request.Context(), h.cfg.ClickUp.BacklogListID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(tasks) == 0 {
		c.JSON(http.StatusOK, gin.H{"scores": []ai.BacklogScore{}})
		return
	}

	raw, err := h.gen.Generate(c.Request.Context(), ai.BuildBacklogAnalysisPrompt(tasks))
	if err != nil {
		writeError(c, err)
		return
	}
	var analysis ai.BacklogAnalysis
	if err := ai.DecodeValidated(raw, &analysis); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": analysis.Scores})
}

// chat answers a free-form question, attaching task or standup context
// only when the message asks about them. Context is scoped to what the
// caller may see: employees get their own tasks and updates.
func (h *handlers) chat(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var in struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Message) == "" {
		writeError(c, fmt.Errorf("%w: message is required", errBadRequest))
		return
	}

	var data ai.ChatContext
	if ai.WantsTaskContext(in.Message) && h.tracker != nil && h.cfg.ClickUp.BacklogListID != "" {
		tasks, err := h.tracker.GetTasks(c.Request.Context(), h.cfg.ClickUp.BacklogListID)
		if err == nil {
			if !id.IsAdmin() {
				tasks = tracker.FilterByAssignee(tasks, id.Email)
			}
			data.Tasks = tasks
		}
		// A tracker failure degrades to an uninformed answer, not a 502.
	}
	if ai.WantsStandupContext(in.Message) {
		updates, err := h.standups.List(c.Request.Context(), id)
		if err == nil {
			data.Updates = updates
		}
	}

	answer, err := h.gen.Generate(c.Request.Context(), ai.BuildChatPrompt(in.Message, id.Email, data))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}
