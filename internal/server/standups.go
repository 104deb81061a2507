package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/sprintdeck/internal/ai"
	"github.com/zulandar/sprintdeck/internal/auth"
	"github.com/zulandar/sprintdeck/internal/models"
	"github.com/zulandar/sprintdeck/internal/standup"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

// completionStatus is the tracker status applied to tasks the model
// infers were finished.
const completionStatus = "complete"

// listStandups returns the caller's visible entries plus derived stats.
func (h *handlers) listStandups(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	entries, err := h.standups.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"updates": entries,
		"stats":   standup.ComputeStats(entries),
	})
}

// taskUpdateResult is the per-task outcome of post-standup auto-completion.
type taskUpdateResult struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"` // "completed" or "failed"
	Error  string `json:"error,omitempty"`
}

// createStandup persists the entry, then tries to close tracker tasks the
// report says were finished. The entry always lands; completion is
// best-effort and reported per task so a partial run is visible.
func (h *handlers) createStandup(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var in standup.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.standups.Create(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}

	updates := h.autoCompleteTasks(c.Request.Context(), id, entry)
	c.JSON(http.StatusCreated, gin.H{
		"standup":      entry,
		"task_updates": updates,
	})
}

// autoCompleteTasks asks the model which of the caller's open tasks the
// report finished and closes them in the tracker. Failures never bubble:
// a model or decode error yields no updates, a per-task tracker error
// yields a "failed" row for that task only.
func (h *handlers) autoCompleteTasks(ctx context.Context, id auth.Identity, entry models.Standup) []taskUpdateResult {
	updates := []taskUpdateResult{}
	if h.gen == nil || h.tracker == nil || h.cfg.ClickUp.BacklogListID == "" {
		return updates
	}

	tasks, err := h.tracker.GetTasks(ctx, h.cfg.ClickUp.BacklogListID)
	if err != nil {
		log.Printf("server: auto-complete: fetch tasks: %v", err)
		return updates
	}
	mine := tracker.FilterByAssignee(tasks, id.Email)
	open := make([]tracker.Task, 0, len(mine))
	for _, t := range mine {
		if !isCompletedStatus(t.Status.Status) {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return updates
	}

	raw, err := h.gen.Generate(ctx, ai.BuildCompletionPrompt(entry, open))
	if err != nil {
		log.Printf("server: auto-complete: generate: %v", err)
		return updates
	}
	var inference ai.CompletionInference
	if err := ai.DecodeValidated(raw, &inference); err != nil {
		log.Printf("server: auto-complete: %v", err)
		return updates
	}

	openIDs := make(map[string]bool, len(open))
	for _, t := range open {
		openIDs[t.ID] = true
	}
	for _, taskID := range inference.CompletedTaskIDs {
		if !openIDs[taskID] {
			// The model may hallucinate ids; only touch tasks we offered.
			continue
		}
		result := taskUpdateResult{TaskID: taskID, Status: "completed"}
		if _, err := h.tracker.UpdateTask(ctx, taskID, tracker.TaskUpdate{Status: completionStatus}); err != nil {
			result.Status = "failed"
			result.Error = err.Error()
			log.Printf("server: auto-complete: update %s: %v", taskID, err)
		}
		updates = append(updates, result)
	}
	return updates
}

func isCompletedStatus(status string) bool {
	switch status {
	case "complete", "closed", "done":
		return true
	}
	return false
}
