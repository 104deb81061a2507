package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/sprintdeck/internal/ai"
	"github.com/zulandar/sprintdeck/internal/sprint"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

// proposeSprint asks the model for a sprint plan sized to the velocity
// trend. The proposal is advisory; nothing is persisted.
func (h *handlers) proposeSprint(c *gin.Context) {
	ctx := c.Request.Context()
	tasks, err := h.tracker.GetTasks(ctx, h.cfg.ClickUp.BacklogListID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(tasks) == 0 {
		writeError(c, fmt.Errorf("%w: backlog is empty", errBadRequest))
		return
	}
	velocity, err := h.sprints.Velocity(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	raw, err := h.gen.Generate(ctx, ai.BuildProposalPrompt(tasks, velocity))
	if err != nil {
		writeError(c, err)
		return
	}
	var proposal ai.SprintProposal
	if err := ai.DecodeValidated(raw, &proposal); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

// startSprintInput is the commit payload for a new sprint.
type startSprintInput struct {
	Name        string   `json:"name"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Goal        string   `json:"goal"`
	TaskIDs     []string `json:"task_ids"`
	TotalPoints int      `json:"total_points"`
}

// startSprint commits a plan: a tracker list is created for the sprint,
// the committed tasks are tagged into it, and the sprint is activated in
// one transaction. Tagging is reported per task; a failed tag does not
// abort the sprint.
func (h *handlers) startSprint(c *gin.Context) {
	var in startSprintInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(c, fmt.Errorf("%w: name is required", errBadRequest))
		return
	}
	if len(in.TaskIDs) == 0 {
		writeError(c, fmt.Errorf("%w: task_ids is required", errBadRequest))
		return
	}
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		writeError(c, fmt.Errorf("%w: start_date must be YYYY-MM-DD", errBadRequest))
		return
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		writeError(c, fmt.Errorf("%w: end_date must be YYYY-MM-DD", errBadRequest))
		return
	}
	if !end.After(start) {
		writeError(c, fmt.Errorf("%w: end_date must be after start_date", errBadRequest))
		return
	}

	ctx := c.Request.Context()

	// A sprint without a goal gets one written from its tasks.
	goal := strings.TrimSpace(in.Goal)
	if goal == "" && h.gen != nil {
		if tasks := h.fetchTasksByID(ctx, in.TaskIDs); len(tasks) > 0 {
			if text, err := h.gen.Generate(ctx, ai.BuildGoalPrompt(tasks)); err == nil {
				goal = strings.TrimSpace(text)
			}
		}
	}

	list, err := h.tracker.CreateList(ctx, h.cfg.ClickUp.FolderID, in.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	tag := sprintTag(in.Name)
	tagged := make([]taskUpdateResult, 0, len(in.TaskIDs))
	for _, taskID := range in.TaskIDs {
		result := taskUpdateResult{TaskID: taskID, Status: "completed"}
		if err := h.tagTask(ctx, taskID, tag); err != nil {
			result.Status = "failed"
			result.Error = err.Error()
		}
		tagged = append(tagged, result)
	}

	created, err := h.sprints.Start(ctx, sprint.StartInput{
		Name:        in.Name,
		StartDate:   start,
		EndDate:     end,
		Goal:        goal,
		ListID:      list.ID,
		TotalPoints: in.TotalPoints,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sprint":       created,
		"list":         list,
		"task_updates": tagged,
	})
}

// tagTask adds the sprint tag to a task, preserving its existing tags.
func (h *handlers) tagTask(ctx context.Context, taskID, tag string) error {
	task, err := h.tracker.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	tags := make([]string, 0, len(task.Tags)+1)
	for _, t := range task.Tags {
		if t.Name == tag {
			return nil // already tagged
		}
		tags = append(tags, t.Name)
	}
	tags = append(tags, tag)
	_, err = h.tracker.UpdateTask(ctx, taskID, tracker.TaskUpdate{Tags: tags})
	return err
}

// fetchTasksByID loads tasks individually, skipping ones that fail.
func (h *handlers) fetchTasksByID(ctx context.Context, ids []string) []tracker.Task {
	tasks := make([]tracker.Task, 0, len(ids))
	for _, id := range ids {
		if task, err := h.tracker.GetTask(ctx, id); err == nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// sprintTag derives the tracker tag marking a sprint's committed tasks.
func sprintTag(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return "sprint-" + slug
}
