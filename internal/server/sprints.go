package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/sprintdeck/internal/ai"
)

// riskContextSize is how many recent updates feed the risk prompt.
const riskContextSize = 20

// currentSprint returns the active sprint with its time progress.
func (h *handlers) currentSprint(c *gin.Context) {
	active, err := h.sprints.Active(c.Request.Context(), time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sprint": active})
}

// sprintBurnup returns the active sprint's snapshot series.
func (h *handlers) sprintBurnup(c *gin.Context) {
	active, err := h.sprints.Active(c.Request.Context(), time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	snaps, err := h.sprints.Snapshots(c.Request.Context(), active.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sprint": active, "snapshots": snaps})
}

// sprintRisk returns the latest stored risk assessment.
func (h *handlers) sprintRisk(c *gin.Context) {
	active, err := h.sprints.Active(c.Request.Context(), time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	risk, err := h.sprints.LatestRisk(c.Request.Context(), active.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"risk": risk})
}

// analyzeSprintRisk runs a fresh assessment from the sprint goal and
// recent updates, persists it, and returns it.
func (h *handlers) analyzeSprintRisk(c *gin.Context) {
	ctx := c.Request.Context()
	active, err := h.sprints.Active(ctx, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}

	updates, err := h.standups.Recent(ctx, riskContextSize)
	if err != nil {
		writeError(c, err)
		return
	}

	raw, err := h.gen.Generate(ctx, ai.BuildRiskPrompt(active.Goal, updates))
	if err != nil {
		writeError(c, err)
		return
	}
	var assessment ai.RiskAssessment
	if err := ai.DecodeValidated(raw, &assessment); err != nil {
		writeError(c, err)
		return
	}

	risk, err := h.sprints.SaveRisk(ctx, active.ID, assessment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"risk": risk})
}

// sprintVelocity returns the recent velocity trend oldest-first.
func (h *handlers) sprintVelocity(c *gin.Context) {
	records, err := h.sprints.Velocity(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"velocity": records})
}
