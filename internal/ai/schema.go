package ai

import (
	"fmt"
	"strings"
)

// Risk levels the model may assign.
var riskLevels = map[string]bool{
	"Low": true, "Moderate": true, "High": true, "Critical": true,
}

// GroomedTask is the structured contract for backlog grooming: an improved
// title, description, acceptance criteria, and a point estimate.
type GroomedTask struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	Estimate           int      `json:"estimate"`
}

// Validate checks the contract. Returns a list of problems, empty if valid.
func (g *GroomedTask) Validate() []string {
	var errs []string
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(g.Description) == "" {
		errs = append(errs, "description is required")
	}
	if len(g.AcceptanceCriteria) == 0 {
		errs = append(errs, "acceptance_criteria is required")
	}
	if g.Estimate < 1 || g.Estimate > 13 {
		errs = append(errs, fmt.Sprintf("estimate %d out of range 1-13", g.Estimate))
	}
	return errs
}

// RiskAssessment is the structured contract for sprint risk analysis.
type RiskAssessment struct {
	RiskScore int    `json:"risk_score"`
	RiskLevel string `json:"risk_level"`
	Analysis  string `json:"analysis"`
}

// Validate checks score range and level vocabulary.
func (r *RiskAssessment) Validate() []string {
	var errs []string
	if r.RiskScore < 0 || r.RiskScore > 100 {
		errs = append(errs, fmt.Sprintf("risk_score %d out of range 0-100", r.RiskScore))
	}
	if !riskLevels[r.RiskLevel] {
		errs = append(errs, fmt.Sprintf("risk_level %q invalid (must be Low, Moderate, High, or Critical)", r.RiskLevel))
	}
	if strings.TrimSpace(r.Analysis) == "" {
		errs = append(errs, "analysis is required")
	}
	return errs
}

// CompletionInference is the structured contract for inferring which open
// tasks a standup's "yesterday" text says were finished.
type CompletionInference struct {
	CompletedTaskIDs []string `json:"completed_task_ids"`
}

// Validate rejects blank ids; an empty list is a valid answer.
func (c *CompletionInference) Validate() []string {
	var errs []string
	for i, id := range c.CompletedTaskIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Sprintf("completed_task_ids[%d] is blank", i))
		}
	}
	return errs
}

// BacklogScore grades one backlog item's sprint readiness.
type BacklogScore struct {
	TaskID         string `json:"task_id"`
	ReadinessScore int    `json:"readiness_score"`
	EstimatePoints int    `json:"estimate_points"`
	Reasoning      string `json:"reasoning"`
}

// BacklogAnalysis is the structured contract for backlog scoring.
type BacklogAnalysis struct {
	Scores []BacklogScore `json:"scores"`
}

// Validate checks every score row.
func (b *BacklogAnalysis) Validate() []string {
	var errs []string
	if len(b.Scores) == 0 {
		errs = append(errs, "scores is empty")
	}
	for i, s := range b.Scores {
		if s.TaskID == "" {
			errs = append(errs, fmt.Sprintf("scores[%d]: task_id is required", i))
		}
		if s.ReadinessScore < 0 || s.ReadinessScore > 100 {
			errs = append(errs, fmt.Sprintf("scores[%d] (%s): readiness_score %d out of range 0-100", i, s.TaskID, s.ReadinessScore))
		}
		if s.EstimatePoints < 0 {
			errs = append(errs, fmt.Sprintf("scores[%d] (%s): estimate_points %d negative", i, s.TaskID, s.EstimatePoints))
		}
	}
	return errs
}

// SprintProposal is the structured contract for AI-assisted sprint
// composition: which tasks to commit and under what goal.
type SprintProposal struct {
	SprintName  string   `json:"sprint_name"`
	Goal        string   `json:"goal"`
	TaskIDs     []string `json:"task_ids"`
	TotalPoints int      `json:"total_points"`
}

// Validate checks the proposal shape.
func (p *SprintProposal) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.SprintName) == "" {
		errs = append(errs, "sprint_name is required")
	}
	if strings.TrimSpace(p.Goal) == "" {
		errs = append(errs, "goal is required")
	}
	if len(p.TaskIDs) == 0 {
		errs = append(errs, "task_ids is empty")
	}
	seen := make(map[string]bool)
	for i, id := range p.TaskIDs {
		if id == "" {
			errs = append(errs, fmt.Sprintf("task_ids[%d] is blank", i))
		}
		if seen[id] {
			errs = append(errs, fmt.Sprintf("task_ids[%d]: duplicate id %q", i, id))
		}
		seen[id] = true
	}
	if p.TotalPoints < 0 {
		errs = append(errs, fmt.Sprintf("total_points %d negative", p.TotalPoints))
	}
	return errs
}
