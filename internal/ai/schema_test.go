package ai

import (
	"strings"
	"testing"
)

func TestGroomedTask_Validate(t *testing.T) {
	valid := GroomedTask{Name: "n", Description: "d", AcceptanceCriteria: []string{"a"}, Estimate: 3}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Errorf("valid task: errs = %v", errs)
	}

	bad := GroomedTask{Estimate: 40}
	errs := bad.Validate()
	if len(errs) != 4 {
		t.Errorf("len(errs) = %d, want 4: %v", len(errs), errs)
	}
}

func TestRiskAssessment_Validate(t *testing.T) {
	for _, level := range []string{"Low", "Moderate", "High", "Critical"} {
		r := RiskAssessment{RiskScore: 50, RiskLevel: level, Analysis: "x"}
		if errs := r.Validate(); len(errs) != 0 {
			t.Errorf("level %s: errs = %v", level, errs)
		}
	}

	r := RiskAssessment{RiskScore: -1, RiskLevel: "Severe", Analysis: ""}
	errs := r.Validate()
	if len(errs) != 3 {
		t.Errorf("len(errs) = %d, want 3: %v", len(errs), errs)
	}
}

func TestCompletionInference_Validate(t *testing.T) {
	empty := CompletionInference{}
	if errs := empty.Validate(); len(errs) != 0 {
		t.Errorf("empty list should be valid: %v", errs)
	}
	blank := CompletionInference{CompletedTaskIDs: []string{"t1", " "}}
	if errs := blank.Validate(); len(errs) != 1 {
		t.Errorf("len(errs) = %d, want 1: %v", len(errs), errs)
	}
}

func TestBacklogAnalysis_Validate(t *testing.T) {
	empty := BacklogAnalysis{}
	if errs := empty.Validate(); len(errs) != 1 {
		t.Errorf("empty: errs = %v, want 1", errs)
	}

	bad := BacklogAnalysis{Scores: []BacklogScore{
		{TaskID: "", ReadinessScore: 120, EstimatePoints: -3},
	}}
	if errs := bad.Validate(); len(errs) != 3 {
		t.Errorf("len(errs) = %d, want 3: %v", len(errs), errs)
	}
}

func TestSprintProposal_Validate(t *testing.T) {
	valid := SprintProposal{SprintName: "Sprint 35", Goal: "Ship login", TaskIDs: []string{"a", "b"}, TotalPoints: 21}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Errorf("valid: errs = %v", errs)
	}

	dup := SprintProposal{SprintName: "s", Goal: "g", TaskIDs: []string{"a", "a"}}
	errs := dup.Validate()
	found := false
	for _, e := range errs {
		if strings.Contains(e, "duplicate") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duplicate id error, got %v", errs)
	}
}
