package ai

import (
	"errors"
	"testing"
)

func TestExtractJSON_FencedEqualsBare(t *testing.T) {
	bare := `{"risk_score": 40, "risk_level": "Moderate", "analysis": "ok"}`
	fenced := "```json\n" + bare + "\n```"
	fencedNoTag := "```\n" + bare + "\n```"
	withProse := "Here is the assessment you asked for:\n\n" + fenced + "\n\nLet me know if you need more."

	want := bare
	for name, input := range map[string]string{
		"bare": bare, "fenced": fenced, "fenced-no-tag": fencedNoTag, "prose+fenced": withProse,
	} {
		if got := ExtractJSON(input); got != want {
			t.Errorf("%s: ExtractJSON = %q, want %q", name, got, want)
		}
	}
}

func TestExtractJSON_Array(t *testing.T) {
	raw := "```json\n[{\"task_id\": \"t1\"}]\n```"
	if got := ExtractJSON(raw); got != `[{"task_id": "t1"}]` {
		t.Errorf("ExtractJSON = %q", got)
	}
}

func TestDecodeInto_EquivalentResults(t *testing.T) {
	bare := `{"risk_score": 40, "risk_level": "Moderate", "analysis": "ok"}`
	fenced := "```json\n" + bare + "\n```"

	var a, b RiskAssessment
	if err := DecodeInto(bare, &a); err != nil {
		t.Fatalf("bare: %v", err)
	}
	if err := DecodeInto(fenced, &b); err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if a != b {
		t.Errorf("fenced decode %+v != bare decode %+v", b, a)
	}
}

func TestDecodeInto_InvalidJSONIsDistinctError(t *testing.T) {
	var r RiskAssessment
	err := DecodeInto("I'm sorry, I cannot produce JSON today.", &r)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestDecodeValidated_RejectsOutOfRange(t *testing.T) {
	var r RiskAssessment
	err := DecodeValidated(`{"risk_score": 250, "risk_level": "Moderate", "analysis": "x"}`, &r)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse for out-of-range score", err)
	}
}

func TestDecodeValidated_AcceptsValid(t *testing.T) {
	var g GroomedTask
	raw := "```json\n" + `{"name":"Login page","description":"Build it","acceptance_criteria":["renders"],"estimate":5}` + "\n```"
	if err := DecodeValidated(raw, &g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Estimate != 5 {
		t.Errorf("Estimate = %d, want 5", g.Estimate)
	}
}
