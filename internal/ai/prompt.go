package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zulandar/sprintdeck/internal/models"
	"github.com/zulandar/sprintdeck/internal/tracker"
)

// Keyword heuristics gating what context the chat prompt carries. Keyword
// presence, not intent classification: this mirrors how the dashboard
// decides which data is worth the tokens.
var (
	taskKeywords    = []string{"task", "tasks", "backlog", "assigned", "working on", "ticket"}
	standupKeywords = []string{"standup", "update", "yesterday", "today", "blocker", "progress", "team"}
)

// WantsTaskContext reports whether the message warrants including task data.
func WantsTaskContext(message string) bool {
	return containsAny(message, taskKeywords)
}

// WantsStandupContext reports whether the message warrants including
// standup data.
func WantsStandupContext(message string) bool {
	return containsAny(message, standupKeywords)
}

func containsAny(message string, keywords []string) bool {
	m := strings.ToLower(message)
	for _, k := range keywords {
		if strings.Contains(m, k) {
			return true
		}
	}
	return false
}

// formatUpdates renders standup entries as prompt bullet lines.
func formatUpdates(entries []models.Standup) string {
	var sb strings.Builder
	for _, u := range entries {
		fmt.Fprintf(&sb, "- %s: Done: %q, Doing: %q, Blockers: %q\n", u.UserName, u.Yesterday, u.Today, u.Blockers)
	}
	return sb.String()
}

// formatTasks renders tasks as prompt bullet lines with id, status, and
// assignees.
func formatTasks(tasks []tracker.Task) string {
	var sb strings.Builder
	for _, t := range tasks {
		assignees := make([]string, 0, len(t.Assignees))
		for _, a := range t.Assignees {
			assignees = append(assignees, a.Username)
		}
		fmt.Fprintf(&sb, "- [%s] %s (status: %s", t.ID, t.Name, t.Status.Status)
		if len(assignees) > 0 {
			fmt.Fprintf(&sb, ", assignees: %s", strings.Join(assignees, ", "))
		}
		sb.WriteString(")\n")
	}
	return sb.String()
}

// BuildSummaryPrompt asks for a Scrum Master summary of updates grouped
// by team, optionally scoped to one date.
func BuildSummaryPrompt(groups map[string][]models.Standup, date string) string {
	teams := make([]string, 0, len(groups))
	for name := range groups {
		teams = append(teams, name)
	}
	sort.Strings(teams)

	var sb strings.Builder
	sb.WriteString("You are an expert Scrum Master. Summarize these daily updates for the Team Lead.\n")
	sb.WriteString("Identify: 1) Critical Blockers, 2) Key Progress, 3) Risk Level (Low/High).\n")
	sb.WriteString("Keep it concise and organize the summary by team.\n")
	if date != "" {
		fmt.Fprintf(&sb, "The updates are for %s.\n", date)
	}
	sb.WriteString("\n")
	for _, name := range teams {
		fmt.Fprintf(&sb, "Team %s:\n%s\n", name, formatUpdates(groups[name]))
	}
	return sb.String()
}

// jsonOnly is appended to every structured-contract prompt.
const jsonOnly = "Respond with JSON only. No prose, no markdown fences."

// BuildGroomPrompt asks for a groomed version of a backlog item.
func BuildGroomPrompt(task tracker.Task) string {
	return fmt.Sprintf(`You are an experienced agile coach grooming a backlog item.
Improve the title and description, write concrete acceptance criteria, and
estimate the work in story points (1, 2, 3, 5, 8, or 13).

Item title: %s
Item description: %s

Return a JSON object with keys "name", "description",
"acceptance_criteria" (array of strings), and "estimate" (number).
%s`, task.Name, task.Description, jsonOnly)
}

// BuildRiskPrompt asks for a sprint risk assessment from the goal and
// recent updates.
func BuildRiskPrompt(goal string, updates []models.Standup) string {
	return fmt.Sprintf(`You are a delivery risk analyst. Assess the risk of missing this
sprint goal based on the team's recent daily updates.

Sprint goal: %s

Recent updates:
%s
Return a JSON object with keys "risk_score" (0-100), "risk_level"
(one of "Low", "Moderate", "High", "Critical"), and "analysis" (short
explanation naming the main drivers).
%s`, goal, formatUpdates(updates), jsonOnly)
}

// BuildGoalPrompt asks for a one-sentence sprint goal covering the
// candidate tasks.
func BuildGoalPrompt(tasks []tracker.Task) string {
	return fmt.Sprintf(`You are a Scrum Master. Write a single, concise sprint goal sentence
that captures the theme of these committed tasks. Return only the goal
text, no preamble.

Tasks:
%s`, formatTasks(tasks))
}

// BuildCompletionPrompt asks which open tasks a standup's "yesterday"
// text indicates were finished.
func BuildCompletionPrompt(entry models.Standup, tasks []tracker.Task) string {
	return fmt.Sprintf(`A team member reported what they finished yesterday. Decide which of
the open tasks below, if any, their report says were completed. Only
include a task when the report clearly refers to it.

Report: %q

Open tasks:
%s
Return a JSON object with key "completed_task_ids" (array of task id
strings, possibly empty).
%s`, entry.Yesterday, formatTasks(tasks), jsonOnly)
}

// BuildBacklogAnalysisPrompt asks for readiness and estimate scoring of
// backlog items.
func BuildBacklogAnalysisPrompt(tasks []tracker.Task) string {
	return fmt.Sprintf(`You are preparing sprint planning. For each backlog item below, score
how ready it is to be pulled into a sprint (0-100, considering clarity of
description and acceptance criteria) and estimate it in story points.

Items:
%s
Return a JSON object with key "scores": an array of objects with keys
"task_id", "readiness_score" (0-100), "estimate_points", and "reasoning".
%s`, formatTasks(tasks), jsonOnly)
}

// BuildProposalPrompt asks for a sprint proposal honoring the velocity
// trend.
func BuildProposalPrompt(tasks []tracker.Task, velocity []models.VelocityRecord) string {
	var vb strings.Builder
	for _, v := range velocity {
		fmt.Fprintf(&vb, "- %s: %d points\n", v.SprintName, v.PointsCompleted)
	}
	if vb.Len() == 0 {
		vb.WriteString("- no history available\n")
	}
	return fmt.Sprintf(`You are planning the next sprint. Given the backlog below and the
team's velocity history, propose which tasks to commit. Keep the total
near the recent velocity; prefer ready, high-priority items.

Velocity history (oldest first):
%s
Backlog:
%s
Return a JSON object with keys "sprint_name", "goal", "task_ids" (array
of task id strings), and "total_points".
%s`, vb.String(), formatTasks(tasks), jsonOnly)
}

// ChatContext is the data assembled for a chat turn, already scoped to
// the caller's visibility.
type ChatContext struct {
	Tasks   []tracker.Task
	Updates []models.Standup
}

// BuildChatPrompt assembles a conversational prompt. Task and standup
// sections appear only when the caller's message asked about them (see
// WantsTaskContext / WantsStandupContext); callerEmail labels whose data
// the task section holds.
func BuildChatPrompt(message, callerEmail string, data ChatContext) string {
	var sb strings.Builder
	sb.WriteString("You are the assistant for a team standup dashboard. Answer the user's\n")
	sb.WriteString("question helpfully and concisely using the context provided. If the\n")
	sb.WriteString("context does not cover the question, say so instead of guessing.\n\n")

	if len(data.Tasks) > 0 {
		fmt.Fprintf(&sb, "Tasks visible to %s:\n%s\n", callerEmail, formatTasks(data.Tasks))
	}
	if len(data.Updates) > 0 {
		fmt.Fprintf(&sb, "Recent standup updates:\n%s\n", formatUpdates(data.Updates))
	}

	fmt.Fprintf(&sb, "User question: %s\n", message)
	return sb.String()
}
