// Package tracker is the bridge to the ClickUp issue tracker: task and
// list access, a short-lived read cache, and assignee scoping.
package tracker

// Task is the subset of a ClickUp task this service reads and forwards.
// Tasks are not owned locally; every read reflects the remote state at
// fetch time.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    *Priority  `json:"priority,omitempty"`
	Assignees   []Assignee `json:"assignees,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	// Points is the sprint-points estimate; nil when unestimated.
	Points *float64 `json:"points,omitempty"`
}

// TaskStatus is the nested status object ClickUp returns.
type TaskStatus struct {
	Status string `json:"status"`
	Color  string `json:"color,omitempty"`
}

// Priority is the nested priority object; absent on unprioritized tasks.
type Priority struct {
	Priority string `json:"priority"`
	Color    string `json:"color,omitempty"`
}

// Assignee identifies a task assignee by tracker-side identity.
type Assignee struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Tag is a ClickUp task tag.
type Tag struct {
	Name string `json:"name"`
}

// List is a ClickUp list.
type List struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Folder *Folder `json:"folder,omitempty"`
}

// Folder is a ClickUp folder, the parent of lists.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskUpdate carries the fields an update call may change. Nil/zero fields
// are omitted from the request.
type TaskUpdate struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}
