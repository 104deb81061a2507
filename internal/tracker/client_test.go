package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zulandar/sprintdeck/internal/config"
)

func testConfig() config.ClickUpConfig {
	return config.ClickUpConfig{APIKey: "pk_test", CacheTTLSec: 60, TimeoutSec: 5}
}

func TestGetTasks_FetchAndCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/list/901/task" {
			t.Errorf("path = %q, want /list/901/task", r.URL.Path)
		}
		if r.URL.Query().Get("archived") != "false" {
			t.Errorf("archived = %q, want false", r.URL.Query().Get("archived"))
		}
		if r.Header.Get("Authorization") != "pk_test" {
			t.Errorf("Authorization = %q, want pk_test", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tasks": []Task{{ID: "t1", Name: "Build login"}},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)
	ctx := context.Background()

	tasks, err := c.GetTasks(ctx, "901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("tasks = %+v, want one task t1", tasks)
	}

	// Second call within TTL hits the cache.
	if _, err := c.GetTasks(ctx, "901"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1 (cached)", got)
	}
}

func TestUpdateTask_InvalidatesCache(t *testing.T) {
	var listCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			atomic.AddInt32(&listCalls, 1)
			json.NewEncoder(w).Encode(map[string]interface{}{"tasks": []Task{{ID: "t1"}}})
		case r.Method == http.MethodPut:
			var update TaskUpdate
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				t.Errorf("decode update: %v", err)
			}
			if update.Status != "complete" {
				t.Errorf("Status = %q, want complete", update.Status)
			}
			json.NewEncoder(w).Encode(Task{ID: "t1", Status: TaskStatus{Status: "complete"}})
		}
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)
	ctx := context.Background()

	if _, err := c.GetTasks(ctx, "901"); err != nil {
		t.Fatal(err)
	}
	task, err := c.UpdateTask(ctx, "t1", TaskUpdate{Status: "complete"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if task.Status.Status != "complete" {
		t.Errorf("Status = %q, want complete", task.Status.Status)
	}

	if _, err := c.GetTasks(ctx, "901"); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&listCalls); got != 2 {
		t.Errorf("list calls = %d, want 2 (cache invalidated by update)", got)
	}
}

func TestDo_NonSuccessIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"err":"Team not authorized"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)
	_, err := c.GetTasks(context.Background(), "901")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}

func TestDo_MissingAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	c := New(cfg)
	_, err := c.GetTasks(context.Background(), "901")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestCreateList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/folder/555/list" {
			t.Errorf("%s %s, want POST /folder/555/list", r.Method, r.URL.Path)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["name"] != "Sprint 35" {
			t.Errorf("name = %q, want Sprint 35", payload["name"])
		}
		json.NewEncoder(w).Encode(List{ID: "L9", Name: "Sprint 35"})
	}))
	defer srv.Close()

	c := NewWithBaseURL(testConfig(), srv.URL)
	list, err := c.CreateList(context.Background(), "555", "Sprint 35")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.ID != "L9" {
		t.Errorf("list.ID = %q, want L9", list.ID)
	}
}

func TestFilterByAssignee(t *testing.T) {
	tasks := []Task{
		{ID: "t1", Assignees: []Assignee{{Email: "Dev@Co.IO"}}},
		{ID: "t2", Assignees: []Assignee{{Email: "other@co.io"}}},
		{ID: "t3"},
		{ID: "t4", Assignees: []Assignee{{Email: "other@co.io"}, {Email: "dev@co.io"}}},
	}
	got := FilterByAssignee(tasks, "dev@co.io")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t4" {
		t.Errorf("ids = %s,%s want t1,t4", got[0].ID, got[1].ID)
	}
}

func TestTaskCache_Expiry(t *testing.T) {
	cache := newTaskCache(time.Minute)
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	now := base
	cache.now = func() time.Time { return now }

	cache.put("901", []Task{{ID: "t1"}})
	if _, ok := cache.get("901"); !ok {
		t.Fatal("expected fresh entry")
	}

	now = base.Add(2 * time.Minute)
	if _, ok := cache.get("901"); ok {
		t.Error("expected entry to expire after TTL")
	}
}

func TestTaskCache_ZeroTTLDisables(t *testing.T) {
	cache := newTaskCache(0)
	cache.put("901", []Task{{ID: "t1"}})
	if _, ok := cache.get("901"); ok {
		t.Error("zero TTL must disable caching")
	}
}
