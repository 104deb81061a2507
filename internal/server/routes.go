package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/sprintdeck/internal/ai"
	"github.com/zulandar/sprintdeck/internal/auth"
	"github.com/zulandar/sprintdeck/internal/config"
	"github.com/zulandar/sprintdeck/internal/sprint"
	"github.com/zulandar/sprintdeck/internal/standup"
	"github.com/zulandar/sprintdeck/internal/tracker"
	"gorm.io/gorm"
)

// trackerAPI is the slice of the tracker client the handlers use.
// *tracker.Client satisfies it; tests inject a fake.
type trackerAPI interface {
	GetTasks(ctx context.Context, listID string) ([]tracker.Task, error)
	GetTask(ctx context.Context, taskID string) (tracker.Task, error)
	UpdateTask(ctx context.Context, taskID string, update tracker.TaskUpdate) (tracker.Task, error)
	CreateList(ctx context.Context, folderID, name string) (tracker.List, error)
}

// handlers carries the dependencies shared by all route handlers.
type handlers struct {
	db       *gorm.DB
	cfg      *config.Config
	standups *standup.Store
	sprints  *sprint.Store
	tracker  trackerAPI
	gen      ai.Generator
}

// newRouter builds the gin engine with the full route table. Everything
// under /api requires authentication; /health does not.
func newRouter(opts StartOpts) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &handlers{
		db:       opts.DB,
		cfg:      opts.Cfg,
		standups: opts.Standups,
		sprints:  opts.Sprints,
		tracker:  opts.Tracker,
		gen:      opts.Gen,
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(auth.Middleware(opts.Resolver))
	registerRoutes(api, h)

	return router
}

// registerRoutes attaches the authenticated API routes to a group. Split
// out so handler tests can mount the table without the auth middleware.
func registerRoutes(api *gin.RouterGroup, h *handlers) {
	api.GET("/standups", h.listStandups)
	api.POST("/standups", h.createStandup)
	api.POST("/summary", h.summarize)

	api.GET("/backlog", h.listBacklog)
	api.POST("/groom", h.groomTask)
	api.POST("/backlog/analyze", h.analyzeBacklog)

	api.GET("/tasks", h.listTasks)
	api.PUT("/tasks/:id/status", h.updateTaskStatus)

	api.GET("/sprint/current", h.currentSprint)
	api.GET("/sprint/burnup", h.sprintBurnup)
	api.GET("/sprint/risk", h.sprintRisk)
	api.POST("/sprint/analyze-risk", h.analyzeSprintRisk)
	api.GET("/sprint/velocity", h.sprintVelocity)

	api.POST("/chat", h.chat)

	api.GET("/teams", h.listTeams)
	api.POST("/teams", auth.RequireAdmin(), h.createTeam)
	api.GET("/users", auth.RequireAdmin(), h.listUsers)
	api.PUT("/users/:id/team", auth.RequireAdmin(), h.assignUserTeam)
	api.GET("/users/me", h.currentUser)
	api.PUT("/users/me", h.updateCurrentUser)

	api.POST("/planning/analyze", h.analyzeBacklog)
	api.POST("/planning/propose", h.proposeSprint)
	api.POST("/planning/start", auth.RequireAdmin(), h.startSprint)
}
