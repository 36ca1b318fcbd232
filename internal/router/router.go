package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/project-manager/internal/access"
	"github.com/iliyamo/project-manager/internal/config"
	"github.com/iliyamo/project-manager/internal/handler"
	"github.com/iliyamo/project-manager/internal/middleware"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/repository"
)

// Register wires repositories, the access resolver and all handlers
// onto the Echo instance. Route-level gates follow one rule set:
// creation and project-status routes are manager routes (admins
// elevate), task status toggling is a developer route (no elevation),
// the /user surface is admin only, and everything else is gated per
// entity inside the handlers.
func Register(e *echo.Echo, cfg config.Config, db *sql.DB, rdb *redis.Client) {
	users := repository.NewUserRepo(db)
	projects := repository.NewProjectRepo(db)
	members := repository.NewProjectMemberRepo(db)
	tasks := repository.NewTaskRepo(db)
	resolver := access.NewResolver(projects, members, tasks)

	authH := handler.NewAuthHandler(cfg, users)
	projectH := handler.NewProjectHandler(projects, members, resolver)
	taskH := handler.NewTaskHandler(tasks, resolver)
	memberH := handler.NewProjectMemberHandler(members, resolver)
	userH := handler.NewUserHandler(users)
	dashH := handler.NewDashboardHandler(projects, tasks, members, resolver)
	healthH := handler.NewHealthHandler(db)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", healthH.Check)

	jwtAuth := middleware.JWTAuth(cfg.JWTSecret)
	jwtRefresh := middleware.JWTRefresh(cfg.JWTRefreshSecret)
	manager := middleware.RequireRole(model.RoleManager)
	developer := middleware.RequireRole(model.RoleDeveloper)
	admin := middleware.RequireRole(model.RoleAdmin)

	// The limiter buckets per (ip, user, route), so it must see the
	// principal: auth middleware first, limiter after. The open auth
	// routes have no principal and bucket per ip alone.
	e.POST("/auth/register", authH.Register, limiter)
	e.POST("/auth/login", authH.Login, limiter)
	e.POST("/auth/refresh", authH.Refresh, jwtRefresh, limiter)
	e.POST("/auth/logout", authH.Logout, jwtAuth, limiter)
	e.GET("/auth/me", authH.Me, jwtAuth, limiter)

	project := e.Group("/project", jwtAuth, limiter)
	project.POST("", projectH.Create, manager)
	project.GET("", projectH.List, cache)
	project.GET("/my-projects", projectH.Mine, cache)
	project.GET("/:id", projectH.Get, cache)
	project.PUT("/:id", projectH.Update)
	project.PATCH("/:id/status", projectH.UpdateStatus, manager)
	project.DELETE("/:id", projectH.Delete)

	task := e.Group("/task", jwtAuth, limiter)
	task.POST("", taskH.Create, manager)
	task.GET("", taskH.List, cache)
	task.GET("/my-tasks", taskH.Mine, cache)
	task.GET("/:id", taskH.Get, cache)
	task.PUT("/:id", taskH.Update)
	task.PATCH("/:id/status", taskH.UpdateStatus, developer)
	task.DELETE("/:id", taskH.Delete)

	member := e.Group("/project-member", jwtAuth, limiter)
	member.POST("", memberH.Sync, manager)
	member.GET("/:projectId", memberH.ListByProject, cache)

	// by-role lookup is open to any authenticated user (managers pick
	// developers from it); the rest of /user is the admin surface.
	e.GET("/user/by-role/:role", userH.ListByRole, jwtAuth, limiter, cache)

	user := e.Group("/user", jwtAuth, admin, limiter)
	user.POST("", userH.Create)
	user.GET("", userH.List, cache)
	user.GET("/:id", userH.Get, cache)
	user.PUT("/:id", userH.Update)
	user.DELETE("/:id", userH.Delete)

	e.GET("/dashboard", dashH.Overview, jwtAuth, limiter, cache)
}
