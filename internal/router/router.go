package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/virtual-tour/internal/config"
	"github.com/iliyamo/virtual-tour/internal/handler"
	"github.com/iliyamo/virtual-tour/internal/middleware"
)

// Register wires every route of the application onto the Echo instance.
//
// All routes run behind the session middleware so read handlers can see
// the admin flag of a logged-in user; only the mutation routes and /admin
// are actually gated. The Redis-backed limiter and the static response
// cache turn into no-ops when rdb is nil.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	auth *handler.AuthHandler, pub *handler.PublicHandler, admin *handler.AdminHandler) {

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.Session(cfg.SessionSecret))

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public read surface.
	e.GET("/", pub.Index)
	e.GET("/map", pub.MapPOIs)
	e.GET("/tour/:scene_id", pub.Scene)

	// Session endpoints.
	e.GET("/login", auth.LoginForm)
	e.POST("/login", auth.Login)
	e.GET("/logout", auth.Logout, middleware.RequireLogin)

	// Admin-only tour content mutations. The original UI posts forms to
	// these flat paths, so they are kept instead of a nested REST layout.
	g := e.Group("", middleware.RequireAdmin)
	g.POST("/add_poster", admin.AddPoster)
	g.POST("/update_poster", admin.UpdatePoster)
	g.POST("/delete_poster", admin.DeletePoster)
	g.POST("/add_nav", admin.AddNav)
	g.POST("/update_nav", admin.UpdateNav)
	g.POST("/delete_nav", admin.DeleteNav)
	g.GET("/admin", admin.Posters)

	// Static assets; the panorama images may additionally be served from
	// the Redis response cache.
	static := handler.NewStaticHandler(cfg.StaticDir)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/:file", static.Image, cache)
	e.GET("/sw.js", static.ServiceWorker)
}
