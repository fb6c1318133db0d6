// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ai-story-api/internal/config"
	"ai-story-api/internal/interfaces/http/handler"
	"ai-story-api/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	stories *handler.StoryHandler
	health  *handler.HealthHandler
	limiter middleware.RateLimiter
}

// New 创建新的路由器；limiter 为 nil 时不限流
func New(cfg *config.Config, stories *handler.StoryHandler, health *handler.HealthHandler, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		stories: stories,
		health:  health,
		limiter: limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Audit(middleware.DefaultAuditSkipPaths...))
	r.engine.Use(middleware.BodyLimit(r.cfg.Server.HTTP.MaxBodyBytes))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/", handler.Welcome)

	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	// 前端通过 /api 前缀访问，保留根路径兼容旧客户端
	r.registerStoryRoutes(&r.engine.RouterGroup)
	r.registerStoryRoutes(r.engine.Group("/api"))
}

func (r *Router) registerStoryRoutes(g *gin.RouterGroup) {
	limit := middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter, middleware.EndpointKey("generate_story"))

	g.POST("/generate_story", limit, r.stories.GenerateStory)
	g.POST("/save_story", r.stories.SaveStory)
	g.GET("/get_stories", r.stories.ListStories)
	g.GET("/stories", r.stories.ListStories)
	g.DELETE("/stories/:id", r.stories.DeleteStory)
}
