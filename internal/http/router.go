package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/caseline-backend/internal/http/handlers"
	httpMW "github.com/yungbote/caseline-backend/internal/http/middleware"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/observability"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

// Role expressions; {program} is replaced by the route program's slug.
const (
	RolesRead   = "admin-{program}|editor-{program}|viewer-{program}"
	RolesWrite  = "admin-{program}|editor-{program}"
	RolesDelete = "admin-{program}"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Tracing     bool
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware
	RoleMiddleware *httpMW.RoleMiddleware
	WebhookSecret  string

	AuthHandler    *httpH.AuthHandler
	PathwayHandler *httpH.PathwayHandler
	NoteHandler    *httpH.NoteHandler
	AlertHandler   *httpH.AlertHandler
	UsageHandler   *httpH.UsageHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	response.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthHandler != nil {
		api.POST("/login", cfg.AuthHandler.Login)
	}
	if cfg.UsageHandler != nil {
		api.POST("/webhooks/usage", httpMW.RequireWebhookSecret(cfg.WebhookSecret), cfg.UsageHandler.Record)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	if cfg.AuthHandler != nil {
		protected.GET("/me", cfg.AuthHandler.Me)
	}

	if cfg.RoleMiddleware == nil {
		return r
	}
	read := cfg.RoleMiddleware.RequireProgramRole(RolesRead)
	write := cfg.RoleMiddleware.RequireProgramRole(RolesWrite)
	admin := cfg.RoleMiddleware.RequireProgramRole(RolesDelete)

	program := protected.Group("/programs/:program_id")

	// Pathways & steps
	if h := cfg.PathwayHandler; h != nil {
		program.GET("/pathways", read, h.List)
		program.POST("/pathways", write, h.Create)
		program.GET("/pathways/:pathway_id", read, h.Get)
		program.DELETE("/pathways/:pathway_id", admin, h.Delete)

		program.GET("/pathways/:pathway_id/steps", read, h.ListSteps)
		program.POST("/pathways/:pathway_id/steps", write, h.CreateStep)
		program.GET("/pathways/:pathway_id/steps/:step_id", read, h.GetStep)
		program.PUT("/pathways/:pathway_id/steps/:step_id", write, h.UpdateStep)
		program.DELETE("/pathways/:pathway_id/steps/:step_id", write, h.DeleteStep)
	}

	// Notes
	if h := cfg.NoteHandler; h != nil {
		program.GET("/users/:user_id/notes", read, h.List)
		program.POST("/users/:user_id/notes", write, h.Create)
		program.PUT("/users/:user_id/notes/:note_id", write, h.Update)
		program.DELETE("/users/:user_id/notes/:note_id", write, h.Delete)
	}

	// Alerts
	if h := cfg.AlertHandler; h != nil {
		program.GET("/alerts", read, h.List)
		program.GET("/alerts/:alert_id", read, h.Get)
	}

	return r
}
