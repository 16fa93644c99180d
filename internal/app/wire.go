package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	httpserver "github.com/yungbote/caseline-backend/internal/http"
	httpH "github.com/yungbote/caseline-backend/internal/http/handlers"
	httpMW "github.com/yungbote/caseline-backend/internal/http/middleware"
	"github.com/yungbote/caseline-backend/internal/http/resources"
	"github.com/yungbote/caseline-backend/internal/observability"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/realtime/bus"
	"github.com/yungbote/caseline-backend/internal/services"
)

type Repos struct {
	Program repos.ProgramRepo
	User    repos.UserRepo
	Pathway repos.PathwayRepo
	Step    repos.StepRepo
	Alert   repos.AlertRepo
	Note    repos.NoteRepo
	Account repos.AccountRepo
	Usage   repos.UsageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Program: repos.NewProgramRepo(db, log),
		User:    repos.NewUserRepo(db, log),
		Pathway: repos.NewPathwayRepo(db, log),
		Step:    repos.NewStepRepo(db, log),
		Alert:   repos.NewAlertRepo(db, log),
		Note:    repos.NewNoteRepo(db, log),
		Account: repos.NewAccountRepo(db, log),
		Usage:   repos.NewUsageRepo(db, log),
	}
}

type Services struct {
	Writer *aggregates.Writer

	Auth    services.AuthService
	Alert   services.AlertService
	Pathway services.PathwayService
	Note    services.NoteService
	Usage   services.UsageService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics, events bus.Bus) Services {
	log.Info("Wiring services...")
	deps := aggregates.BaseDeps{DB: db}
	var observer services.AdjustmentObserver
	if metrics != nil {
		deps.Hooks = metrics
		observer = metrics
	}
	writer := aggregates.NewWriter(deps)

	alerts := services.NewAlertService(db, log, r.Step, r.Alert, observer)
	return Services{
		Writer:  writer,
		Auth:    services.NewAuthService(db, log, writer, r.User, r.Program, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Alert:   alerts,
		Pathway: services.NewPathwayService(db, log, writer, r.Pathway, r.Step, alerts, events),
		Note:    services.NewNoteService(db, log, writer, r.Program, r.User, r.Note),
		Usage:   services.NewUsageService(db, log, writer, r.Account, r.Usage),
	}
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
	Role *httpMW.RoleMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
		Role: httpMW.NewRoleMiddleware(log, s.Auth),
	}
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	Pathway *httpH.PathwayHandler
	Note    *httpH.NoteHandler
	Alert   *httpH.AlertHandler
	Usage   *httpH.UsageHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	tr := resources.NewTransformer(resources.DefaultTimestampPolicy(), types.DefaultCatalog())
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Auth:    httpH.NewAuthHandler(log, s.Auth, tr),
		Pathway: httpH.NewPathwayHandler(log, s.Pathway, tr),
		Note:    httpH.NewNoteHandler(log, s.Note, tr),
		Alert:   httpH.NewAlertHandler(log, s.Alert, tr),
		Usage:   httpH.NewUsageHandler(log, s.Usage, tr),
	}
}

func wireServer(log *logger.Logger, cfg Config, tracing bool, metrics *observability.Metrics, mw Middleware, h Handlers) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		CORSOrigins:    cfg.CORSOrigins,
		Tracing:        tracing,
		Metrics:        metrics,
		AuthMiddleware: mw.Auth,
		RoleMiddleware: mw.Role,
		WebhookSecret:  cfg.WebhookSecret,
		AuthHandler:    h.Auth,
		PathwayHandler: h.Pathway,
		NoteHandler:    h.Note,
		AlertHandler:   h.Alert,
		UsageHandler:   h.Usage,
		HealthHandler:  h.Health,
	})
}
