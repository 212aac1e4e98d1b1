// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	applicationsfeature "github.com/dalemusser/internportal/internal/app/features/applications"
	assignmentsfeature "github.com/dalemusser/internportal/internal/app/features/assignments"
	authfirebasefeature "github.com/dalemusser/internportal/internal/app/features/authfirebase"
	errorsfeature "github.com/dalemusser/internportal/internal/app/features/errors"
	filesfeature "github.com/dalemusser/internportal/internal/app/features/files"
	healthfeature "github.com/dalemusser/internportal/internal/app/features/health"
	internshipsfeature "github.com/dalemusser/internportal/internal/app/features/internships"
	progressfeature "github.com/dalemusser/internportal/internal/app/features/progress"
	tasksfeature "github.com/dalemusser/internportal/internal/app/features/tasks"
	usersfeature "github.com/dalemusser/internportal/internal/app/features/users"
	"github.com/dalemusser/internportal/internal/app/services/identity"
	"github.com/dalemusser/internportal/internal/app/services/intake"
	"github.com/dalemusser/internportal/internal/app/services/reporting"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/store/audit"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/dalemusser/internportal/internal/app/system/httpmetrics"
	"github.com/dalemusser/internportal/internal/app/system/limits"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The portal is a JSON API: it builds the domain services once, applies
// the request middleware stack, and mounts one router per feature area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Auth == nil || deps.Auth.Tokens == nil || deps.Auth.Verifier == nil {
		return nil, fmt.Errorf("identity not initialized; Startup must run before BuildHandler")
	}
	db := deps.MongoDatabase

	// Domain services
	identitySvc := identity.New(db, deps.Auth.Verifier, deps.Auth.Tokens, logger)
	workflowSvc := workflow.New(db, logger)
	intakeSvc := intake.New(db, deps.Blobs, workflowSvc, logger)
	reportingSvc := reporting.New(db)

	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	errLog := errorsfeature.NewErrorLogger(logger)
	sessionMgr := auth.NewSessionManager(deps.Auth.Tokens, logger)
	metrics := httpmetrics.New("internportal")
	maxUpload := limits.UploadBytes(appCfg.MaxUploadMB)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)

	// Global auth middleware: validates a bearer credential when present and
	// places the caller in the request context. Gates live on each router.
	r.Use(sessionMgr.LoadSessionUser)

	// Fallbacks are set before mounting so sub-routers inherit them.
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.StorageType, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Identity: /firebase-register, /firebase-login, /token
	authHandler := authfirebasefeature.NewHandler(identitySvc, auditLog, errLog, logger)
	r.Mount("/", authfirebasefeature.Routes(authHandler))

	usersHandler := usersfeature.NewHandler(identitySvc, workflowSvc, auditStore, errLog)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Internships, including applying
	internshipsHandler := internshipsfeature.NewHandler(workflowSvc, intakeSvc, auditLog, errLog, maxUpload, logger)
	r.Mount("/internships", internshipsfeature.Routes(internshipsHandler, sessionMgr))

	applicationsHandler := applicationsfeature.NewHandler(workflowSvc, auditLog, errLog)
	r.Mount("/applications", applicationsfeature.Routes(applicationsHandler, sessionMgr))

	// Tasks, assignment and submission
	tasksHandler := tasksfeature.NewHandler(workflowSvc, intakeSvc, reportingSvc, auditLog, errLog, maxUpload, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	assignmentsHandler := assignmentsfeature.NewHandler(workflowSvc, auditLog, errLog)
	r.Mount("/assignments", assignmentsfeature.Routes(assignmentsHandler, sessionMgr))

	// Reporting
	progressHandler := progressfeature.NewHandler(reportingSvc, errLog)
	r.Mount("/internees", progressfeature.Routes(progressHandler, sessionMgr))

	// Stored artifacts
	filesHandler := filesfeature.NewHandler(intakeSvc, errLog, logger)
	r.Mount("/files", filesfeature.Routes(filesHandler, sessionMgr))

	return r, nil
}
