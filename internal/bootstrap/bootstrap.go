package bootstrap

import (
	"strings"

	"contact-relay/config"
	"contact-relay/internal/delivery/http/middleware"
	v1 "contact-relay/internal/delivery/http/v1"
	"contact-relay/internal/usecase"
	"contact-relay/pkg/email"
	"contact-relay/pkg/logger"
	"contact-relay/pkg/security"
	"contact-relay/pkg/validation"
)

// App holds the wired contact pipeline for any hosting shell.
type App struct {
	Config  *config.Config
	Contact *v1.ContactHandler
	Health  usecase.HealthUsecase
	CORS    middleware.CORSPolicy
	Events  *security.SecurityLogger
}

// New loads configuration, initialises logging and wires the pipeline.
func New() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)
	return Wire(cfg), nil
}

// Wire builds the pipeline from an already-loaded config.
func Wire(cfg *config.Config) *App {
	events := security.InitSecurityLogger(cfg.ServiceName, security.Environment())

	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Log.Warn("Email service not fully configured - contact form will answer 503",
			"missing", strings.Join(missing, ","))
	}
	if cfg.CORSMode == config.CORSModeFixed && len(cfg.CORSAllowedOrigins) == 0 {
		logger.Log.Warn("CORS_ALLOWED_ORIGIN not set - allowing any origin")
	}
	if cfg.CORSMode == config.CORSModeReflect {
		logger.Log.Warn("CORS_MODE=reflect echoes any Origin; use only for credential-less endpoints")
	}

	mailer := email.NewMailerSendClient(cfg)
	contactUC := usecase.NewContactUsecase(mailer, validation.New(), cfg)
	cors := middleware.NewCORSPolicy(cfg)

	return &App{
		Config: cfg,
		Contact: v1.NewContactHandler(v1.ContactHandlerDeps{
			ContactUC:    contactUC,
			CORS:         cors,
			Events:       events,
			MaxBodyBytes: cfg.MaxBodyBytes,
		}),
		Health: usecase.NewHealthUsecase(cfg),
		CORS:   cors,
		Events: events,
	}
}
