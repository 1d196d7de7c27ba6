package usecase

import (
	"context"
	"strings"

	"contact-relay/config"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	cfg *config.Config
}

func NewHealthUsecase(cfg *config.Config) HealthUsecase {
	return &healthUsecase{cfg: cfg}
}

// Check reports "degraded" while the mail settings are incomplete. Secret
// values are never echoed, only the names of missing keys.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	missing := u.cfg.Missing()
	if len(missing) > 0 {
		return map[string]string{
			"status":  "degraded",
			"email":   "not_configured",
			"missing": strings.Join(missing, ","),
		}
	}
	return map[string]string{
		"status": "ok",
		"email":  "configured",
	}
}
