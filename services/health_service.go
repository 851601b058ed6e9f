package services

import (
	"context"
	"errors"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/config"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"go.uber.org/zap"
)

// Pinger is implemented by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIKeyChecker reports whether the upstream API key is usable without
// logging anything.
type APIKeyChecker interface {
	CheckAPIKey() error
}

type HealthService struct {
	dbPool    Pinger
	keys      APIKeyChecker
	version   string
	startTime time.Time
	log       *zap.SugaredLogger
}

// NewHealthService creates the service. dbPool is nil when reviews are kept
// in a file.
func NewHealthService(dbPool Pinger, keys APIKeyChecker, version string) *HealthService {
	return &HealthService{
		dbPool:    dbPool,
		keys:      keys,
		version:   version,
		startTime: time.Now(),
		log:       logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	if h.dbPool != nil {
		dbStatus := h.checkDatabase(ctx)
		components["database"] = dbStatus
		if dbStatus.Status == types.HealthStatusDown {
			overallStatus = types.HealthStatusDown
		}
	}

	// A missing key only breaks submissions; reviews and static pages still work.
	keyStatus := h.checkAPIKey()
	components["api_key"] = keyStatus
	if keyStatus.Status != types.HealthStatusUp && overallStatus == types.HealthStatusUp {
		overallStatus = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.dbPool.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}

func (h *HealthService) checkAPIKey() types.HealthComponent {
	err := h.keys.CheckAPIKey()
	switch {
	case err == nil:
		return types.HealthComponent{
			Status: types.HealthStatusUp,
		}
	case errors.Is(err, config.ErrAPIKeyEmpty):
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "API key file is empty",
		}
	default:
		h.log.Debugw("API key check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "API key file missing or unreadable",
		}
	}
}
