package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	dto "github.com/Zim95/browseterm-server/internal/http/dto/health"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Check es un ping de un componente.
type Check func(ctx context.Context) error

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	// Critical: si alguno falla el servicio queda "unavailable".
	Critical map[string]Check
	// Optional: si alguno falla el servicio queda "degraded".
	Optional map[string]Check
	Version  string
	Timeout  time.Duration // por check; default 2s
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	resp := dto.HealthResponse{
		Components: make(map[string]dto.HealthStatus, len(s.deps.Critical)+len(s.deps.Optional)),
		Version:    s.deps.Version,
		Timestamp:  time.Now().UTC(),
	}

	var (
		mu       sync.Mutex
		critical bool
		degraded bool
	)
	record := func(name string, err error, isCritical bool) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			resp.Components[name] = dto.HealthStatus{Status: "ok"}
			return
		}
		resp.Components[name] = dto.HealthStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
		if isCritical {
			critical = true
		} else {
			degraded = true
		}
		log.Warn("component unavailable", logger.String("component", name), logger.Err(err))
	}

	// Los checks no cortan el grupo: cada uno reporta su propio estado.
	var g errgroup.Group
	run := func(checks map[string]Check, isCritical bool) {
		for name, check := range checks {
			name, check := name, check
			g.Go(func() error {
				cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
				defer cancel()
				record(name, check(cctx), isCritical)
				return nil
			})
		}
	}
	run(s.deps.Critical, true)
	run(s.deps.Optional, false)
	_ = g.Wait()

	switch {
	case critical:
		resp.Status = "unavailable"
	case degraded:
		resp.Status = "degraded"
	default:
		resp.Status = "ready"
	}
	return resp
}
