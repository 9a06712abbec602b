package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name under which the catalog reports its health.
const ServiceName = "catalog.v1.Catalog"

type Checker interface {
	Check(ctx context.Context) error
}

// HealthHandler publishes dependency health through grpc.health.v1.
type HealthHandler struct {
	srv     *health.Server
	checker Checker
	logger  *zap.Logger
}

func NewHealthHandler(checker Checker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		srv:     health.NewServer(),
		checker: checker,
		logger:  logger,
	}
}

func (h *HealthHandler) Server() healthpb.HealthServer {
	return h.srv
}

// Probe runs one check and updates the overall and per-service status.
func (h *HealthHandler) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := h.checker.Check(ctx); err != nil {
		h.logger.Warn("health probe failed", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(ServiceName, st)
	return st
}

// Watch probes every interval until ctx ends, then marks the service as
// shutting down.
func (h *HealthHandler) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			h.Probe(probeCtx)
			cancel()
		}
	}
}
