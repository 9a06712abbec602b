package middleware

import (
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const visitorCacheSize = 10_000

// RecoveryInterceptor turns a handler panic into codes.Internal.
func RecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return grpc_recovery.UnaryServerInterceptor(
		grpc_recovery.WithRecoveryHandler(func(p any) error {
			logger.Error("panic in gRPC handler", zap.Any("panic", p), zap.Stack("stack"))
			return status.Error(codes.Internal, "internal error")
		}),
	)
}

func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return grpc_zap.UnaryServerInterceptor(logger)
}

func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return grpc_prometheus.UnaryServerInterceptor
}

// ChainUnaryServer runs recovery innermost so a panic reaches the logging and
// metrics interceptors as an ordinary codes.Internal error.
func ChainUnaryServer(logger *zap.Logger, limit, burst int, idle time.Duration) grpc.UnaryServerInterceptor {
	return grpc_middleware.ChainUnaryServer(
		LoggingInterceptor(logger),
		MetricsInterceptor(),
		NewRateLimitPerIP(limit, burst, visitorCacheSize, idle),
		RecoveryInterceptor(logger),
	)
}
