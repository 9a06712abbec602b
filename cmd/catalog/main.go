package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	pgrepo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/db/postgres"
	redisrepo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/db/redis"
	grpchealth "github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/grpc"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/handler"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/auth/jwt"
	authsvc "github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/auth/service"
	catalogsvc "github.com/Miraines/MoonyAndStarry/catalog-service/internal/app/catalog/service"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/bootstrap"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/config"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/health"
	lg "github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/server"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/validation"
)

const (
	healthInterval     = 15 * time.Second
	rateLimitCacheSize = 10_000
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}
	if version, dirty, err := migrate.Version(sqlDB); err == nil {
		zapLog.Info("schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	validate := validation.New()

	jwtUtil, err := jwt.NewJWTUtil(cfg.JWT)
	if err != nil {
		if customErrors.IsConfig(err) {
			zapLog.Fatal("JWT is not configured", zap.Error(err))
		}
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	auth := authsvc.New(
		pgrepo.NewPostgresUserRepo(db),
		pgrepo.NewPostgresRoleRepo(db),
		redisrepo.NewRedisTokenRepo(redisCli),
		jwtUtil, cfg, validate, zapLog,
	)
	uow := pgrepo.NewUnitOfWork(db)
	categories := catalogsvc.NewCategoryService(uow, validate, zapLog)
	products := catalogsvc.NewProductService(uow, validate, zapLog)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.EnsureAdmin(rootCtx, cfg.Admin, auth, zapLog); err != nil {
		zapLog.Fatal("bootstrap admin", zap.Error(err))
	}

	checker := health.NewChecker(db, redisCli)
	httpMetrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLog))
	router.Use(httpMetrics.Handler())
	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length", "Location", handler.PaginationHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	handler.RegisterRoutes(router, handler.Deps{
		Auth:           handler.NewAuthHandler(auth),
		Categories:     handler.NewCategoryHandler(categories),
		Products:       handler.NewProductHandler(products),
		Authenticator:  auth,
		ExclusiveUsers: cfg.ExclusiveUsers,
		RateLimit:      middleware.NewFixedWindowPerIP(cfg.RateLimit.Permits, cfg.RateLimit.Window, rateLimitCacheSize),
		Health:         checker,
		Metrics:        promhttp.Handler(),
	})

	healthHandler := grpchealth.NewHealthHandler(checker, zapLog)

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg, router, zapLog)
	})
	g.Go(func() error {
		return server.StartGRPCServer(ctx, cfg, healthHandler.Server(), zapLog)
	})
	g.Go(func() error {
		healthHandler.Watch(ctx, healthInterval)
		return nil
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
	zapLog.Info("shutdown complete")
}
