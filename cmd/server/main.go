package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"store-backend/internal/auth"
	"store-backend/internal/cache"
	"store-backend/internal/config"
	"store-backend/internal/database"
	"store-backend/internal/db"
	"store-backend/internal/handlers"
	"store-backend/internal/health"
	h "store-backend/internal/http"
	"store-backend/internal/logger"
	"store-backend/internal/middleware"
	"store-backend/internal/repositories"
	"store-backend/internal/services"
	"store-backend/internal/storage"
	"store-backend/migrations"
)

// redisPinger adapts a go-redis client to health.Pinger.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Fatal("postgres unavailable", zap.Error(err))
	}
	defer pool.Close()
	lg.Info("postgres connected", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.NewMigrator(pool, migrations.FS).RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		lg.Fatal("migrations failed", zap.Error(err))
	}

	erp, err := openERP(ctx, cfg.ERP, lg)
	if err != nil {
		lg.Fatal("erp unavailable", zap.Error(err))
	}
	defer erp.Close()

	clock := cache.SystemClock
	group := cache.NewGroup(lg.Named("cache"))

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			lg.Warn("redis unavailable, caches stay process-local", zap.Error(err))
		} else {
			defer redisClient.Close()
			bus := cache.NewBus(redisClient, cfg.Redis.Channel, lg.Named("bus"))
			group.SetPublisher(bus)
			onRemote := func() { group.InvalidateLocal("remote") }
			if err := bus.Listen(ctx, onRemote); err != nil {
				lg.Warn("cache bus subscribe failed", zap.Error(err))
			}
		}
	}

	var archive services.Archiver
	if cfg.Export.Enabled {
		a, err := storage.NewS3Archive(ctx, cfg.Export)
		if err != nil {
			lg.Warn("export archive disabled", zap.Error(err))
		} else {
			archive = a
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHours)

	// Repositories
	indentRepo := repositories.NewIndentRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	erpRepo := repositories.NewERPRepository(erp)

	// Services
	indentService := services.NewIndentService(indentRepo, group, lg)
	storeIndentService := services.NewStoreIndentService(erpRepo, cfg.Cache.PageTTL, clock, group)
	dashboardService := services.NewDashboardService(erpRepo, cfg.Cache.DashboardTTL, clock, lg)
	group.Add(dashboardService)
	poService := services.NewPOService(erpRepo)
	stockService := services.NewStockService(erpRepo, cfg.Cache.StockTTL, clock, lg)
	itemService := services.NewItemService(erpRepo, cfg.Cache.ItemTTL, clock)
	userService := services.NewUserService(userRepo, jwtManager, lg)
	reportService := services.NewReportService(archive, lg)

	var erpPinger health.Pinger
	if cfg.ERP.Enabled {
		erpPinger = erpRepo
	}
	checker := newHealthChecker(pool, erpPinger, redisClient)

	router := h.NewRouter(h.Handlers{
		Auth:        handlers.NewAuthHandler(userService),
		Indent:      handlers.NewIndentHandler(indentService),
		StoreIndent: handlers.NewStoreIndentHandler(storeIndentService, dashboardService, reportService),
		PO:          handlers.NewPOHandler(poService, reportService),
		Stock:       handlers.NewStockHandler(stockService),
		Item:        handlers.NewItemHandler(itemService),
		Health:      handlers.NewHealthHandler(checker),
	}, middleware.NewAuthMiddleware(jwtManager))

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.RequestID(middleware.PanicRecovery(middleware.AccessLog(lg)(corsMiddleware(router))))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		lg.Info("server listening", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		lg.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

// openERP dials the ERP when it is enabled. A disabled ERP is opened lazily
// so its routes answer 503 instead of keeping the server down.
func openERP(ctx context.Context, cfg config.ERPConfig, lg *zap.Logger) (*sql.DB, error) {
	if !cfg.Enabled {
		lg.Warn("erp disabled, ERP routes will report the database unavailable")
		return db.OpenERP(cfg)
	}
	erp, err := db.ConnectERP(ctx, cfg)
	if err != nil {
		return nil, err
	}
	lg.Info("erp connected", zap.String("host", cfg.Host), zap.String("service", cfg.Service))
	return erp, nil
}

func newHealthChecker(pool *pgxpool.Pool, erp health.Pinger, redisClient *redis.Client) *health.HealthChecker {
	checker := health.NewHealthChecker().
		Add("postgres", pool).
		Add("erp", erp)
	if redisClient != nil {
		checker.Add("redis", redisPinger{client: redisClient})
	}
	return checker
}
