package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/TintinDu/BilledApp/internal/application/service"
	"github.com/TintinDu/BilledApp/internal/config"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
	"github.com/TintinDu/BilledApp/internal/export"
	"github.com/TintinDu/BilledApp/internal/infrastructure/navigation"
	"github.com/TintinDu/BilledApp/internal/infrastructure/persistence/repository"
	"github.com/TintinDu/BilledApp/internal/infrastructure/session"
	"github.com/TintinDu/BilledApp/internal/infrastructure/storage"
	"github.com/TintinDu/BilledApp/internal/infrastructure/store"
	httpserver "github.com/TintinDu/BilledApp/internal/interfaces/http"
	"github.com/TintinDu/BilledApp/pkg/database"
	"github.com/TintinDu/BilledApp/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Billed expense service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Create the receipts directory
	if err := os.MkdirAll(cfg.Storage.ReceiptsDir, 0755); err != nil {
		logger.Fatal("Failed to create receipts directory", zap.Error(err))
	}

	// Initialize infrastructure
	billRepo := repository.NewBillRepository(db.DB, logger)
	receiptStorage := storage.NewLocalArtifactStorage(cfg.Storage.ReceiptsDir, cfg.Storage.PublicURL, logger)
	billStore := store.NewBillStore(billRepo, receiptStorage, logger)
	navigator := navigation.NewLogNavigator(logger)

	// Resolve the session capability. Without Redis the service runs with
	// the configured static identity.
	userSession := session.Static(&entity.User{
		Email: cfg.Session.StaticEmail,
		Type:  cfg.Session.StaticType,
	})
	if cfg.Session.RedisAddr != "" {
		client, err := session.OpenRedis(cfg.Session.RedisAddr, cfg.Session.RedisDB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()

		sessionStore := session.NewStore(client, cfg.Session.TTL)
		userSession = sessionStore.ForToken(os.Getenv("SESSION_TOKEN"))
		logger.Info("Session lookup bound to Redis", zap.String("addr", cfg.Session.RedisAddr))
	}

	// Initialize application services
	kvLogger := utils.NewKVLogger(logger)
	uploadService := service.NewUploadService(billStore, userSession, kvLogger)
	billService := service.NewBillService(billStore, userSession, navigator, uploadService, kvLogger)
	triageService := service.NewTriageService(billStore, userSession, navigator, kvLogger)
	exporter := export.NewExporter(logger)

	// Initialize HTTP server
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReceiptsDir:  cfg.Storage.ReceiptsDir,
	}, uploadService, billService, triageService, exporter, kvLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	// Let background persistence settle before exit.
	billService.Flush()
	triageService.Flush()

	logger.Info("Server exited successfully")
}
