package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/intersul/copimanager/internal/application/service"
	"github.com/intersul/copimanager/internal/auth"
	"github.com/intersul/copimanager/internal/config"
	"github.com/intersul/copimanager/internal/infrastructure/persistence/repository"
	"github.com/intersul/copimanager/internal/infrastructure/persistence/sqlite"
	"github.com/intersul/copimanager/internal/infrastructure/storage"
	httpserver "github.com/intersul/copimanager/internal/interfaces/http"
	"github.com/intersul/copimanager/pkg/database"
	"github.com/intersul/copimanager/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

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

	logger.Info("Starting copy machine management system",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

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

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BaseDir)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Repositories
	txManager := sqlite.NewDB(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	clientRepo := repository.NewClientRepository(db.DB, logger)
	catalogRepo := repository.NewCatalogRepository(db.DB, logger)
	machineRepo := repository.NewClientMachineRepository(db.DB, logger)
	serviceRepo := repository.NewServiceRepository(db.DB, logger)
	maintenanceRepo := repository.NewMaintenanceRepository(db.DB, logger)
	stepRepo := repository.NewStepRepository(db.DB, logger)
	approvalRepo := repository.NewApprovalRepository(db.DB, logger)
	imageRepo := repository.NewImageRepository(db.DB, logger)
	supplyRepo := repository.NewSupplyRepository(db.DB, logger)
	categoryRepo := repository.NewCategoryRepository(db.DB, logger)

	// Application services
	kv := utils.NewKVLogger(logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	workflowService := service.NewWorkflowService(
		serviceRepo, maintenanceRepo, stepRepo,
		clientRepo, machineRepo, userRepo,
		txManager, kv,
	)

	services := httpserver.Services{
		Auth:     service.NewAuthService(userRepo, tokens, kv),
		Client:   service.NewClientService(clientRepo, kv),
		Catalog:  service.NewCatalogService(catalogRepo, fileStorage, kv),
		Machine:  service.NewMachineService(machineRepo, clientRepo, catalogRepo, kv),
		Workflow: workflowService,
		Annex:    service.NewAnnexService(approvalRepo, imageRepo, stepRepo, userRepo, fileStorage, kv),
		Supply:   service.NewSupplyService(supplyRepo, kv),
		Category: service.NewCategoryService(categoryRepo, kv),
		Report:   service.NewReportService(workflowService, kv),
	}

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		MaxUploadSize: cfg.Storage.MaxUploadSize,
	}, services, tokens, kv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
