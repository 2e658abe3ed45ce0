package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sameed619/FMS/internal/config"
	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/handler"
	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/repository"
	"github.com/sameed619/FMS/internal/factory/service"
	"github.com/sameed619/FMS/internal/middleware"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting factory service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	if err := runMigrations(db); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	stock := ledger.NewStockLedger(db, zapLogger)

	invRepo := repository.NewInventoryRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	prodRepo := repository.NewProductionRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	logRepo := repository.NewMachineLogRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	entryRepo := repository.NewOperatorEntryRepository(db)

	handlers := handler.NewHandlers(
		service.NewInventoryService(invRepo, stock, db),
		service.NewRecipeService(recipeRepo, invRepo),
		service.NewProductionService(prodRepo, recipeRepo, machineRepo, stock, db),
		service.NewPurchaseService(purchaseRepo, stock, db),
		service.NewMachineService(machineRepo, logRepo, db),
		service.NewOperatorService(operatorRepo, entryRepo, db),
	)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "factory-backend",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	handler.RegisterRoutes(router, handlers)

	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

// runMigrations applies schema pieces AutoMigrate cannot express: the
// number sequences table and the one-open-entry-per-operator index.
func runMigrations(db *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sequences (
			name  VARCHAR(64) PRIMARY KEY,
			value BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_operator_entries_open
			ON operator_entries (operator_id) WHERE end_time IS NULL`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}
