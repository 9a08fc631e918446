package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Travisswop/swop-redeem-token/internal/handler"
	"github.com/Travisswop/swop-redeem-token/internal/repository"
	"github.com/Travisswop/swop-redeem-token/internal/resolver"
	"github.com/Travisswop/swop-redeem-token/internal/service"
	"github.com/Travisswop/swop-redeem-token/internal/solana"
	"github.com/Travisswop/swop-redeem-token/pkg/config"
	"github.com/Travisswop/swop-redeem-token/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	mongoDB, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoDB.Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	// Initialize repositories
	poolRepo := repository.NewPoolRepository(mongoDB.Database)
	redemptionRepo := repository.NewRedemptionRepository(mongoDB.Database)

	// Initialize services; the redeem path runs inside MongoDB transactions
	txn := database.NewUnitOfWork(mongoDB.Client)
	settler := solana.NewAuthorizationRecorder(logger)
	poolSvc := service.NewPoolService(poolRepo, redemptionRepo, solana.NewKeygen(), cfg.BaseURL, logger)
	redeemSvc := service.NewRedeemService(poolRepo, redemptionRepo, txn, settler, logger)

	// Setup Gin router
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	h := handler.New(poolSvc, redeemSvc, resolver.NewClient(cfg.ResolverBaseURL), logger)
	h.Register(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
