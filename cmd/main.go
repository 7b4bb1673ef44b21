package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"chess_analyse/internal/adapters"
	"chess_analyse/internal/bootstrap"
	analysisDelivery "chess_analyse/internal/delivery/analysis"
	ownMiddleware "chess_analyse/internal/middleware"
	"chess_analyse/internal/repository"
	analysisUC "chess_analyse/internal/usecase/analysis"
)

type mainDeliveryHandler struct {
	analysis *analysisDelivery.AnalysisHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	databaseAdapters := initDatabaseAdapters(ctx, logger, *cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}
	go handleShutdown(ctx, server, logger)

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.analysis.Routes(r)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(&cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(&cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать Redis", zap.Error(err))
	}

	log.Info("Адаптеры баз данных инициализированы")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	cursors := repository.NewCursorRedisStorage(databaseAdapters.redisAdapter.GetClient(), cfg.CursorTTL())
	store := repository.NewAnalysisRepository(log, databaseAdapters.mongoAdapter.Database, cursors)
	if err := store.EnsureIndexes(context.Background()); err != nil {
		log.Warnw("analyses index was not created", "error", err)
	}

	uc := analysisUC.NewAnalysisUseCase(store, log, analysisUC.Options{
		Render:       analysisUC.RenderOptions{ShowComments: cfg.ShowComments},
		CacheTTL:     cfg.RenderCacheTTL(),
		SessionTTL:   cfg.SessionTTL(),
		ScrollSettle: cfg.ScrollSettle(),
	})

	return &mainDeliveryHandler{
		analysis: analysisDelivery.NewAnalysisHandler(cfg, log, uc),
	}
}

func handleShutdown(ctx context.Context, server *http.Server, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigs:
	case <-ctx.Done():
	}
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown server", zap.Error(err))
	}
}
