package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shenikar/fire_command_center/internal/ai"
	"github.com/shenikar/fire_command_center/internal/client"
	"github.com/shenikar/fire_command_center/internal/config"
	"github.com/shenikar/fire_command_center/internal/fleet"
	"github.com/shenikar/fire_command_center/internal/geo"
	"github.com/shenikar/fire_command_center/internal/handler/http/console"
	v1 "github.com/shenikar/fire_command_center/internal/handler/http/v1"
	"github.com/shenikar/fire_command_center/internal/metrics"
	"github.com/shenikar/fire_command_center/internal/models"
	"github.com/shenikar/fire_command_center/internal/notify"
	"github.com/shenikar/fire_command_center/internal/session"
	"github.com/shenikar/fire_command_center/internal/store"
	"github.com/shenikar/fire_command_center/internal/tacmap"
	"github.com/shenikar/fire_command_center/pkg/logger"
	redisclient "github.com/shenikar/fire_command_center/pkg/redis"
)

// sessionStorage подключается к Redis; без него сессия живет только в памяти процесса
func sessionStorage(ctx context.Context, cfg *config.DashboardConfig, log *logrus.Logger) (session.Storage, func()) {
	rdb, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		PoolSize: 2,
	})
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, session will not survive restarts")
		return session.NewMemoryStorage(), func() {}
	}
	return session.NewRedisStorage(rdb, 0), func() { _ = rdb.Close() }
}

func main() {
	cfg, err := config.LoadDashboardConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	notifier := notify.NewCenter(cfg.NotifyTTL)
	api := client.New(cfg.APIBaseURL, cfg.APIKey, cfg.RequestTimeout, log)

	storage, closeStorage := sessionStorage(ctx, cfg, log)
	defer closeStorage()
	sess := session.NewManager(storage, cfg.SessionKey, log)
	if err := sess.Init(ctx); err != nil {
		log.WithError(err).Warn("Failed to restore session")
	}

	roster, err := fleet.Load(cfg.FleetFile, time.Now().UTC())
	if err != nil {
		log.Fatalf("Failed to load fleet roster: %v", err)
	}
	log.WithFields(logrus.Fields{
		"vehicles":  len(roster.Vehicles),
		"personnel": len(roster.Personnel),
	}).Info("Fleet roster loaded")

	gen, err := ai.NewGeminiGenerator(ctx, cfg.GeminiProject, cfg.GeminiLocation)
	if err != nil {
		log.WithError(err).Warn("Gemini client unavailable, using simulated reports")
	}

	incidentStore := store.New(api, notifier, log, store.Options{
		Interval:     cfg.PollInterval,
		Operator:     cfg.OperatorName,
		SimVehicleID: cfg.SimVehicleID,
	})

	projector := geo.New(models.Coordinates{Lat: cfg.MapCenterLat, Lon: cfg.MapCenterLon}, cfg.MapScale)

	handler := console.NewHandler(console.Deps{
		Store:    incidentStore,
		API:      api,
		Session:  sess,
		Fleet:    fleet.NewRegistry(roster),
		Renderer: tacmap.NewRenderer(projector),
		Reporter: ai.NewReporter(gen, log),
		Notifier: notifier,
		Logger:   log,
	})

	router := gin.New()
	router.Use(gin.Recovery(), v1.SecurityHeaders(), metrics.GinMiddleware())
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(handler.Close)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return incidentStore.Run(gctx)
	})

	g.Go(func() error {
		log.Infof("Console started on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("console server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down console...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Console stopped with error: %v", err)
	}
	log.Info("Console gracefully stopped")
}
