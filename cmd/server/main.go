package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fsa_tracker/internal/config"
	"fsa_tracker/internal/controllers"
	"fsa_tracker/internal/device"
	"fsa_tracker/internal/execution"
	"fsa_tracker/internal/logger"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/remote"
	"fsa_tracker/internal/repository"
	"fsa_tracker/internal/routes"
	"fsa_tracker/internal/rpc"
	"fsa_tracker/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration.")
	}

	logOut := logger.Setup(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	})
	gin.SetMode(cfg.GinMode)
	middleware.Configure(cfg.JWTSecret, cfg.JWTTTL)
	if err := controllers.RegisterValidators(); err != nil {
		logrus.WithError(err).Fatal("Could not register request validators.")
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Database unavailable.")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("Database handle unavailable.")
	}
	defer sqlDB.Close()

	catalog, err := config.LoadCatalog(cfg.ActivityCatalogPath)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid activity catalog.")
	}

	users := repository.NewUserRepository(db)
	teams := repository.NewTeamRepository(db)
	locations := repository.NewLocationRepository(db)
	journal := repository.NewEventRepository(db)
	leases := device.NewLeases()

	backend := remote.NewFrappe(rpc.NewClient(cfg.RemoteBaseURL, cfg.RemoteAPIKey, cfg.RemoteAPISecret, cfg.RemoteTimeout))
	svc := execution.NewService(backend, journal,
		device.NewLastKnownLocator(locations, cfg.LocationMaxAge), leases,
		execution.Options{
			Catalog:       catalog,
			LocateTimeout: cfg.LocateTimeout,
			ScanTimeout:   cfg.ScanTimeout,
		})

	hub := controllers.NewLocationHub(locations, users, leases)
	r := routes.SetupRouter(routes.Handlers{
		Auth:       controllers.NewAuthController(users),
		Field:      controllers.NewFieldController(svc),
		Supervisor: controllers.NewSupervisorController(users, locations, leases),
		Teams:      controllers.NewTeamController(teams),
		Hub:        hub,
		Health:     controllers.NewHealthController(sqlDB),
	}, logOut)

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           middleware.EnableCORS(cfg.CORSOrigins, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		worker.NewRetentionWorker(locations, cfg.RetentionInterval, cfg.LocationRetention()).Start(ctx)
		return nil
	})
	g.Go(func() error {
		worker.NewRetentionWorker(svc, cfg.RetentionInterval, cfg.RouteCacheTTL).Named("route cache").Start(ctx)
		return nil
	})
	g.Go(func() error {
		logrus.WithField("address", cfg.Address).Info("Server running.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logrus.Info("Shutting down server.")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("Server stopped with error.")
	}
	logrus.WithField("leases", leases.Stats()).Info("Server stopped.")
}
