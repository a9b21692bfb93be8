package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/config"
	dbpkg "github.com/BruksfildServices01/barberbook/internal/db"
	"github.com/BruksfildServices01/barberbook/internal/logger"
	"github.com/BruksfildServices01/barberbook/internal/metrics"
	"github.com/BruksfildServices01/barberbook/internal/notify"
	"github.com/BruksfildServices01/barberbook/internal/routes"
	"github.com/BruksfildServices01/barberbook/internal/store"
	"github.com/BruksfildServices01/barberbook/internal/store/booking"
	"github.com/BruksfildServices01/barberbook/internal/store/directory"
	"github.com/BruksfildServices01/barberbook/internal/store/identity"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
	"github.com/BruksfildServices01/barberbook/internal/validators"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	backend, err := dbpkg.Open(ctx, cfg, m, zl)
	if err != nil {
		zl.Fatal("failed to open store", zap.Error(err))
	}
	defer backend.Close()

	kvStore := backend.Store
	now := timezone.Clock(cfg.Timezone)
	opts := store.Options{MaxRetries: cfg.MaxWriteRetries, Metrics: m}

	// ======================================================
	// AUDIT + NOTIFY
	// ======================================================
	auditLogger := audit.New(kvStore, opts, cfg.AuditMaxEntries, cfg.InstanceID, now)
	auditDispatcher := audit.NewDispatcher(auditLogger, zl.Named("audit"))
	defer auditDispatcher.Close()

	notifiers := notify.Multi{notify.NewLog(zl.Named("notify"))}
	if backend.Redis != nil {
		rn := notify.NewRedis(backend.Redis, cfg.NotifyChannel)
		notifiers = append(notifiers, rn)
		go listen(ctx, rn, cfg.AppRole, zl.Named("notify"))
	}

	// ======================================================
	// STORES
	// ======================================================
	var emailCheck func(string) bool
	if cfg.VerifyEmailDomain {
		emailCheck = validators.IsEmailDomainValid
	}
	users := identity.New(kvStore, identity.Deps{
		SessionKey: cfg.SessionKey(),
		Options:    opts,
		Logger:     zl.Named("identity"),
		Audit:      auditDispatcher,
		Now:        now,
		EmailCheck: emailCheck,
	})
	dirDeps := directory.Deps{Options: opts, Logger: zl.Named("directory"), Audit: auditDispatcher, Now: now}
	barbers := directory.NewBarbers(kvStore, dirDeps)
	services := directory.NewServices(kvStore, dirDeps)
	clients := directory.NewClients(kvStore, dirDeps)
	bookings := booking.New(kvStore, booking.Deps{
		Options:  opts,
		Logger:   zl.Named("booking"),
		Audit:    auditDispatcher,
		Notifier: notifiers,
		Metrics:  m,
		Now:      now,
	})

	if err := users.Initialize(ctx); err != nil {
		zl.Fatal("failed to initialize users", zap.Error(err))
	}
	if cfg.SeedDirectory {
		if _, err := barbers.SeedIfEmpty(ctx, directory.DefaultBarbers()); err != nil {
			zl.Fatal("failed to seed barbers", zap.Error(err))
		}
		if _, err := services.SeedIfEmpty(ctx, directory.DefaultServices()); err != nil {
			zl.Fatal("failed to seed services", zap.Error(err))
		}
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, routes.Deps{
		Config:    cfg,
		Logger:    zl,
		Metrics:   m,
		Users:     users,
		Barbers:   barbers,
		Services:  services,
		Clients:   clients,
		Bookings:  bookings,
		AuditLogs: auditLogger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

// listen logs status changes made by the other role.
func listen(ctx context.Context, rn *notify.RedisNotifier, role string, log *zap.Logger) {
	err := rn.Subscribe(ctx, func(ch notify.Change) {
		if ch.Notify != role {
			return
		}
		log.Info("booking changed by "+ch.Actor,
			zap.String("booking_id", ch.BookingID),
			zap.String("status", ch.To),
		)
	})
	if err != nil {
		log.Warn("notification subscription ended", zap.Error(err))
	}
}
