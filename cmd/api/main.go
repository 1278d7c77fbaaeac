package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/notification-api/config"
	"github.com/jwalitptl/notification-api/internal/dispatch"
	"github.com/jwalitptl/notification-api/internal/engine"
	"github.com/jwalitptl/notification-api/internal/handler"
	renderhandler "github.com/jwalitptl/notification-api/internal/handler/render"
	"github.com/jwalitptl/notification-api/internal/middleware"
	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
	"github.com/jwalitptl/notification-api/internal/repository/postgres"
	"github.com/jwalitptl/notification-api/internal/resolver"
	"github.com/jwalitptl/notification-api/internal/router"
	"github.com/jwalitptl/notification-api/internal/service/catalog"
	"github.com/jwalitptl/notification-api/internal/service/render"
	"github.com/jwalitptl/notification-api/pkg/logger"
	"github.com/jwalitptl/notification-api/pkg/metrics"
	redisbroker "github.com/jwalitptl/notification-api/pkg/messaging/redis"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.MigrationsDir != "" {
		if err := postgres.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
			log.Fatal(err, "failed to run migrations")
		}
	}

	base := postgres.NewBaseRepository(db)
	templateRepo := postgres.NewTemplateRepository(base)
	categoryRepo := postgres.NewCategoryRepository(base)

	m := metrics.NewMetrics("notification", "render")
	formatter := format.NewFormatter(cfg.Rendering.DefaultLocale)
	eng := engine.New(formatter)

	registry, err := presenter.NewRegistry(time.Now,
		presenter.NewFallbackPresenter(formatter),
		presenter.NewBillingPresenter(formatter),
		presenter.NewAccountPresenter(formatter),
		presenter.NewAppointmentPresenter(formatter),
		presenter.NewSecurityPresenter(formatter),
		presenter.NewWebhookPresenter(formatter),
	)
	if err != nil {
		log.Fatal(err, "failed to build presenter registry")
	}

	res := resolver.New(templateRepo, resolver.Config{
		TTL:             cfg.Cache.TTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
		MaxPartialDepth: cfg.Rendering.MaxPartialDepth,
	}, m, log.WithComponent("resolver"))

	catalogSvc := catalog.NewService(categoryRepo)
	renderSvc := render.NewService(registry, res, eng, templateRepo, catalogSvc, m, log.WithComponent("render"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	brokerLog := zerolog.New(os.Stdout).With().Timestamp().Str("component", "broker").Logger()
	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLog)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	if err := res.ListenChanges(ctx, broker); err != nil {
		log.Fatal(err, "failed to subscribe to template changes")
	}

	dispatcher := dispatch.NewRouter()
	dispatcher.Register(model.ChannelEmail, dispatch.NewEmailDispatcher(dispatch.SMTPConfig{
		Host:     cfg.Dispatch.SMTP.Host,
		Port:     cfg.Dispatch.SMTP.Port,
		Username: cfg.Dispatch.SMTP.Username,
		Password: cfg.Dispatch.SMTP.Password,
		From:     cfg.Dispatch.SMTP.From,
	}))
	dispatcher.Register(model.ChannelSMS, dispatch.NewSMSDispatcher(dispatch.TwilioConfig{
		AccountSID: cfg.Dispatch.Twilio.AccountSID,
		AuthToken:  cfg.Dispatch.Twilio.AuthToken,
		From:       cfg.Dispatch.Twilio.From,
	}))
	dispatcher.Register(model.ChannelWebhook, dispatch.NewWebhookDispatcher(
		cfg.Dispatch.WebhookTimeout,
		func(model.Recipient) string { return cfg.Dispatch.WebhookURL },
	))

	if err := middleware.RegisterValidations(); err != nil {
		log.Fatal(err, "failed to register request validations")
	}

	healthH := handler.NewHealth(db)
	renderH := renderhandler.NewHandler(renderSvc, catalogSvc, registry, dispatcher, log.WithComponent("handler"))

	routerCfg := router.Config{RequestTimeout: cfg.Server.RequestTimeout}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}
	r := router.NewRouter(healthH, renderH, routerCfg)
	r.Setup()

	if cfg.Cache.PrewarmEnabled {
		startPrewarm(ctx, cfg.Cache, res, log)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "graceful shutdown failed")
	}
}

// startPrewarm loads the configured tenants' partials once at boot, then on
// the cron schedule so TTL-expired entries are refilled off the hot path.
func startPrewarm(ctx context.Context, cfg config.CacheConfig, res *resolver.Resolver, log *logger.Logger) {
	warm := func() {
		for _, tenantID := range cfg.PrewarmTenants {
			if err := res.Prewarm(ctx, tenantID); err != nil {
				log.Error(err, "prewarm failed", "tenant_id", tenantID)
			}
		}
	}
	warm()

	if cfg.PrewarmSchedule == "" {
		return
	}
	c := cron.New()
	if _, err := c.AddFunc(cfg.PrewarmSchedule, warm); err != nil {
		log.Error(err, "invalid prewarm schedule", "schedule", cfg.PrewarmSchedule)
		return
	}
	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
}
