package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/data"
	"github.com/KotFed0t/invest_tracker/data/cache"
	"github.com/KotFed0t/invest_tracker/data/repository/postgres"
	"github.com/KotFed0t/invest_tracker/internal/externalApi/binanceApi"
	"github.com/KotFed0t/invest_tracker/internal/externalApi/boiApi"
	"github.com/KotFed0t/invest_tracker/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/invest_tracker/internal/externalApi/yahooApi"
	"github.com/KotFed0t/invest_tracker/internal/mailer"
	"github.com/KotFed0t/invest_tracker/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/invest_tracker/internal/scheduler"
	"github.com/KotFed0t/invest_tracker/internal/service/authService"
	"github.com/KotFed0t/invest_tracker/internal/service/exportService"
	"github.com/KotFed0t/invest_tracker/internal/service/historyService"
	"github.com/KotFed0t/invest_tracker/internal/service/marketDataService"
	"github.com/KotFed0t/invest_tracker/internal/service/portfolioService"
	"github.com/KotFed0t/invest_tracker/internal/service/snapshotService"
	"github.com/KotFed0t/invest_tracker/internal/service/valuationService"
	"github.com/KotFed0t/invest_tracker/internal/tgbot"
	"github.com/KotFed0t/invest_tracker/internal/transport/rest"
	"github.com/shopspring/decimal"
)

type Cache interface {
	marketDataService.Cache
	authService.Cache
}

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient, err := data.NewPostgresClient(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(pgClient, cfg.Valuation.BaseCurrency)

	var appCache Cache
	switch cfg.Cache.Driver {
	case "memory":
		slog.Warn("using in-memory cache")
		appCache = cache.NewMemoryCache()
	default:
		redisClient := data.NewRedisClient(cfg)
		defer redisClient.Close()
		appCache = cache.NewRedisCache(redisClient)
	}

	ttl := cfg.Cache.MarketDataExpiration
	router := marketDataService.NewRouter(
		marketDataService.NewStockProvider(yahooApi.New(cfg), appCache, ttl),
		marketDataService.NewCryptoProvider(binanceApi.New(cfg), appCache, ttl),
		marketDataService.NewCurrencyRateProvider(boiApi.New(cfg), appCache, ttl),
		cfg.Valuation.TrackedForeignCurrency,
	)
	normalizer := marketDataService.NewNormalizer(cfg.Valuation.BaseCurrency)
	valuationSrv := valuationService.New(router, normalizer, cfg.Valuation.Concurrency)

	notifier, err := tgbot.New(cfg)
	if err != nil {
		panic(err)
	}

	var emailSender mailer.Sender
	if cfg.Email.Enabled {
		ses, err := mailer.NewSESSender(ctx, cfg)
		if err != nil {
			panic(err)
		}
		emailSender = ses
	} else {
		slog.Warn("email delivery disabled")
	}

	authSrv := authService.New(pgRepo, appCache, mailer.New(emailSender), cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Cache.VerificationExpiration)
	portfolioSrv := portfolioService.New(pgRepo, valuationSrv, cfg.Valuation.BaseCurrency)
	historySrv := historyService.New(pgRepo)
	snapshotSrv := snapshotService.New(pgRepo, valuationSrv, notifier)

	var storage exportService.FileStorage
	if cfg.GoogleDrive.CredentialsFile != "" {
		drive, err := googleDriveApi.New(ctx, cfg)
		if err != nil {
			panic(err)
		}
		storage = drive
	} else {
		slog.Warn("google drive credentials not set, export disabled")
	}
	exportSrv := exportService.New(portfolioSrv, historySrv, xslsxGenerator.New(), storage)

	sched, err := scheduler.New()
	if err != nil {
		panic(err)
	}
	mustJob(sched.NewCrontabJob("take snapshots", func(ctx context.Context) error {
		_, err := snapshotSrv.TakeSnapshots(ctx)
		return err
	}, cfg.Jobs.SnapshotCrontab, false))
	mustJob(sched.NewIntervalJob("delete old reports", exportSrv.DeleteOldReports, cfg.Jobs.DeleteReportsInterval, false))
	sched.Start()
	defer sched.Stop()

	ctrl := rest.NewController(
		authSrv,
		portfolioSrv,
		historySrv,
		snapshotSrv,
		exportSrv,
		rest.CookieSettings{MaxAge: cfg.Auth.CookieMaxAge, Secure: cfg.Auth.CookieSecure},
	)
	server := rest.NewServer(cfg, rest.NewRouter(cfg, ctrl, authSrv))
	server.Start()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	server.Stop(shutdownCtx)
}

func mustJob(err error) {
	if err != nil {
		panic(err)
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
