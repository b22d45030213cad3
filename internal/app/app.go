package app

import (
	"context"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pipone-one/p2pminiapp/internal/config"
	"github.com/pipone-one/p2pminiapp/internal/delivery/httpapi"
	"github.com/pipone-one/p2pminiapp/internal/delivery/telegram"
	"github.com/pipone-one/p2pminiapp/internal/infra/db"
	"github.com/pipone-one/p2pminiapp/internal/infra/exchange"
	"github.com/pipone-one/p2pminiapp/internal/infra/log"
	"github.com/pipone-one/p2pminiapp/internal/infra/proxy"
	"github.com/pipone-one/p2pminiapp/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	bot       *telegram.Bot
	scheduler *usecase.Scheduler
	server    *httpapi.Server
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	ring := log.NewRing(log.DefaultRingSize)
	logger, err := log.NewLogger(cfg.LogLevel, ring)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	rotator, err := proxy.ParseList(cfg.ProxyList)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	if rotator.Count() == 0 {
		logger.Warn("no proxies configured, exchange requests go direct")
	}

	client := exchange.NewClient(cfg.ExchangeTimeout, rotator.ProxyFunc(), logger)
	router := exchange.NewDefaultRouter(client, exchange.URLs{
		Binance: cfg.BinanceBaseURL,
		Bybit:   cfg.BybitBaseURL,
		OKX:     cfg.OKXBaseURL,
		MEXC:    cfg.MEXCBaseURL,
	})

	book := usecase.NewAlertBook(db.NewAlertRepository(dbConn))
	alertUC := usecase.NewAlertUsecase(book, cfg.DefaultFiat)

	var (
		notifier usecase.Notifier = telegram.NewLogNotifier(logger)
		api      *tgbotapi.BotAPI
	)
	if cfg.TelegramBotToken == "" {
		logger.Warn("no telegram bot token provided, notifications will not be sent")
	} else {
		api, err = telegram.NewAPI(cfg.TelegramBotToken)
		if err != nil {
			_ = cleanup()
			return nil, err
		}
		logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))
		notifier = telegram.NewNotifier(api, logger)
	}

	scanner := usecase.NewScanner(book, router, rotator, notifier, logger, usecase.WithPacing(usecase.Pacing{
		Floor:  cfg.PacingFloor,
		Budget: cfg.PacingBudget,
	}))
	scheduler := usecase.NewScheduler(scanner, cfg.ScanInterval, logger)

	var bot *telegram.Bot
	if api != nil {
		handlers := telegram.NewHandlers(alertUC, scheduler, cfg.MiniAppURL, logger)
		bot = telegram.NewBot(api, handlers, cfg.TelegramPollTimeout)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := httpapi.NewRouter(&httpapi.Config{
		Handler:         httpapi.NewHandler(alertUC, scheduler, rotator, ring, logger),
		Logger:          logger,
		AdminSecret:     cfg.AdminSecret,
		RateLimitWindow: cfg.RateLimitWindow,
		RateLimitMax:    cfg.RateLimitBurst,
		BodyLimitBytes:  cfg.BodyLimitBytes,
	})
	if cfg.AdminSecret == "" {
		logger.Warn("ADMIN_SECRET not set, admin endpoints are disabled")
	}

	return &App{
		bot:       bot,
		scheduler: scheduler,
		server:    httpapi.NewServer(cfg.HTTPAddr, engine, logger),
		logger:    logger,
		cleanupFn: cleanup,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("p2pwatch service starting")

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.scheduler.Run(ctx)
	})
	group.Go(func() error {
		return a.server.Start(ctx)
	})
	if a.bot != nil {
		group.Go(func() error {
			return a.bot.Start(ctx)
		})
	}

	a.logger.Info("p2pwatch service started")
	return group.Wait()
}

func (a *App) Shutdown() {
	a.logger.Info("p2pwatch service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
