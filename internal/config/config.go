package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	MiniAppURL          string `env:"MINI_APP_URL"`

	DBDriver          string        `env:"DB_DRIVER,default=sqlite"`
	SQLitePath        string        `env:"SQLITE_PATH,default=alerts.db"`
	DBHost            string        `env:"DB_HOST,default=localhost"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME,default=p2pwatch"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	HTTPAddr        string        `env:"HTTP_ADDR,default=:3000"`
	AdminSecret     string        `env:"ADMIN_SECRET"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW,default=15m"`
	RateLimitBurst  int           `env:"RATE_LIMIT_MAX,default=100"`
	BodyLimitBytes  int64         `env:"BODY_LIMIT_BYTES,default=10240"`

	ProxyList       string        `env:"PROXY_LIST"`
	ExchangeTimeout time.Duration `env:"EXCHANGE_TIMEOUT,default=10s"`
	ScanInterval    time.Duration `env:"SCAN_INTERVAL,default=30s"`
	PacingFloor     time.Duration `env:"PACING_FLOOR,default=200ms"`
	PacingBudget    time.Duration `env:"PACING_BUDGET,default=2s"`
	DefaultFiat     string        `env:"DEFAULT_FIAT,default=UAH"`

	BinanceBaseURL string `env:"BINANCE_BASE_URL,default=https://p2p.binance.com"`
	BybitBaseURL   string `env:"BYBIT_BASE_URL,default=https://api2.bybit.com"`
	OKXBaseURL     string `env:"OKX_BASE_URL,default=https://www.okx.com"`
	MEXCBaseURL    string `env:"MEXC_BASE_URL,default=https://p2p.mexc.com"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
