package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDir         = "configs"
	defaultConfigFile = "values_local.yaml"
)

// Config ...
type Config struct {
	Service struct {
		Name      string `mapstructure:"name"`
		HTTPAddr  string `mapstructure:"http_addr" validate:"required"`
		QueueSize int    `mapstructure:"queue_size" validate:"min=1"`
	} `mapstructure:"service"`

	Log struct {
		Level      string `mapstructure:"level"`
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
	} `mapstructure:"log"`

	Bybit struct {
		APIKey      string        `mapstructure:"api_key" validate:"required"`
		APISecret   string        `mapstructure:"api_secret" validate:"required"`
		Env         string        `mapstructure:"env"` // mainnet | testnet | demo | URL
		RecvWindow  int           `mapstructure:"recv_window" validate:"min=1"`
		CallTimeout time.Duration `mapstructure:"call_timeout" validate:"min=1ms"`
		Category    string        `mapstructure:"category" validate:"required"`
		AccountType string        `mapstructure:"account_type" validate:"required"`
		QuoteCoin   string        `mapstructure:"quote_coin" validate:"required"`
	} `mapstructure:"bybit"`

	Telegram struct {
		APIID        int           `mapstructure:"api_id" validate:"required"`
		APIHash      string        `mapstructure:"api_hash" validate:"required"`
		Phone        string        `mapstructure:"phone" validate:"required"`
		SessionFile  string        `mapstructure:"session_file" validate:"required"`
		SignalSender string        `mapstructure:"signal_sender" validate:"required"`
		CodeTimeout  time.Duration `mapstructure:"code_timeout"`
	} `mapstructure:"telegram"`

	// Оператор: куда слать отчёты по сделкам. Пустой токен — stdout.
	Notify struct {
		BotToken string `mapstructure:"bot_token"`
		ChatID   int64  `mapstructure:"chat_id"`
	} `mapstructure:"notify"`

	// Пустой DSN — журнал сделок выключен.
	DB string `mapstructure:"db_dsn"`

	Tracing struct {
		Enabled bool   `mapstructure:"enabled"`
		Host    string `mapstructure:"host"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"tracing"`
}

// envAliases — имена переменных из старого .env, которые продолжаем понимать.
var envAliases = map[string][]string{
	"bybit.api_key":          {"BYBIT_API_KEY", "API_KEY"},
	"bybit.api_secret":       {"BYBIT_API_SECRET", "API_SECRET"},
	"telegram.api_id":        {"TELEGRAM_API_ID", "API_ID"},
	"telegram.api_hash":      {"TELEGRAM_API_HASH", "API_HASH"},
	"telegram.phone":         {"TELEGRAM_PHONE", "PHONE_NUMBER"},
	"telegram.signal_sender": {"TELEGRAM_SIGNAL_SENDER", "BOT_USERNAME"},
	"notify.bot_token":       {"NOTIFY_BOT_TOKEN", "TELEGRAM_BOT_TOKEN"},
	"notify.chat_id":         {"NOTIFY_CHAT_ID", "TELEGRAM_CHAT_ID"},
	"db_dsn":                 {"DB_DSN", "DATABASE_DSN"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "signal_bot")
	v.SetDefault("service.http_addr", ":5000")
	v.SetDefault("service.queue_size", 64)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "signal_bot.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)

	v.SetDefault("bybit.api_key", "")
	v.SetDefault("bybit.api_secret", "")
	v.SetDefault("bybit.env", "demo")
	v.SetDefault("bybit.recv_window", 5000)
	v.SetDefault("bybit.call_timeout", "10s")
	v.SetDefault("bybit.category", "linear")
	v.SetDefault("bybit.account_type", "UNIFIED")
	v.SetDefault("bybit.quote_coin", "USDT")

	v.SetDefault("telegram.api_id", 0)
	v.SetDefault("telegram.api_hash", "")
	v.SetDefault("telegram.phone", "")
	v.SetDefault("telegram.session_file", "signal_bot.session")
	v.SetDefault("telegram.signal_sender", "")
	v.SetDefault("telegram.code_timeout", "5m")

	v.SetDefault("notify.bot_token", "")
	v.SetDefault("notify.chat_id", 0)

	v.SetDefault("db_dsn", "")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)
}

// NewConfig читает .env, configs/$CONFIG_FILE и переменные окружения.
// Файл конфига необязателен: всё можно задать через env.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}
	return Load(filepath.Join(configDir, configFileName))
}

// Load собирает конфиг из конкретного файла + env.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "read config %s", path)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	// PORT и SESSION_NAME из старого .env не ложатся на ключи напрямую
	if port := os.Getenv("PORT"); port != "" {
		cfg.Service.HTTPAddr = ":" + port
	}
	if name := os.Getenv("SESSION_NAME"); name != "" {
		cfg.Telegram.SessionFile = sessionFileName(name)
	}
	cfg.Telegram.SignalSender = strings.TrimPrefix(strings.TrimSpace(cfg.Telegram.SignalSender), "@")

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

func sessionFileName(name string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	return name + ".session"
}
