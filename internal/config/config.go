package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

/*
init config 與 read config 分開
init : 設置 viper watch 與 onConfigChange
read : 一般讀取  需要使用讀寫鎖
*/
var config_singleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
	hooks  []func(*Config)
}

type Config struct {
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFile            string        `mapstructure:"LOG_FILE"`
	DbDriver           string        `mapstructure:"DB_DRIVER"`
	DbName             string        `mapstructure:"POSTGRES_DB"`
	DbHost             string        `mapstructure:"POSTGRES_HOST"`
	DbPort             string        `mapstructure:"POSTGRES_PORT"`
	DbUser             string        `mapstructure:"POSTGRES_USER"`
	DbPas              string        `mapstructure:"POSTGRES_PASSWORD"`
	SqlitePath         string        `mapstructure:"SQLITE_PATH"`
	MigrationURL       string        `mapstructure:"MIGRATION_URL"`
	SecretKey          string        `mapstructure:"SECRET_KEY"`
	SmtpHost           string        `mapstructure:"SMTP_HOST"`
	SmtpPort           int           `mapstructure:"SMTP_PORT"`
	SmtpUsername       string        `mapstructure:"SMTP_USERNAME"`
	SmtpPassword       string        `mapstructure:"SMTP_PASSWORD"`
	SmtpUseTLS         bool          `mapstructure:"SMTP_USE_TLS"`
	SmtpUseSSL         bool          `mapstructure:"SMTP_USE_SSL"`
	MailSender         string        `mapstructure:"MAIL_SENDER"`
	MailRecipients     string        `mapstructure:"MAIL_RECIPIENTS"`
	MailTimeout        time.Duration `mapstructure:"MAIL_TIMEOUT"`
	UpiID              string        `mapstructure:"UPI_ID"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	MenuCacheTTL       time.Duration `mapstructure:"MENU_CACHE_TTL"`
	SeedFile           string        `mapstructure:"SEED_FILE"`
	OutboxPollInterval time.Duration `mapstructure:"OUTBOX_POLL_INTERVAL"`
	OutboxBatchSize    int           `mapstructure:"OUTBOX_BATCH_SIZE"`
	OutboxMaxAttempts  int           `mapstructure:"OUTBOX_MAX_ATTEMPTS"`
}

var defaults = map[string]any{
	"SERVER_PORT":          "8080",
	"ENV":                  string(constants.Dev),
	"LOG_LEVEL":            "info",
	"LOG_FILE":             "",
	"DB_DRIVER":            string(constants.Postgres),
	"POSTGRES_DB":          "restaurant_db",
	"POSTGRES_HOST":        "localhost",
	"POSTGRES_PORT":        "5432",
	"POSTGRES_USER":        "",
	"POSTGRES_PASSWORD":    "",
	"SQLITE_PATH":          "restaurant.db",
	"MIGRATION_URL":        "",
	"SECRET_KEY":           "",
	"SMTP_HOST":            "smtp.gmail.com",
	"SMTP_PORT":            587,
	"SMTP_USERNAME":        "",
	"SMTP_PASSWORD":        "",
	"SMTP_USE_TLS":         true,
	"SMTP_USE_SSL":         false,
	"MAIL_SENDER":          "",
	"MAIL_RECIPIENTS":      "",
	"MAIL_TIMEOUT":         10 * time.Second,
	"UPI_ID":               "",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"MENU_CACHE_TTL":       5 * time.Minute,
	"SEED_FILE":            "",
	"OUTBOX_POLL_INTERVAL": 5 * time.Second,
	"OUTBOX_BATCH_SIZE":    20,
	"OUTBOX_MAX_ATTEMPTS":  5,
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	muonce.Do(func() {
		config_singleton = &ConfigSingleTon{}
		path := configFilePath()
		v := newViper()
		cf, err := LoadConfig(v, path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("error read config")
		}
		config_singleton.Config = cf

		if !fileExists(path) {
			return
		}
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			cf, err := LoadConfig(v, path)
			if err != nil {
				log.Error().Err(err).Str("file", e.Name).Msg("failed to reload config file")
				return
			}
			config_singleton.swap(cf)
			log.Info().Str("file", e.Name).Msg("config reloaded")
		})
	})
}

/*
OnReload 註冊設定檔變更後的回呼
已建立的連線與服務不會重建, 只有回呼內處理的值會即時生效
*/
func OnReload(fn func(*Config)) {
	initConfig()
	config_singleton.onReload(fn)
}

func (c *ConfigSingleTon) onReload(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// swap 替換設定後在鎖外呼叫回呼
func (c *ConfigSingleTon) swap(cf *Config) {
	c.mu.Lock()
	c.Config = cf
	hooks := slices.Clone(c.hooks)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(cf)
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	return v
}

/*
單純回傳錯誤  由外部決定要不要Fatal
.env 不存在時只使用環境變數與預設值
*/
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = newViper()
	}
	if path != "" && fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (c *Config) Validate() error {
	if len(c.SecretKey) != 32 {
		return fmt.Errorf("SECRET_KEY must be exactly 32 bytes, got %d", len(c.SecretKey))
	}
	switch constants.DbDriver(c.DbDriver) {
	case constants.Postgres, constants.Sqlite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DbDriver)
	}
	if c.OutboxMaxAttempts < 1 {
		return errors.New("OUTBOX_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// Recipients 解析以逗號分隔的收件者
func (c *Config) Recipients() []string {
	parts := strings.Split(c.MailRecipients, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=disable", c.DbUser, c.DbPas, c.DbHost, c.DbPort, c.DbName)
}

func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DbUser, c.DbPas, c.DbHost, c.DbPort, c.DbName)
}

func configFilePath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return ".env"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
