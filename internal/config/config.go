package config

import (
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

type Config struct {
	Platform             string   `mapstructure:"PLATFORM"`
	CrawlerType          string   `mapstructure:"CRAWLER_TYPE"`
	VideoURLs            []string `mapstructure:"YT_SPECIFIED_VIDEO_URL_LIST"`
	APIBaseURL           string   `mapstructure:"API_BASE_URL"`
	UserAgent            string   `mapstructure:"USER_AGENT"`
	ClientHL             string   `mapstructure:"CLIENT_HL"`
	ClientGL             string   `mapstructure:"CLIENT_GL"`
	ReplyBatchSize       int      `mapstructure:"REPLY_BATCH_SIZE"`
	RPCRateLimit         float64  `mapstructure:"RPC_RATE_LIMIT"`
	EmbedAvatars         bool     `mapstructure:"EMBED_AVATARS"`
	AvatarSize           int      `mapstructure:"AVATAR_SIZE"`
	DataDir              string   `mapstructure:"DATA_DIR"`
	OutputDir            string   `mapstructure:"OUTPUT_DIR"`
	StoreBackend         string   `mapstructure:"STORE_BACKEND"`
	SaveDataOption       string   `mapstructure:"SAVE_DATA_OPTION"`
	SQLitePath           string   `mapstructure:"SQLITE_PATH"`
	MySQLDSN             string   `mapstructure:"MYSQL_DSN"`
	PostgresDSN          string   `mapstructure:"POSTGRES_DSN"`
	MongoURI             string   `mapstructure:"MONGO_URI"`
	MongoDB              string   `mapstructure:"MONGO_DB"`
	CacheBackend         string   `mapstructure:"CACHE_BACKEND"`
	CacheDefaultTTLSec   int      `mapstructure:"CACHE_DEFAULT_TTL_SEC"`
	RedisAddr            string   `mapstructure:"REDIS_ADDR"`
	RedisPassword        string   `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int      `mapstructure:"REDIS_DB"`
	RedisKeyPrefix       string   `mapstructure:"REDIS_KEY_PREFIX"`
	LogLevel             string   `mapstructure:"LOG_LEVEL"`
	LogFormat            string   `mapstructure:"LOG_FORMAT"`
	HttpTimeoutSec       int      `mapstructure:"HTTP_TIMEOUT_SEC"`
	HttpRetryCount       int      `mapstructure:"HTTP_RETRY_COUNT"`
	HttpRetryBaseDelayMs int      `mapstructure:"HTTP_RETRY_BASE_DELAY_MS"`
	HttpRetryMaxDelayMs  int      `mapstructure:"HTTP_RETRY_MAX_DELAY_MS"`
	EnableIPProxy        bool     `mapstructure:"ENABLE_IP_PROXY"`
	IPProxyPoolCount     int      `mapstructure:"IP_PROXY_POOL_COUNT"`
	IPProxyList          string   `mapstructure:"IP_PROXY_LIST"`
	IPProxyFile          string   `mapstructure:"IP_PROXY_FILE"`
	MaxConcurrencyNum    int      `mapstructure:"MAX_CONCURRENCY_NUM"`
	CrawlerMaxSleepSec   int      `mapstructure:"CRAWLER_MAX_SLEEP_SEC"`
}

var AppConfig Config

func LoadConfig(path string) error {
	// .env is optional; real environment variables still win over it.
	_ = godotenv.Load(filepath.Join(path, ".env"))

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("PLATFORM", "youtube")
	viper.SetDefault("CRAWLER_TYPE", "comments")
	viper.SetDefault("YT_SPECIFIED_VIDEO_URL_LIST", []string{})
	viper.SetDefault("API_BASE_URL", "https://www.youtube.com")
	viper.SetDefault("USER_AGENT", DefaultUserAgent)
	viper.SetDefault("CLIENT_HL", "en")
	viper.SetDefault("CLIENT_GL", "US")
	viper.SetDefault("REPLY_BATCH_SIZE", 5)
	viper.SetDefault("RPC_RATE_LIMIT", 0)
	viper.SetDefault("EMBED_AVATARS", false)
	viper.SetDefault("AVATAR_SIZE", 48)
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("OUTPUT_DIR", "data/archives")
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("SAVE_DATA_OPTION", "")
	viper.SetDefault("SQLITE_PATH", "data/comment_archiver.db")
	viper.SetDefault("MYSQL_DSN", "")
	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("MONGO_URI", "")
	viper.SetDefault("MONGO_DB", "comment_archiver")
	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("CACHE_DEFAULT_TTL_SEC", 600)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "comment_archiver:")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("HTTP_TIMEOUT_SEC", 60)
	viper.SetDefault("HTTP_RETRY_COUNT", 0)
	viper.SetDefault("HTTP_RETRY_BASE_DELAY_MS", 500)
	viper.SetDefault("HTTP_RETRY_MAX_DELAY_MS", 4000)
	viper.SetDefault("ENABLE_IP_PROXY", false)
	viper.SetDefault("IP_PROXY_POOL_COUNT", 2)
	viper.SetDefault("IP_PROXY_LIST", "")
	viper.SetDefault("IP_PROXY_FILE", "")
	viper.SetDefault("MAX_CONCURRENCY_NUM", 4)
	viper.SetDefault("CRAWLER_MAX_SLEEP_SEC", 0)

	viper.SetEnvPrefix("COMMENT_ARCHIVER")
	viper.AutomaticEnv()

	// If no config file found, just use defaults/env
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return err
	}
	Normalize(&AppConfig)
	return nil
}

func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	cfg.CrawlerType = strings.ToLower(strings.TrimSpace(cfg.CrawlerType))
	cfg.SaveDataOption = strings.ToLower(strings.TrimSpace(cfg.SaveDataOption))
	if cfg.SaveDataOption == "excel" {
		cfg.SaveDataOption = "xlsx"
	}
	if cfg.SaveDataOption == "none" || cfg.SaveDataOption == "off" {
		cfg.SaveDataOption = ""
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.ReplyBatchSize <= 0 {
		cfg.ReplyBatchSize = 5
	}
}
