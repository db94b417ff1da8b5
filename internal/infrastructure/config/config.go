package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token  TokenConfig
	Cookie CookieConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Assets AssetsConfig
}

// TokenConfig carries the two signing secrets and both lifetimes. The secrets
// must differ so that neither token kind can be forged from the other.
type TokenConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

// CookieConfig is shared by the set and clear paths so both always use the
// exact same attributes.
type CookieConfig struct {
	Domain string `env:"COOKIE_DOMAIN"`
	Secure bool   `env:"COOKIE_SECURE, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vidtube"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type AssetsConfig struct {
	Region        string `env:"ASSETS_S3_REGION,     default=us-east-1"`
	Bucket        string `env:"ASSETS_S3_BUCKET,     default=vidtube-assets"`
	Endpoint      string `env:"ASSETS_S3_ENDPOINT"`
	AccessKey     string `env:"ASSETS_S3_ACCESS_KEY"`
	SecretKey     string `env:"ASSETS_S3_SECRET_KEY"`
	PublicBaseURL string `env:"ASSETS_PUBLIC_BASE_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Token.AccessSecret == "" || cfg.Token.RefreshSecret == "" {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if cfg.Token.AccessSecret == cfg.Token.RefreshSecret {
		return nil, fmt.Errorf("config: access and refresh secrets must differ")
	}
	return &cfg, nil
}
