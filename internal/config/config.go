package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Listen     string `env:"LISTEN" envDefault:":8080"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	// Access and refresh tokens are signed with separate secrets so one can
	// never be presented in place of the other.
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"240h"`

	Media MediaConfig `envPrefix:"S3_"`
}

// MediaConfig points at the S3-compatible bucket that stores avatar and
// cover images. PublicBaseURL is the prefix uploaded objects are served from.
type MediaConfig struct {
	Region        string `env:"REGION" envDefault:"us-east-1"`
	Endpoint      string `env:"ENDPOINT"`
	Bucket        string `env:"BUCKET,required"`
	AccessKey     string `env:"ACCESS_KEY,required"`
	SecretKey     string `env:"SECRET_KEY,required"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL,required"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
