package configs

import (
	"fmt"
	"io"
	"mediatracker/pkg/resilience"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding secrets from the config file.
const (
	EnvKinopoiskAPIKey = "KINOPOISK_API_KEY"
	EnvTmdbAPIKey      = "TMDB_API_KEY"
	EnvAuthSecret      = "AUTH_SECRET"
	EnvReviewToken     = "REVIEW_SERVICE_TOKEN"
)

type ServiceConfig struct {
	API              apiConfig              `yaml:"api"`
	Metrics          metricsConfig          `yaml:"metrics"`
	Tracing          tracingConfig          `yaml:"tracing"`
	ServiceDiscovery serviceDiscoveryConfig `yaml:"serviceDiscovery"`
	MessengerConfig  MessengerConfig        `yaml:"messenger"`
	DatabaseConfig   DatabaseConfig         `yaml:"database"`
	Auth             AuthConfig             `yaml:"auth"`
	Kinopoisk        KinopoiskConfig        `yaml:"kinopoisk"`
	Tmdb             TmdbConfig             `yaml:"tmdb"`
	ReviewService    ReviewServiceConfig    `yaml:"reviewService"`
	Converter        ConverterConfig        `yaml:"converter"`
}

type apiConfig struct {
	Port      int     `yaml:"port" validate:"gt=0,lt=65536"`
	RateLimit float64 `yaml:"rateLimit" validate:"gte=0"`
	RateBurst int     `yaml:"rateBurst" validate:"gte=0"`
}

type metricsConfig struct {
	Port int `yaml:"port" validate:"gt=0,lt=65536"`
}

type tracingConfig struct {
	URL string `yaml:"url"`
}

type serviceDiscoveryConfig struct {
	Consul consulConfig `yaml:"consul"`
}

type consulConfig struct {
	Address string `yaml:"address"`
}

type MessengerConfig struct {
	Kafka kafkaConfig `yaml:"kafka"`
}

type kafkaConfig struct {
	Address string `yaml:"address"`
	Topic   string `yaml:"topic" validate:"required_with=Address"`
}

type DatabaseConfig struct {
	Mysql MysqlConfig `yaml:"mysql"`
}

type MysqlConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"password"`
	Name string `yaml:"db_name" validate:"required_with=Host"`
}

type AuthConfig struct {
	Secret string `yaml:"secret" validate:"required"`
}

type KinopoiskConfig struct {
	BaseURL    string            `yaml:"baseUrl" validate:"required,url"`
	APIKey     string            `yaml:"apiKey" validate:"required"`
	RateLimit  float64           `yaml:"rateLimit" validate:"gte=0"`
	RateBurst  int               `yaml:"rateBurst" validate:"gte=0"`
	Resilience resilience.Config `yaml:"resilience"`
}

type TmdbConfig struct {
	BaseURL    string            `yaml:"baseUrl" validate:"required,url"`
	APIKey     string            `yaml:"apiKey" validate:"required"`
	Language   string            `yaml:"language"`
	Resilience resilience.Config `yaml:"resilience"`
}

type ReviewServiceConfig struct {
	Name       string            `yaml:"name" validate:"required"`
	Token      string            `yaml:"token"`
	Resilience resilience.Config `yaml:"resilience"`
}

type ConverterConfig struct {
	Workers int `yaml:"workers" validate:"gte=1"`
}

// Load reads the config file at path, applies environment overrides and
// validates the result.
func Load(path string) (*ServiceConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a YAML config, applies environment overrides and validates
// the result. Missing resilience sections fall back to the defaults; the
// review service breaker ignores client errors unless configured otherwise.
func Decode(r io.Reader) (*ServiceConfig, error) {
	review := resilience.DefaultConfig()
	review.BreakerIgnoresClientErrors = true
	cfg := ServiceConfig{
		Kinopoisk:     KinopoiskConfig{Resilience: resilience.DefaultConfig()},
		Tmdb:          TmdbConfig{Resilience: resilience.DefaultConfig()},
		ReviewService: ReviewServiceConfig{Resilience: review},
		Converter:     ConverterConfig{Workers: 4},
	}
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	overrideFromEnv(&cfg.Kinopoisk.APIKey, EnvKinopoiskAPIKey)
	overrideFromEnv(&cfg.Tmdb.APIKey, EnvTmdbAPIKey)
	overrideFromEnv(&cfg.Auth.Secret, EnvAuthSecret)
	overrideFromEnv(&cfg.ReviewService.Token, EnvReviewToken)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func overrideFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
