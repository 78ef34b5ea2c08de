package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	CatalogSourceBuiltin  = "builtin"
	CatalogSourceYAML     = "yaml"
	CatalogSourcePostgres = "postgres"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type CatalogConfig struct {
	Source string
	File   string
}

type UploadConfig struct {
	MaxBytes          int64
	AllowedExtensions []string
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

type ResultsConfig struct {
	TTL           time.Duration
	SweepSchedule string
}

type ScrapeConfig struct {
	Timeout time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Catalog     CatalogConfig
	Upload      UploadConfig
	Worker      WorkerConfig
	Results     ResultsConfig
	Scrape      ScrapeConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance,
// applying defaults and validation.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(strings.TrimSpace(v.GetString("CATALOG_SOURCE"))),
			File:   v.GetString("CATALOG_FILE"),
		},
		Upload: UploadConfig{
			MaxBytes:          v.GetInt64("UPLOAD_MAX_BYTES"),
			AllowedExtensions: parseList(v.GetString("UPLOAD_ALLOWED_EXTENSIONS")),
		},
		Worker: WorkerConfig{
			Concurrency: v.GetInt("WORKER_CONCURRENCY"),
			QueueSize:   v.GetInt("WORKER_QUEUE_SIZE"),
		},
		Results: ResultsConfig{
			TTL:           v.GetDuration("RESULTS_TTL"),
			SweepSchedule: v.GetString("RESULTS_SWEEP_SCHEDULE"),
		},
		Scrape: ScrapeConfig{
			Timeout: v.GetDuration("SCRAPE_TIMEOUT"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8000
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = CatalogSourceBuiltin
	}
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 10 << 20
	}
	if len(cfg.Upload.AllowedExtensions) == 0 {
		cfg.Upload.AllowedExtensions = []string{".pdf", ".doc", ".docx", ".txt"}
	}
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = 4
	}
	if cfg.Worker.QueueSize == 0 {
		cfg.Worker.QueueSize = 100
	}
	if cfg.Results.TTL == 0 {
		cfg.Results.TTL = 24 * time.Hour
	}
	if cfg.Results.SweepSchedule == "" {
		cfg.Results.SweepSchedule = "@every 10m"
	}
	if cfg.Scrape.Timeout == 0 {
		cfg.Scrape.Timeout = 10 * time.Second
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func validate(cfg *Config) error {
	switch cfg.Catalog.Source {
	case CatalogSourceBuiltin:
	case CatalogSourceYAML:
		if cfg.Catalog.File == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=yaml")
		}
	case CatalogSourcePostgres:
		if cfg.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required when CATALOG_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of builtin, yaml, postgres")
	}
	if cfg.Worker.Concurrency < 0 || cfg.Worker.QueueSize < 0 {
		return fmt.Errorf("WORKER_CONCURRENCY and WORKER_QUEUE_SIZE must be positive")
	}
	if cfg.Upload.MaxBytes < 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if cfg.Results.TTL < 0 {
		return fmt.Errorf("RESULTS_TTL must be positive")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
