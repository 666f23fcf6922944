package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from
// config.yml. A missing file yields the defaults; selected environment
// variables override file values.
func LoadAppConfig() error {
	paths := []string{"config.yml", "config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}

	var cfg AppConfig
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return err
		}
		v := validator.New()
		if err := v.Struct(cfg); err != nil {
			return err
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	Config = cfg
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("TXC_CACHE_DIR"); v != "" {
		cfg.Registry.CacheDir = v
	}
	if v := os.Getenv("TXC_NAPTAN_URL"); v != "" {
		cfg.Registry.URL = v
	}
	if v := os.Getenv("TXC_BANK_HOLIDAYS_URL"); v != "" {
		cfg.Holidays.URL = v
	}
	if v := os.Getenv("TXC_DATABASE_PATH"); v != "" {
		cfg.Output.DatabasePath = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Registry.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.Registry.CacheDir = filepath.Join(dir, "txc-to-gtfs")
		} else {
			cfg.Registry.CacheDir = filepath.Join(os.TempDir(), "txc-to-gtfs")
		}
	}
	if cfg.Registry.MaxAgeDays == 0 {
		cfg.Registry.MaxAgeDays = 30
	}
	if cfg.Registry.Attempts == 0 {
		cfg.Registry.Attempts = 3
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = runtime.NumCPU() - 1
		if cfg.Batch.Workers < 1 {
			cfg.Batch.Workers = 1
		}
	}
	if cfg.Batch.FileSizeLimitMB == 0 {
		cfg.Batch.FileSizeLimitMB = 2000
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "gtfs.zip"
	}
	if cfg.Output.DatabasePath == "" {
		cfg.Output.DatabasePath = filepath.Join(filepath.Dir(cfg.Output.Path), "gtfs.db")
	}
}
