package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// AnalysisConfig tunes the rep-detection state machine. The numeric
// thresholds are calibration parameters, not part of the API contract, so
// they are exposed here per exercise rather than hard-coded.
type AnalysisConfig struct {
	Exercises map[string]PhaseTuning `yaml:"exercises"`
}

// PhaseTuning overrides the phase machine for one exercise. Zero-valued
// fields keep the built-in default.
type PhaseTuning struct {
	ExtendThreshold   float64 `yaml:"extend_threshold"`
	ContractThreshold float64 `yaml:"contract_threshold"`
	HysteresisBand    float64 `yaml:"hysteresis_band"`
	MinStableFrames   int     `yaml:"min_stable_frames"`
	MinInterRepFrames int     `yaml:"min_inter_rep_frames"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix REPCOACH_ and underscore-separated
// paths:
//
//	REPCOACH_SERVER_HOST, REPCOACH_SERVER_PORT,
//	REPCOACH_DB_HOST, REPCOACH_DB_PORT, REPCOACH_DB_NAME,
//	REPCOACH_DB_USER, REPCOACH_DB_PASSWORD, REPCOACH_DB_SSLMODE,
//	REPCOACH_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPCOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPCOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPCOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPCOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPCOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPCOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPCOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPCOACH_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	for name, tuning := range c.Analysis.Exercises {
		if tuning.ExtendThreshold != 0 && tuning.ContractThreshold != 0 &&
			tuning.ExtendThreshold <= tuning.ContractThreshold {
			return fmt.Errorf("analysis.exercises.%s: extend_threshold must exceed contract_threshold", name)
		}
	}
	return nil
}
