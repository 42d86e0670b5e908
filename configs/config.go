package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Database DatabaseConfig
	Planner PlannerConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig drives repository/postgres or repository/mysql, depending
// on which driver prefix Driver names. The memory store ignores it.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // "memory", "postgres", "mysql"
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// PlannerConfig mirrors planner.Config, kept separate so configs has no
// import-time dependency on the internal planner package.
type PlannerConfig struct {
	WorkHoursStart         string `mapstructure:"work_hours_start"`
	WorkHoursEnd           string `mapstructure:"work_hours_end"`
	DefaultEstimateMinutes int    `mapstructure:"default_estimate_minutes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// LoadConfig loads configuration from config.yaml and environment variables.
// Environment variables take precedence over config file values.
//
// Config file search order (first found is used):
// 1. Path from DAYWISE_CONFIG_FILE environment variable
// 2. ./configs/config.yaml, then ./config.yaml (relative to working directory)
// 3. <executable_dir>/configs/config.yaml, then <executable_dir>/config.yaml
// 4. <project_root>/configs/config.yaml, then <project_root>/config.yaml (detected by go.mod)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("DAYWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := parseDurations(v, &config); err != nil {
		return nil, fmt.Errorf("failed to parse durations: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func findConfigFile() string {
	if envPath := os.Getenv("DAYWISE_CONFIG_FILE"); envPath != "" {
		if fileExists(envPath) {
			return envPath
		}
	}

	candidates := []string{
		"./configs/config.yaml",
		"./config.yaml",
	}

	if exeDir, err := getExecutableDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(exeDir, "configs", "config.yaml"),
			filepath.Join(exeDir, "config.yaml"),
		)
	}

	if projectRoot, err := findProjectRoot(); err == nil {
		candidates = append(candidates,
			filepath.Join(projectRoot, "configs", "config.yaml"),
			filepath.Join(projectRoot, "config.yaml"),
		)
	}

	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if fileExists(absPath) {
			return absPath
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func getExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.migrations_dir", "./migrations")

	v.SetDefault("planner.work_hours_start", "08:00")
	v.SetDefault("planner.work_hours_end", "17:00")
	v.SetDefault("planner.default_estimate_minutes", 15)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func parseDurations(v *viper.Viper, config *Config) error {
	if lifetime := v.GetString("database.conn_max_lifetime"); lifetime != "" {
		d, err := time.ParseDuration(lifetime)
		if err != nil {
			return fmt.Errorf("invalid database.conn_max_lifetime: %w", err)
		}
		config.Database.ConnMaxLifetime = d
	}

	if idle := v.GetString("database.conn_max_idle_time"); idle != "" {
		d, err := time.ParseDuration(idle)
		if err != nil {
			return fmt.Errorf("invalid database.conn_max_idle_time: %w", err)
		}
		config.Database.ConnMaxIdleTime = d
	}

	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch config.Database.Driver {
	case "memory", "postgres", "mysql":
	default:
		return fmt.Errorf("database.driver must be one of memory, postgres, mysql")
	}

	if config.Database.Driver != "memory" && config.Database.URL == "" {
		return fmt.Errorf("database.url is required for driver %q", config.Database.Driver)
	}

	if config.Planner.DefaultEstimateMinutes <= 0 {
		return fmt.Errorf("planner.default_estimate_minutes must be positive")
	}

	return nil
}
