package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/templink/internal/shared/config"
	"github.com/orris-inc/templink/internal/shared/constants"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	TempLink sharedConfig.TempLinkConfig `mapstructure:"templink"`
	Snapshot sharedConfig.SnapshotConfig `mapstructure:"snapshot"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables. An empty
// path searches ./configs and its parents for config.yaml; a missing file
// there is not an error and leaves the defaults in place.
func Load(env, path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("TEMPLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects settings the store or server cannot run with.
func (c *Config) Validate() error {
	if c.TempLink.TimeoutSeconds <= 0 {
		return fmt.Errorf("templink.timeout must be positive, got %d", c.TempLink.TimeoutSeconds)
	}
	if c.TempLink.IntervalMillis <= 0 {
		return fmt.Errorf("templink.interval must be positive, got %d", c.TempLink.IntervalMillis)
	}
	if !strings.HasPrefix(c.TempLink.RoutePrefix, "/") {
		return fmt.Errorf("templink.route_prefix must start with /, got %q", c.TempLink.RoutePrefix)
	}
	if s := c.Server.RedirectStatus; s < http.StatusMultipleChoices || s > http.StatusPermanentRedirect {
		return fmt.Errorf("server.redirect_status must be a 3xx status, got %d", s)
	}

	switch c.Snapshot.Driver {
	case constants.SnapshotDriverNone, constants.SnapshotDriverRedis:
	case constants.SnapshotDriverDatabase:
		switch c.Database.Driver {
		case constants.DatabaseDriverSQLite, constants.DatabaseDriverMySQL:
		default:
			return fmt.Errorf("database.driver must be sqlite or mysql, got %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("snapshot.driver must be none, redis or database, got %q", c.Snapshot.Driver)
	}
	if c.Snapshot.Driver != constants.SnapshotDriverNone && c.Snapshot.SaveIntervalSecond <= 0 {
		return fmt.Errorf("snapshot.save_interval must be positive, got %d", c.Snapshot.SaveIntervalSecond)
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.redirect_status", http.StatusFound)
	v.SetDefault("server.admin_enabled", true)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Link defaults
	v.SetDefault("templink.timeout", 300)
	v.SetDefault("templink.interval", 1000)
	v.SetDefault("templink.one_time", true)
	v.SetDefault("templink.method", "")
	v.SetDefault("templink.redirect", "")
	v.SetDefault("templink.callback", "")
	v.SetDefault("templink.param_name", "templink")
	v.SetDefault("templink.route_prefix", "/l")
	v.SetDefault("templink.consumed_cache_size", 4096)

	// Snapshot defaults
	v.SetDefault("snapshot.driver", constants.SnapshotDriverNone)
	v.SetDefault("snapshot.key", "templink:snapshot")
	v.SetDefault("snapshot.save_interval", 30)
	v.SetDefault("snapshot.import_callback", "")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Database defaults
	v.SetDefault("database.driver", constants.DatabaseDriverSQLite)
	v.SetDefault("database.path", "templink.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "templink")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 60)
}
