package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Mode           string `mapstructure:"mode"`
	BaseURL        string `mapstructure:"base_url"`
	RedirectStatus int    `mapstructure:"redirect_status"`
	AdminEnabled   bool   `mapstructure:"admin_enabled"`
	// AllowedOrigins lists the origins allowed to call the admin API.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// TempLinkConfig holds the store-level link defaults.
type TempLinkConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout"`
	IntervalMillis int    `mapstructure:"interval"`
	OneTime        bool   `mapstructure:"one_time"`
	Method         string `mapstructure:"method"`
	Redirect       string `mapstructure:"redirect"`
	Callback       string `mapstructure:"callback"`
	ParamName      string `mapstructure:"param_name"`
	RoutePrefix    string `mapstructure:"route_prefix"`
	ConsumedCache  int    `mapstructure:"consumed_cache_size"`
}

func (t *TempLinkConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

func (t *TempLinkConfig) Interval() time.Duration {
	return time.Duration(t.IntervalMillis) * time.Millisecond
}

// SnapshotConfig controls persistence of the exported link set.
type SnapshotConfig struct {
	// Driver is one of none, redis or database.
	Driver             string `mapstructure:"driver"`
	Key                string `mapstructure:"key"`
	SaveIntervalSecond int    `mapstructure:"save_interval"`
	ImportCallback     string `mapstructure:"import_callback"`
}

func (s *SnapshotConfig) SaveInterval() time.Duration {
	return time.Duration(s.SaveIntervalSecond) * time.Second
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DatabaseConfig struct {
	// Driver is sqlite or mysql.
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}
