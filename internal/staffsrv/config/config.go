package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

const ConfigFormatVersion = "0.1"

const (
	StoragePostgres = "postgresql"
	StorageMemory   = "memory"

	PoolModePerCall  = "per_call"
	PoolModeRegistry = "registry"
)

// TLSConfig mirrors the per-tenant "ssl" block of the legacy tenants file.
type TLSConfig struct {
	RejectUnauthorized bool `toml:"reject_unauthorized" json:"rejectUnauthorized"`
}

// DBConnConfig holds the connection parameters of one database. Tenant
// entries are keyed by Database, matched case-insensitively.
type DBConnConfig struct {
	Database string     `toml:"database" json:"database"`
	Host     string     `toml:"host" json:"host"`
	Port     int        `toml:"port" json:"port"`
	User     string     `toml:"user" json:"user"`
	Password string     `toml:"password" json:"password"`
	SSLMode  string     `toml:"sslmode" json:"sslmode,omitempty"`
	SSL      *TLSConfig `toml:"ssl" json:"ssl,omitempty"`
	// Code seeds the control plane when storage is "memory". Ignored otherwise.
	Code string `toml:"code" json:"code,omitempty"`
}

// TLSMode returns the libpq sslmode for the connection. An explicit sslmode
// wins; otherwise the ssl block decides.
func (c DBConnConfig) TLSMode() string {
	if c.SSLMode != "" {
		return c.SSLMode
	}
	if c.SSL == nil {
		return "disable"
	}
	if c.SSL.RejectUnauthorized {
		return "verify-full"
	}
	return "require"
}

// PoolConfig controls how tenant connections are acquired.
type PoolConfig struct {
	Mode             string `toml:"mode"`              // per_call or registry
	IdleTimeout      string `toml:"idle_timeout"`      // registry mode pool eviction
	StatementTimeout string `toml:"statement_timeout"` // applied to each connection
	LockTimeout      string `toml:"lock_timeout"`      // applied to each connection
	MaxOpenConns     int    `toml:"max_open_conns"`    // per tenant pool
}

func (p *PoolConfig) GetIdleTimeout() time.Duration {
	return durationOrDefault(p.IdleTimeout, 10*time.Minute)
}

func (p *PoolConfig) GetStatementTimeout() time.Duration {
	return durationOrDefault(p.StatementTimeout, 5*time.Second)
}

func (p *PoolConfig) GetLockTimeout() time.Duration {
	return durationOrDefault(p.LockTimeout, 5*time.Second)
}

// AuthConfig holds the bearer token settings used by password reset.
type AuthConfig struct {
	TokenSecret string `toml:"token_secret"`
	TokenExpiry string `toml:"token_expiry"`
}

func (a *AuthConfig) GetTokenExpiry() time.Duration {
	return durationOrDefault(a.TokenExpiry, time.Hour)
}

// ConfigParam holds all configuration parameters for the workforce server
type ConfigParam struct {
	FormatVersion string `toml:"format_version"`

	// Server configuration
	ServerPort         string   `toml:"server_port"`
	HandleCORS         bool     `toml:"handle_cors"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	LogLevel           string   `toml:"log_level"`
	TraceRoutes        bool     `toml:"trace_routes"`

	// Storage backend for the control plane and tenant databases
	Storage      string       `toml:"storage"`
	ControlPlane DBConnConfig `toml:"control_plane"`
	Pool         PoolConfig   `toml:"pool"`

	Auth AuthConfig `toml:"auth"`

	BcryptCost        int `toml:"bcrypt_cost"`
	EnrichConcurrency int `toml:"enrich_concurrency"`

	// Tenant database connection parameters. TenantsFile is merged after the
	// inline entries.
	TenantsFile string         `toml:"tenants_file"`
	Tenants     []DBConnConfig `toml:"tenants"`
}

var cfg *ConfigParam

// Config returns the current configuration
func Config() *ConfigParam {
	return cfg
}

// SetConfig replaces the current configuration.
func SetConfig(c *ConfigParam) {
	cfg = c
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *ConfigParam {
	c := &ConfigParam{
		FormatVersion: ConfigFormatVersion,
		ServerPort:    "8196",
		HandleCORS:    true,
		LogLevel:      "info",
		Storage:       StoragePostgres,
		ControlPlane: DBConnConfig{
			Database: "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
		},
	}
	applyDefaults(c)
	return c
}

func applyDefaults(c *ConfigParam) {
	if c.FormatVersion == "" {
		c.FormatVersion = ConfigFormatVersion
	}
	if c.Storage == "" {
		c.Storage = StoragePostgres
	}
	if c.Pool.Mode == "" {
		c.Pool.Mode = PoolModePerCall
	}
	if c.Pool.MaxOpenConns <= 0 {
		c.Pool.MaxOpenConns = 4
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 10
	}
	if c.EnrichConcurrency <= 0 {
		c.EnrichConcurrency = 4
	}
	if c.ControlPlane.Port == 0 {
		c.ControlPlane.Port = 5432
	}
	for i := range c.Tenants {
		if c.Tenants[i].Port == 0 {
			c.Tenants[i].Port = 5432
		}
	}
}

// LoadConfig reads the TOML configuration file. An empty filename loads the
// defaults.
func LoadConfig(filename string) error {
	if filename == "" {
		cfg = DefaultConfig()
		return nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "error reading config file")
	}
	var cp ConfigParam
	if _, err := toml.Decode(string(content), &cp); err != nil {
		return errors.Wrap(err, "error parsing config file")
	}
	if cp.TenantsFile != "" {
		path := cp.TenantsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(filename), path)
		}
		tenants, err := LoadTenantsFile(path)
		if err != nil {
			return err
		}
		cp.Tenants = append(cp.Tenants, tenants...)
	}
	applyDefaults(&cp)
	if err := ValidateConfig(&cp); err != nil {
		return err
	}
	cfg = &cp
	return nil
}

type tenantsFile struct {
	Tenants []DBConnConfig `json:"tenants"`
}

// LoadTenantsFile reads the per-tenant connection list. The file may be JSON
// or YAML.
func LoadTenantsFile(path string) ([]DBConnConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading tenants file %s", path)
	}
	var tf tenantsFile
	if err := yaml.Unmarshal(content, &tf); err != nil {
		return nil, errors.Wrapf(err, "error parsing tenants file %s", path)
	}
	return tf.Tenants, nil
}

// ValidateConfig checks if all required configuration values are present and valid
func ValidateConfig(c *ConfigParam) error {
	if c.FormatVersion != ConfigFormatVersion {
		return fmt.Errorf("unsupported config file format version: %s", c.FormatVersion)
	}
	if c.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	switch c.Storage {
	case StoragePostgres:
		if c.ControlPlane.Host == "" || c.ControlPlane.Database == "" {
			return fmt.Errorf("control_plane host and database are required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported storage: %s", c.Storage)
	}
	switch c.Pool.Mode {
	case PoolModePerCall, PoolModeRegistry:
	default:
		return fmt.Errorf("unsupported pool mode: %s", c.Pool.Mode)
	}
	for _, d := range []struct {
		name  string
		value string
	}{
		{"pool.idle_timeout", c.Pool.IdleTimeout},
		{"pool.statement_timeout", c.Pool.StatementTimeout},
		{"pool.lock_timeout", c.Pool.LockTimeout},
		{"auth.token_expiry", c.Auth.TokenExpiry},
	} {
		if d.value == "" {
			continue
		}
		if _, err := ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}
	seen := make(map[string]bool)
	for _, t := range c.Tenants {
		if t.Database == "" || t.Host == "" {
			return fmt.Errorf("tenant entries require database and host")
		}
		key := strings.ToLower(t.Database)
		if seen[key] {
			return fmt.Errorf("duplicate tenant database: %s", t.Database)
		}
		seen[key] = true
	}
	return nil
}

// ParseDuration parses a duration string in the format "<number><unit>" where unit can be:
// - y: years
// - d: days
// - h: hours
// - m: minutes
// - s: seconds
func ParseDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	unit := input[len(input)-1:]
	valueStr := input[:len(input)-1]
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative duration: %s", input)
	}

	var duration time.Duration
	switch unit {
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "h":
		duration = time.Duration(value) * time.Hour
	case "m":
		duration = time.Duration(value) * time.Minute
	case "s":
		duration = time.Duration(value) * time.Second
	case "y":
		// Assuming 1 year = 365 days for simplicity
		duration = time.Duration(value) * 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}

	return duration, nil
}

func durationOrDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func init() {
	err := LoadConfig("")
	if err != nil {
		panic(err)
	}
}
