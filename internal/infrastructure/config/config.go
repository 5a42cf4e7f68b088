package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverMongoDB = "mongodb"
	DriverSQLite  = "sqlite"
)

// Config is the root configuration structure for the Movie API.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	API      APIConfig      `yaml:"api"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
}

// DatabaseConfig selects and configures the persistence backend.
//
// The mongodb driver uses URI and Name; the sqlite driver uses Path, WALMode
// and BusyTimeout.
type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	URI         string `yaml:"uri"`
	Name        string `yaml:"name"`
	Timeout     int    `yaml:"timeout"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// CatalogConfig controls the movie catalog.
type CatalogConfig struct {
	// SeedFile is a YAML list of movies loaded when the catalog is empty.
	// Empty disables seeding.
	SeedFile string `yaml:"seed_file"`

	// Public exposes the catalog read routes without a bearer token.
	Public bool `yaml:"public"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT      JWTConfig      `yaml:"jwt"`
	Password PasswordConfig `yaml:"password"`
}

// JWTConfig contains JWT token settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`

	// AccessTokenTTL is the bearer token lifetime in minutes.
	AccessTokenTTL int `yaml:"access_token_ttl"`
}

// PasswordConfig contains password hashing settings.
type PasswordConfig struct {
	// BcryptCost is the bcrypt work factor (4-31).
	BcryptCost int `yaml:"bcrypt_cost"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults); a missing file is skipped
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: MOVIEAPI_SECTION_KEY
// For example: MOVIEAPI_DATABASE_URI, MOVIEAPI_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be parsed, an override is malformed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Environment-only deployments have no config file.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:      DriverMongoDB,
			URI:         "mongodb://localhost:27017",
			Name:        "movieapi",
			Timeout:     10,
			Path:        "./data/movieapi.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Catalog: CatalogConfig{
			SeedFile: "configs/movies.yaml",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "movieapi",
			},
			QoS:         1,
			TopicPrefix: "movieapi",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL: 7 * 24 * 60,
			},
			Password: PasswordConfig{
				BcryptCost: 10,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: MOVIEAPI_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	// Database
	if v := os.Getenv("MOVIEAPI_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MOVIEAPI_DATABASE_URI"); v != "" {
		cfg.Database.URI = v
	}
	if v := os.Getenv("MOVIEAPI_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Catalog
	if v := os.Getenv("MOVIEAPI_CATALOG_SEED_FILE"); v != "" {
		cfg.Catalog.SeedFile = v
	}

	// API
	if v := os.Getenv("MOVIEAPI_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("MOVIEAPI_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MOVIEAPI_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}

	// MQTT
	if v := os.Getenv("MOVIEAPI_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("MOVIEAPI_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("MOVIEAPI_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("MOVIEAPI_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security - JWT secret (always override in production)
	if v := os.Getenv("MOVIEAPI_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}

	return nil
}

// Validate checks the configuration for errors and security issues.
// Every problem is reported, not only the first.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	switch c.Database.Driver {
	case DriverMongoDB:
		if c.Database.URI == "" {
			errs = append(errs, "database.uri is required for the mongodb driver (set MOVIEAPI_DATABASE_URI)")
		}
		if c.Database.Name == "" {
			errs = append(errs, "database.name is required for the mongodb driver")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, "database.path is required for the sqlite driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be %q or %q", DriverMongoDB, DriverSQLite))
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Security validation - the signing secret is the only thing standing
	// between a client and a forged identity.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set MOVIEAPI_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}
	if c.Security.JWT.AccessTokenTTL < 0 {
		errs = append(errs, "security.jwt.access_token_ttl must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetTokenTTL returns the bearer token lifetime as a Duration.
func (c *Config) GetTokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.AccessTokenTTL) * time.Minute
}
