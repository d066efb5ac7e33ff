package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabasePgx      = "pgx"
)

type Config struct {
	Port           int           `yaml:"port"`
	DatabaseURL    string        `yaml:"database_url"`
	DatabaseType   string        `yaml:"database_type"`
	VoterTokenSalt string        `yaml:"voter_token_salt"`
	StoreTimeout   time.Duration `yaml:"store_timeout"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		Port:           3318,
		DatabaseType:   DatabaseSQLite,
		StoreTimeout:   5 * time.Second,
		MaxOpenConns:   10,
		MetricsEnabled: true,
	}
}

// ParseFlags layers defaults, config file, environment and flags (in that
// order, later wins) and validates the result.
func ParseFlags(args []string) (Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var (
		flagCfg    Config
		configFile string
	)

	fs := pflag.NewFlagSet("roundvote", pflag.ContinueOnError)

	fs.IntVarP(&flagCfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&flagCfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&flagCfg.DatabaseType, "database-type", "t", "", "Database type (sqlite, postgres or pgx)")
	fs.StringVar(&flagCfg.VoterTokenSalt, "voter-salt", "", "Voter token salt (prefer env)")
	fs.DurationVar(&flagCfg.StoreTimeout, "store-timeout", 0, "Per-operation store timeout")
	fs.IntVar(&flagCfg.MaxOpenConns, "max-open-conns", 0, "Database connection pool size")
	fs.BoolVar(&flagCfg.MetricsEnabled, "metrics", true, "Expose Prometheus metrics")
	fs.StringVarP(&configFile, "config", "c", "", "YAML config file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// Flags override everything that came before
	if fs.Changed("port") {
		cfg.Port = flagCfg.Port
	}
	if fs.Changed("database-url") {
		cfg.DatabaseURL = flagCfg.DatabaseURL
	}
	if fs.Changed("database-type") {
		cfg.DatabaseType = flagCfg.DatabaseType
	}
	if fs.Changed("voter-salt") {
		cfg.VoterTokenSalt = flagCfg.VoterTokenSalt
	}
	if fs.Changed("store-timeout") {
		cfg.StoreTimeout = flagCfg.StoreTimeout
	}
	if fs.Changed("max-open-conns") {
		cfg.MaxOpenConns = flagCfg.MaxOpenConns
	}
	if fs.Changed("metrics") {
		cfg.MetricsEnabled = flagCfg.MetricsEnabled
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and ranges
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch c.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabasePgx:
	default:
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.StoreTimeout <= 0 {
		return errors.New("store timeout must be positive")
	}
	if c.MaxOpenConns <= 0 {
		return errors.New("max open conns must be positive")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" {
		cfg.DatabaseType = strings.ToLower(v)
	}
	if v := os.Getenv("VOTER_TOKEN_SALT"); v != "" {
		cfg.VoterTokenSalt = v
	}
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid STORE_TIMEOUT env variable")
		}
		cfg.StoreTimeout = d
	}
	if v := os.Getenv("MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid MAX_OPEN_CONNS env variable")
		}
		cfg.MaxOpenConns = n
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("invalid METRICS_ENABLED env variable")
		}
		cfg.MetricsEnabled = enabled
	}
	return nil
}
