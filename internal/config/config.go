package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// envPrefix is prepended to every environment override, e.g. SUBS_STORAGE_DRIVER.
const envPrefix = "SUBS_"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env     string        `yaml:"env" env:"ENV"`
	Server  ServerConfig  `yaml:"http_server" envPrefix:"HTTP_"`
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Pg      PgConfig      `yaml:"postgres" envPrefix:"PG_"`
}

type ServerConfig struct {
	Host        string        `yaml:"host" env:"HOST"`
	Port        int           `yaml:"port" env:"PORT"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
	CORSOrigins []string      `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	// Path is a directory for the file driver and a database file for bolt and sqlite.
	Path string `yaml:"path" env:"PATH"`
	Key  string `yaml:"key" env:"KEY"`
}

type PgConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	Db       string `yaml:"db" env:"DB"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// URL renders a postgres:// connection string.
func (p PgConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Db,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// HomeDir is where the CLI keeps its config and data by default.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".subspend"
	}
	return filepath.Join(home, ".subspend")
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Env: EnvLocal,
		Server: ServerConfig{
			Host:    "localhost",
			Port:    8080,
			Timeout: 4 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			Key:    "subscriptions",
		},
		Pg: PgConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
	}
}

func resolvePath(cwd, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	if up, ok := findUp(cwd, p, 8); ok {
		return up
	}
	return filepath.Join(cwd, p)
}

func findUp(start, rel string, max int) (string, bool) {
	dir := start
	for i := 0; i <= max; i++ {
		p := filepath.Join(dir, rel)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// Load reads configuration in layers: dotenv file, YAML with ${VAR}
// expansion, SUBS_* environment overrides, then defaults for anything unset.
//
// An explicit path (argument or CONFIG_PATH) must exist. When no path is
// given and no config is discovered, defaults are used.
func Load(path string) (*Config, error) {
	cwd, _ := os.Getwd()

	envPath := os.Getenv("ENV_FILE")
	if envPath == "" {
		envPath = os.Getenv("CONFIG_PG_PATH")
	}
	if envPath == "" {
		if up, ok := findUp(cwd, ".env/local_pg.env", 8); ok {
			envPath = up
		}
	} else {
		envPath = resolvePath(cwd, envPath)
	}
	if envPath != "" {
		if err := godotenv.Overload(envPath); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	explicit := path != ""
	if explicit {
		path = resolvePath(cwd, path)
	} else if up, ok := findUp(cwd, "configs/local.yaml", 8); ok {
		path = up
	} else {
		path = filepath.Join(HomeDir(), "config.yaml")
	}

	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(raw))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
		// relative to the file, not to wherever the binary was started
		if p := cfg.Storage.Path; p != "" && !filepath.IsAbs(p) {
			cfg.Storage.Path = filepath.Join(filepath.Dir(path), p)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = def.Env
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}
	if c.Storage.Key == "" {
		c.Storage.Key = def.Storage.Key
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case DriverFile:
			c.Storage.Path = HomeDir()
		case DriverBolt:
			c.Storage.Path = filepath.Join(HomeDir(), "subspend.db")
		case DriverSQLite:
			c.Storage.Path = filepath.Join(HomeDir(), "subspend.sqlite")
		}
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = def.Server.Timeout
	}
	if c.Pg.SSLMode == "" {
		c.Pg.SSLMode = def.Pg.SSLMode
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{EnvLocal, EnvDev, EnvProd}, c.Env) {
		errs = append(errs, fmt.Errorf("env must be one of local, dev, prod; got %q", c.Env))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("http_server.port out of range: %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage.key is required"))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile, DriverBolt, DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for driver %s", c.Storage.Driver))
		}
	case DriverPostgres:
		if c.Pg.Host == "" || c.Pg.Db == "" || c.Pg.User == "" {
			errs = append(errs, errors.New("postgres.host, postgres.db and postgres.user are required"))
		}
		if c.Pg.Port <= 0 || c.Pg.Port > 65535 {
			errs = append(errs, fmt.Errorf("postgres.port out of range: %d", c.Pg.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
