package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// The target database name and port are fixed; only host and credentials
// come from the environment.
const (
	DBName = "mynew_db"
	DBPort = 5432
)

// Environment variables holding required secrets.
const (
	EnvNewsAPIKey = "NEWS_API_KEY"
	EnvDBHost     = "DB_HOST"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvBucket     = "S3_BUCKET"
)

// Config is built once at process start and passed into each component.
// Non-secret settings come from an optional YAML file, secrets from the
// environment.
type Config struct {
	Feed   Feed   `yaml:"feed"`
	Server Server `yaml:"server"`
	AWS    AWS    `yaml:"aws"`

	// Environment-provided, never read from YAML.
	NewsAPIKey string `yaml:"-"`
	DBHost     string `yaml:"-"`
	DBUser     string `yaml:"-"`
	DBPassword string `yaml:"-"`
	Bucket     string `yaml:"-"`
}

type Feed struct {
	Sources  string `yaml:"sources"`
	PageSize int    `yaml:"page_size"`
}

type Server struct {
	Port int `yaml:"port"`
}

type AWS struct {
	Region string `yaml:"region"`
}

// MissingEnvError reports required environment variables that are absent.
type MissingEnvError struct {
	Vars []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// ConfigDir returns the XDG config directory for newsboard.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newsboard")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newsboard/config.yaml > ./config.yaml.
// An empty return means no file exists and embedded defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load builds the configuration: YAML file (or embedded defaults) for
// settings, environment for secrets. A .env file in the working directory
// is honored for local development. Missing required secrets fail here,
// not deeper in the pipeline.
func Load(path string) (*Config, error) {
	data := DefaultConfigYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}

	// Best effort; secrets may come from the real environment instead.
	_ = godotenv.Load()

	if err := cfg.readEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Feed:   Feed{Sources: "techcrunch", PageSize: 100},
		Server: Server{Port: 8000},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Feed.PageSize <= 0 || cfg.Feed.PageSize > 100 {
		cfg.Feed.PageSize = 100
	}
	return cfg, nil
}

func (c *Config) readEnv() error {
	required := []struct {
		name string
		dst  *string
	}{
		{EnvNewsAPIKey, &c.NewsAPIKey},
		{EnvDBHost, &c.DBHost},
		{EnvDBUser, &c.DBUser},
		{EnvDBPassword, &c.DBPassword},
		{EnvBucket, &c.Bucket},
	}

	var missing []string
	for _, r := range required {
		v := os.Getenv(r.name)
		if v == "" {
			missing = append(missing, r.name)
			continue
		}
		*r.dst = v
	}

	if len(missing) > 0 {
		return &MissingEnvError{Vars: missing}
	}
	return nil
}

// DSN returns the connection string for the data database.
func (c *Config) DSN() string {
	return c.dsn(DBName)
}

// AdminDSN returns the connection string for the server's default database,
// used only for catalog lookups and CREATE DATABASE.
func (c *Config) AdminDSN() string {
	return c.dsn("postgres")
}

func (c *Config) dsn(database string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + strconv.Itoa(DBPort),
		Path:   "/" + database,
	}
	return u.String()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
