// Package config resolves RowDB settings from a TOML file, a .env file and
// ROWDB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/nickyhof/RowDB/db"
)

const DefaultFile = "config.toml"

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
}

type DatabaseConfig struct {
	// URL is the database root, relative to the project root unless absolute.
	URL     string `toml:"url"`
	Name    string `toml:"name"`
	History bool   `toml:"history"`
}

type S3Config struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

type ServerConfig struct {
	Port      int    `toml:"port"`
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
	Audience  string `toml:"audience"`
	TLSCert   string `toml:"tls_cert"`
	TLSKey    string `toml:"tls_key"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{
			URL:     "data",
			Name:    "rowdb",
			History: true,
		},
		Log: LogConfig{
			File:  "app.log",
			Level: "info",
		},
		Server: ServerConfig{
			Port: 3306,
		},
	}
}

// Load reads the TOML file at path on top of the defaults. Keys the file
// sets but Config does not know are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadEnv loads the given .env files (".env" when none are named) into the
// process environment and applies the ROWDB_* overrides. Missing files are
// skipped. Variables already set in the environment win over the files.
func (cfg *Config) LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", filename, err)
		}
	}

	return cfg.ApplyEnv(os.LookupEnv)
}

// ApplyEnv overrides settings from ROWDB_* variables found by lookup.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	texts := []struct {
		name   string
		target *string
	}{
		{"ROWDB_DATABASE_URL", &cfg.Database.URL},
		{"ROWDB_DATABASE_NAME", &cfg.Database.Name},
		{"ROWDB_LOG_FILE", &cfg.Log.File},
		{"ROWDB_LOG_LEVEL", &cfg.Log.Level},
		{"ROWDB_S3_REGION", &cfg.S3.Region},
		{"ROWDB_S3_ENDPOINT", &cfg.S3.Endpoint},
		{"ROWDB_S3_ACCESS_KEY", &cfg.S3.AccessKey},
		{"ROWDB_S3_SECRET_KEY", &cfg.S3.SecretKey},
		{"ROWDB_JWT_SECRET", &cfg.Server.JWTSecret},
		{"ROWDB_JWT_ISSUER", &cfg.Server.Issuer},
		{"ROWDB_JWT_AUDIENCE", &cfg.Server.Audience},
		{"ROWDB_TLS_CERT", &cfg.Server.TLSCert},
		{"ROWDB_TLS_KEY", &cfg.Server.TLSKey},
	}
	for _, override := range texts {
		if value, ok := lookup(override.name); ok {
			*override.target = value
		}
	}

	bools := []struct {
		name   string
		target *bool
	}{
		{"ROWDB_HISTORY", &cfg.Database.History},
		{"ROWDB_LOG_CONSOLE", &cfg.Log.Console},
	}
	for _, override := range bools {
		if value, ok := lookup(override.name); ok {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", override.name, err)
			}
			*override.target = parsed
		}
	}

	if value, ok := lookup("ROWDB_PORT"); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ROWDB_PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	return nil
}

// ProjectRoot is $ROWDB_ROOT when set, else the working directory.
func ProjectRoot() (string, error) {
	if root := os.Getenv("ROWDB_ROOT"); root != "" {
		return root, nil
	}
	return os.Getwd()
}

// DatabasePath resolves the database URL against root.
func (cfg Config) DatabasePath(root string) string {
	url := strings.TrimPrefix(cfg.Database.URL, "file://")
	if filepath.IsAbs(url) {
		return url
	}
	return filepath.Join(root, url)
}

// Remote returns the S3 settings for import and export, or nil when none
// are configured.
func (s3 S3Config) Remote() *db.S3Config {
	if s3 == (S3Config{}) {
		return nil
	}
	return &db.S3Config{
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
		Region:    s3.Region,
		Endpoint:  s3.Endpoint,
	}
}
