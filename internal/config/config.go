package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/validation"
)

//go:embed config.schema.json
var schemaDoc []byte

// Config holds the application configuration
type Config struct {
	Matrix   MatrixConfig   `koanf:"matrix"`
	Discord  DiscordConfig  `koanf:"discord"`
	Sherlock SherlockConfig `koanf:"sherlock"`
	Log      LogConfig      `koanf:"log"`
	HTTP     HTTPConfig     `koanf:"http"`

	// Source is the file the configuration was read from
	Source string `koanf:"-"`
}

// MatrixConfig holds Matrix account credentials
type MatrixConfig struct {
	Homeserver  string `koanf:"homeserver" validate:"required,url"`
	Username    string `koanf:"username" validate:"required"`
	Password    string `koanf:"password" validate:"required_without=AccessToken"`
	AccessToken string `koanf:"access_token"`
	DeviceID    string `koanf:"device_id"`
}

// DiscordConfig holds Discord bot credentials and command options
type DiscordConfig struct {
	Token              string `koanf:"token" validate:"required"`
	AppID              string `koanf:"app_id"`
	GuildID            string `koanf:"guild_id"`
	ForceCommandUpdate bool   `koanf:"force_command_update"`
	MessageCommands    bool   `koanf:"message_commands"`
}

// SherlockConfig describes how the search tool is invoked
type SherlockConfig struct {
	Command     string            `koanf:"command" validate:"required"`
	Args        []string          `koanf:"args"`
	Dir         string            `koanf:"dir" validate:"required"`
	OutputDir   string            `koanf:"output_dir"`
	Env         map[string]string `koanf:"env"`
	Timeout     time.Duration     `koanf:"timeout"`
	SiteTimeout int               `koanf:"site_timeout" validate:"min=1"`
	SimilarMode string            `koanf:"similar_mode" validate:"oneof=wildcard flag"`
	ChunkSize   int               `koanf:"chunk_size" validate:"min=100,max=2000"`
}

// LogConfig mirrors logger.Config
type LogConfig struct {
	Level       string `koanf:"level"`
	Format      string `koanf:"format"`
	Environment string `koanf:"environment"`
	AddSource   bool   `koanf:"add_source"`
}

// HTTPConfig configures the health/metrics listener. Empty Addr disables it.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// Default returns a config populated with defaults for every optional field
func Default() *Config {
	return &Config{
		Sherlock: SherlockConfig{
			Command:     DefaultSherlockCommand,
			Args:        []string{"-m", DefaultSherlockModule},
			Dir:         DefaultSherlockDir,
			Timeout:     domain.DefaultToolTimeout,
			SiteTimeout: domain.DefaultSiteTimeout,
			SimilarMode: domain.SimilarModeWildcard,
			ChunkSize:   domain.MaxChunkSize,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "text",
			Environment: "dev",
		},
	}
}

// Load loads the configuration from the first usable candidate file
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	return LoadFrom(Candidates())
}

// Candidates returns config file locations in lookup order: the path named by
// WATSON_CONFIG, config.json next to the executable, config.json in the
// working directory.
func Candidates() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ConfigFileName))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ConfigFileName))
	}
	return paths
}

// LoadFrom tries each path in order; the first file that exists, matches the
// schema and parses wins. Environment overrides are applied on top.
func LoadFrom(paths []string) (*Config, error) {
	schemas := validation.NewSchemaValidator()
	if err := schemas.RegisterSchema(SchemaName, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to load config schema: %w", err)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			slog.Debug("Config candidate not found", "path", path)
			continue
		}

		cfg, err := loadFile(path, schemas)
		if err != nil {
			slog.Warn("Skipping config candidate", "path", path, "error", err)
			continue
		}
		return cfg, nil
	}

	return nil, fmt.Errorf("%w: tried %s", domain.ErrNoConfig, strings.Join(paths, ", "))
}

func loadFile(path string, schemas validation.SchemaValidator) (*Config, error) {
	if err := schemas.ValidateFile(path, SchemaName); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfigDocument, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := applyLegacyKeys(k); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	cfg.Source = path

	if cfg.Sherlock.OutputDir == "" {
		cfg.Sherlock.OutputDir = cfg.Sherlock.Dir
	}

	if err := ValidateSherlock(cfg.Sherlock); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyLegacyKeys maps the original flat Matrix keys onto the matrix section
// when that section is absent.
func applyLegacyKeys(k *koanf.Koanf) error {
	if k.Exists("matrix") || !k.Exists("homeserver") {
		return nil
	}
	for _, key := range []string{"homeserver", "username", "password"} {
		if !k.Exists(key) {
			continue
		}
		if err := k.Set("matrix."+key, k.String(key)); err != nil {
			return fmt.Errorf("failed to map legacy key %s: %w", key, err)
		}
	}
	return nil
}

// envKey turns WATSON_DISCORD__TOKEN into discord.token. Variables that name
// the config path itself are ignored.
func envKey(s string) string {
	if s == EnvConfigPath {
		return ""
	}
	key := strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), strings.ToLower(EnvKeySeparator), ".")
}
