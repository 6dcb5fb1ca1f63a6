// Package config loads the wordcloud configuration file.
//
// The file is TOML and every field is optional:
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	write_timeout = "30s"
//
//	[cache]
//	backend = "file"        # file, redis or none
//	dir = "~/.cache/wordcloud"
//	redis_addr = "localhost:6379"
//	redis_db = 0
//	ttl = "24h"             # layouts and artifacts; zero keeps the defaults
//	prefix = "prod:"        # key prefix for shared backends
//
//	[source]
//	backend = "file"        # file or mongo
//	path = "./boards"
//	mongo_uri = "mongodb://localhost:27017"
//	database = "wordcloud"
//	collection = "submissions"
//	moderation = "auto"     # auto or manual
//
//	[layout]
//	measurer = "opentype"   # opentype or shaped
//	limit = 25
//
//	[log]
//	level = "info"          # info or debug
//
// Command-line flags override file values.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	apperrors "github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/keyword"
	"github.com/matzehuels/wordcloud/pkg/measure"
	"github.com/matzehuels/wordcloud/pkg/source"
)

// AppName names the configuration and cache directories.
const AppName = "wordcloud"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Moderation modes for new submissions.
const (
	ModerationAuto   = "auto"
	ModerationManual = "manual"
)

// Config is the complete configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Source SourceConfig `toml:"source"`
	Layout LayoutConfig `toml:"layout"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
	TTL           time.Duration `toml:"ttl"`
}

// SourceConfig selects where board keywords come from.
type SourceConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Moderation string `toml:"moderation"`
}

// LayoutConfig holds layout defaults.
type LayoutConfig struct {
	Measurer string `toml:"measurer"`
	Limit    int    `toml:"limit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
		Source: SourceConfig{
			Backend:    source.BackendFile,
			Path:       "boards",
			Database:   source.DefaultMongoDatabase,
			Collection: source.DefaultMongoCollection,
			Moderation: ModerationAuto,
		},
		Layout: LayoutConfig{
			Measurer: measure.Default,
			Limit:    keyword.DefaultLimit,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wordcloud/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using XDG standard (~/.cache/wordcloud/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path over the defaults and validates the result.
// An empty path reads DefaultPath, and a missing default file is not an
// error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, cfg.Validate()
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, cfg.Validate()
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s not found", path)
	case err != nil:
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}

	return cfg, cfg.Validate()
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return invalid("cache.backend", c.Cache.Backend, "file, redis, none")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	switch c.Source.Backend {
	case source.BackendFile:
		if c.Source.Path == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "source.path is required for the file backend")
		}
	case source.BackendMongo:
		if c.Source.MongoURI == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "source.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid("source.backend", c.Source.Backend, "file, mongo")
	}
	switch c.Source.Moderation {
	case ModerationAuto, ModerationManual:
	default:
		return invalid("source.moderation", c.Source.Moderation, "auto, manual")
	}

	if !measure.Valid(c.Layout.Measurer) {
		return invalid("layout.measurer", c.Layout.Measurer, strings.Join(measure.Names(), ", "))
	}
	if err := apperrors.ValidateLimit(c.Layout.Limit); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "layout.limit")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, "debug, info, warn, error")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "server timeouts must not be negative")
	}
	return nil
}

func invalid(key, value, allowed string) error {
	return apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid %s %q (must be one of: %s)", key, value, allowed)
}

// LogLevel returns the configured log level.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// AutoApprove reports whether new submissions count immediately.
func (c Config) AutoApprove() bool {
	return c.Source.Moderation == ModerationAuto
}

// SourceOptions converts the source section for source.Open.
func (c Config) SourceOptions() source.Options {
	return source.Options{
		Backend: c.Source.Backend,
		Path:    c.Source.Path,
		Mongo: source.MongoOptions{
			URI:        c.Source.MongoURI,
			Database:   c.Source.Database,
			Collection: c.Source.Collection,
		},
	}
}

// Keyer returns the cache keyer, scoped by cache.prefix when set so several
// deployments can share one Redis database.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// OpenCache builds the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := c.Cache.Dir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}
