// Package config loads searchlab settings from a TOML file, environment
// variables and command-line flags, in increasing order of precedence.
//
// Keys are dotted paths such as "search.strategy" or "cache.backend". The
// matching environment variable upper-cases the key and replaces dots and
// dashes with underscores under the SEARCHLAB prefix, so "cache.ttl" is
// SEARCHLAB_CACHE_TTL.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SEARCHLAB"

// FileName is the config file looked up when none is given explicitly.
const FileName = "searchlab.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete runtime configuration.
type Config struct {
	Search SearchConfig `mapstructure:"search"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`

	// File is the config file that was read, or empty.
	File string `mapstructure:"-"`
}

// SearchConfig holds engine defaults.
type SearchConfig struct {
	Strategy      string        `mapstructure:"strategy"`
	MaxExpansions int           `mapstructure:"max-expansions"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CacheConfig selects and tunes the solution cache.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ServerConfig configures `searchlab serve`.
type ServerConfig struct {
	Listen       string        `mapstructure:"listen"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
	MaxBodyBytes int64         `mapstructure:"max-body-bytes"`
	// GraphDir is the only directory graph files may be loaded from over
	// the API. Empty disables file references.
	GraphDir string `mapstructure:"graph-dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Search: SearchConfig{
			Strategy:      search.AStar.String(),
			MaxExpansions: 1_000_000,
			Timeout:       30 * time.Second,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     7 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "searchlab:",
		},
		Server: ServerConfig{
			Listen:       ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// File is an explicit config path. When set, it must exist.
	File string
	// SearchPaths are directories searched for FileName when File is empty.
	// Nil means the user config directory and the working directory.
	SearchPaths []string
	// Flags, when set, are bound by Bindings.
	Flags *pflag.FlagSet
	// Bindings maps config keys to flag names in Flags. Only flags the user
	// changed override file and environment values.
	Bindings map[string]string
}

// Load resolves the configuration. Missing optional files are not an error.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	file, err := findFile(opts)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config %s", file)
		}
	}

	if opts.Flags != nil {
		for key, name := range opts.Bindings {
			f := opts.Flags.Lookup(name)
			if f == nil {
				return nil, errors.New(errors.ErrCodeInternal, "flag %q bound to %q not defined", name, key)
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "bind flag %q", name)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	cfg.File = file
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every leaf of d so that AutomaticEnv can see the keys
// even when no config file mentions them.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("search.strategy", d.Search.Strategy)
	v.SetDefault("search.max-expansions", d.Search.MaxExpansions)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.read-timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write-timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max-body-bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.graph-dir", d.Server.GraphDir)
	v.SetDefault("log.level", d.Log.Level)
}

func findFile(opts LoadOptions) (string, error) {
	if opts.File != "" {
		info, err := os.Stat(opts.File)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", opts.File)
			}
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", opts.File)
		}
		if info.IsDir() {
			return "", errors.New(errors.ErrCodeInvalidInput, "config file %s is a directory", opts.File)
		}
		return opts.File, nil
	}

	paths := opts.SearchPaths
	if paths == nil {
		if dir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(dir, "searchlab"))
		}
		paths = append(paths, ".")
	}
	for _, dir := range paths {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !stderrors.Is(err, os.ErrNotExist) {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", p)
		}
	}
	return "", nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := search.ParseStrategy(c.Search.Strategy); err != nil {
		return err
	}
	if c.Search.MaxExpansions < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "search.max-expansions must be >= 0, got %d", c.Search.MaxExpansions)
	}
	if c.Search.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "search.timeout must be >= 0, got %s", c.Search.Timeout)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must be >= 0, got %s", c.Cache.TTL)
	}
	if c.Cache.Backend == BackendRedis && c.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis.addr is required for the redis cache backend")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max-body-bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// Strategy returns the parsed default strategy. Call after Validate.
func (c *Config) Strategy() search.Strategy {
	s, _ := search.ParseStrategy(c.Search.Strategy)
	return s
}

// String renders the effective configuration as TOML-like key = value lines
// for `searchlab config`. The redis password is masked.
func (c *Config) String() string {
	pw := ""
	if c.Redis.Password != "" {
		pw = "********"
	}
	lines := []string{
		fmt.Sprintf("search.strategy = %q", c.Search.Strategy),
		fmt.Sprintf("search.max-expansions = %d", c.Search.MaxExpansions),
		fmt.Sprintf("search.timeout = %q", c.Search.Timeout),
		fmt.Sprintf("cache.backend = %q", c.Cache.Backend),
		fmt.Sprintf("cache.dir = %q", c.Cache.Dir),
		fmt.Sprintf("cache.ttl = %q", c.Cache.TTL),
		fmt.Sprintf("redis.addr = %q", c.Redis.Addr),
		fmt.Sprintf("redis.password = %q", pw),
		fmt.Sprintf("redis.db = %d", c.Redis.DB),
		fmt.Sprintf("redis.prefix = %q", c.Redis.Prefix),
		fmt.Sprintf("server.listen = %q", c.Server.Listen),
		fmt.Sprintf("server.read-timeout = %q", c.Server.ReadTimeout),
		fmt.Sprintf("server.write-timeout = %q", c.Server.WriteTimeout),
		fmt.Sprintf("server.max-body-bytes = %d", c.Server.MaxBodyBytes),
		fmt.Sprintf("server.graph-dir = %q", c.Server.GraphDir),
		fmt.Sprintf("log.level = %q", c.Log.Level),
	}
	return strings.Join(lines, "\n")
}
