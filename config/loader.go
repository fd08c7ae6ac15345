package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is the file access used by the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem reads the real file system and process environment.
type OSFileSystem struct{}

// Exists reports whether path exists.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file into the process environment without
// overriding variables that are already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Options controls file discovery.
type Options struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// Option is a functional option for Load.
type Option func(*Options)

// WithFileSystem replaces the file system, mostly for tests.
func WithFileSystem(fs FileSystem) Option {
	return func(o *Options) { o.FileSystem = fs }
}

// WithConfigFile uses path instead of searching for config.yml.
func WithConfigFile(path string) Option {
	return func(o *Options) { o.ConfigFile = path }
}

// WithEnvFile uses path instead of searching for a .env file.
func WithEnvFile(path string) Option {
	return func(o *Options) { o.EnvFile = path }
}

// Resolver finds configuration files for a named command.
type Resolver struct {
	FileSystem FileSystem
}

// ConfigCandidates returns the config.yml search order for name.
func ConfigCandidates(name string) []string {
	return []string{
		filepath.Join("cmd", name, "config.yml"),
		filepath.Join("config", "config.yml"),
		"config.yml",
		filepath.Join(userConfigDir(), name, "config.yml"),
	}
}

// EnvCandidates returns the .env search order for name.
func EnvCandidates(name string) []string {
	return []string{
		filepath.Join("cmd", name, ".env"),
		".env." + name,
		".env",
	}
}

// Resolve returns the config and env paths, explicit ones first. Either
// may be empty when nothing is found.
func (r *Resolver) Resolve(name string, opts Options) (configFile, envFile string) {
	configFile, envFile = opts.ConfigFile, opts.EnvFile
	if configFile == "" {
		configFile = r.first(ConfigCandidates(name))
	}
	if envFile == "" {
		envFile = r.first(EnvCandidates(name))
	}
	return configFile, envFile
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if p != "" && r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// Load reads configuration for name into cfg, which must be a pointer to a
// struct with mapstructure tags. Sources are applied in order: config file,
// .env file, process environment. An explicit file that cannot be read is
// an error; a missing discovered file is not.
func Load(name string, cfg any, opts ...Option) error {
	o := Options{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&o)
	}

	resolver := &Resolver{FileSystem: o.FileSystem}
	configFile, envFile := resolver.Resolve(name, o)

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	if envFile != "" {
		if err := o.FileSystem.LoadEnv(envFile); err != nil {
			return fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: decode %s configuration: %w", name, err)
	}
	return nil
}

func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir
}
