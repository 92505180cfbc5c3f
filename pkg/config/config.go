// Package config loads gis settings from flags, environment, .env files and
// an optional YAML config file.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/siyuan-infoblox/go-imports-sorter/pkg/errors"
	"github.com/siyuan-infoblox/go-imports-sorter/pkg/utils"
)

// Keys shared by flags, environment variables (GIS_ prefix, dashes become
// underscores) and the config file.
const (
	KeyPackage  = "package"
	KeyModule   = "module"
	KeyExclude  = "exclude"
	KeyWorkers  = "workers"
	KeyList     = "list"
	KeyDiff     = "diff"
	KeyVerbose  = "verbose"
	KeyLogLevel = "log-level"
	KeyConfig   = "config"

	EnvPrefix      = "GIS"
	ConfigFileName = ".gis"
)

// Config holds the resolved settings for one run.
type Config struct {
	Packages   []string // custom bucket prefixes, in order
	Module     bool     // append the current module path as the last bucket
	Exclude    []string // doublestar patterns skipped during directory walks
	Workers    int
	List       bool
	Diff       bool
	Verbose    bool
	LogLevel   string
	ConfigFile string // config file actually used, if any
}

// Loader resolves a Config. Precedence, highest first: flags, GIS_*
// environment, .env files, config file, defaults.
type Loader struct {
	Flags       *pflag.FlagSet
	SearchPaths []string // directories searched for .gis.yaml when --config is not set
	EnvFiles    []string // earlier files win, existing environment always wins
}

// DefaultLoader searches the working directory, then the home directory, and
// reads .env.local before .env.
func DefaultLoader(flags *pflag.FlagSet) *Loader {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return &Loader{
		Flags:       flags,
		SearchPaths: paths,
		EnvFiles:    []string{".env.local", ".env"},
	}
}

// Load builds and validates the Config.
func (l *Loader) Load() (*Config, error) {
	for _, envFile := range l.EnvFiles {
		// missing files are fine, broken ones are not
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: reading %s: %v", errors.ErrInvalidConfig, envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPackage, []string{})
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyLogLevel, "info")

	if l.Flags != nil {
		if err := v.BindPFlags(l.Flags); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
		}
	}

	if err := l.readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Packages:   splitList(v.GetStringSlice(KeyPackage)),
		Module:     v.GetBool(KeyModule),
		Exclude:    splitList(v.GetStringSlice(KeyExclude)),
		Workers:    v.GetInt(KeyWorkers),
		List:       v.GetBool(KeyList),
		Diff:       v.GetBool(KeyDiff),
		Verbose:    v.GetBool(KeyVerbose),
		LogLevel:   v.GetString(KeyLogLevel),
		ConfigFile: v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) readConfigFile(v *viper.Viper) error {
	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: reading %s: %v", errors.ErrInvalidConfig, file, err)
		}
		return nil
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	for _, path := range l.SearchPaths {
		v.AddConfigPath(filepath.Clean(path))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
		}
	}
	return nil
}

// Validate rejects settings the formatter cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: "+errors.ErrMsgInvalidWorkers, errors.ErrInvalidConfig, c.Workers)
	}
	if c.List && c.Diff {
		return fmt.Errorf("%w: %s", errors.ErrInvalidConfig, errors.ErrMsgConflictingModes)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: "+errors.ErrMsgInvalidLogLevel, errors.ErrInvalidConfig, c.LogLevel)
	}
	if bad, ok := utils.ValidPatterns(c.Exclude); !ok {
		return fmt.Errorf("%w: "+errors.ErrMsgInvalidExclude, errors.ErrInvalidConfig, bad)
	}
	return nil
}

// splitList flattens comma separated entries; environment variables arrive
// as a single string.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
