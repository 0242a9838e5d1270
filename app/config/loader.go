package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

const (
	// DefaultConfigFile is looked up in the working directory when no explicit path is given.
	DefaultConfigFile = "clickhouse-adapter.yaml"

	// EnvPrefix prefixes environment variables, e.g. CLICKHOUSE_ADAPTER_HOST.
	EnvPrefix = "CLICKHOUSE_ADAPTER_"
)

const (
	keyDSN                   = "dsn"
	keyLogLevel              = "log_level"
	keyEnableSQLQueryLogging = "enable_sql_query_logging"
	keyDriverDebug           = "driver_debug"
	keyFormat                = "format"
	keyLimit                 = "limit"
)

// Config is the complete configuration of the command line host.
type Config struct {
	// DSN, when set, replaces the individual connection options.
	DSN        string
	Connection *ConnectionOptions
	Logger     *LoggerConfig
	Output     *OutputConfig
	// Path of the config file that was read, empty if none.
	Source string
}

type LoggerConfig struct {
	Level                 log.Level
	EnableSQLQueryLogging bool
	// DriverDebug routes ClickHouse driver debug output into the logger.
	DriverDebug bool
}

type OutputConfig struct {
	// Format is interpreted by the command that renders results.
	Format string
	// Limit caps fetched rows; zero means no limit.
	Limit int
}

// ConnectionStrings returns the connection string sequence handed to the adapter:
// a single DSN if one is configured, nothing otherwise.
func (c *Config) ConnectionStrings() []string {
	if c.DSN == "" {
		return nil
	}

	return []string{c.DSN}
}

func defaults() map[string]any {
	out := map[string]any{
		keyDSN:                   "",
		keyLogLevel:              log.InfoString,
		keyEnableSQLQueryLogging: false,
		keyDriverDebug:           false,
		keyFormat:                "table",
		keyLimit:                 0,
	}

	for _, opt := range Options {
		out[opt.Name] = opt.Default
	}

	return out
}

// Load reads configuration from defaults, a YAML file, environment variables
// and explicitly set flags. Precedence (highest to lowest): flags > env > file > defaults.
// flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	source, err := findConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	if source != "" {
		if err := k.Load(file.Provider(source), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", source, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}

			return flagNameToKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	return fromKoanf(k, source)
}

func fromKoanf(k *koanf.Koanf, source string) (*Config, error) {
	raw := make(map[string]string, len(Options))

	for _, opt := range Options {
		if k.Exists(opt.Name) {
			raw[opt.Name] = k.String(opt.Name)
		}
	}

	connection, err := ParseConnectionOptions(raw)
	if err != nil {
		return nil, fmt.Errorf("parse connection options: %w", err)
	}

	level, err := log.ParseLevel(k.String(keyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("parse `%s`: %w", keyLogLevel, err)
	}

	limit := k.Int(keyLimit)
	if limit < 0 {
		return nil, fmt.Errorf("invalid value of field `%s`: %d", keyLimit, limit)
	}

	return &Config{
		DSN:        k.String(keyDSN),
		Connection: connection,
		Logger: &LoggerConfig{
			Level:                 level,
			EnableSQLQueryLogging: k.Bool(keyEnableSQLQueryLogging),
			DriverDebug:           k.Bool(keyDriverDebug),
		},
		Output: &OutputConfig{
			Format: k.String(keyFormat),
			Limit:  limit,
		},
		Source: source,
	}, nil
}

// findConfigFile returns the explicit path, or the default file if it exists in CWD.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}

		return explicit, nil
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}

	return "", nil
}

func flagNameToKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func keyToFlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
