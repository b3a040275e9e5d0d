package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CurrentVersion is the only supported config schema version.
const CurrentVersion = 1

// Dir is the per-project directory holding config.json.
const Dir = ".gcf"

// EnvPrefix prefixes environment overrides, e.g. GCF_DECOMPILER_CFRJAR.
const EnvPrefix = "GCF"

// Config represents the complete gcf configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// SourceRoots are checked in order, relative to the module directory.
	SourceRoots []string `json:"sourceRoots" mapstructure:"sourceRoots"`
	// SourceExtensions are tried in order for every source root.
	SourceExtensions []string `json:"sourceExtensions" mapstructure:"sourceExtensions"`

	FlatDir    FlatDirConfig    `json:"flatDir" mapstructure:"flatDir"`
	Gradle     GradleConfig     `json:"gradle" mapstructure:"gradle"`
	Decompiler DecompilerConfig `json:"decompiler" mapstructure:"decompiler"`
	Server     ServerConfig     `json:"server" mapstructure:"server"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// FlatDirConfig contains flat-directory repository settings
type FlatDirConfig struct {
	// DefaultDirs are scanned for every module whether or not the build file declares them.
	DefaultDirs []string `json:"defaultDirs" mapstructure:"defaultDirs"`
}

// GradleConfig controls how the build model is obtained
type GradleConfig struct {
	// Command overrides the wrapper/PATH lookup.
	Command      string   `json:"command" mapstructure:"command"`
	Args         []string `json:"args" mapstructure:"args"`
	Offline      bool     `json:"offline" mapstructure:"offline"`
	TimeoutMs    int      `json:"timeoutMs" mapstructure:"timeoutMs"`
	SnapshotFile string   `json:"snapshotFile" mapstructure:"snapshotFile"`
}

// DecompilerConfig controls the external decompiler process
type DecompilerConfig struct {
	Java      string   `json:"java" mapstructure:"java"`
	CfrJar    string   `json:"cfrJar" mapstructure:"cfrJar"`
	Args      []string `json:"args" mapstructure:"args"`
	TimeoutMs int      `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// ServerConfig contains MCP server settings
type ServerConfig struct {
	RequestTimeoutMs int `json:"requestTimeoutMs" mapstructure:"requestTimeoutMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:          CurrentVersion,
		SourceRoots:      []string{"src/main/java", "src/main/kotlin", "src/java", "src"},
		SourceExtensions: []string{".java", ".kt"},
		FlatDir: FlatDirConfig{
			DefaultDirs: []string{"libs", "lib"},
		},
		Gradle: GradleConfig{
			TimeoutMs: 300000,
		},
		Decompiler: DecompilerConfig{
			Java:      "java",
			TimeoutMs: 60000,
		},
		Server: ServerConfig{
			RequestTimeoutMs: 120000,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// GradleTimeout returns the build model timeout.
func (c *Config) GradleTimeout() time.Duration {
	return time.Duration(c.Gradle.TimeoutMs) * time.Millisecond
}

// DecompilerTimeout returns the per-invocation decompiler timeout.
func (c *Config) DecompilerTimeout() time.Duration {
	return time.Duration(c.Decompiler.TimeoutMs) * time.Millisecond
}

// RequestTimeout returns the per tool call timeout of the MCP server.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutMs) * time.Millisecond
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("sourceRoots", d.SourceRoots)
	v.SetDefault("sourceExtensions", d.SourceExtensions)
	v.SetDefault("flatDir.defaultDirs", d.FlatDir.DefaultDirs)
	v.SetDefault("gradle.command", d.Gradle.Command)
	v.SetDefault("gradle.args", d.Gradle.Args)
	v.SetDefault("gradle.offline", d.Gradle.Offline)
	v.SetDefault("gradle.timeoutMs", d.Gradle.TimeoutMs)
	v.SetDefault("gradle.snapshotFile", d.Gradle.SnapshotFile)
	v.SetDefault("decompiler.java", d.Decompiler.Java)
	v.SetDefault("decompiler.cfrJar", d.Decompiler.CfrJar)
	v.SetDefault("decompiler.args", d.Decompiler.Args)
	v.SetDefault("decompiler.timeoutMs", d.Decompiler.TimeoutMs)
	v.SetDefault("server.requestTimeoutMs", d.Server.RequestTimeoutMs)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// LoadConfig loads <projectRoot>/.gcf/config.{json,yaml,toml} merged over the
// defaults and GCF_* environment variables. A missing file is not an error.
func LoadConfig(projectRoot string) (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	if projectRoot != "" {
		v.AddConfigPath(filepath.Join(projectRoot, Dir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &ConfigError{Field: "file", Message: err.Error()}
		}
	}
	return decode(v)
}

// LoadConfigFromPath loads an explicit config file. The file must exist.
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ConfigError{Field: "file", Message: err.Error()}
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Field: "file", Message: err.Error()}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Field: "file", Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <projectRoot>/.gcf/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), append(data, '\n'), 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	if len(c.SourceRoots) == 0 {
		return &ConfigError{Field: "sourceRoots", Message: "at least one source root is required"}
	}
	for _, ext := range c.SourceExtensions {
		if !strings.HasPrefix(ext, ".") {
			return &ConfigError{Field: "sourceExtensions", Message: fmt.Sprintf("extension %q must start with '.'", ext)}
		}
	}
	timeouts := map[string]int{
		"gradle.timeoutMs":        c.Gradle.TimeoutMs,
		"decompiler.timeoutMs":    c.Decompiler.TimeoutMs,
		"server.requestTimeoutMs": c.Server.RequestTimeoutMs,
	}
	for _, field := range []string{"gradle.timeoutMs", "decompiler.timeoutMs", "server.requestTimeoutMs"} {
		if timeouts[field] <= 0 {
			return &ConfigError{Field: field, Message: "timeout must be positive"}
		}
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
