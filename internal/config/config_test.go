package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	wantRoots := []string{"src/main/java", "src/main/kotlin", "src/java", "src"}
	if !reflect.DeepEqual(cfg.SourceRoots, wantRoots) {
		t.Errorf("SourceRoots = %v, want %v", cfg.SourceRoots, wantRoots)
	}
	if !reflect.DeepEqual(cfg.SourceExtensions, []string{".java", ".kt"}) {
		t.Errorf("SourceExtensions = %v", cfg.SourceExtensions)
	}
	if !reflect.DeepEqual(cfg.FlatDir.DefaultDirs, []string{"libs", "lib"}) {
		t.Errorf("FlatDir.DefaultDirs = %v", cfg.FlatDir.DefaultDirs)
	}
	if cfg.RequestTimeout() != 120*time.Second {
		t.Errorf("RequestTimeout() = %v, want 2m0s", cfg.RequestTimeout())
	}
	if cfg.DecompilerTimeout() != time.Minute {
		t.Errorf("DecompilerTimeout() = %v, want 1m0s", cfg.DecompilerTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad version", func(c *Config) { c.Version = 99 }, "version"},
		{"no source roots", func(c *Config) { c.SourceRoots = nil }, "sourceRoots"},
		{"extension without dot", func(c *Config) { c.SourceExtensions = []string{"java"} }, "sourceExtensions"},
		{"zero decompiler timeout", func(c *Config) { c.Decompiler.TimeoutMs = 0 }, "decompiler.timeoutMs"},
		{"negative request timeout", func(c *Config) { c.Server.RequestTimeoutMs = -1 }, "server.requestTimeoutMs"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "version", Message: "unsupported config version 99"}
	want := "config error in field 'version': unsupported config version 99"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.Version != def.Version {
		t.Errorf("Version = %d, want %d", cfg.Version, def.Version)
	}
	if !reflect.DeepEqual(cfg.SourceRoots, def.SourceRoots) {
		t.Errorf("SourceRoots = %v, want %v", cfg.SourceRoots, def.SourceRoots)
	}
	if !reflect.DeepEqual(cfg.FlatDir.DefaultDirs, def.FlatDir.DefaultDirs) {
		t.Errorf("FlatDir.DefaultDirs = %v, want %v", cfg.FlatDir.DefaultDirs, def.FlatDir.DefaultDirs)
	}
	if cfg.Server.RequestTimeoutMs != def.Server.RequestTimeoutMs {
		t.Errorf("Server.RequestTimeoutMs = %d, want %d", cfg.Server.RequestTimeoutMs, def.Server.RequestTimeoutMs)
	}
}

func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", Dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "config.json", `{
		"version": 1,
		"flatDir": {"defaultDirs": ["libs", "lib", ".annotated-libs"]},
		"gradle": {"offline": true},
		"decompiler": {"cfrJar": "/opt/cfr/cfr.jar"}
	}`)

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !reflect.DeepEqual(cfg.FlatDir.DefaultDirs, []string{"libs", "lib", ".annotated-libs"}) {
		t.Errorf("FlatDir.DefaultDirs = %v", cfg.FlatDir.DefaultDirs)
	}
	if !cfg.Gradle.Offline {
		t.Error("Gradle.Offline should be true per config")
	}
	if cfg.Decompiler.CfrJar != "/opt/cfr/cfr.jar" {
		t.Errorf("Decompiler.CfrJar = %q", cfg.Decompiler.CfrJar)
	}
	// Unset keys keep their defaults.
	if cfg.Decompiler.Java != "java" {
		t.Errorf("Decompiler.Java = %q, want default java", cfg.Decompiler.Java)
	}
	if cfg.Gradle.TimeoutMs != 300000 {
		t.Errorf("Gradle.TimeoutMs = %d, want default 300000", cfg.Gradle.TimeoutMs)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "config.yaml", "version: 1\nsourceRoots:\n  - src/main/groovy\n")

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.SourceRoots, []string{"src/main/groovy"}) {
		t.Errorf("SourceRoots = %v", cfg.SourceRoots)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "config.json", `{"version": `)

	if _, err := LoadConfig(tmpDir); err == nil {
		t.Error("LoadConfig() with malformed JSON should fail")
	}
}

func TestLoadConfig_UnsupportedVersion(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "config.json", `{"version": 7}`)

	_, err := LoadConfig(tmpDir)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("LoadConfig() error = %v, want version error", err)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GCF_DECOMPILER_CFRJAR", "/env/cfr.jar")
	t.Setenv("GCF_SERVER_REQUESTTIMEOUTMS", "5000")
	t.Setenv("GCF_GRADLE_OFFLINE", "true")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Decompiler.CfrJar != "/env/cfr.jar" {
		t.Errorf("Decompiler.CfrJar = %q, want /env/cfr.jar", cfg.Decompiler.CfrJar)
	}
	if cfg.Server.RequestTimeoutMs != 5000 {
		t.Errorf("Server.RequestTimeoutMs = %d, want 5000", cfg.Server.RequestTimeoutMs)
	}
	if !cfg.Gradle.Offline {
		t.Error("Gradle.Offline should be true from env")
	}
}

func TestLoadConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := "version = 1\n\n[decompiler]\ntimeoutMs = 1500\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromPath(path)
	if err != nil {
		t.Fatalf("LoadConfigFromPath() error = %v", err)
	}
	if cfg.DecompilerTimeout() != 1500*time.Millisecond {
		t.Errorf("DecompilerTimeout() = %v, want 1.5s", cfg.DecompilerTimeout())
	}

	if _, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadConfigFromPath() on missing file should fail")
	}
}

func TestConfig_Save(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Decompiler.CfrJar = "/tools/cfr.jar"
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, Dir, "config.json")); err != nil {
		t.Fatalf("config file was not created: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() after save error = %v", err)
	}
	if loaded.Decompiler.CfrJar != "/tools/cfr.jar" {
		t.Errorf("Loaded Decompiler.CfrJar = %q, want /tools/cfr.jar", loaded.Decompiler.CfrJar)
	}
}
