package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if config.Facade.DefaultKind != KindPassive {
		t.Errorf("Expected default kind passive, got %q", config.Facade.DefaultKind)
	}
	if !config.Facade.DropAfterStop {
		t.Error("Expected default DropAfterStop true")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty app name", func(c *Config) { c.App.Name = "" }, ErrInvalidAppName},
		{"bad environment", func(c *Config) { c.App.Environment = "lab" }, ErrInvalidEnvironment},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, ErrInvalidLogLevel},
		{"bad kind", func(c *Config) { c.Facade.DefaultKind = "eager" }, ErrInvalidKind},
		{"negative join timeout", func(c *Config) { c.Facade.JoinTimeout = -time.Second }, ErrInvalidJoinTimeout},
		{"bad type kind", func(c *Config) {
			c.Types["t"] = WrapConfig{Kind: "eager"}
		}, ErrInvalidKind},
		{"negative delegates", func(c *Config) {
			c.Types["t"] = WrapConfig{Kind: KindDistributor, Delegates: -1}
		}, ErrInvalidDelegates},
		{"bad delegate kind", func(c *Config) {
			c.Types["t"] = WrapConfig{Kind: KindDistributor, Delegates: 2, DelegateKind: "distributor"}
		}, ErrInvalidDelegateKind},
	}

	for _, tc := range cases {
		config := DefaultConfig()
		tc.mutate(config)
		if err := config.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	content := `
app:
  name: wrapped-app
  environment: production
log:
  level: warn
  format: json
facade:
  default_kind: active
  drop_after_stop: false
types:
  counter:
    kind: distributor
    delegates: 2
    delegate_kind: active
`
	path := filepath.Join(t.TempDir(), "facade.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.App.Name != "wrapped-app" {
		t.Errorf("Expected app name 'wrapped-app', got %q", config.App.Name)
	}
	if config.App.Environment != EnvProduction {
		t.Errorf("Expected production environment, got %q", config.App.Environment)
	}
	if config.Facade.DefaultKind != KindActive {
		t.Errorf("Expected default kind active, got %q", config.Facade.DefaultKind)
	}
	if config.Facade.DropAfterStop {
		t.Error("Expected DropAfterStop false")
	}

	wrap, ok := config.Types["counter"]
	if !ok {
		t.Fatal("Expected type override for 'counter'")
	}
	if wrap.Kind != KindDistributor || wrap.Delegates != 2 || wrap.DelegateKind != KindActive {
		t.Errorf("Unexpected wrap config: %+v", wrap)
	}
}

func TestLoadFromJSONReader(t *testing.T) {
	content := `{"app": {"name": "json-app", "environment": "testing"}}`

	config, err := NewLoader().LoadFromReader(strings.NewReader(content), FormatJSON)
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if config.App.Name != "json-app" {
		t.Errorf("Expected app name 'json-app', got %q", config.App.Name)
	}
	// Unspecified sections keep their defaults
	if config.Facade.DefaultKind != KindPassive {
		t.Errorf("Expected default kind passive, got %q", config.Facade.DefaultKind)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigFileNotFound) {
		t.Errorf("Expected ErrConfigFileNotFound, got %v", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FACADE_APP_NAME", "env-app")
	t.Setenv("FACADE_DEFAULT_KIND", "active")
	t.Setenv("FACADE_DROP_AFTER_STOP", "false")
	t.Setenv("FACADE_JOIN_TIMEOUT", "5s")

	config, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.App.Name != "env-app" {
		t.Errorf("Expected app name 'env-app', got %q", config.App.Name)
	}
	if config.Facade.DefaultKind != KindActive {
		t.Errorf("Expected default kind active, got %q", config.Facade.DefaultKind)
	}
	if config.Facade.DropAfterStop {
		t.Error("Expected DropAfterStop false")
	}
	if config.Facade.JoinTimeout != 5*time.Second {
		t.Errorf("Expected join timeout 5s, got %v", config.Facade.JoinTimeout)
	}
}

func TestEnvironmentOverrideParseError(t *testing.T) {
	t.Setenv("FACADE_DROP_AFTER_STOP", "maybe")

	if _, err := NewLoader().Load(""); !errors.Is(err, ErrConfigParseError) {
		t.Errorf("Expected ErrConfigParseError, got %v", err)
	}
}

func TestAutoLoadFallsBackToDefaults(t *testing.T) {
	loader := NewLoader().SetSearchPaths([]string{t.TempDir()})

	config, err := loader.AutoLoad()
	if err != nil {
		t.Fatalf("AutoLoad failed: %v", err)
	}
	if config.App.Name != "facade" {
		t.Errorf("Expected default app name, got %q", config.App.Name)
	}
}

func TestAutoLoadDiscoversFile(t *testing.T) {
	dir := t.TempDir()
	content := "app:\n  name: discovered\n"
	if err := os.WriteFile(filepath.Join(dir, "facade.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := NewLoader().SetSearchPaths([]string{dir}).AutoLoad()
	if err != nil {
		t.Fatalf("AutoLoad failed: %v", err)
	}
	if config.App.Name != "discovered" {
		t.Errorf("Expected app name 'discovered', got %q", config.App.Name)
	}
}

func TestWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facade.yaml")
	if err := os.WriteFile(path, []byte("app:\n  name: first\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	watcher, err := NewWatcher(path, NewLoader())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer watcher.Stop()

	if watcher.GetConfig().App.Name != "first" {
		t.Errorf("Expected initial app name 'first', got %q", watcher.GetConfig().App.Name)
	}

	changed := make(chan string, 1)
	watcher.OnConfigChange(func(oldConfig, newConfig *Config) {
		changed <- newConfig.App.Name
	})

	if err := os.WriteFile(path, []byte("app:\n  name: second\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config file: %v", err)
	}

	if err := watcher.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	select {
	case name := <-changed:
		if name != "second" {
			t.Errorf("Expected reloaded app name 'second', got %q", name)
		}
	case <-time.After(time.Second):
		t.Fatal("change callback never fired")
	}

	if watcher.GetConfig().App.Name != "second" {
		t.Errorf("Expected current app name 'second', got %q", watcher.GetConfig().App.Name)
	}
}

func TestWatcherDetectsFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facade.yaml")
	if err := os.WriteFile(path, []byte("app:\n  name: first\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	watcher, err := NewWatcher(path, NewLoader())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer watcher.Stop()

	changed := make(chan string, 1)
	watcher.OnConfigChange(func(oldConfig, newConfig *Config) {
		select {
		case changed <- newConfig.App.Name:
		default:
		}
	})

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("app:\n  name: watched\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config file: %v", err)
	}

	select {
	case name := <-changed:
		if name != "watched" {
			t.Errorf("Expected app name 'watched', got %q", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("file change was not detected")
	}
}

type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *logCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func TestWatcherLogsFailedReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facade.yaml")
	if err := os.WriteFile(path, []byte("app:\n  name: first\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	capture := &logCapture{}
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(capture, nil)))
	defer slog.SetDefault(previous)

	watcher, err := NewWatcher(path, NewLoader())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("{{{ not yaml"), 0o644); err != nil {
		t.Fatalf("failed to corrupt config file: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(capture.String(), "config reload failed") {
		if time.Now().After(deadline) {
			t.Fatal("failed reload was never logged")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The last good configuration stays in place
	if watcher.GetConfig().App.Name != "first" {
		t.Errorf("Expected app name 'first' after failed reload, got %q", watcher.GetConfig().App.Name)
	}
}
