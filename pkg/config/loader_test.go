package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "meshforge-app" {
		t.Errorf("expected app name 'meshforge-app', got %s", cfg.App.Name)
	}
	if cfg.App.StartPort != 30100 {
		t.Errorf("expected start port 30100, got %d", cfg.App.StartPort)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("expected metrics port 9090, got %d", cfg.Metrics.Port)
	}
	if cfg.Topology.ColorCount != 6 {
		t.Errorf("expected default color count 6, got %d", cfg.Topology.ColorCount)
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  app_name: custom-app
  start_port: 31000
log:
  level: debug
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader(WithConfigPaths(configPath))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-app" {
		t.Errorf("expected app name 'custom-app', got %s", cfg.App.Name)
	}
	if cfg.App.StartPort != 31000 {
		t.Errorf("expected port 31000, got %d", cfg.App.StartPort)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
}

func TestLoader_LoadFromEnv(t *testing.T) {
	os.Setenv("MESHFORGE_APP_APP_NAME", "env-app")
	os.Setenv("MESHFORGE_APP_START_PORT", "31500")
	defer func() {
		os.Unsetenv("MESHFORGE_APP_APP_NAME")
		os.Unsetenv("MESHFORGE_APP_START_PORT")
	}()

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-app" {
		t.Errorf("expected app name 'env-app', got %s", cfg.App.Name)
	}
	if cfg.App.StartPort != 31500 {
		t.Errorf("expected port 31500, got %d", cfg.App.StartPort)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  app_name: file-app
  start_port: 31600
`
	os.WriteFile(configPath, []byte(configContent), 0644)

	os.Setenv("MESHFORGE_APP_APP_NAME", "env-override")
	defer os.Unsetenv("MESHFORGE_APP_APP_NAME")

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-override" {
		t.Errorf("expected env override, got %s", cfg.App.Name)
	}
	if cfg.App.StartPort != 31600 {
		t.Errorf("expected port from file 31600, got %d", cfg.App.StartPort)
	}
}

func TestLoader_WithEnvPrefix(t *testing.T) {
	os.Setenv("CUSTOM_APP_APP_NAME", "custom-prefix-app")
	defer os.Unsetenv("CUSTOM_APP_APP_NAME")

	cfg, err := NewLoader(WithEnvPrefix("CUSTOM_")).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-prefix-app" {
		t.Errorf("expected 'custom-prefix-app', got %s", cfg.App.Name)
	}
}

func TestMustLoad_Success(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustLoad should not panic with valid config")
		}
	}()

	cfg := MustLoad()
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoad_Simple(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoader_ConfigEnvVar(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom-config.yaml")

	configContent := `
app:
  app_name: config-env-var-app
`
	os.WriteFile(configPath, []byte(configContent), 0644)

	os.Setenv("CONFIG_PATH", configPath)
	defer os.Unsetenv("CONFIG_PATH")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "config-env-var-app" {
		t.Errorf("expected 'config-env-var-app', got %s", cfg.App.Name)
	}
}
