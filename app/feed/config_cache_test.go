package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestConfigCacheRun(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "moneycontrol.yml", `
url: "https://www.moneycontrol.com/rss/business.xml"
settings:
  enabled: true
  max_items: 20
  timeout: 10
`)
	writeConfigFile(t, dir, "economictimes.yml", `
url: "https://economictimes.indiatimes.com/rssfeedsdefault.cms"
settings:
  enabled: false
`)

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cache.GetConfigCount() != 2 {
		t.Fatalf("Expected 2 configs, got: %d", cache.GetConfigCount())
	}

	config, err := cache.GetConfig("moneycontrol")
	if err != nil {
		t.Fatalf("Expected config, got error: %v", err)
	}
	if config.URL != "https://www.moneycontrol.com/rss/business.xml" {
		t.Errorf("Unexpected URL: %s", config.URL)
	}
	if config.Settings.MaxItems != 20 {
		t.Errorf("Expected max_items 20, got: %d", config.Settings.MaxItems)
	}

	enabled := cache.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled config, got: %d", len(enabled))
	}
	if _, ok := enabled["moneycontrol"]; !ok {
		t.Error("Expected moneycontrol to be enabled")
	}
}

func TestConfigCacheDefaults(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "minimal.yml", `
url: "https://example.com/rss.xml"
settings:
  enabled: true
`)

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	config, err := cache.GetConfig("minimal")
	if err != nil {
		t.Fatalf("Expected config, got error: %v", err)
	}
	if config.Settings.MaxItems != 100 {
		t.Errorf("Expected default max_items 100, got: %d", config.Settings.MaxItems)
	}
	if config.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got: %d", config.Settings.Timeout)
	}
}

func TestConfigCacheValidation(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "nourl.yml", `
settings:
  enabled: true
`)

	cache := NewConfigCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("Expected validation error for config without URL")
	}
}

func TestConfigCacheMissingDir(t *testing.T) {
	cache := NewConfigCache("/nonexistent/feeds/dir")
	if err := cache.Run(); err != nil {
		t.Errorf("Expected no error for missing directory, got: %v", err)
	}
	if cache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs, got: %d", cache.GetConfigCount())
	}
}
