package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(deepSeekKeyEnv, "")

	cfg := Load()

	if cfg.Content.MinLength != 200 || cfg.Content.MaxLength != 50000 {
		t.Fatalf("content bounds = %d/%d", cfg.Content.MinLength, cfg.Content.MaxLength)
	}
	if cfg.Classifier.ConfidenceThreshold != 0.7 {
		t.Fatalf("confidence threshold = %v", cfg.Classifier.ConfidenceThreshold)
	}
	if len(cfg.Crawler.Sources) == 0 {
		t.Fatal("default sources missing")
	}
	if cfg.Scheduler.Location() == nil {
		t.Fatal("timezone not bound")
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
logging:
  level: debug
content:
  minLength: 300
crawler:
  sources:
    - name: zhihu
      keywords: ["管理"]
      maxPages: 2
      minDelaySeconds: 1.5
      maxDelaySeconds: 2
      maxRetries: 2
      cronExpression: "0 6 * * *"
    - name: wechat
      keywords: ["绩效"]
      maxPages: 1
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "postgres://env-wins")
	t.Setenv(deepSeekKeyEnv, "sk-env")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
	if cfg.Content.MinLength != 300 {
		t.Fatalf("file override lost: minLength = %d", cfg.Content.MinLength)
	}
	if cfg.Content.MaxLength != 50000 {
		t.Fatalf("defaults lost on merge: maxLength = %d", cfg.Content.MaxLength)
	}
	if cfg.Database.DSN != "postgres://env-wins" {
		t.Fatalf("env override lost: dsn = %q", cfg.Database.DSN)
	}
	if cfg.DeepSeek.APIKey != "sk-env" {
		t.Fatalf("deepseek key = %q", cfg.DeepSeek.APIKey)
	}

	if len(cfg.Crawler.Sources) != 2 {
		t.Fatalf("sources = %d, want 2 from file", len(cfg.Crawler.Sources))
	}
	src := cfg.Crawler.Sources[0]
	if src.MinDelay() != 1500*time.Millisecond {
		t.Fatalf("min delay = %v", src.MinDelay())
	}
	if src.CronExpression != "0 6 * * *" {
		t.Fatalf("per-source cron = %q", src.CronExpression)
	}
	if cfg.Crawler.Sources[1].CronExpression != "" {
		t.Fatalf("sources without an override must keep an empty cron, got %q",
			cfg.Crawler.Sources[1].CronExpression)
	}
}
