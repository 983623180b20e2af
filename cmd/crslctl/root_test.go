// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/monas-project/crsl/config"
)

func TestLoadConfig_NoPathUsesDefaults(t *testing.T) {
	configPath = ""

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("Storage.Type = %s, want memory default", cfg.Storage.Type)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "nonexistent.yaml")
	defer func() { configPath = "" }()

	if _, err := loadConfig(); err == nil {
		t.Error("loadConfig should error when configPath is set but the file does not exist")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
storage:
  type: memory
merge:
  default_policy_type: lww
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test config file: %v", err)
	}

	configPath = path
	defer func() { configPath = "" }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestBuildEngine_Memory(t *testing.T) {
	e, err := buildEngine(config.DefaultConfig())
	if err != nil {
		t.Fatalf("buildEngine failed: %v", err)
	}
	defer e.Close()

	if e.repo == nil {
		t.Fatal("expected a non-nil Repository")
	}
}

func TestBuildEngine_UnsupportedStorageType(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Type = "bogus"

	if _, err := buildEngine(cfg); err == nil {
		t.Error("buildEngine should reject an unsupported storage type")
	}
}

func TestEngineClose_NilCloseIsNoop(t *testing.T) {
	e := &engine{}
	if err := e.Close(); err != nil {
		t.Errorf("Close() on a nil close func should return nil, got %v", err)
	}
}
