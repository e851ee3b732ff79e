package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agentchat/pkg/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "agentchat version") {
		t.Errorf("Unexpected version output: %q", out.String())
	}
}

func TestBackendsCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"backends"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("backends failed: %v", err)
	}
	for _, name := range []string{config.BackendEnvelope, config.BackendOpenAI} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("Expected backend %q in output: %q", name, out.String())
		}
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	cmd := rootCmd()
	if err := cmd.ParseFlags([]string{
		"--config", configPath,
		"--storage", config.DriverMemory,
		"--url", "http://flag.test/chat",
		"--log-level", "debug",
	}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	cfg, err := loadConfig(cmd, options{
		configPath: configPath,
		storage:    config.DriverMemory,
		url:        "http://flag.test/chat",
		logLevel:   "debug",
	})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Storage.Driver != config.DriverMemory {
		t.Errorf("Expected memory driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Agent.URL != "http://flag.test/chat" {
		t.Errorf("Expected URL from flag, got %q", cfg.Agent.URL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.LogLevel)
	}

	saved, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if strings.Contains(string(saved), "flag.test") {
		t.Error("Flag overrides should not be written to the config file")
	}
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	cmd := rootCmd()
	if err := cmd.ParseFlags([]string{"--config", configPath, "--storage", "s3"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if _, err := loadConfig(cmd, options{configPath: configPath, storage: "s3"}); err == nil {
		t.Error("Expected validation error for unknown storage driver")
	}
}
