package main

import (
	"os"
	"path/filepath"
	"testing"

	"hunterhq/relay/pkg/cli"
	"hunterhq/relay/pkg/config"
)

func TestFeatureStatus(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		detail  string
		want    string
	}{
		{"disabled ignores detail", false, "sqlite", "disabled"},
		{"enabled without detail", true, "", "enabled"},
		{"enabled with detail", true, "sqlite", "enabled (sqlite)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := featureStatus(tt.enabled, tt.detail)
			if got != tt.want {
				t.Errorf("featureStatus(%v, %q) = %q, want %q", tt.enabled, tt.detail, got, tt.want)
			}
		})
	}
}

func TestConfiguredProviders(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*config.Config)
		want  string
	}{
		{
			name:  "defaults list only ollama",
			setup: func(cfg *config.Config) {},
			want:  "ollama",
		},
		{
			name: "keyed backends join in order",
			setup: func(cfg *config.Config) {
				cfg.Providers.OpenAI.APIKey = "sk-test"
				cfg.Providers.Groq.APIKey = "gsk-test"
			},
			want: "openai, groq, ollama",
		},
		{
			name: "disabled backend excluded despite key",
			setup: func(cfg *config.Config) {
				cfg.Providers.Claude.APIKey = "sk-ant-test"
				cfg.Providers.Claude.Enabled = boolPtr(false)
				cfg.Providers.Ollama.Enabled = boolPtr(false)
			},
			want: "none configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultsConfig()
			tt.setup(cfg)

			got := configuredProviders(cfg)
			if got != tt.want {
				t.Errorf("configuredProviders() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateConfigValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  listen_address: \"127.0.0.1:9100\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := cfgFile
	cfgFile = path
	defer func() { cfgFile = orig }()

	if err := validateConfig(validateCmd, nil); err != nil {
		t.Fatalf("validateConfig: %v", err)
	}
}

func TestValidateConfigInvalidFile(t *testing.T) {
	// Neutralize any ambient override that could mask the bad value
	t.Setenv("RELAY_LOGGING_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "logging:\n  level: loud\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := cfgFile
	cfgFile = path
	defer func() { cfgFile = orig }()

	err := validateConfig(validateCmd, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if code := cli.ExitCode(err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}
