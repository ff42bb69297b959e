package main

import (
	"strings"
	"testing"

	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/providerfactory"
)

func defaultsConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestBuildProviderRowsDefaults(t *testing.T) {
	// With pure defaults only ollama registers: hosted backends are
	// enabled but keyless.
	cfg := defaultsConfig()

	reg := providerfactory.NewRegistry(cfg)
	defer reg.Close()

	rows := buildProviderRows(cfg, reg)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}

	for _, row := range rows {
		if row.Name == "ollama" {
			if !row.Registered {
				t.Error("ollama should register without an API key")
			}
			if row.Model != "llama3:8b" {
				t.Errorf("ollama model = %q, want %q", row.Model, "llama3:8b")
			}
			continue
		}
		if row.Registered {
			t.Errorf("%s should not register without an API key", row.Name)
		}
		if row.Reason != "no API key" {
			t.Errorf("%s reason = %q, want %q", row.Name, row.Reason, "no API key")
		}
	}
}

func TestBuildProviderRowsWithKey(t *testing.T) {
	cfg := defaultsConfig()
	cfg.Providers.OpenAI.APIKey = "sk-test"
	cfg.Providers.OpenAI.Model = "gpt-4o"

	reg := providerfactory.NewRegistry(cfg)
	defer reg.Close()

	rows := buildProviderRows(cfg, reg)

	var openaiRow *providerRow
	for i := range rows {
		if rows[i].Name == "openai" {
			openaiRow = &rows[i]
		}
	}
	if openaiRow == nil {
		t.Fatal("no openai row")
	}
	if !openaiRow.Registered {
		t.Fatal("openai should register with an API key")
	}
	if openaiRow.Model != "gpt-4o" {
		t.Errorf("openai model = %q, want %q", openaiRow.Model, "gpt-4o")
	}
	if openaiRow.Reason != "" {
		t.Errorf("registered row should have no reason, got %q", openaiRow.Reason)
	}
}

func TestBuildProviderRowsDisabled(t *testing.T) {
	cfg := defaultsConfig()
	cfg.Providers.Ollama.Enabled = boolPtr(false)

	reg := providerfactory.NewRegistry(cfg)
	defer reg.Close()

	rows := buildProviderRows(cfg, reg)
	for _, row := range rows {
		if row.Name != "ollama" {
			continue
		}
		if row.Registered {
			t.Error("disabled ollama should not register")
		}
		if row.Reason != "disabled in configuration" {
			t.Errorf("reason = %q, want %q", row.Reason, "disabled in configuration")
		}
	}
}

func TestBuildProviderRowsOrder(t *testing.T) {
	// Rows follow fallback order regardless of registration status
	cfg := defaultsConfig()

	reg := providerfactory.NewRegistry(cfg)
	defer reg.Close()

	rows := buildProviderRows(cfg, reg)
	want := []string{"openai", "claude", "gemini", "groq", "ollama"}
	for i, name := range want {
		if rows[i].Name != name {
			t.Errorf("rows[%d].Name = %q, want %q", i, rows[i].Name, name)
		}
	}
}

func TestTruncateError(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short message unchanged",
			input: "connection refused",
			want:  "connection refused",
		},
		{
			name:  "newlines flattened",
			input: "line one\nline two",
			want:  "line one line two",
		},
		{
			name:  "long message truncated",
			input: strings.Repeat("x", 100),
			want:  strings.Repeat("x", 57) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateError(tt.input)
			if got != tt.want {
				t.Errorf("truncateError(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) > 60 {
				t.Errorf("truncated message is %d bytes, want <= 60", len(got))
			}
		})
	}
}
