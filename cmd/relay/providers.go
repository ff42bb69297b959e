package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hunterhq/relay/pkg/cli"
	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/providerfactory"
	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/registry"
)

var providersFlags struct {
	output string
	check  bool
}

// probeMaxTokens caps the response size of --check probes.
const probeMaxTokens = 10

// probeTimeout bounds each individual --check probe.
const probeTimeout = 30 * time.Second

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers",
	Long: `Show which AI backends would register on startup, in fallback order.

Hosted backends (openai, claude, gemini, groq) register only when an
API key is configured; ollama registers whenever it is enabled. With
--check, each registered backend receives a small probe request so you
can verify keys and connectivity before starting the server.

Examples:
  # Show registration status
  relay providers

  # Machine-readable output
  relay providers --output json

  # Probe every registered backend
  relay providers --check`,
	RunE: listProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringVarP(&providersFlags.output, "output", "o", "text", "output format: text, json")
	providersCmd.Flags().BoolVar(&providersFlags.check, "check", false, "send a probe request to each registered backend")
}

// providerRow is one backend's worth of providers output.
type providerRow struct {
	Name       string `json:"name"`
	Registered bool   `json:"registered"`
	Model      string `json:"model,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Healthy    *bool  `json:"healthy,omitempty"`
	LatencyMS  int64  `json:"latency_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

func listProviders(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	reg := providerfactory.NewRegistry(cfg)
	defer reg.Close()

	rows := buildProviderRows(cfg, reg)

	if providersFlags.check {
		probeProviders(reg, rows)
	}

	if cli.OutputFormat(providersFlags.output) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, rows)
	}

	printProviderTable(rows, reg.Default())
	return nil
}

// buildProviderRows walks the backends in fallback order and records
// registration status. The reason mirrors why the registry skipped the
// backend: disabled, missing key, or a failed adapter constructor.
func buildProviderRows(cfg *config.Config, reg *registry.Registry) []providerRow {
	entries := []struct {
		name string
		pc   config.ProviderConfig
	}{
		{providers.NameOpenAI, cfg.Providers.OpenAI},
		{providers.NameClaude, cfg.Providers.Claude},
		{providers.NameGemini, cfg.Providers.Gemini},
		{providers.NameGroq, cfg.Providers.Groq},
		{providers.NameOllama, cfg.Providers.Ollama},
	}

	rows := make([]providerRow, 0, len(entries))
	for _, entry := range entries {
		row := providerRow{Name: entry.name}
		if provider, ok := reg.Get(entry.name); ok {
			row.Registered = true
			row.Model = provider.Model()
		} else if !entry.pc.IsEnabled() {
			row.Reason = "disabled in configuration"
		} else if entry.name != providers.NameOllama && entry.pc.APIKey == "" {
			row.Reason = "no API key"
		} else {
			row.Reason = "initialization failed"
		}
		rows = append(rows, row)
	}
	return rows
}

// probeProviders sends a small generation request to every registered
// backend and records the result on its row. Ctrl+C cancels the
// remaining probes.
func probeProviders(reg *registry.Registry, rows []providerRow) {
	ctx := cli.SetupSignalHandler()

	total := int64(0)
	for _, row := range rows {
		if row.Registered {
			total++
		}
	}

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(total)

	done := int64(0)
	for i := range rows {
		if !rows[i].Registered {
			continue
		}
		if ctx.Err() != nil {
			rows[i].Healthy = boolPtr(false)
			rows[i].Error = "probe cancelled"
			continue
		}

		provider, ok := reg.Get(rows[i].Name)
		if !ok {
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		start := time.Now()
		_, err := provider.Generate(probeCtx, &providers.GenerationRequest{
			Prompt:    providerfactory.HealthPrompt,
			MaxTokens: probeMaxTokens,
		})
		cancel()

		rows[i].LatencyMS = time.Since(start).Milliseconds()
		if err != nil {
			rows[i].Healthy = boolPtr(false)
			rows[i].Error = err.Error()
		} else {
			rows[i].Healthy = boolPtr(true)
		}

		done++
		progress.Update(done)
	}
	progress.Finish()
}

// printProviderTable renders the rows for terminal consumption.
func printProviderTable(rows []providerRow, defaultProvider string) {
	registered := 0
	for _, row := range rows {
		if row.Registered {
			registered++
		}
	}

	fmt.Printf("Providers (%d registered, default %q):\n\n", registered, defaultProvider)
	fmt.Printf("  %-8s %-16s %-24s %s\n", "NAME", "STATUS", "MODEL", "DETAIL")

	for _, row := range rows {
		status := "registered"
		detail := ""
		if !row.Registered {
			status = "not registered"
			detail = row.Reason
		} else if row.Healthy != nil {
			if *row.Healthy {
				detail = fmt.Sprintf("✓ healthy (%dms)", row.LatencyMS)
			} else {
				detail = "✗ " + truncateError(row.Error)
			}
		}

		model := row.Model
		if model == "" {
			model = "-"
		}
		fmt.Printf("  %-8s %-16s %-24s %s\n", row.Name, status, model, detail)
	}
}

// truncateError keeps probe failures to a single table cell.
func truncateError(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	if len(msg) > 60 {
		return msg[:57] + "..."
	}
	return msg
}

func boolPtr(b bool) *bool {
	return &b
}
