package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hunterhq/relay/pkg/cli"
	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/prompts"
)

var validateFlags struct {
	checkPrompts bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Check the configuration file and environment overrides without
starting the server.

The validate command loads the configuration exactly the way run does:
YAML file, defaults, canonical backend variables (OPENAI_API_KEY,
ANTHROPIC_API_KEY, ...), then namespaced RELAY_* overrides. Every
validation failure is reported, not just the first one.

Examples:
  # Validate the default environment-driven configuration
  relay validate

  # Validate a config file
  relay validate --config /etc/relay/config.yaml

  # Also parse the prompt override file
  relay validate --prompts`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.checkPrompts, "prompts", false, "also parse the prompt override file")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	// Load directly rather than through Initialize so repeated
	// invocations in one process always re-read the file.
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		var vErr config.ValidationError
		if errors.As(err, &vErr) {
			fmt.Println("Configuration is invalid:")
			fmt.Println()
			for _, fieldErr := range vErr.Errors {
				fmt.Printf("  ✗ %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			fmt.Println()
			return cli.NewConfigError("", fmt.Sprintf("%d validation error(s)", len(vErr.Errors)))
		}
		return cli.NewConfigError("", err.Error())
	}

	fmt.Println("✓ Configuration valid")
	fmt.Println()

	if cfgFile != "" {
		fmt.Printf("Config file:      %s\n", cfgFile)
	}
	fmt.Printf("Listen address:   %s\n", cfg.Server.ListenAddress)
	fmt.Printf("Default provider: %s\n", cfg.Router.DefaultProvider)
	fmt.Printf("Providers:        %s\n", configuredProviders(cfg))
	fmt.Printf("History:          %s\n", featureStatus(cfg.History.IsEnabled(), cfg.History.Backend))
	fmt.Printf("Cache:            %s\n", featureStatus(cfg.Cache.IsEnabled(), "redis"))
	fmt.Printf("Quota:            %s\n", featureStatus(cfg.Quota.Enabled, cfg.Quota.Backend))
	fmt.Printf("Metrics:          %s\n", featureStatus(cfg.Metrics.IsEnabled(), cfg.Metrics.Path))

	if validateFlags.checkPrompts {
		fmt.Println()
		if cfg.Analysis.PromptFile == "" {
			fmt.Println("No prompt override file configured.")
		} else {
			store := prompts.NewStore()
			if err := store.LoadFile(cfg.Analysis.PromptFile); err != nil {
				return cli.NewConfigError("analysis.prompt_file", err.Error())
			}
			fmt.Printf("✓ Prompt overrides valid (version %s)\n", store.Version())
		}
	}

	return nil
}

// configuredProviders lists the backends that would register on startup.
func configuredProviders(cfg *config.Config) string {
	var names []string
	entries := []struct {
		name string
		cfg  config.ProviderConfig
	}{
		{"openai", cfg.Providers.OpenAI},
		{"claude", cfg.Providers.Claude},
		{"gemini", cfg.Providers.Gemini},
		{"groq", cfg.Providers.Groq},
		{"ollama", cfg.Providers.Ollama},
	}
	for _, entry := range entries {
		if !entry.cfg.IsEnabled() {
			continue
		}
		// Hosted backends need a key; ollama only needs to be enabled.
		if entry.name != "ollama" && entry.cfg.APIKey == "" {
			continue
		}
		names = append(names, entry.name)
	}
	if len(names) == 0 {
		return "none configured"
	}
	return strings.Join(names, ", ")
}

// featureStatus renders an enabled/disabled line with a detail suffix.
func featureStatus(enabled bool, detail string) string {
	if !enabled {
		return "disabled"
	}
	if detail == "" {
		return "enabled"
	}
	return fmt.Sprintf("enabled (%s)", detail)
}
