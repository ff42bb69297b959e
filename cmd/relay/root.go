package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hunterhq/relay/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay - multi-provider AI request router",
	Long: `Relay routes CRM AI requests across OpenAI, Claude, Gemini, Groq, and
Ollama with sequential fallback, so one failing backend never takes the
AI features down.

It exposes an HTTP API providing:
  - Text generation, as JSON or a server-sent-event stream
  - Customer message sentiment and intent analysis
  - Tone-controlled customer response drafting
  - Conversation summarization

Configuration comes from an optional YAML file plus environment
variables; the canonical backend variables (OPENAI_API_KEY,
DEFAULT_AI_PROVIDER, ...) work without any file at all.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Disable default completion command (we'll add our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
