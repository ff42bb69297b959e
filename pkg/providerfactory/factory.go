package providerfactory

import (
	"log/slog"

	"hunterhq/relay/pkg/config"
	"hunterhq/relay/pkg/providers"
	"hunterhq/relay/pkg/registry"
)

// NewRegistry builds the provider registry from application
// configuration. The five backends are probed in fixed order (openai,
// claude, gemini, groq, ollama); hosted backends register only when an
// API key is present, ollama registers whenever it is enabled. The
// result may be empty, which the router reports per request rather
// than failing startup.
//
// Example:
//
//	cfg, err := config.LoadWithEnvOverrides(path)
//	if err != nil {
//	    return err
//	}
//	reg := providerfactory.NewRegistry(cfg)
//	defer reg.Close()
func NewRegistry(cfg *config.Config) *registry.Registry {
	backends := BackendConfigs(cfg)
	reg := registry.BuildDefault(backends)

	if reg.Len() == 0 {
		slog.Warn("no AI providers registered; requests will fail until a backend is configured",
			"default_provider", reg.Default(),
		)
	}

	return reg
}

// BackendConfigs converts application configuration into the
// registry's per-backend configs. Disabled backends become nil entries
// and are never probed.
func BackendConfigs(cfg *config.Config) registry.BackendConfigs {
	return registry.BackendConfigs{
		Default: cfg.Router.DefaultProvider,
		OpenAI:  backendConfig(providers.NameOpenAI, cfg.Providers.OpenAI),
		Claude:  backendConfig(providers.NameClaude, cfg.Providers.Claude),
		Gemini:  backendConfig(providers.NameGemini, cfg.Providers.Gemini),
		Groq:    backendConfig(providers.NameGroq, cfg.Providers.Groq),
		Ollama:  backendConfig(providers.NameOllama, cfg.Providers.Ollama),
	}
}

func backendConfig(name string, pc config.ProviderConfig) *providers.Config {
	if !pc.IsEnabled() {
		slog.Debug("provider disabled in configuration", "provider", name)
		return nil
	}

	return &providers.Config{
		Name:       name,
		BaseURL:    pc.BaseURL,
		APIKey:     pc.APIKey,
		Model:      pc.Model,
		Timeout:    pc.Timeout,
		MaxRetries: pc.MaxRetries,
	}
}
