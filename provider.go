package delve

import "fmt"

// Provider identifies a language model backend.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderOllama    Provider = "ollama"
)

// ParseProvider converts a provider name into a Provider.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(name); p {
	case ProviderAnthropic, ProviderOpenAI, ProviderGoogle, ProviderOllama:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider: %q (must be anthropic, openai, google, or ollama)", name)
	}
}

// NeedsAPIKey reports whether the provider requires an API key.
// Ollama serves models locally and accepts any key.
func (p Provider) NeedsAPIKey() bool {
	return p != ProviderOllama
}
