package config

// DefaultExcludes are glob patterns skipped during ingestion by default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendLocal,
		OpenAI: OpenAIConfig{
			ChatModel:  "gpt-4o",
			EmbedModel: "text-embedding-3-small",
		},
		Search: SearchConfig{
			SemanticConfig: "default",
			Language:       "en-us",
		},
		Local: LocalConfig{
			DataDir: ".docchat",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Default: DefaultsConfig{
			RetrievalMode: "hybrid",
			Top:           3,
		},
	}
}
