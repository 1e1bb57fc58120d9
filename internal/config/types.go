package config

// Backend selects where retrieval runs.
type Backend string

const (
	// BackendAzure retrieves from an Azure AI Search index and talks to
	// Azure OpenAI deployments.
	BackendAzure Backend = "azure"
	// BackendLocal retrieves from the embedded vector store filled by
	// `docchat ingest` and talks to the public OpenAI API.
	BackendLocal Backend = "local"
)

// Config is the top-level docchat configuration, corresponding to
// .docchat.yml.
type Config struct {
	Backend Backend        `yaml:"backend" koanf:"backend"`
	OpenAI  OpenAIConfig   `yaml:"openai" koanf:"openai"`
	Search  SearchConfig   `yaml:"search" koanf:"search"`
	Local   LocalConfig    `yaml:"local" koanf:"local"`
	Server  ServerConfig   `yaml:"server" koanf:"server"`
	Default DefaultsConfig `yaml:"defaults" koanf:"defaults"`
	Verbose bool           `yaml:"verbose" koanf:"verbose"`
}

// OpenAIConfig holds model access settings. Endpoint and the deployment
// names are only used with the azure backend; the local backend talks to
// the public API with the model names alone.
type OpenAIConfig struct {
	APIKey          string `yaml:"api_key" koanf:"api_key"`
	Endpoint        string `yaml:"endpoint" koanf:"endpoint"`
	ChatDeployment  string `yaml:"chat_deployment" koanf:"chat_deployment"`
	ChatModel       string `yaml:"chat_model" koanf:"chat_model"`
	EmbedDeployment string `yaml:"embed_deployment" koanf:"embed_deployment"`
	EmbedModel      string `yaml:"embed_model" koanf:"embed_model"`
}

// SearchConfig holds Azure AI Search access settings.
type SearchConfig struct {
	Endpoint       string `yaml:"endpoint" koanf:"endpoint"`
	Index          string `yaml:"index" koanf:"index"`
	APIKey         string `yaml:"api_key" koanf:"api_key"`
	SemanticConfig string `yaml:"semantic_config" koanf:"semantic_config"`
	Language       string `yaml:"language" koanf:"language"`
}

// LocalConfig holds settings for the embedded store backend.
type LocalConfig struct {
	// DataDir is where the ingested index is persisted.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port" koanf:"port"`
	// HistoryPath is the sqlite file for conversation logging. Empty
	// disables logging.
	HistoryPath string `yaml:"history_path" koanf:"history_path"`
}

// DefaultsConfig holds the retrieval defaults applied when a request
// carries no overrides.
type DefaultsConfig struct {
	RetrievalMode     string `yaml:"retrieval_mode" koanf:"retrieval_mode"`
	Top               int    `yaml:"top" koanf:"top"`
	UseSemanticRanker bool   `yaml:"semantic_ranker" koanf:"semantic_ranker"`
}
