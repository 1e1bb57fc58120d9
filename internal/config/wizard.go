package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docchat! Let's configure your knowledge base.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend selection.
	backendPrompt := promptui.Select{
		Label: "Select retrieval backend",
		Items: []string{
			"local — embedded vector store, ingest your own files",
			"azure — Azure AI Search index with Azure OpenAI",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	backends := []Backend{BackendLocal, BackendAzure}
	cfg.Backend = backends[backendIdx]

	// 2. Chat model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: cfg.OpenAI.ChatModel,
	}
	if cfg.OpenAI.ChatModel, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("chat model: %w", err)
	}

	if cfg.Backend == BackendAzure {
		endpointPrompt := promptui.Prompt{Label: "Azure OpenAI endpoint"}
		if cfg.OpenAI.Endpoint, err = endpointPrompt.Run(); err != nil {
			return nil, fmt.Errorf("openai endpoint: %w", err)
		}
		deploymentPrompt := promptui.Prompt{
			Label:   "Chat deployment name",
			Default: "chat",
		}
		if cfg.OpenAI.ChatDeployment, err = deploymentPrompt.Run(); err != nil {
			return nil, fmt.Errorf("chat deployment: %w", err)
		}
		searchEndpointPrompt := promptui.Prompt{Label: "Azure AI Search endpoint"}
		if cfg.Search.Endpoint, err = searchEndpointPrompt.Run(); err != nil {
			return nil, fmt.Errorf("search endpoint: %w", err)
		}
		indexPrompt := promptui.Prompt{
			Label:   "Search index name",
			Default: "gptkbindex",
		}
		if cfg.Search.Index, err = indexPrompt.Run(); err != nil {
			return nil, fmt.Errorf("search index: %w", err)
		}
	} else {
		dataDirPrompt := promptui.Prompt{
			Label:   "Data directory for the local index",
			Default: cfg.Local.DataDir,
		}
		if cfg.Local.DataDir, err = dataDirPrompt.Run(); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
	}

	// 3. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if os.Getenv("OPENAI_API_KEY") == "" && cfg.OpenAI.APIKey == "" {
		fmt.Println("\nNote: set OPENAI_API_KEY in your environment (or openai.api_key in the config) before running docchat serve.")
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
