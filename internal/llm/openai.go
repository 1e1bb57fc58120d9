package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using the OpenAI Chat Completions
// API, either against api.openai.com or an Azure OpenAI deployment.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for the public OpenAI API.
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewAzureOpenAIProvider creates a provider for an Azure OpenAI resource.
// Model names in requests are mapped to the given deployment id.
func NewAzureOpenAIProvider(apiKey, endpoint, deployment, model string) *OpenAIProvider {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	cfg.AzureModelMapperFunc = func(string) string { return deployment }
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) buildRequest(req ChatRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	var messages []openai.ChatCompletionMessage
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}

	for _, tool := range req.Tools {
		apiReq.Tools = append(apiReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	if len(req.Tools) > 0 && req.AutoToolChoice {
		apiReq.ToolChoice = "auto"
	}

	return apiReq
}

func (p *OpenAIProvider) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return nil, err
	}

	out := &ChatResponse{
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		out.Content = choice.Message.Content
		out.FinishReason = string(choice.FinishReason)
		for _, call := range choice.Message.ToolCalls {
			if call.Type != openai.ToolTypeFunction {
				continue
			}
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
	}

	return out, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, req ChatRequest) (Stream, error) {
	apiReq := p.buildRequest(req)
	apiReq.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, apiReq)
	if err != nil {
		return nil, err
	}
	return &openaiStream{inner: stream}, nil
}

// openaiStream adapts the go-openai stream to the Stream interface.
type openaiStream struct {
	inner *openai.ChatCompletionStream
}

func (s *openaiStream) Recv() (StreamDelta, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			return StreamDelta{}, err
		}
		// Some API versions send an initial event with an empty choice
		// set; skip those rather than treating them as data.
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		return StreamDelta{
			Role:    Role(delta.Role),
			Content: delta.Content,
		}, nil
	}
}

func (s *openaiStream) Close() error {
	return s.inner.Close()
}
