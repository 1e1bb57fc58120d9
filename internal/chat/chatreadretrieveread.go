package chat

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/llm"
	"github.com/ziadkadry99/docchat/internal/search"
	"github.com/ziadkadry99/docchat/internal/tokens"
)

const (
	queryMaxTokens  = 32
	answerMaxTokens = 1024

	defaultChatTemperature float32 = 0.7
)

// ChatReadRetrieveRead is the multi-turn approach: it first asks the
// model to compress the conversation into a search query, retrieves
// grounding snippets for it, then asks the model again to answer the
// latest question using only those snippets.
type ChatReadRetrieveRead struct {
	provider  llm.Provider
	retriever *search.Retriever
	model     string
	log       *zap.Logger
}

func NewChatReadRetrieveRead(provider llm.Provider, retriever *search.Retriever, model string, log *zap.Logger) *ChatReadRetrieveRead {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatReadRetrieveRead{provider: provider, retriever: retriever, model: model, log: log}
}

// prepared carries everything the answer call needs, shared between the
// blocking and streaming paths.
type prepared struct {
	messages   []llm.Message
	dataPoints []search.Snippet
	thoughts   []ThoughtStep
}

// prepare runs the retrieve stage: query reformulation, index lookup,
// and assembly of the answer prompt.
func (a *ChatReadRetrieveRead) prepare(ctx context.Context, history []Turn, overrides Overrides) (*prepared, error) {
	if len(history) == 0 {
		return nil, errors.New("empty conversation history")
	}
	question := history[len(history)-1].User
	if question == "" {
		return nil, errors.New("last turn has no user question")
	}

	// Stage 1: compress the conversation into a standalone search query.
	userQ := "Generate search query for: " + question
	queryMessages := BuildMessages(
		a.model,
		queryPromptTemplate,
		queryFewShots,
		history,
		userQ,
		tokens.ContextWindow(a.model)-len(userQ),
	)
	resp, err := a.provider.Complete(ctx, llm.ChatRequest{
		Model:          a.model,
		Messages:       queryMessages,
		MaxTokens:      queryMaxTokens,
		Temperature:    0,
		Tools:          []llm.Tool{searchSourcesTool},
		AutoToolChoice: true,
	})
	if err != nil {
		return nil, fmt.Errorf("reformulating query: %w", err)
	}
	query := searchQueryFromResponse(resp, question)
	a.log.Debug("reformulated query", zap.String("query", query))

	// Stage 2: retrieve grounding snippets.
	snippets, err := a.retriever.Retrieve(ctx, query, overrides.retrievalOptions())
	if err != nil {
		return nil, err
	}

	// Stage 3: assemble the answer prompt.
	systemPrompt := buildSystemPrompt(chatSystemTemplate, overrides.PromptTemplate, overrides.SuggestFollowupQuestions)
	content := question + "\n\nSources:\n" + search.SourcesText(snippets)
	messages := BuildMessages(
		a.model,
		systemPrompt,
		nil,
		history,
		content,
		tokens.ContextWindow(a.model)-answerMaxTokens,
	)

	thoughts := []ThoughtStep{
		{Title: "Generated search query", Content: query},
		{Title: "Retrieved documents", Content: search.SourcesText(snippets), Props: map[string]any{"count": len(snippets)}},
		{Title: "Prompt", Content: renderMessages(messages)},
	}
	return &prepared{messages: messages, dataPoints: snippets, thoughts: thoughts}, nil
}

// Run produces a complete answer in one call.
func (a *ChatReadRetrieveRead) Run(ctx context.Context, history []Turn, overrides Overrides) (*Answer, error) {
	prep, err := a.prepare(ctx, history, overrides)
	if err != nil {
		return nil, err
	}

	resp, err := a.provider.Complete(ctx, llm.ChatRequest{
		Model:       a.model,
		Messages:    prep.messages,
		MaxTokens:   answerMaxTokens,
		Temperature: overrides.temperature(defaultChatTemperature),
	})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	answer := resp.Content
	var followups []string
	if overrides.SuggestFollowupQuestions {
		answer, followups = StripFollowups(answer)
	}
	return &Answer{
		Answer:            answer,
		DataPoints:        prep.dataPoints,
		Thoughts:          prep.thoughts,
		FollowupQuestions: followups,
	}, nil
}

// RunStream produces the answer as a stream of shaped events. The first
// event announces the assistant role and carries the retrieval context;
// content events follow; a final event carries the follow-up questions
// when they were requested and present.
func (a *ChatReadRetrieveRead) RunStream(ctx context.Context, history []Turn, overrides Overrides) <-chan StreamEvent {
	events := make(chan StreamEvent)
	go func() {
		defer close(events)

		prep, err := a.prepare(ctx, history, overrides)
		if err != nil {
			emit(ctx, events, StreamEvent{Error: err.Error()})
			return
		}
		if !emit(ctx, events, StreamEvent{
			Role:       string(llm.RoleAssistant),
			DataPoints: prep.dataPoints,
			Thoughts:   prep.thoughts,
		}) {
			return
		}

		stream, err := a.provider.Stream(ctx, llm.ChatRequest{
			Model:       a.model,
			Messages:    prep.messages,
			MaxTokens:   answerMaxTokens,
			Temperature: overrides.temperature(defaultChatTemperature),
		})
		if err != nil {
			emit(ctx, events, StreamEvent{Error: fmt.Sprintf("generating answer: %v", err)})
			return
		}
		defer stream.Close()

		var seg Segmenter
		for {
			delta, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				emit(ctx, events, StreamEvent{Error: fmt.Sprintf("reading stream: %v", err)})
				return
			}
			if overrides.SuggestFollowupQuestions {
				if visible := seg.Push(delta.Content); visible != "" {
					if !emit(ctx, events, StreamEvent{Content: visible}) {
						return
					}
				}
				continue
			}
			if delta.Content != "" {
				if !emit(ctx, events, StreamEvent{Content: delta.Content}) {
					return
				}
			}
		}

		if overrides.SuggestFollowupQuestions {
			visible, followups := seg.Finish()
			if visible != "" {
				if !emit(ctx, events, StreamEvent{Content: visible}) {
					return
				}
			}
			if len(followups) > 0 {
				emit(ctx, events, StreamEvent{FollowupQuestions: followups})
			}
		}
	}()
	return events
}

// emit sends one event unless the request context is gone. It reports
// whether the run should continue.
func emit(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
