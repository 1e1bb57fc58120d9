package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/llm"
	"github.com/ziadkadry99/docchat/internal/search"
	"github.com/ziadkadry99/docchat/internal/tokens"
)

const defaultAskTemperature float32 = 0.3

// RetrieveThenRead is the single-shot approach: the question itself is
// the search query, so no reformulation call is made. The retrieved
// snippets are appended to the question and answered in one completion.
type RetrieveThenRead struct {
	provider  llm.Provider
	retriever *search.Retriever
	model     string
	log       *zap.Logger
}

func NewRetrieveThenRead(provider llm.Provider, retriever *search.Retriever, model string, log *zap.Logger) *RetrieveThenRead {
	if log == nil {
		log = zap.NewNop()
	}
	return &RetrieveThenRead{provider: provider, retriever: retriever, model: model, log: log}
}

func (a *RetrieveThenRead) Run(ctx context.Context, question string, overrides Overrides) (*Answer, error) {
	if question == "" {
		return nil, errors.New("empty question")
	}

	snippets, err := a.retriever.Retrieve(ctx, question, overrides.retrievalOptions())
	if err != nil {
		return nil, err
	}

	systemPrompt := buildSystemPrompt(askSystemTemplate, overrides.PromptTemplate, overrides.SuggestFollowupQuestions)
	content := question + "\n\nSources:\n" + search.SourcesText(snippets)
	messages := BuildMessages(
		a.model,
		systemPrompt,
		askFewShots,
		nil,
		content,
		tokens.ContextWindow(a.model)-answerMaxTokens,
	)

	resp, err := a.provider.Complete(ctx, llm.ChatRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   answerMaxTokens,
		Temperature: overrides.temperature(defaultAskTemperature),
	})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}
	a.log.Debug("answered question", zap.Int("snippets", len(snippets)))

	answer := resp.Content
	var followups []string
	if overrides.SuggestFollowupQuestions {
		answer, followups = StripFollowups(answer)
	}
	return &Answer{
		Answer:            answer,
		DataPoints:        snippets,
		Thoughts: []ThoughtStep{
			{Title: "Search query", Content: question},
			{Title: "Retrieved documents", Content: search.SourcesText(snippets), Props: map[string]any{"count": len(snippets)}},
			{Title: "Prompt", Content: renderMessages(messages)},
		},
		FollowupQuestions: followups,
	}, nil
}
