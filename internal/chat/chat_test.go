package chat

import (
	"context"
	"fmt"
	"io"

	"github.com/ziadkadry99/docchat/internal/llm"
	"github.com/ziadkadry99/docchat/internal/search"
)

// scriptedProvider returns canned responses in order and records every
// request it sees.
type scriptedProvider struct {
	requests  []llm.ChatRequest
	responses []*llm.ChatResponse
	deltas    []llm.StreamDelta
	err       error
}

func (p *scriptedProvider) Complete(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return nil, fmt.Errorf("no scripted response for request %d", len(p.requests))
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func (p *scriptedProvider) Stream(ctx context.Context, req llm.ChatRequest) (llm.Stream, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &scriptedStream{deltas: p.deltas}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

type scriptedStream struct {
	deltas []llm.StreamDelta
}

func (s *scriptedStream) Recv() (llm.StreamDelta, error) {
	if len(s.deltas) == 0 {
		return llm.StreamDelta{}, io.EOF
	}
	d := s.deltas[0]
	s.deltas = s.deltas[1:]
	return d, nil
}

func (s *scriptedStream) Close() error { return nil }

// stubIndex serves fixed snippets and records the last query.
type stubIndex struct {
	snippets  []search.Snippet
	lastQuery search.Query
}

func (s *stubIndex) Search(ctx context.Context, q search.Query) ([]search.Snippet, error) {
	s.lastQuery = q
	return s.snippets, nil
}

func stubRetriever(index search.Index) *search.Retriever {
	return search.NewRetriever(index, nil, nil)
}

// textMode keeps retrieval lexical so tests never need an embedder.
func textOverrides() Overrides {
	return Overrides{RetrievalMode: search.ModeText}
}

func queryResponse(query string) *llm.ChatResponse {
	return &llm.ChatResponse{Content: query}
}

func answerResponse(answer string) *llm.ChatResponse {
	return &llm.ChatResponse{Content: answer, FinishReason: "stop"}
}
