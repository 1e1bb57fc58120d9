package llm

import "context"

// Provider defines the interface for chat completion providers.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Stream sends a completion request and returns an incremental stream
	// of deltas. The caller must Close the stream when done.
	Stream(ctx context.Context, req ChatRequest) (Stream, error)
	// Name returns the name of this provider.
	Name() string
}

// Stream yields completion deltas in arrival order. Recv returns io.EOF
// once the model signals the end of the completion.
type Stream interface {
	Recv() (StreamDelta, error)
	Close() error
}
