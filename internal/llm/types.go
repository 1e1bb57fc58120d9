package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Tool describes a structured directive the model may invoke instead of
// replying with free text. Parameters holds a JSON-schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a structured directive invocation returned by the model.
// Arguments is the raw JSON payload; callers are responsible for parsing
// it and for handling malformed payloads.
type ToolCall struct {
	Name      string
	Arguments string
}

// ChatRequest contains the parameters for a chat completion request.
type ChatRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
	Tools       []Tool
	// AutoToolChoice lets the model decide whether to invoke a tool or
	// reply with plain text. Only meaningful when Tools is non-empty.
	AutoToolChoice bool
}

// ChatResponse contains the result of a chat completion request.
type ChatResponse struct {
	Content      string
	ToolCalls    []ToolCall
	Model        string
	FinishReason string
	InputTokens  int
	OutputTokens int
}

// StreamDelta is one incremental piece of a streamed completion. Arrival
// order is the only ordering guarantee.
type StreamDelta struct {
	Role    Role
	Content string
}
