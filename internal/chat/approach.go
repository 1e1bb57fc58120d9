package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownApproach is returned when a request names an approach that
// was never registered.
var ErrUnknownApproach = errors.New("unknown approach")

// AskApproach answers a standalone question with no conversation history.
type AskApproach interface {
	Run(ctx context.Context, question string, overrides Overrides) (*Answer, error)
}

// ChatApproach answers the latest question of a multi-turn conversation,
// either as a complete answer or as a stream of shaped events.
type ChatApproach interface {
	Run(ctx context.Context, history []Turn, overrides Overrides) (*Answer, error)
	RunStream(ctx context.Context, history []Turn, overrides Overrides) <-chan StreamEvent
}

// Registry holds the approach implementations the server can dispatch
// to. Registration happens once at startup; lookups are read-only after
// that, so no locking is needed.
type Registry struct {
	ask  map[string]AskApproach
	chat map[string]ChatApproach
}

func NewRegistry() *Registry {
	return &Registry{
		ask:  make(map[string]AskApproach),
		chat: make(map[string]ChatApproach),
	}
}

func (r *Registry) RegisterAsk(name string, a AskApproach)   { r.ask[name] = a }
func (r *Registry) RegisterChat(name string, c ChatApproach) { r.chat[name] = c }

func (r *Registry) Ask(name string) (AskApproach, error) {
	a, ok := r.ask[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownApproach, name)
	}
	return a, nil
}

func (r *Registry) Chat(name string) (ChatApproach, error) {
	c, ok := r.chat[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownApproach, name)
	}
	return c, nil
}

// buildSystemPrompt expands the template placeholders. An override
// starting with ">>>" is appended to the built-in prompt; any other
// non-empty override replaces it entirely.
func buildSystemPrompt(template, override string, suggestFollowups bool) string {
	followups := ""
	if suggestFollowups {
		followups = followupQuestionsPrompt
	}

	injected := ""
	switch {
	case override == "":
	case strings.HasPrefix(override, ">>>"):
		injected = strings.TrimPrefix(override, ">>>")
	default:
		return expandPrompt(override, followups, "")
	}
	return expandPrompt(template, followups, injected)
}

func expandPrompt(template, followups, injected string) string {
	out := strings.ReplaceAll(template, "{follow_up_questions_prompt}", followups)
	return strings.ReplaceAll(out, "{injected_prompt}", injected)
}
