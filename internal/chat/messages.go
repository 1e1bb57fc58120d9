package chat

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/docchat/internal/llm"
	"github.com/ziadkadry99/docchat/internal/tokens"
)

// BuildMessages assembles the prompt for one completion call under a
// token budget. The resulting order is always: system message, few-shot
// examples in declared order, a contiguous chronological window of prior
// history turns, and the current user content last.
//
// History is packed in two passes: the first decides, newest to oldest,
// which prior turns fit under the budget, stopping at the first turn
// that would overflow — older turns are never admitted past that point,
// so the included window is always contiguous and ends at the turn
// immediately before the current question. The second pass assembles the
// final list in chronological order.
//
// When even the system message, few-shots and current user content
// exceed the budget, that minimal list is returned unmodified; the
// caller has misconfigured the budget and truncating the fixed prompt
// contract would only make the request worse.
func BuildMessages(model, systemPrompt string, fewShots []llm.Message, history []Turn, userContent string, budget int) []llm.Message {
	system := llm.Message{Role: llm.RoleSystem, Content: systemPrompt}
	current := llm.Message{Role: llm.RoleUser, Content: userContent}

	used := tokens.CountMessage(model, system) + tokens.CountMessage(model, current)
	for _, shot := range fewShots {
		used += tokens.CountMessage(model, shot)
	}

	// Pass 1: select the window of prior turns, newest first. The last
	// history turn is the question being answered, not a prior turn.
	var window []Turn
	if len(history) > 0 {
		prior := history[:len(history)-1]
		for i := len(prior) - 1; i >= 0; i-- {
			cost := turnCost(model, prior[i])
			if used+cost > budget {
				break
			}
			window = append(window, prior[i])
			used += cost
		}
	}

	// Pass 2: assemble chronologically.
	messages := make([]llm.Message, 0, 2+len(fewShots)+2*len(window))
	messages = append(messages, system)
	messages = append(messages, fewShots...)
	for i := len(window) - 1; i >= 0; i-- {
		turn := window[i]
		if turn.User != "" {
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: turn.User})
		}
		if turn.Bot != "" {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: turn.Bot})
		}
	}
	return append(messages, current)
}

// turnCost is the incremental token cost of including one history turn.
func turnCost(model string, turn Turn) int {
	cost := 0
	if turn.User != "" {
		cost += tokens.CountMessage(model, llm.Message{Role: llm.RoleUser, Content: turn.User})
	}
	if turn.Bot != "" {
		cost += tokens.CountMessage(model, llm.Message{Role: llm.RoleAssistant, Content: turn.Bot})
	}
	return cost
}

// renderMessages formats a prompt for the diagnostic trace.
func renderMessages(messages []llm.Message) string {
	var sb strings.Builder
	for i, m := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%s: %s", m.Role, m.Content)
	}
	return sb.String()
}
