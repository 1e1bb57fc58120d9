// Package tokens estimates prompt token costs for chat models.
//
// The estimates intentionally err on the high side: the message builder
// uses them to pack conversation history under a model's context window,
// and overestimating only trims history a little earlier than strictly
// necessary.
package tokens

import "github.com/ziadkadry99/docchat/internal/llm"

// contextWindows maps model identifiers to their maximum prompt size in
// tokens. Azure deployment aliases are listed alongside the upstream names.
var contextWindows = map[string]int{
	"gpt-35-turbo":      4000,
	"gpt-3.5-turbo":     4000,
	"gpt-35-turbo-16k":  16000,
	"gpt-3.5-turbo-16k": 16000,
	"gpt-4":             8100,
	"gpt-4-32k":         32000,
	"gpt-4o":            128000,
	"gpt-4o-mini":       128000,
}

// defaultContextWindow is used when a model is not in the table. Unknown
// models must not abort the pipeline, so we fall back to the most
// conservative entry.
const defaultContextWindow = 4000

// messageOverhead is the fixed per-message framing cost (role markers and
// separators) charged on top of the content estimate.
const messageOverhead = 4

// ContextWindow returns the maximum prompt size in tokens for the given
// model, falling back to a conservative default for unknown models.
func ContextWindow(model string) int {
	if limit, ok := contextWindows[model]; ok {
		return limit
	}
	return defaultContextWindow
}

// CountText estimates the token count of a piece of text using the
// 4-characters-per-token approximation, rounded up. The estimate is
// monotonic: any prefix of a string costs no more than the full string.
func CountText(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// CountMessage estimates the token cost of a single chat message for the
// given model, including per-message framing overhead.
func CountMessage(model string, m llm.Message) int {
	_ = model // all supported models share the same approximation today
	return messageOverhead + CountText(m.Content)
}
