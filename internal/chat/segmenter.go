package chat

import (
	"regexp"
	"strings"
)

var followupPattern = regexp.MustCompile(`<<([^>]+)>>`)

type segState int

const (
	segAnswer    segState = iota // emitting visible answer text
	segSawLT                     // seen one '<', may open the follow-up block
	segFollowups                 // accumulating the follow-up block
)

// Segmenter splits a streamed model response into visible answer text
// and the trailing follow-up block opened by the first <<. Everything
// from that marker on is accumulated and parsed only at end of stream.
// Feeding the same response in different chunk partitions yields the
// same output, so a marker split across chunk boundaries never leaks to
// the viewer.
type Segmenter struct {
	followups strings.Builder
	state     segState
}

// Push consumes one raw chunk and returns the answer text that is now
// safe to display. A lone '<' at a chunk boundary is held back until the
// next chunk resolves whether it opens the follow-up block.
func (s *Segmenter) Push(chunk string) string {
	if s.state == segFollowups {
		s.followups.WriteString(chunk)
		return ""
	}

	var visible strings.Builder
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]
		switch s.state {
		case segAnswer:
			if c == '<' {
				s.state = segSawLT
			} else {
				visible.WriteByte(c)
			}
		case segSawLT:
			if c == '<' {
				s.state = segFollowups
				s.followups.WriteString("<<")
				s.followups.WriteString(chunk[i+1:])
				return visible.String()
			}
			visible.WriteByte('<')
			visible.WriteByte(c)
			s.state = segAnswer
		}
	}
	return visible.String()
}

// Finish flushes any held-back text and returns it together with the
// parsed follow-up questions. An unmatched trailing fragment in the
// follow-up block is discarded rather than shown half-parsed.
func (s *Segmenter) Finish() (string, []string) {
	visible := ""
	if s.state == segSawLT {
		visible = "<"
	}
	s.state = segAnswer

	return visible, parseFollowups(s.followups.String())
}

func parseFollowups(block string) []string {
	var followups []string
	for _, m := range followupPattern.FindAllStringSubmatch(block, -1) {
		if q := strings.TrimSpace(m[1]); q != "" {
			followups = append(followups, q)
		}
	}
	return followups
}

// StripFollowups splits a complete response at the first follow-up
// marker and returns the answer text alongside the extracted questions.
// It is the non-streaming counterpart of a Push/Finish cycle.
func StripFollowups(content string) (string, []string) {
	answer, block, found := strings.Cut(content, "<<")
	if !found {
		return content, nil
	}
	return strings.TrimRight(answer, " \n"), parseFollowups("<<" + block)
}
