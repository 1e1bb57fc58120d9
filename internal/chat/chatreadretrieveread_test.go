package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/ziadkadry99/docchat/internal/llm"
	"github.com/ziadkadry99/docchat/internal/search"
)

func TestChatRunTwoStagePipeline(t *testing.T) {
	index := &stubIndex{snippets: []search.Snippet{
		{SourceID: "benefits.pdf#2", Content: "eye exams are covered once a year"},
	}}
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		queryResponse("annual eye exam coverage"),
		answerResponse("Eye exams are covered once a year [benefits.pdf#2]."),
	}}
	approach := NewChatReadRetrieveRead(provider, stubRetriever(index), testModel, nil)

	history := []Turn{
		{User: "Tell me about the vision plan", Bot: "The vision plan covers exams and glasses."},
		{User: "Does it include annual eye exams?"},
	}
	answer, err := approach.Run(context.Background(), history, textOverrides())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(provider.requests) != 2 {
		t.Fatalf("expected 2 completion calls, got %d", len(provider.requests))
	}

	// The reformulation call offers the search tool, runs cold and short.
	queryReq := provider.requests[0]
	if len(queryReq.Tools) != 1 || queryReq.Tools[0].Name != "search_sources" {
		t.Errorf("query call tools = %+v", queryReq.Tools)
	}
	if queryReq.Temperature != 0 || queryReq.MaxTokens != queryMaxTokens {
		t.Errorf("query call params = temp %v, max %d", queryReq.Temperature, queryReq.MaxTokens)
	}
	last := queryReq.Messages[len(queryReq.Messages)-1]
	if last.Content != "Generate search query for: Does it include annual eye exams?" {
		t.Errorf("query call user content = %q", last.Content)
	}

	// The index saw the reformulated query, not the raw question.
	if index.lastQuery.Text == nil || *index.lastQuery.Text != "annual eye exam coverage" {
		t.Errorf("index query = %v", index.lastQuery.Text)
	}

	// The answer call grounds on the snippet and has no tools.
	answerReq := provider.requests[1]
	if len(answerReq.Tools) != 0 {
		t.Error("answer call must not offer tools")
	}
	answerUser := answerReq.Messages[len(answerReq.Messages)-1].Content
	if !strings.Contains(answerUser, "benefits.pdf#2: eye exams are covered once a year") {
		t.Errorf("answer call content = %q", answerUser)
	}
	if !strings.Contains(answerUser, "Does it include annual eye exams?") {
		t.Errorf("answer call missing the question: %q", answerUser)
	}

	if answer.Answer != "Eye exams are covered once a year [benefits.pdf#2]." {
		t.Errorf("answer = %q", answer.Answer)
	}
	if len(answer.DataPoints) != 1 || answer.DataPoints[0].SourceID != "benefits.pdf#2" {
		t.Errorf("data points = %+v", answer.DataPoints)
	}
	if len(answer.Thoughts) != 3 {
		t.Fatalf("expected 3 thought steps, got %d", len(answer.Thoughts))
	}
	if answer.Thoughts[0].Content != "annual eye exam coverage" {
		t.Errorf("query thought = %q", answer.Thoughts[0].Content)
	}
}

func TestChatRunSentinelFallsBackToQuestion(t *testing.T) {
	index := &stubIndex{}
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		queryResponse("0"),
		answerResponse("I don't know."),
	}}
	approach := NewChatReadRetrieveRead(provider, stubRetriever(index), testModel, nil)

	history := []Turn{{User: "Wie ist das Wetter?"}}
	if _, err := approach.Run(context.Background(), history, textOverrides()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if index.lastQuery.Text == nil || *index.lastQuery.Text != "Wie ist das Wetter?" {
		t.Errorf("index query = %v, want the raw question", index.lastQuery.Text)
	}
}

func TestChatRunStripsFollowups(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		queryResponse("claims"),
		answerResponse("File online [hr.pdf]. <<What is the deadline?>>"),
	}}
	approach := NewChatReadRetrieveRead(provider, stubRetriever(&stubIndex{}), testModel, nil)

	overrides := textOverrides()
	overrides.SuggestFollowupQuestions = true
	answer, err := approach.Run(context.Background(), []Turn{{User: "How do I file a claim?"}}, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.Answer != "File online [hr.pdf]." {
		t.Errorf("answer = %q", answer.Answer)
	}
	if len(answer.FollowupQuestions) != 1 || answer.FollowupQuestions[0] != "What is the deadline?" {
		t.Errorf("followups = %v", answer.FollowupQuestions)
	}
}

func TestChatRunEmptyHistory(t *testing.T) {
	approach := NewChatReadRetrieveRead(&scriptedProvider{}, stubRetriever(&stubIndex{}), testModel, nil)
	if _, err := approach.Run(context.Background(), nil, textOverrides()); err == nil {
		t.Fatal("expected error for empty history")
	}
}

func TestChatRunStreamEventSequence(t *testing.T) {
	index := &stubIndex{snippets: []search.Snippet{{SourceID: "a.pdf#1", Content: "fact"}}}
	provider := &scriptedProvider{
		responses: []*llm.ChatResponse{queryResponse("facts")},
		deltas: []llm.StreamDelta{
			{Content: "The fact "},
			{Content: "is covered [a.pdf#1]."},
			{Content: " <<More"},
			{Content: " detail?>>"},
		},
	}
	approach := NewChatReadRetrieveRead(provider, stubRetriever(index), testModel, nil)

	overrides := textOverrides()
	overrides.SuggestFollowupQuestions = true
	var events []StreamEvent
	for ev := range approach.RunStream(context.Background(), []Turn{{User: "q"}}, overrides) {
		events = append(events, ev)
	}

	if len(events) < 3 {
		t.Fatalf("expected role, content and follow-up events, got %d", len(events))
	}
	first := events[0]
	if first.Role != string(llm.RoleAssistant) || len(first.DataPoints) != 1 || len(first.Thoughts) != 3 {
		t.Errorf("first event = %+v", first)
	}

	var content strings.Builder
	for _, ev := range events[1 : len(events)-1] {
		if ev.Error != "" {
			t.Fatalf("unexpected error event: %s", ev.Error)
		}
		content.WriteString(ev.Content)
	}
	if content.String() != "The fact is covered [a.pdf#1]. " {
		t.Errorf("streamed content = %q", content.String())
	}

	final := events[len(events)-1]
	if len(final.FollowupQuestions) != 1 || final.FollowupQuestions[0] != "More detail?" {
		t.Errorf("final event = %+v", final)
	}
}

func TestChatRunStreamErrorEvent(t *testing.T) {
	provider := &scriptedProvider{responses: nil} // reformulation fails
	approach := NewChatReadRetrieveRead(provider, stubRetriever(&stubIndex{}), testModel, nil)

	var events []StreamEvent
	for ev := range approach.RunStream(context.Background(), []Turn{{User: "q"}}, textOverrides()) {
		events = append(events, ev)
	}

	if len(events) != 1 || events[0].Error == "" {
		t.Fatalf("expected a single error event, got %+v", events)
	}
}

func TestChatRunStreamAbandonedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{
		responses: []*llm.ChatResponse{queryResponse("q")},
	}
	approach := NewChatReadRetrieveRead(provider, stubRetriever(&stubIndex{}), testModel, nil)

	events := approach.RunStream(ctx, []Turn{{User: "q"}}, textOverrides())
	for range events {
	}
	// The channel must close even though nothing was consumed in time.
}
