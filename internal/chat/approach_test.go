package chat

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistryUnknownApproach(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Ask("nope"); !errors.Is(err, ErrUnknownApproach) {
		t.Errorf("Ask error = %v", err)
	}
	if _, err := reg.Chat("nope"); !errors.Is(err, ErrUnknownApproach) {
		t.Errorf("Chat error = %v", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	approach := &RetrieveThenRead{}
	reg.RegisterAsk("rtr", approach)

	got, err := reg.Ask("rtr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != approach {
		t.Error("lookup returned a different approach")
	}
}

func TestBuildSystemPromptDefault(t *testing.T) {
	prompt := buildSystemPrompt(chatSystemTemplate, "", false)
	if strings.Contains(prompt, "{follow_up_questions_prompt}") || strings.Contains(prompt, "{injected_prompt}") {
		t.Error("placeholders not expanded")
	}
	if strings.Contains(prompt, "follow-up questions") {
		t.Error("follow-up instructions present without the override")
	}
}

func TestBuildSystemPromptFollowups(t *testing.T) {
	prompt := buildSystemPrompt(chatSystemTemplate, "", true)
	if !strings.Contains(prompt, "double angle brackets") {
		t.Error("follow-up instructions missing")
	}
}

func TestBuildSystemPromptInjection(t *testing.T) {
	prompt := buildSystemPrompt(chatSystemTemplate, ">>>Always answer in French.", true)
	if !strings.Contains(prompt, "Always answer in French.") {
		t.Error("injected prompt missing")
	}
	if !strings.Contains(prompt, "Answer ONLY with the facts") {
		t.Error("base template dropped by a >>> injection")
	}
}

func TestBuildSystemPromptReplacement(t *testing.T) {
	prompt := buildSystemPrompt(chatSystemTemplate, "You are a pirate. {follow_up_questions_prompt}", true)
	if strings.Contains(prompt, "Answer ONLY with the facts") {
		t.Error("base template should be replaced entirely")
	}
	if !strings.Contains(prompt, "You are a pirate.") {
		t.Error("replacement prompt missing")
	}
	if !strings.Contains(prompt, "double angle brackets") {
		t.Error("replacement prompts still expand the follow-up placeholder")
	}
}
