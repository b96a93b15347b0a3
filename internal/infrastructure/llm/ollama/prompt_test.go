package ollama

import (
	"strings"
	"testing"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

func TestBuildAnswerPromptNumbersSources(t *testing.T) {
	prompt := buildAnswerPrompt("how did Q3 go?", []domain.RetrievedChunk{
		{Filename: "report.pdf", Location: "page 3", Score: 0.912, Text: "revenue grew 12%"},
		{Filename: "notes.txt", Score: 0.544, Text: "one-off costs"},
	}, nil)

	if !strings.Contains(prompt, "[Source 1: report.pdf (page 3) score=0.912]") {
		t.Fatalf("missing first source header:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[Source 2: notes.txt score=0.544]") {
		t.Fatalf("missing second source header:\n%s", prompt)
	}
	if !strings.Contains(prompt, "revenue grew 12%") {
		t.Fatalf("missing chunk text:\n%s", prompt)
	}
	if !strings.Contains(prompt, "how did Q3 go?") {
		t.Fatalf("missing question:\n%s", prompt)
	}
}

func TestBuildAnswerPromptEmptyContext(t *testing.T) {
	prompt := buildAnswerPrompt("anything?", nil, nil)
	if !strings.Contains(prompt, "no relevant documents were found") {
		t.Fatalf("empty context must be stated explicitly:\n%s", prompt)
	}
}

func TestBuildGeneralPromptHasNoCitationInstructions(t *testing.T) {
	prompt := buildGeneralPrompt("what is Go?", nil)
	if strings.Contains(prompt, "Source") || strings.Contains(prompt, "Context:") {
		t.Fatalf("general prompt must not reference document sources:\n%s", prompt)
	}
}

func TestPromptsIncludeHistory(t *testing.T) {
	history := []domain.QueryTurn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	prompt := buildGeneralPrompt("follow-up", history)
	if !strings.Contains(prompt, "user: earlier question") || !strings.Contains(prompt, "assistant: earlier answer") {
		t.Fatalf("missing history:\n%s", prompt)
	}
}
