package ollama

import (
	"fmt"
	"strings"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

func buildAnswerPrompt(question string, chunks []domain.RetrievedChunk, history []domain.QueryTurn) string {
	var contextBuilder strings.Builder
	for idx, chunk := range chunks {
		location := ""
		if chunk.Location != "" {
			location = " (" + chunk.Location + ")"
		}
		contextBuilder.WriteString(fmt.Sprintf(
			"[Source %d: %s%s score=%.3f]\n%s\n\n",
			idx+1,
			chunk.Filename,
			location,
			chunk.Score,
			chunk.Text,
		))
	}
	if len(chunks) == 0 {
		contextBuilder.WriteString("(no relevant documents were found for this question)\n")
	}

	var b strings.Builder
	b.WriteString(`You are an assistant answering questions about a company's documents.
Answer only from the context below and cite sources by number (e.g. "According to Source 1...").
If the context does not contain the answer, say so directly instead of guessing.

`)
	writeHistory(&b, history)
	b.WriteString("Context:\n")
	b.WriteString(contextBuilder.String())
	b.WriteString("\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}

func buildGeneralPrompt(question string, history []domain.QueryTurn) string {
	var b strings.Builder
	b.WriteString(`You are a helpful general assistant. The user has not uploaded any documents yet, so answer from general knowledge and, when relevant, suggest uploading documents for document-specific questions.

`)
	writeHistory(&b, history)
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}

func writeHistory(b *strings.Builder, history []domain.QueryTurn) {
	if len(history) == 0 {
		return
	}
	b.WriteString("Conversation so far:\n")
	for _, turn := range history {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
