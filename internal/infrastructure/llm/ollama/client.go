package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/infrastructure/resilience"
)

type Client struct {
	baseURL     string
	genModel    string
	embedModel  string
	queryPrefix string
	httpClient  *http.Client
	executor    *resilience.Executor
}

type Options struct {
	// QueryPrefix supports models that embed queries and documents
	// asymmetrically (e.g. "search_query: " for nomic-embed-text).
	QueryPrefix string
	Timeout     time.Duration
	Executor    *resilience.Executor
}

func New(baseURL, genModel, embedModel string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		genModel:    genModel,
		embedModel:  embedModel,
		queryPrefix: options.QueryPrefix,
		httpClient:  &http.Client{Timeout: timeout},
		executor:    options.Executor,
	}
}

// Ready validates the provider at startup. Bootstrap treats any error
// here as fatal so the system never accepts uploads it cannot process.
func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create readiness request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrEmbeddingUnavailable, "ollama readiness", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return domain.WrapError(domain.ErrEmbeddingUnavailable, "ollama readiness", fmt.Errorf("status %s", resp.Status))
	}
	return nil
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

// Embed returns one vector per input text, same order and count.
// Transient provider failures are retried with backoff; exhaustion
// surfaces as ErrEmbeddingUnavailable, never as an empty vector.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}

	call := func(callCtx context.Context) error {
		return e.client.postJSON(callCtx, "/api/embed", request, &response, "embed")
	}

	var err error
	if e.client.executor != nil {
		err = e.client.executor.Execute(ctx, "ollama.embed", call, classifyOllamaError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed batch", err)
	}

	if len(response.Embeddings) != len(texts) {
		return nil, domain.WrapError(
			domain.ErrEmbeddingCountMismatch,
			"embed batch",
			fmt.Errorf("provider returned %d vectors for %d inputs", len(response.Embeddings), len(texts)),
		)
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{e.client.queryPrefix + text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed query", fmt.Errorf("empty embedding result"))
	}
	return vectors[0], nil
}

func (e *Embedder) Ready(ctx context.Context) error {
	return e.client.Ready(ctx)
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateAnswer(ctx context.Context, question string, chunks []domain.RetrievedChunk, history []domain.QueryTurn) (string, error) {
	return g.generate(ctx, buildAnswerPrompt(question, chunks, history))
}

func (g *Generator) GenerateGeneral(ctx context.Context, question string, history []domain.QueryTurn) (string, error) {
	return g.generate(ctx, buildGeneralPrompt(question, history))
}

// generate is the query path: no retries, a stuck call fails fast with
// a typed generation error instead of hanging the caller.
func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	request := map[string]any{
		"model":  g.client.genModel,
		"prompt": prompt,
		"stream": false,
	}
	var response struct {
		Response string `json:"response"`
	}
	if err := g.client.postJSON(ctx, "/api/generate", request, &response, "generate"); err != nil {
		return "", domain.WrapError(domain.ErrGenerationFailed, "generate answer", err)
	}
	return strings.TrimSpace(response.Response), nil
}
