package qdrant

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// Client indexes chunk vectors in Qdrant, one collection per tenant.
// Collection names are a deterministic injective function of the tenant
// id (the id alphabet is validated upstream), so any component can
// recompute them without a registry lookup.
type Client struct {
	baseURL          string
	collectionPrefix string
	httpClient       *http.Client

	ensureMu sync.Mutex
	ensured  map[string]int
}

func New(baseURL, collectionPrefix string, timeout time.Duration) *Client {
	if collectionPrefix == "" {
		collectionPrefix = "tenant"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		collectionPrefix: collectionPrefix,
		httpClient:       &http.Client{Timeout: timeout},
		ensured:          make(map[string]int),
	}
}

func (c *Client) CollectionFor(tenantID string) string {
	return c.collectionPrefix + "_" + tenantID
}

// PointID derives the stable vector id for one chunk. Re-upserting the
// same tenant/document/index replaces the point instead of duplicating.
func PointID(tenantID, documentID string, chunkIndex int) string {
	key := fmt.Sprintf("%s:%s:%d", tenantID, documentID, chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// Ready validates connectivity at startup; bootstrap treats failure as
// fatal rather than serving with a silently-broken store.
func (c *Client) Ready(ctx context.Context) error {
	var out struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/collections", nil, &out); err != nil {
		return domain.WrapError(domain.ErrVectorStoreUnavailable, "qdrant readiness", err)
	}
	return nil
}

func (c *Client) IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.ChunkRecord, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return domain.WrapError(domain.ErrEmbeddingCountMismatch, "index chunks", fmt.Errorf("chunks/vectors mismatch: %d/%d", len(chunks), len(vectors)))
	}

	collection := c.CollectionFor(doc.TenantID)
	if err := c.ensureCollection(ctx, collection, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}
	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, point{
			ID:     PointID(doc.TenantID, doc.ID, chunk.Index),
			Vector: vectors[i],
			Payload: map[string]any{
				"tenant_id":   doc.TenantID,
				"doc_id":      doc.ID,
				"filename":    doc.Filename,
				"chunk_index": chunk.Index,
				"location":    chunk.Location,
				"start":       chunk.Start,
				"end":         chunk.End,
				"text":        chunk.Text,
			},
		})
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", collection)
	if err := c.doJSON(ctx, http.MethodPut, path, map[string]any{"points": points}, nil); err != nil {
		return domain.WrapError(domain.ErrVectorStoreUnavailable, "qdrant upsert", err)
	}
	return nil
}

func (c *Client) Search(
	ctx context.Context,
	tenantID string,
	queryVector []float32,
	topK int,
	filter domain.SearchFilter,
) ([]domain.RetrievedChunk, error) {
	collection := c.CollectionFor(tenantID)

	request := map[string]any{
		"vector":       queryVector,
		"limit":        topK,
		"with_payload": true,
	}
	if filter.DocumentID != "" {
		request["filter"] = docIDFilter(filter.DocumentID)
	}

	var response struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	path := fmt.Sprintf("/collections/%s/points/search", collection)
	err := c.doJSON(ctx, http.MethodPost, path, request, &response)
	if err != nil {
		// A missing collection means nothing was ever indexed for this
		// tenant; only that case may read as an empty result set.
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.ErrVectorStoreUnavailable, "qdrant search", err)
	}

	out := make([]domain.RetrievedChunk, 0, len(response.Result))
	for _, r := range response.Result {
		out = append(out, domain.RetrievedChunk{
			DocumentID: payloadString(r.Payload, "doc_id"),
			Filename:   payloadString(r.Payload, "filename"),
			Location:   payloadString(r.Payload, "location"),
			ChunkIndex: payloadInt(r.Payload, "chunk_index"),
			Text:       payloadString(r.Payload, "text"),
			Score:      r.Score,
		})
	}
	return out, nil
}

func (c *Client) DeleteByDocument(ctx context.Context, tenantID, documentID string) error {
	collection := c.CollectionFor(tenantID)
	request := map[string]any{"filter": docIDFilter(documentID)}

	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", collection)
	if err := c.doJSON(ctx, http.MethodPost, path, request, nil); err != nil {
		if isNotFound(err) {
			return nil
		}
		return domain.WrapError(domain.ErrVectorStoreUnavailable, "qdrant delete by document", err)
	}
	return nil
}

func (c *Client) CollectionStats(ctx context.Context, tenantID string) (int, error) {
	var response struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/collections/"+c.CollectionFor(tenantID), nil, &response)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, domain.WrapError(domain.ErrVectorStoreUnavailable, "qdrant collection info", err)
	}
	return response.Result.PointsCount, nil
}

func (c *Client) ensureCollection(ctx context.Context, collection string, vectorSize int) error {
	c.ensureMu.Lock()
	if size, ok := c.ensured[collection]; ok && size == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	request := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}
	err := c.doJSON(ctx, http.MethodPut, "/collections/"+collection, request, nil)
	if err != nil && !isConflict(err) {
		return domain.WrapError(domain.ErrVectorStoreUnavailable, "qdrant ensure collection", err)
	}

	c.ensureMu.Lock()
	c.ensured[collection] = vectorSize
	c.ensureMu.Unlock()
	return nil
}

func docIDFilter(documentID string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   "doc_id",
				"match": map[string]any{"value": documentID},
			},
		},
	}
}

func payloadString(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func payloadInt(payload map[string]any, key string) int {
	if f, ok := payload[key].(float64); ok {
		return int(f)
	}
	return 0
}
