package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/core/ports"
	"github.com/bizdocs-ai/bizdocs/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	ingestor ports.DocumentIngestor
	querySvc ports.DocumentQueryService
	reader   ports.DocumentReader
	deleter  ports.DocumentDeleter
	registry ports.HandlerRegistry
	stats    ports.TenantStatsReader

	logger  *slog.Logger
	metrics *metrics.HTTPServerMetrics
	limiter *rate.Limiter

	maxUploadBytes int64
}

type RouterOptions struct {
	Logger         *slog.Logger
	Metrics        *metrics.HTTPServerMetrics
	Limiter        *rate.Limiter
	Stats          ports.TenantStatsReader
	MaxUploadBytes int64
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	querySvc ports.DocumentQueryService,
	reader ports.DocumentReader,
	deleter ports.DocumentDeleter,
	registry ports.HandlerRegistry,
	opts RouterOptions,
) *Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	return &Router{
		ingestor:       ingestor,
		querySvc:       querySvc,
		reader:         reader,
		deleter:        deleter,
		registry:       registry,
		stats:          opts.Stats,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		limiter:        opts.Limiter,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/tenants/{tenant}/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/tenants/{tenant}/documents/{id}", rt.getDocument)
	mux.HandleFunc("DELETE /v1/tenants/{tenant}/documents/{id}", rt.deleteDocument)
	mux.HandleFunc("POST /v1/tenants/{tenant}/query", rt.query)
	if rt.stats != nil {
		mux.HandleFunc("GET /v1/tenants/{tenant}/stats", rt.tenantStats)
	}
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = rateLimitMiddleware(rt.limiter, handler)
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"supported_types": rt.registry.SupportedTypes(),
	})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenant")

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		tenantID,
		fileHeader.Filename,
		r.FormValue("file_type"),
		file,
	)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.reader.GetByID(r.Context(), r.PathValue("tenant"), r.PathValue("id"))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) tenantStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.stats.Stats(r.Context(), r.PathValue("tenant"))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	err := rt.deleter.Delete(r.Context(), r.PathValue("tenant"), r.PathValue("id"))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type queryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
	History  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"history"`
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	history := make([]domain.QueryTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, domain.QueryTurn{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	start := time.Now()
	answer, err := rt.querySvc.Answer(r.Context(), r.PathValue("tenant"), req.Question, req.TopK, history)
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRAGObservation(serviceName, len(answer.Sources), time.Since(start))
	}

	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		rt.logger.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
