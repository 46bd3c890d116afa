// Package server is the HTTP adapter for the resolver: tool calls, direct
// resolution, schema, health, metrics and the MCP transport.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	recurrence "github.com/njchilds90/gorecurrence"
)

const defaultMaxBodyBytes = 1 << 20

// Options configures the handler.
type Options struct {
	MaxBodyBytes int64
	Metrics      bool
	// MCP is mounted at /mcp when set.
	MCP http.Handler
}

type handler struct {
	resolver *recurrence.Resolver
	logger   *slog.Logger
	metrics  *metrics
}

// NewHandler builds the router.
func NewHandler(resolver *recurrence.Resolver, logger *slog.Logger, opts Options) http.Handler {
	if resolver == nil {
		resolver = recurrence.NewResolver()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	h := &handler{resolver: resolver, logger: logger}
	if opts.Metrics {
		h.metrics = newMetrics()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(h.recoverPanics)

	r.Group(func(r chi.Router) {
		r.Use(limitBody(opts.MaxBodyBytes))
		r.Post("/tool", h.tool)
		r.Post("/resolve", h.resolve)
	})
	r.Get("/schema", h.schema)
	r.Get("/health", h.health)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.handler())
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}
	return r
}

// ============================================================
// Middleware
// ============================================================

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *handler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error("panic in handler", "path", r.URL.Path, "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func limitBody(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}

// ============================================================
// Handlers
// ============================================================

// decodeStrict decodes exactly one JSON value and rejects unknown fields
// and trailing data.
func decodeStrict(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return nil
}

func (h *handler) tool(w http.ResponseWriter, r *http.Request) {
	var req recurrence.ToolRequest
	if err := decodeStrict(r, &req); err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	if req.Tool == "resolve" {
		sol, err := h.resolveAndRecord(r, req.Params)
		if err != nil {
			writeJSON(w, http.StatusOK, recurrence.ToolResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, recurrence.SolutionResponse(sol))
		return
	}

	resp := h.resolver.HandleToolCall(req)
	result := "ok"
	if resp.Error != "" {
		result = "error"
		h.logger.WarnContext(r.Context(), "tool call failed", "tool", req.Tool, "error", resp.Error)
	}
	h.countTool(req.Tool, result)
	writeJSON(w, http.StatusOK, resp)
}

// resolve takes the recurrence definition as the whole body and answers
// with the solution, 400 for a malformed definition, or 422 carrying the
// failing stage.
func (h *handler) resolve(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeStrict(r, &body); err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	sol, err := h.resolveAndRecord(r, body)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, recurrence.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error(), "stage": recurrence.Outcome(err)})
		return
	}
	writeJSON(w, http.StatusOK, recurrence.SolutionResponse(sol))
}

// resolveAndRecord runs one resolution for /tool and /resolve alike, so
// both count outcomes with the same stage vocabulary.
func (h *handler) resolveAndRecord(r *http.Request, params map[string]interface{}) (*recurrence.Solution, error) {
	start := time.Now()
	sol, err := h.resolver.ResolveParams(params)
	elapsed := time.Since(start)
	outcome := recurrence.Outcome(err)
	if err != nil {
		h.logger.WarnContext(r.Context(), "resolve failed", "stage", outcome, "error", err)
	}
	if h.metrics != nil {
		h.metrics.resolutions.WithLabelValues(outcome).Inc()
		h.metrics.duration.Observe(elapsed.Seconds())
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.countTool("resolve", result)
	return sol, err
}

// countTool labels names outside the tool set as "unknown".
func (h *handler) countTool(tool, result string) {
	if h.metrics == nil {
		return
	}
	if !recurrence.IsTool(tool) {
		tool = "unknown"
	}
	h.metrics.toolCalls.WithLabelValues(tool, result).Inc()
}

func (h *handler) schema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, recurrence.ToolSpec())
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
