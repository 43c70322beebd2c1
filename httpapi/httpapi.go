// Package httpapi provides the HTTP API handler for readpack.
// It delegates all packing logic to the service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/readpack/readpack/model"
	"github.com/readpack/readpack/pkg/packer"
)

// Service is the slice of the readpack service the HTTP API needs.
type Service interface {
	Pack(ctx context.Context, files []packer.FileRequest, opts packer.Options) (*packer.Result, *model.Invocation, error)
	Invocations(limit int) ([]*model.Invocation, error)
	Invocation(id string) (*model.Invocation, []model.FileOutcome, error)
}

// Handler provides the HTTP API for readpack.
type Handler struct {
	service Service
	router  chi.Router
}

// New creates a new HTTP API handler.
func New(svc Service) *Handler {
	h := &Handler{service: svc}
	h.router = h.buildRouter()
	return h
}

// Router returns the HTTP router.
func (h *Handler) Router() chi.Router {
	return h.router
}

func (h *Handler) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Post("/pack", h.handlePack)
			r.Get("/invocations", h.handleListInvocations)
			r.Get("/invocations/{id}", h.handleGetInvocation)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return r
}

// --- Request/Response types ---

type packRequest struct {
	Files       []packer.FileRequest `json:"files"`
	StopOnError bool                 `json:"stop_on_error,omitempty"`
}

type packResponse struct {
	InvocationID string        `json:"invocation_id,omitempty"`
	Result       packer.Result `json:"result"`
}

type invocationResponse struct {
	Invocation *model.Invocation   `json:"invocation"`
	Files      []model.FileOutcome `json:"files"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Handlers ---

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "files is required")
		return
	}
	if len(req.Files) > packer.MaxFiles {
		writeError(w, http.StatusBadRequest, "at most "+strconv.Itoa(packer.MaxFiles)+" files per request")
		return
	}
	for _, f := range req.Files {
		if f.Path == "" {
			writeError(w, http.StatusBadRequest, "every file needs a path")
			return
		}
		if f.Offset < 0 || f.Limit < 0 {
			writeError(w, http.StatusBadRequest, "offset and limit must not be negative")
			return
		}
	}

	result, inv, err := h.service.Pack(r.Context(), req.Files, packer.Options{StopOnError: req.StopOnError})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusRequestTimeout, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := packResponse{Result: *result}
	if inv != nil {
		resp.InvocationID = inv.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListInvocations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	invs, err := h.service.Invocations(limit)
	if err != nil {
		log.Printf("Error listing invocations: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list invocations")
		return
	}
	if invs == nil {
		invs = []*model.Invocation{}
	}
	writeJSON(w, http.StatusOK, invs)
}

func (h *Handler) handleGetInvocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inv, files, err := h.service.Invocation(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "invocation not found")
		return
	}
	if inv == nil {
		writeError(w, http.StatusNotFound, "invocation not found")
		return
	}
	writeJSON(w, http.StatusOK, invocationResponse{Invocation: inv, Files: files})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
