package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/slide-atlas/internal/domain"
	"github.com/heartmarshall/slide-atlas/internal/service/catalog"
	"github.com/heartmarshall/slide-atlas/internal/transport/dataloader"
)

const maxViewportBody = 64 << 10

// slideService defines the minimal interface needed by SlideHandler.
type slideService interface {
	Search(ctx context.Context, in catalog.SearchInput) (*domain.SearchResult, error)
	GetEntry(ctx context.Context, id int64) (*domain.EntryWithDetail, error)
	ResolveViewport(ctx context.Context, in catalog.ViewportInput) (*domain.ViewportView, error)
}

// SlideHandler serves the slide catalog endpoints.
type SlideHandler struct {
	svc slideService
	log *slog.Logger
}

// NewSlideHandler creates a SlideHandler.
func NewSlideHandler(svc slideService, logger *slog.Logger) *SlideHandler {
	return &SlideHandler{svc: svc, log: logger.With("handler", "slides")}
}

type slideResponse struct {
	domain.CatalogEntry
	Detail *domain.CatalogDetail `json:"detail,omitempty"`
}

type searchResponse struct {
	Entries    []slideResponse `json:"entries"`
	Count      int             `json:"count"`
	Message    string          `json:"message"`
	Query      string          `json:"query,omitempty"`
	Facet      string          `json:"facet,omitempty"`
	FacetLabel string          `json:"facet_label,omitempty"`
}

type viewportRequest struct {
	Bundle string `json:"bundle"`
}

// Search handles GET /api/slides?searched=&filtro=[&include=detail].
func (h *SlideHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := h.svc.Search(r.Context(), catalog.SearchInput{
		Query: q.Get("searched"),
		Facet: q.Get("filtro"),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := searchResponse{
		Entries:    make([]slideResponse, len(res.Entries)),
		Count:      res.Count,
		Message:    res.Message,
		Query:      res.Query,
		Facet:      string(res.Facet),
		FacetLabel: res.FacetLabel,
	}
	for i, e := range res.Entries {
		resp.Entries[i].CatalogEntry = e
	}

	if wantsDetail(q.Get("include")) && len(res.Entries) > 0 {
		if err := hydrateDetails(r.Context(), resp.Entries); err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/slides/{id}.
func (h *SlideHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Viewport handles GET and POST /api/slides/{id}/viewport. The bundle
// reference comes from the query string, a form field or a JSON body.
func (h *SlideHandler) Viewport(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntryID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	bundle, err := bundleRef(w, r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	view, err := h.svc.ResolveViewport(r.Context(), catalog.ViewportInput{
		EntryID:   id,
		BundleRef: bundle,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func parseEntryID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("entry_id", "must be a positive integer")
	}
	return id, nil
}

func bundleRef(w http.ResponseWriter, r *http.Request) (string, error) {
	if r.Method != http.MethodPost {
		return r.URL.Query().Get("bundle"), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxViewportBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req viewportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", domain.NewValidationError("body", "invalid JSON")
		}
		return req.Bundle, nil
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", domain.NewValidationError("body", "too large")
		}
		return "", domain.NewValidationError("body", "invalid form")
	}
	return r.PostForm.Get("bundle"), nil
}

func wantsDetail(include string) bool {
	for _, part := range strings.Split(include, ",") {
		if strings.TrimSpace(part) == "detail" {
			return true
		}
	}
	return false
}

// hydrateDetails fills Detail for every entry through the request's loader.
func hydrateDetails(ctx context.Context, entries []slideResponse) error {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	details, errs := dataloader.FromContext(ctx).DetailByEntryID.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for i := range entries {
		entries[i].Detail = details[i]
	}
	return nil
}
