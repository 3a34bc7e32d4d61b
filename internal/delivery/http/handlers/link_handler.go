package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/metrics"
	"github.com/donan22/shortlink-service/internal/usecase"
	"github.com/gorilla/mux"
)

type createLinkRequest struct {
	OriginalURL string `json:"original_url"`
	PostID      *int64 `json:"post_id,omitempty"`
	Title       string `json:"title,omitempty"`
	FileSize    string `json:"file_size,omitempty"`
	Password    string `json:"password,omitempty"`
	Version     string `json:"version,omitempty"`
}

type createLinkResponse struct {
	ID           int64  `json:"id"`
	ShortCode    string `json:"short_code"`
	MonetizedURL string `json:"monetized_url,omitempty"`
	LocalURL     string `json:"local_url"`
}

type linkResponse struct {
	ID               int64   `json:"id"`
	PostID           *int64  `json:"post_id,omitempty"`
	OriginalURL      string  `json:"original_url"`
	ShortCode        string  `json:"short_code"`
	MonetizerService string  `json:"monetizer_service,omitempty"`
	MonetizedURL     string  `json:"monetized_url,omitempty"`
	DownloadTitle    string  `json:"download_title,omitempty"`
	FileSize         string  `json:"file_size,omitempty"`
	Version          string  `json:"version,omitempty"`
	Status           string  `json:"status"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalDownloads   int64   `json:"total_downloads"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type LinkHandler struct {
	linkUsecase usecase.LinkUsecase
	metrics     *metrics.LinkMetrics
	logger      *slog.Logger
}

func NewLinkHandler(linkUsecase usecase.LinkUsecase, linkMetrics *metrics.LinkMetrics, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		linkUsecase: linkUsecase,
		metrics:     linkMetrics,
		logger:      logger,
	}
}

// CreateLink handles POST /api/links.
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.linkUsecase.CreateLink(r.Context(), req.OriginalURL, req.PostID, &domain.LinkOptions{
		Title:    req.Title,
		FileSize: req.FileSize,
		Password: req.Password,
		Version:  req.Version,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyOriginalURL) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("link creation failed", "error", err.Error())
		if h.metrics != nil {
			h.metrics.LinkErrorsTotal.WithLabelValues("create").Inc()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create link"})
		return
	}

	if h.metrics != nil {
		h.metrics.LinksCreatedTotal.WithLabelValues(monetizerLabel(created.MonetizedURL)).Inc()
	}

	writeJSON(w, http.StatusCreated, createLinkResponse{
		ID:           created.ID,
		ShortCode:    created.ShortCode,
		MonetizedURL: created.MonetizedURL,
		LocalURL:     created.LocalURL,
	})
}

// LinksByPost handles GET /api/posts/{id}/links.
func (h *LinkHandler) LinksByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid post id"})
		return
	}

	links, err := h.linkUsecase.GetLinksByPost(r.Context(), postID)
	if err != nil {
		h.logger.Error("failed to list links by post", "post_id", postID, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list links"})
		return
	}

	writeJSON(w, http.StatusOK, toLinkResponses(links))
}

// TopLinks handles GET /api/links/top?limit=N.
func (h *LinkHandler) TopLinks(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	links, err := h.linkUsecase.GetTopLinks(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list top links", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list links"})
		return
	}

	writeJSON(w, http.StatusOK, toLinkResponses(links))
}

// SearchLink handles GET /api/links/search?q=..., the admin debugging
// helper. Accepts a full redirect URL, a /go/ path, or a bare code.
func (h *LinkHandler) SearchLink(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	link, err := h.linkUsecase.SearchLink(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidShortCode):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid short code"})
		case errors.Is(err, domain.ErrLinkNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such link"})
		default:
			h.logger.Error("link search failed", "query", query, "error", err.Error())
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "search failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toLinkResponse(link))
}

// DeactivateLink handles POST /api/links/{id}/deactivate.
func (h *LinkHandler) DeactivateLink(w http.ResponseWriter, r *http.Request) {
	linkID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid link id"})
		return
	}

	if err := h.linkUsecase.DeactivateLink(r.Context(), linkID); err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such link"})
			return
		}
		h.logger.Error("link deactivation failed", "link_id", linkID, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to deactivate link"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toLinkResponse(link *domain.MonetizedLink) linkResponse {
	return linkResponse{
		ID:               link.ID,
		PostID:           link.PostID,
		OriginalURL:      link.OriginalURL,
		ShortCode:        link.ShortCode,
		MonetizerService: link.MonetizerService,
		MonetizedURL:     link.MonetizedURL,
		DownloadTitle:    link.DownloadTitle,
		FileSize:         link.FileSize,
		Version:          link.Version,
		Status:           string(link.Status),
		TotalClicks:      link.TotalClicks,
		TotalDownloads:   link.TotalDownloads,
		EstimatedRevenue: link.EstimatedRevenue,
	}
}

func toLinkResponses(links []*domain.MonetizedLink) []linkResponse {
	out := make([]linkResponse, 0, len(links))
	for _, link := range links {
		out = append(out, toLinkResponse(link))
	}
	return out
}

func monetizerLabel(monetizedURL string) string {
	if monetizedURL == "" {
		return "none"
	}
	return "external"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
