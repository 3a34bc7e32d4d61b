package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/donan22/shortlink-service/internal/delivery/http/middleware"
	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/metrics"
	"github.com/donan22/shortlink-service/internal/usecase"
)

type trackRequest struct {
	LinkID    int64  `json:"link_id"`
	EventType string `json:"event_type"`
}

type revenueStatResponse struct {
	MonetizerService string  `json:"monetizer_service"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalDownloads   int64   `json:"total_downloads"`
	TotalRevenue     float64 `json:"total_revenue"`
}

type TrackHandler struct {
	trackingUsecase usecase.TrackingUsecase
	metrics         *metrics.LinkMetrics
	logger          *slog.Logger
}

func NewTrackHandler(trackingUsecase usecase.TrackingUsecase, linkMetrics *metrics.LinkMetrics, logger *slog.Logger) *TrackHandler {
	return &TrackHandler{
		trackingUsecase: trackingUsecase,
		metrics:         linkMetrics,
		logger:          logger,
	}
}

// Track handles POST /api/track, called from download-button handlers.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	eventType, err := domain.ParseEventType(req.EventType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event type"})
		return
	}

	clientInfo := &domain.ClientInfo{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}

	event, err := h.trackingUsecase.Track(r.Context(), req.LinkID, eventType, clientInfo)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such link"})
			return
		}
		h.logger.Error("event tracking failed", "link_id", req.LinkID, "error", err.Error())
		if h.metrics != nil {
			h.metrics.LinkErrorsTotal.WithLabelValues("track").Inc()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to track event"})
		return
	}

	if h.metrics != nil {
		h.metrics.EventsTrackedTotal.WithLabelValues(string(eventType)).Inc()
		if event.RevenueEarned > 0 {
			h.metrics.RevenueEarnedTotal.WithLabelValues(event.MonetizerService).Add(event.RevenueEarned)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevenueStats handles GET /api/revenue?period=today|yesterday|week|month|all.
func (h *TrackHandler) RevenueStats(w http.ResponseWriter, r *http.Request) {
	period := domain.RevenuePeriod(r.URL.Query().Get("period"))

	stats, err := h.trackingUsecase.GetRevenueStats(r.Context(), period)
	if err != nil {
		h.logger.Error("revenue stats query failed", "period", period, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load revenue stats"})
		return
	}

	out := make([]revenueStatResponse, 0, len(stats))
	for _, stat := range stats {
		out = append(out, revenueStatResponse{
			MonetizerService: stat.MonetizerService,
			TotalClicks:      stat.TotalClicks,
			TotalDownloads:   stat.TotalDownloads,
			TotalRevenue:     stat.TotalRevenue,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
