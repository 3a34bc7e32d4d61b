package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/donan22/shortlink-service/internal/delivery/http/middleware"
	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/metrics"
	"github.com/donan22/shortlink-service/internal/usecase"
	"github.com/gorilla/mux"
)

const trackTimeout = 5 * time.Second

type RedirectHandler struct {
	linkUsecase     usecase.LinkUsecase
	trackingUsecase usecase.TrackingUsecase
	metrics         *metrics.LinkMetrics
	logger          *slog.Logger
}

func NewRedirectHandler(
	linkUsecase usecase.LinkUsecase,
	trackingUsecase usecase.TrackingUsecase,
	linkMetrics *metrics.LinkMetrics,
	logger *slog.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		linkUsecase:     linkUsecase,
		trackingUsecase: trackingUsecase,
		metrics:         linkMetrics,
		logger:          logger,
	}
}

// Redirect serves GET /go/{code}: resolve, account the click in the
// background, and send the visitor to the monetized URL when one
// exists, the original URL otherwise.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	started := time.Now()
	link, err := h.linkUsecase.Resolve(r.Context(), code)
	if h.metrics != nil {
		h.metrics.RedirectDuration.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLinkInactive):
			// Distinct from unknown codes in the logs, identical 404
			// for the visitor.
			h.logger.Info("redirect for deactivated link", "short_code", code)
			h.notFound(w)
		case errors.Is(err, domain.ErrLinkNotFound), errors.Is(err, domain.ErrInvalidShortCode):
			h.notFound(w)
		default:
			h.logger.Error("redirect resolution failed", "short_code", code, "error", err.Error())
			if h.metrics != nil {
				h.metrics.LinkErrorsTotal.WithLabelValues("resolve").Inc()
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	clientInfo := &domain.ClientInfo{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}

	// Fire-and-forget accounting: the visitor never waits on it and
	// never sees its failures.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		if _, err := h.trackingUsecase.Track(ctx, link.ID, domain.EventClick, clientInfo); err != nil {
			h.logger.Error("click tracking failed", "link_id", link.ID, "error", err.Error())
		}
	}()

	if h.metrics != nil {
		h.metrics.RedirectsTotal.WithLabelValues(link.MonetizerService).Inc()
	}

	target := link.OriginalURL
	if link.MonetizedURL != "" {
		target = link.MonetizedURL
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *RedirectHandler) notFound(w http.ResponseWriter) {
	if h.metrics != nil {
		h.metrics.RedirectsNotFoundTotal.Inc()
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}
