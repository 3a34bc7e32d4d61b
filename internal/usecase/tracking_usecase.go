package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	publisher "github.com/donan22/shortlink-service/internal/infrastructure/kafka"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/google/uuid"
)

type TrackingUsecase interface {
	Track(ctx context.Context, linkID int64, eventType domain.EventType, client *domain.ClientInfo) (*domain.MonetizationEvent, error)
	GetRevenueStats(ctx context.Context, period domain.RevenuePeriod) ([]*domain.RevenueStat, error)
	RollupDailyRevenue(ctx context.Context, day time.Time) error
}

// EventPublisher is the outbound port to the monetization stream.
type EventPublisher interface {
	PublishMonetizationEvent(topic string, event publisher.MonetizationEventMessage) error
}

type DefaultTrackingUsecase struct {
	eventRepo     domain.EventRepository
	linkRepo      domain.LinkRepository
	monetizerRepo domain.MonetizerRepository
	publisher     EventPublisher
	topic         string
	logger        *slog.Logger
}

func NewDefaultTrackingUsecase(
	eventRepo domain.EventRepository,
	linkRepo domain.LinkRepository,
	monetizerRepo domain.MonetizerRepository,
	pub EventPublisher,
	topic string,
	logger *slog.Logger,
) *DefaultTrackingUsecase {
	return &DefaultTrackingUsecase{
		eventRepo:     eventRepo,
		linkRepo:      linkRepo,
		monetizerRepo: monetizerRepo,
		publisher:     pub,
		topic:         topic,
		logger:        logger,
	}
}

// Track appends one immutable event row and bumps the link's
// aggregate counters. Only clicks earn CPM revenue; per-download and
// per-share rates are not part of the accounting model, so every
// other event type records zero.
func (uc *DefaultTrackingUsecase) Track(ctx context.Context, linkID int64, eventType domain.EventType, client *domain.ClientInfo) (*domain.MonetizationEvent, error) {
	if client == nil {
		client = &domain.ClientInfo{}
	}

	link, err := uc.linkRepo.GetLinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	revenue := 0.0
	if eventType == domain.EventClick && link.MonetizerService != "" {
		monetizer, err := uc.monetizerRepo.GetMonetizerByName(ctx, link.MonetizerService)
		if err == nil {
			// CPM to per-click: $7 CPM earns $0.007 per click.
			revenue = monetizer.CPMRate / 1000
		} else if err != domain.ErrNoActiveMonetizer {
			uc.logger.Warn("failed to load monetizer config for revenue",
				"monetizer_service", link.MonetizerService, "error", err.Error())
		}
	}

	event := &domain.MonetizationEvent{
		ID:               uuid.New().String(),
		LinkID:           linkID,
		EventType:        eventType,
		MonetizerService: link.MonetizerService,
		UserIP:           client.IP,
		UserAgent:        client.UserAgent,
		Referrer:         client.Referrer,
		RevenueEarned:    revenue,
	}
	if err := uc.eventRepo.SaveEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}

	switch eventType {
	case domain.EventClick:
		if err := uc.linkRepo.AddClick(ctx, linkID, revenue); err != nil {
			return nil, fmt.Errorf("failed to update click counters: %w", err)
		}
	case domain.EventDownload:
		if err := uc.linkRepo.AddDownload(ctx, linkID); err != nil {
			return nil, fmt.Errorf("failed to update download counter: %w", err)
		}
	}

	uc.publish(event, link.ShortCode)

	return event, nil
}

func (uc *DefaultTrackingUsecase) GetRevenueStats(ctx context.Context, period domain.RevenuePeriod) ([]*domain.RevenueStat, error) {
	switch period {
	case domain.PeriodToday, domain.PeriodYesterday, domain.PeriodWeek, domain.PeriodMonth, domain.PeriodAll:
	default:
		period = domain.PeriodAll
	}
	return uc.eventRepo.GetRevenueStats(ctx, period)
}

func (uc *DefaultTrackingUsecase) RollupDailyRevenue(ctx context.Context, day time.Time) error {
	return uc.eventRepo.RollupDailyRevenue(ctx, day)
}

// publish forwards the event to the monetization stream. Stream
// failures must never fail the originating request.
func (uc *DefaultTrackingUsecase) publish(event *domain.MonetizationEvent, shortCode string) {
	if uc.publisher == nil {
		return
	}

	msg := publisher.MonetizationEventMessage{
		EventID:          event.ID,
		LinkID:           event.LinkID,
		ShortCode:        shortCode,
		EventType:        string(event.EventType),
		MonetizerService: event.MonetizerService,
		UserIP:           event.UserIP,
		RevenueEarned:    event.RevenueEarned,
		OccurredAt:       event.CreatedAt.Unix(),
	}
	if err := uc.publisher.PublishMonetizationEvent(uc.topic, msg); err != nil {
		uc.logger.Warn("failed to publish monetization event",
			"event_id", event.ID, "error", err.Error())
	}
}
