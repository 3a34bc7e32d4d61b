package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventClick    EventType = "click"
	EventDownload EventType = "download"
	EventShare    EventType = "share"
	EventView     EventType = "view"
)

func ParseEventType(s string) (EventType, error) {
	switch EventType(s) {
	case EventClick, EventDownload, EventShare, EventView:
		return EventType(s), nil
	default:
		return "", ErrInvalidEventType
	}
}

// MonetizationEvent is an append-only accounting record. Rows are
// never updated once written.
type MonetizationEvent struct {
	ID               string
	LinkID           int64
	EventType        EventType
	MonetizerService string
	UserIP           string
	UserAgent        string
	Referrer         string
	RevenueEarned    float64
	CreatedAt        time.Time
}

// ClientInfo is the request-side context attached to an event.
type ClientInfo struct {
	IP        string
	UserAgent string
	Referrer  string
}

type RevenuePeriod string

const (
	PeriodToday     RevenuePeriod = "today"
	PeriodYesterday RevenuePeriod = "yesterday"
	PeriodWeek      RevenuePeriod = "week"
	PeriodMonth     RevenuePeriod = "month"
	PeriodAll       RevenuePeriod = "all"
)

// RevenueStat is one provider's aggregate over a period, read from
// the revenue_daily rollup.
type RevenueStat struct {
	MonetizerService string
	TotalClicks      int64
	TotalDownloads   int64
	TotalRevenue     float64
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event *MonetizationEvent) error
	GetRevenueStats(ctx context.Context, period RevenuePeriod) ([]*RevenueStat, error)
	// RollupDailyRevenue rebuilds the revenue_daily rows for the given
	// day from the event log. Re-running it for the same day is a
	// deterministic overwrite, not a second accumulation.
	RollupDailyRevenue(ctx context.Context, day time.Time) error
}
