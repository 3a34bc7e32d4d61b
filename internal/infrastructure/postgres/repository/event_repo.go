package repository

import (
	"context"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultEventRepository struct {
	DB *gorm.DB
}

func NewDefaultEventRepository(db *gorm.DB) *DefaultEventRepository {
	return &DefaultEventRepository{DB: db}
}

func (r *DefaultEventRepository) SaveEvent(ctx context.Context, event *domain.MonetizationEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	model := models.MonetizationEventModel{
		ID:               event.ID,
		LinkID:           event.LinkID,
		EventType:        string(event.EventType),
		MonetizerService: event.MonetizerService,
		UserIP:           event.UserIP,
		UserAgent:        event.UserAgent,
		Referrer:         event.Referrer,
		RevenueEarned:    event.RevenueEarned,
		CreatedAt:        event.CreatedAt,
	}
	return r.DB.WithContext(ctx).Create(&model).Error
}

type revenueRow struct {
	MonetizerService string
	TotalClicks      int64
	TotalDownloads   int64
	TotalRevenue     float64
}

func (r *DefaultEventRepository) GetRevenueStats(ctx context.Context, period domain.RevenuePeriod) ([]*domain.RevenueStat, error) {
	today := startOfDay(time.Now())

	query := r.DB.WithContext(ctx).
		Model(&models.RevenueDailyModel{}).
		Select("monetizer_service, SUM(total_clicks) AS total_clicks, SUM(total_downloads) AS total_downloads, SUM(total_revenue) AS total_revenue").
		Group("monetizer_service")

	switch period {
	case domain.PeriodToday:
		query = query.Where("date = ?", today)
	case domain.PeriodYesterday:
		query = query.Where("date = ?", today.AddDate(0, 0, -1))
	case domain.PeriodWeek:
		query = query.Where("date >= ?", today.AddDate(0, 0, -7))
	case domain.PeriodMonth:
		query = query.Where("date >= ?", today.AddDate(0, 0, -30))
	}

	var rows []revenueRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make([]*domain.RevenueStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, &domain.RevenueStat{
			MonetizerService: row.MonetizerService,
			TotalClicks:      row.TotalClicks,
			TotalDownloads:   row.TotalDownloads,
			TotalRevenue:     row.TotalRevenue,
		})
	}
	return stats, nil
}

// RollupDailyRevenue rebuilds revenue_daily for one day from the raw
// event log, so re-running the rollup is idempotent.
func (r *DefaultEventRepository) RollupDailyRevenue(ctx context.Context, day time.Time) error {
	from := startOfDay(day)
	to := from.AddDate(0, 0, 1)

	var rows []revenueRow
	err := r.DB.WithContext(ctx).
		Model(&models.MonetizationEventModel{}).
		Select("monetizer_service, "+
			"SUM(CASE WHEN event_type = 'click' THEN 1 ELSE 0 END) AS total_clicks, "+
			"SUM(CASE WHEN event_type = 'download' THEN 1 ELSE 0 END) AS total_downloads, "+
			"COALESCE(SUM(revenue_earned), 0) AS total_revenue").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("monetizer_service").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		rollup := models.RevenueDailyModel{
			Date:             from,
			MonetizerService: row.MonetizerService,
			TotalClicks:      row.TotalClicks,
			TotalDownloads:   row.TotalDownloads,
			TotalRevenue:     row.TotalRevenue,
			UpdatedAt:        time.Now(),
		}
		err := r.DB.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}, {Name: "monetizer_service"}},
				DoUpdates: clause.AssignmentColumns([]string{"total_clicks", "total_downloads", "total_revenue", "updated_at"}),
			}).
			Create(&rollup).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
