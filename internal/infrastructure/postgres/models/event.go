package models

import (
	"time"
)

type MonetizationEventModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	LinkID           int64  `gorm:"not null;index:idx_monetization_stats_link"`
	EventType        string `gorm:"size:16;not null"`
	MonetizerService string `gorm:"size:64"`
	UserIP           string `gorm:"size:45"`
	UserAgent        string `gorm:"size:255"`
	Referrer         string `gorm:"size:2083"`
	RevenueEarned    float64
	CreatedAt        time.Time `gorm:"index:idx_monetization_stats_created"`
}

func (MonetizationEventModel) TableName() string {
	return "monetization_stats"
}

// RevenueDailyModel is the pre-aggregated rollup the revenue reports
// read from. Rebuilt per day from monetization_stats.
type RevenueDailyModel struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Date             time.Time `gorm:"not null;uniqueIndex:idx_revenue_daily_date_service"`
	MonetizerService string    `gorm:"size:64;not null;uniqueIndex:idx_revenue_daily_date_service"`
	TotalClicks      int64     `gorm:"not null;default:0"`
	TotalDownloads   int64     `gorm:"not null;default:0"`
	TotalRevenue     float64   `gorm:"not null;default:0"`
	UpdatedAt        time.Time
}

func (RevenueDailyModel) TableName() string {
	return "revenue_daily"
}
