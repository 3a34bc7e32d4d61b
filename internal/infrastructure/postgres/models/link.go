package models

import (
	"time"
)

type MonetizedLinkModel struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	PostID           *int64  `gorm:"index:idx_monetized_links_post"`
	OriginalURL      string  `gorm:"size:2083;not null"`
	ShortCode        string  `gorm:"size:16;uniqueIndex;not null"`
	MonetizerService string  `gorm:"size:64"`
	MonetizedURL     string  `gorm:"size:2083"`
	DownloadTitle    string  `gorm:"size:255"`
	FileSize         string  `gorm:"size:64"`
	FilePassword     string  `gorm:"size:128"`
	Version          string  `gorm:"size:64"`
	Status           string  `gorm:"size:16;not null;default:ACTIVE;index:idx_monetized_links_status"`
	TotalClicks      int64   `gorm:"not null;default:0"`
	TotalDownloads   int64   `gorm:"not null;default:0"`
	EstimatedRevenue float64 `gorm:"not null;default:0"`
	CreatedBy        string  `gorm:"size:64"`
	CreatedAt        time.Time
}

func (MonetizedLinkModel) TableName() string {
	return "monetized_links"
}

type MonetizerConfigModel struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	ServiceName string  `gorm:"size:64;uniqueIndex;not null"`
	APIKey      string  `gorm:"size:128"`
	CPMRate     float64 `gorm:"not null;default:0"`
	Priority    int     `gorm:"not null;default:0"`
	IsActive    bool    `gorm:"not null;default:true"`
	CreatedAt   time.Time
}

func (MonetizerConfigModel) TableName() string {
	return "monetizer_config"
}
