package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSettingsRepository struct {
	DB *gorm.DB
}

func NewDefaultSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{DB: db}
}

// GetAutoBanSettings reads the auto_ban_* keys from the settings
// store. Missing keys keep their defaults; duration values are stored
// in minutes.
func (r *DefaultSettingsRepository) GetAutoBanSettings(ctx context.Context) (*domain.AutoBanSettings, error) {
	settings := domain.DefaultAutoBanSettings()

	var rows []models.SettingModel
	err := r.DB.WithContext(ctx).
		Where("setting_key LIKE ?", "auto_ban_%").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		switch row.SettingKey {
		case "auto_ban_enabled":
			settings.Enabled = row.SettingValue == "1" || row.SettingValue == "true"
		case "auto_ban_max_login_attempts":
			if v, err := strconv.Atoi(row.SettingValue); err == nil && v > 0 {
				settings.MaxLoginAttempts = v
			}
		case "auto_ban_duration":
			if v, err := strconv.Atoi(row.SettingValue); err == nil && v > 0 {
				settings.BanDuration = time.Duration(v) * time.Minute
			}
		case "auto_ban_time_window":
			if v, err := strconv.Atoi(row.SettingValue); err == nil && v > 0 {
				settings.TimeWindow = time.Duration(v) * time.Minute
			}
		}
	}

	return settings, nil
}
