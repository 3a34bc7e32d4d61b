package repository

import (
	"context"
	"errors"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/mappers"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSecurityRepository struct {
	DB *gorm.DB
}

func NewDefaultSecurityRepository(db *gorm.DB) *DefaultSecurityRepository {
	return &DefaultSecurityRepository{DB: db}
}

func (r *DefaultSecurityRepository) SaveLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now()
	}
	model := mappers.ToGORMLoginAttempt(attempt)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	attempt.ID = model.ID
	return nil
}

func (r *DefaultSecurityRepository) CountFailedLogins(ctx context.Context, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.LoginAttemptModel{}).
		Where("ip_address = ? AND success = ? AND attempted_at > ?", ip, false, since).
		Count(&count).Error
	return count, err
}

func (r *DefaultSecurityRepository) SaveSecurityEvent(ctx context.Context, event *domain.SecurityEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.DB.WithContext(ctx).Create(mappers.ToGORMSecurityLog(event)).Error
}

func (r *DefaultSecurityRepository) CountFailedLoginEvents(ctx context.Context, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.SecurityLogModel{}).
		Where("ip_address = ? AND event_type = ? AND created_at >= ?", ip, domain.SecurityEventFailedLogin, since).
		Count(&count).Error
	return count, err
}

func (r *DefaultSecurityRepository) SaveBlockedIP(ctx context.Context, ban *domain.BlockedIP) error {
	if ban.CreatedAt.IsZero() {
		ban.CreatedAt = time.Now()
	}
	model := mappers.ToGORMBlockedIP(ban)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	ban.ID = model.ID
	return nil
}

func (r *DefaultSecurityRepository) GetBlockedIP(ctx context.Context, ip string) (*domain.BlockedIP, error) {
	var model models.BlockedIPModel
	err := r.DB.WithContext(ctx).
		Where("ip_address = ?", ip).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBanNotFound
		}
		return nil, err
	}
	return mappers.ToDomainBlockedIP(&model), nil
}

func (r *DefaultSecurityRepository) ListExpiredBans(ctx context.Context, now time.Time) ([]*domain.BlockedIP, error) {
	var dbBans []models.BlockedIPModel
	err := r.DB.WithContext(ctx).
		Where("auto_ban = ? AND locked_until < ?", true, now).
		Find(&dbBans).Error
	if err != nil {
		return nil, err
	}

	bans := make([]*domain.BlockedIP, 0, len(dbBans))
	for i := range dbBans {
		bans = append(bans, mappers.ToDomainBlockedIP(&dbBans[i]))
	}
	return bans, nil
}

func (r *DefaultSecurityRepository) DeleteBlockedIP(ctx context.Context, banID int64) error {
	return r.DB.WithContext(ctx).
		Delete(&models.BlockedIPModel{}, "id = ?", banID).Error
}
