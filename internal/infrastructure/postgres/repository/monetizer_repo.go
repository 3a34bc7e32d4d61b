package repository

import (
	"context"
	"errors"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/mappers"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultMonetizerRepository struct {
	DB *gorm.DB
}

func NewDefaultMonetizerRepository(db *gorm.DB) *DefaultMonetizerRepository {
	return &DefaultMonetizerRepository{DB: db}
}

func (r *DefaultMonetizerRepository) GetActiveMonetizer(ctx context.Context) (*domain.MonetizerConfig, error) {
	var model models.MonetizerConfigModel
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority DESC, id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveMonetizer
		}
		return nil, err
	}
	return mappers.ToDomainMonetizer(&model), nil
}

func (r *DefaultMonetizerRepository) GetMonetizerByName(ctx context.Context, serviceName string) (*domain.MonetizerConfig, error) {
	var model models.MonetizerConfigModel
	err := r.DB.WithContext(ctx).
		Where("service_name = ?", serviceName).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveMonetizer
		}
		return nil, err
	}
	return mappers.ToDomainMonetizer(&model), nil
}
