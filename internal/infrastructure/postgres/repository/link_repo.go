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

type DefaultLinkRepository struct {
	DB *gorm.DB
}

func NewDefaultLinkRepository(db *gorm.DB) *DefaultLinkRepository {
	return &DefaultLinkRepository{DB: db}
}

func (r *DefaultLinkRepository) SaveLink(ctx context.Context, link *domain.MonetizedLink) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	model := mappers.ToGORMLink(link)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	link.ID = model.ID
	return nil
}

func (r *DefaultLinkRepository) GetLinkByCode(ctx context.Context, shortCode string) (*domain.MonetizedLink, error) {
	var model models.MonetizedLinkModel
	err := r.DB.WithContext(ctx).
		Where("short_code = ?", shortCode).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}

	// Deactivated links are kept distinct from unknown codes for the
	// audit trail, even though both end up as a 404 for the visitor.
	if model.Status != string(domain.LinkStatusActive) {
		return nil, domain.ErrLinkInactive
	}

	return mappers.ToDomainLink(&model), nil
}

func (r *DefaultLinkRepository) FindLinkByCode(ctx context.Context, shortCode string) (*domain.MonetizedLink, error) {
	var model models.MonetizedLinkModel
	err := r.DB.WithContext(ctx).
		Where("short_code = ?", shortCode).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}
	return mappers.ToDomainLink(&model), nil
}

func (r *DefaultLinkRepository) GetLinkByID(ctx context.Context, linkID int64) (*domain.MonetizedLink, error) {
	var model models.MonetizedLinkModel
	err := r.DB.WithContext(ctx).
		First(&model, "id = ?", linkID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}
	return mappers.ToDomainLink(&model), nil
}

func (r *DefaultLinkRepository) CodeExists(ctx context.Context, shortCode string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.MonetizedLinkModel{}).
		Where("short_code = ?", shortCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultLinkRepository) GetLinksByPost(ctx context.Context, postID int64) ([]*domain.MonetizedLink, error) {
	var dbLinks []models.MonetizedLinkModel
	err := r.DB.WithContext(ctx).
		Where("post_id = ? AND status = ?", postID, string(domain.LinkStatusActive)).
		Order("created_at DESC, id ASC").
		Find(&dbLinks).Error
	if err != nil {
		return nil, err
	}

	links := make([]*domain.MonetizedLink, 0, len(dbLinks))
	for i := range dbLinks {
		links = append(links, mappers.ToDomainLink(&dbLinks[i]))
	}
	return links, nil
}

func (r *DefaultLinkRepository) GetTopLinks(ctx context.Context, limit int) ([]*domain.MonetizedLink, error) {
	var dbLinks []models.MonetizedLinkModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", string(domain.LinkStatusActive)).
		Order("total_clicks DESC, estimated_revenue DESC, id ASC").
		Limit(limit).
		Find(&dbLinks).Error
	if err != nil {
		return nil, err
	}

	links := make([]*domain.MonetizedLink, 0, len(dbLinks))
	for i := range dbLinks {
		links = append(links, mappers.ToDomainLink(&dbLinks[i]))
	}
	return links, nil
}

func (r *DefaultLinkRepository) DeactivateLink(ctx context.Context, linkID int64) error {
	result := r.DB.WithContext(ctx).
		Model(&models.MonetizedLinkModel{}).
		Where("id = ?", linkID).
		Update("status", string(domain.LinkStatusInactive))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// AddClick bumps total_clicks and estimated_revenue in a single SQL
// statement. The increment is expressed as a delta so concurrent
// requests for the same link cannot lose updates.
func (r *DefaultLinkRepository) AddClick(ctx context.Context, linkID int64, revenue float64) error {
	return r.DB.WithContext(ctx).
		Model(&models.MonetizedLinkModel{}).
		Where("id = ?", linkID).
		Updates(map[string]interface{}{
			"total_clicks":      gorm.Expr("total_clicks + ?", 1),
			"estimated_revenue": gorm.Expr("estimated_revenue + ?", revenue),
		}).Error
}

func (r *DefaultLinkRepository) AddDownload(ctx context.Context, linkID int64) error {
	return r.DB.WithContext(ctx).
		Model(&models.MonetizedLinkModel{}).
		Where("id = ?", linkID).
		Update("total_downloads", gorm.Expr("total_downloads + ?", 1)).Error
}
