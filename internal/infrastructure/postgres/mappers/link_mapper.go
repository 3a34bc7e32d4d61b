package mappers

import (
	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
)

func ToGORMLink(link *domain.MonetizedLink) *models.MonetizedLinkModel {
	return &models.MonetizedLinkModel{
		ID:               link.ID,
		PostID:           link.PostID,
		OriginalURL:      link.OriginalURL,
		ShortCode:        link.ShortCode,
		MonetizerService: link.MonetizerService,
		MonetizedURL:     link.MonetizedURL,
		DownloadTitle:    link.DownloadTitle,
		FileSize:         link.FileSize,
		FilePassword:     link.FilePassword,
		Version:          link.Version,
		Status:           string(link.Status),
		TotalClicks:      link.TotalClicks,
		TotalDownloads:   link.TotalDownloads,
		EstimatedRevenue: link.EstimatedRevenue,
		CreatedBy:        link.CreatedBy,
		CreatedAt:        link.CreatedAt,
	}
}

func ToDomainLink(model *models.MonetizedLinkModel) *domain.MonetizedLink {
	return &domain.MonetizedLink{
		ID:               model.ID,
		PostID:           model.PostID,
		OriginalURL:      model.OriginalURL,
		ShortCode:        model.ShortCode,
		MonetizerService: model.MonetizerService,
		MonetizedURL:     model.MonetizedURL,
		DownloadTitle:    model.DownloadTitle,
		FileSize:         model.FileSize,
		FilePassword:     model.FilePassword,
		Version:          model.Version,
		Status:           domain.LinkStatus(model.Status),
		TotalClicks:      model.TotalClicks,
		TotalDownloads:   model.TotalDownloads,
		EstimatedRevenue: model.EstimatedRevenue,
		CreatedBy:        model.CreatedBy,
		CreatedAt:        model.CreatedAt,
	}
}

func ToDomainMonetizer(model *models.MonetizerConfigModel) *domain.MonetizerConfig {
	return &domain.MonetizerConfig{
		ID:          model.ID,
		ServiceName: model.ServiceName,
		APIKey:      model.APIKey,
		CPMRate:     model.CPMRate,
		Priority:    model.Priority,
		IsActive:    model.IsActive,
	}
}
