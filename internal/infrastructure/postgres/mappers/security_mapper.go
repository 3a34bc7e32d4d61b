package mappers

import (
	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
)

func ToGORMLoginAttempt(attempt *domain.LoginAttempt) *models.LoginAttemptModel {
	return &models.LoginAttemptModel{
		ID:          attempt.ID,
		IPAddress:   attempt.IPAddress,
		Username:    attempt.Username,
		Success:     attempt.Success,
		UserAgent:   attempt.UserAgent,
		AttemptedAt: attempt.AttemptedAt,
	}
}

func ToGORMSecurityLog(event *domain.SecurityEvent) *models.SecurityLogModel {
	return &models.SecurityLogModel{
		ID:        event.ID,
		EventType: event.EventType,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Details:   event.Details,
		Severity:  string(event.Severity),
		CreatedAt: event.CreatedAt,
	}
}

func ToGORMBlockedIP(ban *domain.BlockedIP) *models.BlockedIPModel {
	return &models.BlockedIPModel{
		ID:          ban.ID,
		IPAddress:   ban.IPAddress,
		Reason:      ban.Reason,
		AutoBan:     ban.AutoBan,
		BlockedAt:   ban.BlockedAt,
		LockedUntil: ban.LockedUntil,
		CreatedAt:   ban.CreatedAt,
	}
}

func ToDomainBlockedIP(model *models.BlockedIPModel) *domain.BlockedIP {
	return &domain.BlockedIP{
		ID:          model.ID,
		IPAddress:   model.IPAddress,
		Reason:      model.Reason,
		AutoBan:     model.AutoBan,
		BlockedAt:   model.BlockedAt,
		LockedUntil: model.LockedUntil,
		CreatedAt:   model.CreatedAt,
	}
}
