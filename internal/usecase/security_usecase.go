package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/google/uuid"
)

type SecurityUsecase interface {
	LogLoginAttempt(ctx context.Context, ip, username string, success bool, userAgent string) error
	CheckLoginAttempts(ctx context.Context, ip string) (bool, error)
	CheckAutoBan(ctx context.Context, ip string) (*domain.AutoBanCheck, error)
	AutoBanIP(ctx context.Context, ip, reason string) error
	IsIPBanned(ctx context.Context, ip string) bool
	GetSettings(ctx context.Context) *domain.AutoBanSettings
}

// DefaultSecurityUsecase is the auto-ban engine. Every database
// failure inside it is deliberately fail-open: a broken security
// check must degrade to "attempt allowed", never lock everyone out.
type DefaultSecurityUsecase struct {
	securityRepo domain.SecurityRepository
	settingsRepo domain.SettingsRepository
	logger       *slog.Logger
}

func NewDefaultSecurityUsecase(
	securityRepo domain.SecurityRepository,
	settingsRepo domain.SettingsRepository,
	logger *slog.Logger,
) *DefaultSecurityUsecase {
	return &DefaultSecurityUsecase{
		securityRepo: securityRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetSettings loads the auto_ban_* settings, falling back to defaults
// when the store is unreadable.
func (uc *DefaultSecurityUsecase) GetSettings(ctx context.Context) *domain.AutoBanSettings {
	settings, err := uc.settingsRepo.GetAutoBanSettings(ctx)
	if err != nil {
		uc.logger.Error("failed to read auto-ban settings, using defaults", "error", err.Error())
		return domain.DefaultAutoBanSettings()
	}
	return settings
}

// LogLoginAttempt appends the attempt; failures additionally go to
// the security audit log.
func (uc *DefaultSecurityUsecase) LogLoginAttempt(ctx context.Context, ip, username string, success bool, userAgent string) error {
	attempt := &domain.LoginAttempt{
		IPAddress: ip,
		Username:  username,
		Success:   success,
		UserAgent: userAgent,
	}
	if err := uc.securityRepo.SaveLoginAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("failed to log login attempt: %w", err)
	}

	if !success {
		uc.logSecurityEvent(ctx, &domain.SecurityEvent{
			EventType: domain.SecurityEventFailedLogin,
			IPAddress: ip,
			UserAgent: userAgent,
			Details:   "Failed login for username: " + username,
			Severity:  domain.SeverityMedium,
		})
	}
	return nil
}

// CheckLoginAttempts is the soft throttle: it rejects an attempt once
// recent failures reach the configured maximum, independently of the
// hard ban list. Returns true when the attempt may proceed.
func (uc *DefaultSecurityUsecase) CheckLoginAttempts(ctx context.Context, ip string) (bool, error) {
	settings := uc.GetSettings(ctx)

	since := time.Now().Add(-settings.TimeWindow)
	failed, err := uc.securityRepo.CountFailedLogins(ctx, ip, since)
	if err != nil {
		uc.logger.Error("failed to count login attempts, allowing attempt", "ip", ip, "error", err.Error())
		return true, nil
	}

	if failed >= int64(settings.MaxLoginAttempts) {
		uc.logSecurityEvent(ctx, &domain.SecurityEvent{
			EventType: domain.SecurityEventFailedLogin,
			IPAddress: ip,
			Details:   fmt.Sprintf("IP blocked due to too many failed attempts: %s", ip),
			Severity:  domain.SeverityHigh,
		})
		return false, domain.ErrTooManyAttempts
	}

	return true, nil
}

// CheckAutoBan counts failed-login audit entries for the IP inside
// the trailing window and reports whether the threshold is crossed.
func (uc *DefaultSecurityUsecase) CheckAutoBan(ctx context.Context, ip string) (*domain.AutoBanCheck, error) {
	settings := uc.GetSettings(ctx)

	since := time.Now().Add(-settings.TimeWindow)
	attempts, err := uc.securityRepo.CountFailedLoginEvents(ctx, ip, since)
	if err != nil {
		uc.logger.Error("auto-ban check failed, defaulting to not banned", "ip", ip, "error", err.Error())
		return &domain.AutoBanCheck{ShouldBan: false, Attempts: 0, MaxAttempts: settings.MaxLoginAttempts}, nil
	}

	return &domain.AutoBanCheck{
		ShouldBan:   attempts >= int64(settings.MaxLoginAttempts),
		Attempts:    int(attempts),
		MaxAttempts: settings.MaxLoginAttempts,
	}, nil
}

// AutoBanIP inserts the ban row. First writer wins: an existing row
// is left untouched and the call reports ErrAlreadyBanned, so
// repeated triggers never extend a ban.
func (uc *DefaultSecurityUsecase) AutoBanIP(ctx context.Context, ip, reason string) error {
	settings := uc.GetSettings(ctx)

	if _, err := uc.securityRepo.GetBlockedIP(ctx, ip); err == nil {
		return domain.ErrAlreadyBanned
	} else if err != domain.ErrBanNotFound {
		uc.logger.Error("ban lookup failed, skipping auto-ban", "ip", ip, "error", err.Error())
		return err
	}

	if reason == "" {
		reason = "Auto-banned: Too many failed login attempts"
	}

	now := time.Now()
	ban := &domain.BlockedIP{
		IPAddress:   ip,
		Reason:      reason,
		AutoBan:     true,
		BlockedAt:   now,
		LockedUntil: now.Add(settings.BanDuration),
	}
	if err := uc.securityRepo.SaveBlockedIP(ctx, ban); err != nil {
		return fmt.Errorf("failed to ban ip: %w", err)
	}

	uc.logSecurityEvent(ctx, &domain.SecurityEvent{
		EventType: domain.SecurityEventAutoBan,
		IPAddress: ip,
		Details:   fmt.Sprintf("Auto-banned for %s: %s", settings.BanDuration, reason),
		Severity:  domain.SeverityHigh,
	})

	uc.logger.Warn("ip auto-banned", "ip", ip, "locked_until", ban.LockedUntil)
	return nil
}

// IsIPBanned reaps expired bans first, then checks for a remaining
// row. Expiry is lazy on read; no background sweeper is needed.
func (uc *DefaultSecurityUsecase) IsIPBanned(ctx context.Context, ip string) bool {
	uc.autoUnlockExpiredBans(ctx)

	_, err := uc.securityRepo.GetBlockedIP(ctx, ip)
	if err == nil {
		return true
	}
	if err != domain.ErrBanNotFound {
		uc.logger.Error("ban check failed, defaulting to not banned", "ip", ip, "error", err.Error())
	}
	return false
}

func (uc *DefaultSecurityUsecase) autoUnlockExpiredBans(ctx context.Context) {
	expired, err := uc.securityRepo.ListExpiredBans(ctx, time.Now())
	if err != nil {
		uc.logger.Error("failed to list expired bans", "error", err.Error())
		return
	}

	for _, ban := range expired {
		if err := uc.securityRepo.DeleteBlockedIP(ctx, ban.ID); err != nil {
			uc.logger.Error("failed to unlock expired ban", "ip", ban.IPAddress, "error", err.Error())
			continue
		}
		uc.logSecurityEvent(ctx, &domain.SecurityEvent{
			EventType: domain.SecurityEventAutoUnlock,
			IPAddress: ban.IPAddress,
			Details:   "Auto-unlocked after ban expiration",
			Severity:  domain.SeverityLow,
		})
	}
}

func (uc *DefaultSecurityUsecase) logSecurityEvent(ctx context.Context, event *domain.SecurityEvent) {
	event.ID = uuid.New().String()
	if err := uc.securityRepo.SaveSecurityEvent(ctx, event); err != nil {
		uc.logger.Error("failed to write security log",
			"event_type", event.EventType, "error", err.Error())
	}
}
