package domain

import (
	"context"
	"time"
)

type SecuritySeverity string

const (
	SeverityLow      SecuritySeverity = "low"
	SeverityMedium   SecuritySeverity = "medium"
	SeverityHigh     SecuritySeverity = "high"
	SeverityCritical SecuritySeverity = "critical"
)

// Security event types written to the audit log.
const (
	SecurityEventFailedLogin = "failed_login"
	SecurityEventAutoBan     = "auto_ban"
	SecurityEventAutoUnlock  = "auto_unlock"
)

// LoginAttempt records every authentication attempt, successful or not.
type LoginAttempt struct {
	ID          int64
	IPAddress   string
	Username    string
	Success     bool
	UserAgent   string
	AttemptedAt time.Time
}

// SecurityEvent is an append-only audit record.
type SecurityEvent struct {
	ID        string
	EventType string
	IPAddress string
	UserAgent string
	Details   string
	Severity  SecuritySeverity
	CreatedAt time.Time
}

// BlockedIP is a temporary hard ban. The row itself is the ban:
// deleting it once LockedUntil has passed is the unban mechanism.
type BlockedIP struct {
	ID          int64
	IPAddress   string
	Reason      string
	AutoBan     bool
	BlockedAt   time.Time
	LockedUntil time.Time
	CreatedAt   time.Time
}

// AutoBanSettings comes from the auto_ban_* keys of the settings store.
type AutoBanSettings struct {
	Enabled          bool
	MaxLoginAttempts int
	BanDuration      time.Duration
	TimeWindow       time.Duration
}

func DefaultAutoBanSettings() *AutoBanSettings {
	return &AutoBanSettings{
		Enabled:          false,
		MaxLoginAttempts: 5,
		BanDuration:      15 * time.Minute,
		TimeWindow:       15 * time.Minute,
	}
}

// AutoBanCheck reports whether an IP crossed the failed-login threshold.
type AutoBanCheck struct {
	ShouldBan   bool
	Attempts    int
	MaxAttempts int
}

type SecurityRepository interface {
	SaveLoginAttempt(ctx context.Context, attempt *LoginAttempt) error
	CountFailedLogins(ctx context.Context, ip string, since time.Time) (int64, error)
	SaveSecurityEvent(ctx context.Context, event *SecurityEvent) error
	CountFailedLoginEvents(ctx context.Context, ip string, since time.Time) (int64, error)
	SaveBlockedIP(ctx context.Context, ban *BlockedIP) error
	GetBlockedIP(ctx context.Context, ip string) (*BlockedIP, error)
	ListExpiredBans(ctx context.Context, now time.Time) ([]*BlockedIP, error)
	DeleteBlockedIP(ctx context.Context, banID int64) error
}

type SettingsRepository interface {
	GetAutoBanSettings(ctx context.Context) (*AutoBanSettings, error)
}
