package models

import (
	"time"
)

type LoginAttemptModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	IPAddress   string `gorm:"size:45;index:idx_login_attempts_ip"`
	Username    string `gorm:"size:128"`
	Success     bool   `gorm:"not null;default:false"`
	UserAgent   string `gorm:"size:255"`
	AttemptedAt time.Time `gorm:"index:idx_login_attempts_time"`
}

func (LoginAttemptModel) TableName() string {
	return "login_attempts"
}

type SecurityLogModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	EventType string `gorm:"size:32;not null;index:idx_security_logs_type"`
	IPAddress string `gorm:"size:45;index:idx_security_logs_ip"`
	UserAgent string `gorm:"size:255"`
	Details   string `gorm:"type:text"`
	Severity  string `gorm:"size:16;not null;default:medium"`
	CreatedAt time.Time `gorm:"index:idx_security_logs_created"`
}

func (SecurityLogModel) TableName() string {
	return "security_logs"
}

type BlockedIPModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	IPAddress   string `gorm:"size:45;uniqueIndex;not null"`
	Reason      string `gorm:"size:255"`
	AutoBan     bool   `gorm:"not null;default:true"`
	BlockedAt   time.Time
	LockedUntil time.Time `gorm:"index:idx_blocked_ips_locked_until"`
	CreatedAt   time.Time
}

func (BlockedIPModel) TableName() string {
	return "blocked_ips"
}

type SettingModel struct {
	SettingKey   string `gorm:"primaryKey;size:64"`
	SettingValue string `gorm:"size:255"`
}

func (SettingModel) TableName() string {
	return "settings"
}
