package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

func newSecurityUsecase(t *testing.T, db *gorm.DB) *DefaultSecurityUsecase {
	t.Helper()
	return NewDefaultSecurityUsecase(
		repository.NewDefaultSecurityRepository(db),
		repository.NewDefaultSettingsRepository(db),
		testLogger(),
	)
}

func putSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	err := db.Create(&models.SettingModel{SettingKey: key, SettingValue: value}).Error
	if err != nil {
		t.Fatalf("failed to seed setting %s: %v", key, err)
	}
}

func enableAutoBan(t *testing.T, db *gorm.DB) {
	t.Helper()
	putSetting(t, db, "auto_ban_enabled", "1")
	putSetting(t, db, "auto_ban_max_login_attempts", "5")
	putSetting(t, db, "auto_ban_duration", "15")
	putSetting(t, db, "auto_ban_time_window", "15")
}

func failLogin(t *testing.T, uc *DefaultSecurityUsecase, ip string) {
	t.Helper()
	if err := uc.LogLoginAttempt(context.Background(), ip, "admin", false, "test-agent"); err != nil {
		t.Fatalf("LogLoginAttempt: %v", err)
	}
}

func TestGetSettingsFromStore(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)

	putSetting(t, db, "auto_ban_enabled", "1")
	putSetting(t, db, "auto_ban_max_login_attempts", "3")
	putSetting(t, db, "auto_ban_duration", "30")

	settings := uc.GetSettings(context.Background())
	if !settings.Enabled {
		t.Fatal("auto-ban not enabled")
	}
	if settings.MaxLoginAttempts != 3 {
		t.Fatalf("got max attempts %d, want 3", settings.MaxLoginAttempts)
	}
	if settings.BanDuration != 30*time.Minute {
		t.Fatalf("got ban duration %s, want 30m", settings.BanDuration)
	}
	// auto_ban_time_window missing, default stays.
	if settings.TimeWindow != 15*time.Minute {
		t.Fatalf("got time window %s, want default 15m", settings.TimeWindow)
	}
}

func TestGetSettingsDefaultsWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)

	settings := uc.GetSettings(context.Background())
	if settings.Enabled {
		t.Fatal("auto-ban must default to disabled")
	}
	if settings.MaxLoginAttempts != 5 {
		t.Fatalf("got max attempts %d, want 5", settings.MaxLoginAttempts)
	}
}

func TestCheckAutoBanThreshold(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)
	enableAutoBan(t, db)
	ip := "203.0.113.9"

	for i := 0; i < 4; i++ {
		failLogin(t, uc, ip)
		check, err := uc.CheckAutoBan(context.Background(), ip)
		if err != nil {
			t.Fatalf("CheckAutoBan: %v", err)
		}
		if check.ShouldBan {
			t.Fatalf("ShouldBan after %d failures, threshold is 5", i+1)
		}
	}

	failLogin(t, uc, ip)
	check, err := uc.CheckAutoBan(context.Background(), ip)
	if err != nil {
		t.Fatalf("CheckAutoBan: %v", err)
	}
	if !check.ShouldBan {
		t.Fatalf("ShouldBan false after %d failures, want true", check.Attempts)
	}
	if check.Attempts != 5 || check.MaxAttempts != 5 {
		t.Fatalf("got attempts %d/%d, want 5/5", check.Attempts, check.MaxAttempts)
	}
}

func TestCheckAutoBanIgnoresOtherIPs(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)
	enableAutoBan(t, db)

	for i := 0; i < 10; i++ {
		failLogin(t, uc, "203.0.113.9")
	}

	check, err := uc.CheckAutoBan(context.Background(), "198.51.100.1")
	if err != nil {
		t.Fatalf("CheckAutoBan: %v", err)
	}
	if check.ShouldBan || check.Attempts != 0 {
		t.Fatalf("clean IP flagged: %+v", check)
	}
}

func TestCheckLoginAttemptsThrottle(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)
	enableAutoBan(t, db)
	ip := "203.0.113.9"

	allowed, err := uc.CheckLoginAttempts(context.Background(), ip)
	if err != nil || !allowed {
		t.Fatalf("fresh IP throttled: allowed=%v err=%v", allowed, err)
	}

	for i := 0; i < 5; i++ {
		failLogin(t, uc, ip)
	}

	allowed, err = uc.CheckLoginAttempts(context.Background(), ip)
	if allowed {
		t.Fatal("IP at threshold still allowed")
	}
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("got %v, want ErrTooManyAttempts", err)
	}
}

func TestAutoBanFirstWriterWins(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)
	enableAutoBan(t, db)
	ip := "203.0.113.9"

	if err := uc.AutoBanIP(context.Background(), ip, "too many failed logins"); err != nil {
		t.Fatalf("AutoBanIP: %v", err)
	}

	var first models.BlockedIPModel
	if err := db.Where("ip_address = ?", ip).First(&first).Error; err != nil {
		t.Fatalf("ban row missing: %v", err)
	}

	err := uc.AutoBanIP(context.Background(), ip, "second trigger")
	if !errors.Is(err, domain.ErrAlreadyBanned) {
		t.Fatalf("got %v, want ErrAlreadyBanned", err)
	}

	var second models.BlockedIPModel
	if err := db.Where("ip_address = ?", ip).First(&second).Error; err != nil {
		t.Fatalf("ban row missing: %v", err)
	}
	if !second.LockedUntil.Equal(first.LockedUntil) {
		t.Fatal("repeated trigger extended the ban")
	}

	if !uc.IsIPBanned(context.Background(), ip) {
		t.Fatal("banned IP reported as not banned")
	}
	if uc.IsIPBanned(context.Background(), "198.51.100.1") {
		t.Fatal("clean IP reported as banned")
	}
}

func TestAutoBanWritesSecurityLog(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)
	enableAutoBan(t, db)

	if err := uc.AutoBanIP(context.Background(), "203.0.113.9", ""); err != nil {
		t.Fatalf("AutoBanIP: %v", err)
	}

	var logs []models.SecurityLogModel
	if err := db.Where("event_type = ?", string(domain.SecurityEventAutoBan)).Find(&logs).Error; err != nil {
		t.Fatalf("reading security logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d auto_ban log entries, want 1", len(logs))
	}
	if logs[0].Severity != string(domain.SeverityHigh) {
		t.Fatalf("got severity %q, want high", logs[0].Severity)
	}
}

func TestExpiredBanAutoUnlocks(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)
	enableAutoBan(t, db)
	ip := "203.0.113.9"

	if err := uc.AutoBanIP(context.Background(), ip, ""); err != nil {
		t.Fatalf("AutoBanIP: %v", err)
	}

	// Age the ban past its expiry instead of waiting.
	err := db.Model(&models.BlockedIPModel{}).
		Where("ip_address = ?", ip).
		Update("locked_until", time.Now().Add(-time.Minute)).Error
	if err != nil {
		t.Fatalf("aging ban row: %v", err)
	}

	if uc.IsIPBanned(context.Background(), ip) {
		t.Fatal("expired ban still in effect")
	}

	var count int64
	if err := db.Model(&models.BlockedIPModel{}).Where("ip_address = ?", ip).Count(&count).Error; err != nil {
		t.Fatalf("counting ban rows: %v", err)
	}
	if count != 0 {
		t.Fatal("expired ban row not deleted")
	}

	var logs []models.SecurityLogModel
	if err := db.Where("event_type = ?", string(domain.SecurityEventAutoUnlock)).Find(&logs).Error; err != nil {
		t.Fatalf("reading security logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d auto_unlock log entries, want 1", len(logs))
	}
	if logs[0].IPAddress != ip {
		t.Fatalf("auto_unlock logged for %q, want %q", logs[0].IPAddress, ip)
	}
}

func TestFailedLoginWritesAuditTrail(t *testing.T) {
	db := newTestDB(t)
	uc := newSecurityUsecase(t, db)
	ip := "203.0.113.9"

	failLogin(t, uc, ip)
	if err := uc.LogLoginAttempt(context.Background(), ip, "admin", true, "test-agent"); err != nil {
		t.Fatalf("LogLoginAttempt: %v", err)
	}

	var attempts int64
	if err := db.Model(&models.LoginAttemptModel{}).Count(&attempts).Error; err != nil {
		t.Fatalf("counting attempts: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("got %d attempt rows, want 2", attempts)
	}

	var logs []models.SecurityLogModel
	if err := db.Where("event_type = ?", string(domain.SecurityEventFailedLogin)).Find(&logs).Error; err != nil {
		t.Fatalf("reading security logs: %v", err)
	}
	// Only the failed attempt lands in the audit log.
	if len(logs) != 1 {
		t.Fatalf("got %d failed_login log entries, want 1", len(logs))
	}
}
