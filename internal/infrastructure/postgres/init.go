package postgres

import (
	"log"

	"github.com/donan22/shortlink-service/internal/config"
	"github.com/donan22/shortlink-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.ShortlinkConfig) *gorm.DB {
	dsn := cfg.LinkDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.MonetizedLinkModel{},
		&models.MonetizerConfigModel{},
		&models.MonetizationEventModel{},
		&models.RevenueDailyModel{},
		&models.LoginAttemptModel{},
		&models.SecurityLogModel{},
		&models.BlockedIPModel{},
		&models.SettingModel{},
	)

	return db
}
