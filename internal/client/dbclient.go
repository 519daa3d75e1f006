package client

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"charity-donation-backend/internal/model"
)

// InitDBClient opens the datastore. A DSN containing "@tcp(" selects the
// mysql driver; anything else is treated as a sqlite file path.
func InitDBClient(databaseURL string) *gorm.DB {
	var dialector gorm.Dialector
	if strings.Contains(databaseURL, "@tcp(") {
		dialector = mysql.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("get database handle", "err", err)
		os.Exit(1)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.DonationRecord{},
		&model.Case{},
		&model.WebhookEvent{},
	); err != nil {
		slog.Error("migrate schema", "err", err)
		os.Exit(1)
	}

	return db
}
