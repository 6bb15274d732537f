package sqlite

import (
	"fmt"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"telegram-subscription-admin/internal/domain"
)

// DSN builds a connection string with foreign key enforcement enabled;
// subscription rows cascade on user deletion.
func DSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_fk=1"
	}
	return fmt.Sprintf("file:%s?_fk=1", path)
}

// Open opens (and creates, if absent) the database file at path.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(gormsqlite.Open(DSN(path)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %v", domain.ErrStorage, path, err)
	}
	return db, nil
}

// InitSchema creates tables and indexes if absent. Safe to call repeatedly.
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}, &subscriptionRow{}, &broadcastRow{}); err != nil {
		return fmt.Errorf("%w: init schema: %v", domain.ErrStorage, err)
	}
	return nil
}
