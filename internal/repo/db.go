package repo

import (
	"errors"
	"fmt"
	"strings"

	"Inventory/internal/model"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// ErrDuplicate возвращается при нарушении уникальности первичного ключа.
var ErrDuplicate = errors.New("duplicate key")

// InitDB открывает хранилище по DSN и применяет миграции.
// DSN вида postgres://... или "host=... user=..." уходит в PostgreSQL,
// всё остальное считается путём к файлу SQLite (modernc.org/sqlite, без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty database dsn")
	}

	var (
		db  *gorm.DB
		err error
	)
	cfg := &gorm.Config{TranslateError: true}
	if isPostgresDSN(dsn) {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	} else {
		dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: sqliteDSN(dsn)}
		db, err = gorm.Open(dial, cfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite допускает одного писателя: одно соединение сериализует все запросы,
		// а условные UPDATE выдачи/возврата выполняются строго по очереди.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Device{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// CloseDB закрывает пул соединений gorm.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// sqliteDSN приводит путь к URI-форме modernc и включает внешние ключи и busy timeout.
func sqliteDSN(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// isDuplicateErr распознаёт нарушение уникальности. gorm переводит ошибки pgx,
// а modernc отдаёт только текст, поэтому проверяем и сообщение.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "constraint failed: primary key")
}
