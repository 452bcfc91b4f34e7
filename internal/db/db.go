package db

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Tuukari/smotrelka34/internal/config"
	"github.com/Tuukari/smotrelka34/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormConfig 打开错误翻译，唯一约束冲突返回 gorm.ErrDuplicatedKey
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Open 根据 DATABASE_URL 前缀选择驱动：postgres 用于生产，sqlite 用于本地
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialer gorm.Dialector
	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres"):
		dialer = postgres.Open(cfg.DatabaseURL)
	case strings.HasPrefix(cfg.DatabaseURL, "sqlite://"):
		dialer = sqlite.Open(strings.TrimPrefix(cfg.DatabaseURL, "sqlite://"))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialer, GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("Database connection established")
	return db, nil
}

// Migrate 自动建表
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Save{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("Database migration completed")
	return nil
}
