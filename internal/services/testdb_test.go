package services

import (
	"testing"

	"github.com/Tuukari/smotrelka34/internal/db"
	"github.com/Tuukari/smotrelka34/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// :memory: 每个连接是独立的库
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&models.User{}, &models.Like{}, &models.Save{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// insertBeforeCreate 在 table 的下一次 INSERT 之前先插入一行，模拟并发请求抢先写入
func insertBeforeCreate(t *testing.T, gdb *gorm.DB, table, sql string, args ...interface{}) {
	t.Helper()
	fired := false
	err := gdb.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Exec(sql, args...).Error; err != nil {
			t.Errorf("concurrent insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}
