package mysql

import (
	"log"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/datamodels/action"
	"github.com/uskudu/books-cont/internal/datamodels/admin"
	"github.com/uskudu/books-cont/internal/datamodels/book"
	"github.com/uskudu/books-cont/internal/datamodels/ownership"
	"github.com/uskudu/books-cont/internal/datamodels/user"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}

		if err = Migrate(db); err != nil {
			log.Fatalf("auto migrate failed: %v", err)
		}
	})
	return db
}

// Migrate 迁移全部表结构，测试里也用它建 sqlite 内存库
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&admin.Admin{},
		&book.Book{},
		&ownership.Edge{},
		&action.Record{},
	)
}

// DB 获取全局 DB
func DB() *gorm.DB {
	return db
}
