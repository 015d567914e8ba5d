package admin

import (
	"context"
	"time"
)

// Admin 管理员模型，无余额、无持有关系
type Admin struct {
	ID        int64  `gorm:"primaryKey"`
	AdminID   string `gorm:"uniqueIndex;size:64;not null"`
	Username  string `gorm:"uniqueIndex;size:64;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt 哈希
	Role      string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository 管理员仓储接口
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	Create(ctx context.Context, a *Admin) error
	ListAll(ctx context.Context) ([]*Admin, error)
}
