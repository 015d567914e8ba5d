package user

import (
	"context"
	"time"
)

// User 用户模型，余额单位为分
type User struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex;size:64;not null"` // 对外不透明 ID，创建时生成，永不复用
	Username  string `gorm:"uniqueIndex;size:64;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt 哈希
	Role      string `gorm:"size:16;not null"`
	Money     int64  `gorm:"not null"` // 可用余额，恒 >= 0
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository 用户仓储接口
type Repository interface {
	GetByUID(ctx context.Context, uid string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	// Delete 硬删除用户行，持有关系与行为流水由调用方在同一事务内先行清理
	Delete(ctx context.Context, uid string) error
	ListAll(ctx context.Context) ([]*User, error)
}
