package action

import (
	"context"
	"time"
)

// 行为类型枚举
const (
	TypeCreateAccount = "create_account"
	TypeSignIn        = "sign_in"
	TypeAddMoney      = "add_money"
	TypeBuyBook       = "buy_book"
	TypeReturnBook    = "return_book"
	TypeDeleteAccount = "delete_account"
)

// Record 行为流水，只追加、不修改；仅在账户硬删除时随账户移除。
// Total 为金额变动的绝对值，方向由 Type 决定，无金额的行为为 nil。
type Record struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    string `gorm:"size:64;not null;index"`
	Type      string `gorm:"column:action_type;size:32;not null;index"`
	Details   string `gorm:"size:255;not null"`
	Total     *int64
	CreatedAt time.Time `gorm:"index"`
}

// Repository 行为流水仓储接口
type Repository interface {
	Create(ctx context.Context, r *Record) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Record, error)
	RemoveByUser(ctx context.Context, userID string) error
}
