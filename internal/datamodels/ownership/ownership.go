package ownership

import (
	"context"
	"time"
)

// Edge 持有关系：存在即代表该用户当前持有该书。
// (user_id, book_id) 唯一，购买创建、退货删除，不允许重复创建。
type Edge struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    string `gorm:"size:64;not null;uniqueIndex:idx_user_book;index"`
	BookID    int64  `gorm:"not null;uniqueIndex:idx_user_book;index"`
	CreatedAt time.Time
}

// Repository 持有关系仓储接口，按用户和按书两个方向检索同一份边集合
type Repository interface {
	Exists(ctx context.Context, userID string, bookID int64) (bool, error)
	Add(ctx context.Context, userID string, bookID int64) error
	Remove(ctx context.Context, userID string, bookID int64) error
	ListByUser(ctx context.Context, userID string) ([]int64, error)
	ListByBook(ctx context.Context, bookID int64) ([]string, error)
	RemoveByUser(ctx context.Context, userID string) error
	RemoveByBook(ctx context.Context, bookID int64) error
}
