package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/datamodels/ownership"
)

type ownershipRepo struct {
	db *gorm.DB
}

// NewOwnershipRepository 创建持有关系仓储
func NewOwnershipRepository(db *gorm.DB) ownership.Repository {
	return &ownershipRepo{db: db}
}

func (r *ownershipRepo) Exists(ctx context.Context, userID string, bookID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ownership.Edge{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

func (r *ownershipRepo) Add(ctx context.Context, userID string, bookID int64) error {
	return r.db.WithContext(ctx).Create(&ownership.Edge{UserID: userID, BookID: bookID}).Error
}

func (r *ownershipRepo) Remove(ctx context.Context, userID string, bookID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&ownership.Edge{}).Error
}

func (r *ownershipRepo) ListByUser(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&ownership.Edge{}).
		Where("user_id = ?", userID).
		Order("book_id ASC").
		Pluck("book_id", &ids).Error
	return ids, err
}

func (r *ownershipRepo) ListByBook(ctx context.Context, bookID int64) ([]string, error) {
	var uids []string
	err := r.db.WithContext(ctx).Model(&ownership.Edge{}).
		Where("book_id = ?", bookID).
		Pluck("user_id", &uids).Error
	return uids, err
}

func (r *ownershipRepo) RemoveByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&ownership.Edge{}).Error
}

func (r *ownershipRepo) RemoveByBook(ctx context.Context, bookID int64) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&ownership.Edge{}).Error
}
