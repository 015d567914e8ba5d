package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/datamodels/action"
)

type actionRepo struct {
	db *gorm.DB
}

// NewActionRepository 创建行为流水仓储
func NewActionRepository(db *gorm.DB) action.Repository {
	return &actionRepo{db: db}
}

func (r *actionRepo) Create(ctx context.Context, rec *action.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *actionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*action.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []*action.Record
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *actionRepo) RemoveByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&action.Record{}).Error
}
