package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/datamodels/admin"
)

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓储
func NewAdminRepository(db *gorm.DB) admin.Repository {
	return &adminRepo{db: db}
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	var a admin.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepo) Create(ctx context.Context, a *admin.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adminRepo) ListAll(ctx context.Context) ([]*admin.Admin, error) {
	var list []*admin.Admin
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
