package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/datamodels/book"
	"github.com/uskudu/books-cont/internal/datamodels/ownership"
)

type bookRepo struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepo{db: db}
}

func (r *bookRepo) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	var b book.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepo) ListAll(ctx context.Context) ([]*book.Book, error) {
	var list []*book.Book
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *bookRepo) Create(ctx context.Context, b *book.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&book.Book{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除图书，并在同一事务里级联清理持有关系
func (r *bookRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&ownership.Edge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book.Book{}, id).Error
	})
}
