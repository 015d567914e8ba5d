package book

import (
	"context"
	"time"
)

// Book 图书模型，价格单位为分
type Book struct {
	ID            int64   `gorm:"primaryKey"`
	Title         string  `gorm:"size:255;not null;index"`
	Author        string  `gorm:"size:255;not null;index"`
	Genre         string  `gorm:"size:64;not null"`
	Description   string  `gorm:"size:1024;not null"`
	Year          int     `gorm:"not null"`
	Price         int64   `gorm:"not null;index"` // 分
	TimesBought   int64   `gorm:"not null"`       // 累计购买次数，只增
	TimesReturned int64   `gorm:"not null"`       // 累计退货次数，只增
	Rating        float64 `gorm:"not null"`       // 外部评分，购买/退货不改动
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Edit 稀疏更新：只应用非 nil 字段
type Edit struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Genre       *string  `json:"genre"`
	Description *string  `json:"description"`
	Year        *int     `json:"year"`
	Price       *int64   `json:"price"`
	Rating      *float64 `json:"rating"`
}

// Fields 返回 Edit 中实际提供的字段，供 gorm Updates 使用
func (e *Edit) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if e.Title != nil {
		out["title"] = *e.Title
	}
	if e.Author != nil {
		out["author"] = *e.Author
	}
	if e.Genre != nil {
		out["genre"] = *e.Genre
	}
	if e.Description != nil {
		out["description"] = *e.Description
	}
	if e.Year != nil {
		out["year"] = *e.Year
	}
	if e.Price != nil {
		out["price"] = *e.Price
	}
	if e.Rating != nil {
		out["rating"] = *e.Rating
	}
	return out
}

// Filter 搜索过滤条件：字符串字段忽略大小写做子串匹配，数值字段按区间
type Filter struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`

	YearMin          *int     `json:"year_min"`
	YearMax          *int     `json:"year_max"`
	PriceMin         *int64   `json:"price_min"`
	PriceMax         *int64   `json:"price_max"`
	TimesBoughtMin   *int64   `json:"times_bought_min"`
	TimesBoughtMax   *int64   `json:"times_bought_max"`
	TimesReturnedMin *int64   `json:"times_returned_min"`
	TimesReturnedMax *int64   `json:"times_returned_max"`
	RatingMin        *float64 `json:"rating_min"`
	RatingMax        *float64 `json:"rating_max"`
}

// Repository 图书仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Book, error)
	ListAll(ctx context.Context) ([]*Book, error)
	Create(ctx context.Context, b *Book) error
	// UpdateFields 只更新给出的字段
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	// Delete 删除图书并级联清理持有关系
	Delete(ctx context.Context, id int64) error
}
