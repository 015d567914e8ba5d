package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/cache"
	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/datamodels/book"
)

// BookService 图书目录：读路径走旁路缓存，管理端写路径提交后同步失效
type BookService struct {
	repo     book.Repository
	cache    cache.Cache
	cacheCfg *config.CacheConfig
}

// NewBookService 创建图书服务
func NewBookService(repo book.Repository, c cache.Cache, cacheCfg *config.CacheConfig) *BookService {
	return &BookService{repo: repo, cache: c, cacheCfg: cacheCfg}
}

// GetBook 单本查询，book:{id} 缓存
func (s *BookService) GetBook(ctx context.Context, id int64) (*book.Book, error) {
	var cached book.Book
	if ok := cacheGet(ctx, s.cache, cache.BookKey(id), &cached); ok {
		return &cached, nil
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, storageErr(err)
	}

	cacheSet(ctx, s.cache, cache.BookKey(id), b, s.cacheCfg.ListingTTL)
	return b, nil
}

// ListBooks 全量目录，books:all 缓存
func (s *BookService) ListBooks(ctx context.Context) ([]*book.Book, error) {
	var cached []*book.Book
	if ok := cacheGet(ctx, s.cache, cache.KeyBooksAll, &cached); ok {
		return cached, nil
	}

	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	cacheSet(ctx, s.cache, cache.KeyBooksAll, list, s.cacheCfg.ListingTTL)
	return list, nil
}

// SearchBooks 搜索：字符串字段忽略大小写做子串匹配，数值字段按区间过滤。
// 搜索结果不缓存，始终回源。
func (s *BookService) SearchBooks(ctx context.Context, f *book.Filter) ([]*book.Book, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}

	out := make([]*book.Book, 0, len(list))
	for _, b := range list {
		if matchFilter(b, f) {
			out = append(out, b)
		}
	}
	return out, nil
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchFilter(b *book.Book, f *book.Filter) bool {
	if f == nil {
		return true
	}
	if !containsFold(b.Title, f.Title) ||
		!containsFold(b.Author, f.Author) ||
		!containsFold(b.Genre, f.Genre) ||
		!containsFold(b.Description, f.Description) {
		return false
	}
	if f.YearMin != nil && b.Year < *f.YearMin {
		return false
	}
	if f.YearMax != nil && b.Year > *f.YearMax {
		return false
	}
	if f.PriceMin != nil && b.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && b.Price > *f.PriceMax {
		return false
	}
	if f.TimesBoughtMin != nil && b.TimesBought < *f.TimesBoughtMin {
		return false
	}
	if f.TimesBoughtMax != nil && b.TimesBought > *f.TimesBoughtMax {
		return false
	}
	if f.TimesReturnedMin != nil && b.TimesReturned < *f.TimesReturnedMin {
		return false
	}
	if f.TimesReturnedMax != nil && b.TimesReturned > *f.TimesReturnedMax {
		return false
	}
	if f.RatingMin != nil && b.Rating < *f.RatingMin {
		return false
	}
	if f.RatingMax != nil && b.Rating > *f.RatingMax {
		return false
	}
	return true
}

// AddBook 管理端新增图书
func (s *BookService) AddBook(ctx context.Context, b *book.Book) error {
	if b.Price < 0 {
		return ErrInvalidAmount
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return storageErr(err)
	}
	invalidateKeys(ctx, s.cache, cache.KeyBooksAll)
	return nil
}

// EditBook 稀疏更新：只应用 Edit 里实际给出的字段，提交后失效相关键
func (s *BookService) EditBook(ctx context.Context, id int64, e *book.Edit) (*book.Book, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, storageErr(err)
	}
	if e.Price != nil && *e.Price < 0 {
		return nil, ErrInvalidAmount
	}

	if err := s.repo.UpdateFields(ctx, id, e.Fields()); err != nil {
		return nil, storageErr(err)
	}

	invalidateKeys(ctx, s.cache, cache.BookKey(id), cache.KeyBooksAll)

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return b, nil
}

// DeleteBook 删除图书并级联清理持有关系，提交后失效相关键。
// 级联会改动用户的持有书目投影，所以用户列表缓存也要一并失效。
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return storageErr(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	invalidateKeys(ctx, s.cache, cache.BookKey(id), cache.KeyBooksAll, cache.KeyUsersAll)
	return nil
}
