package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uskudu/books-cont/internal/cache"
	"github.com/uskudu/books-cont/internal/datamodels/action"
	"github.com/uskudu/books-cont/internal/datamodels/book"
	"github.com/uskudu/books-cont/internal/datamodels/ownership"
	"github.com/uskudu/books-cont/internal/datamodels/user"
)

// LedgerService 账务核心：余额变动、持有关系变动、计数器变动与行为流水
// 追加，每个操作都在一个数据库事务里完成。前置校验一律直读数据库，
// 永远不经过缓存。
type LedgerService struct {
	db         *gorm.DB
	actionRepo action.Repository
	cache      cache.Cache
	events     *EventPublisher
}

// NewLedgerService 创建账务服务
func NewLedgerService(db *gorm.DB, actionRepo action.Repository, c cache.Cache, events *EventPublisher) *LedgerService {
	return &LedgerService{
		db:         db,
		actionRepo: actionRepo,
		cache:      c,
		events:     events,
	}
}

// lockForUpdate 给聚合行加排他锁。sqlite（测试用）整库串行写，不支持也不需要行锁。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AddFunds 充值。amount 必须在 (0, 2^31) 内，防止 32 位计数溢出。返回新余额。
func (s *LedgerService) AddFunds(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 || amount > math.MaxInt32 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return storageErr(err)
		}

		u.Money += amount
		if err := tx.Save(&u).Error; err != nil {
			return storageErr(err)
		}

		total := amount
		if err := tx.Create(&action.Record{
			UserID:  userID,
			Type:    action.TypeAddMoney,
			Details: "added money via Superbank FPS",
			Total:   &total,
		}).Error; err != nil {
			return storageErr(err)
		}

		balance = u.Money
		return nil
	})
	if err != nil {
		return 0, err
	}

	invalidateKeys(ctx, s.cache, cache.UserKey(userID), cache.KeyUsersAll)
	s.events.publishAsync(&ActionEvent{
		UserID: userID, Type: action.TypeAddMoney, Details: "added money via Superbank FPS",
		Total: &amount, At: time.Now(),
	})
	return balance, nil
}

// BuyBook 购买。前置校验按固定顺序执行，第一个失败即终止：
// 书存在 → 余额足够 → 尚未持有。成功后扣余额、times_bought+1、
// 建立持有关系并追加流水，全部同一事务。返回更新后的图书快照。
func (s *LedgerService) BuyBook(ctx context.Context, userID string, bookID int64) (*book.Book, error) {
	var snapshot book.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return storageErr(err)
		}

		var b book.Book
		if err := lockForUpdate(tx).First(&b, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return storageErr(err)
		}

		if b.Price > u.Money {
			return ErrNotEnoughMoney
		}

		var owned int64
		if err := tx.Model(&ownership.Edge{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Count(&owned).Error; err != nil {
			return storageErr(err)
		}
		if owned > 0 {
			return ErrAlreadyOwned
		}

		u.Money -= b.Price
		if err := tx.Save(&u).Error; err != nil {
			return storageErr(err)
		}

		b.TimesBought++
		if err := tx.Save(&b).Error; err != nil {
			return storageErr(err)
		}

		if err := tx.Create(&ownership.Edge{UserID: userID, BookID: bookID}).Error; err != nil {
			return storageErr(err)
		}

		total := b.Price
		if err := tx.Create(&action.Record{
			UserID:  userID,
			Type:    action.TypeBuyBook,
			Details: fmt.Sprintf("bought a book with id=%d", bookID),
			Total:   &total,
		}).Error; err != nil {
			return storageErr(err)
		}

		snapshot = b
		return nil
	})
	if err != nil {
		GetMonitor().RecordPurchase(false)
		return nil, err
	}
	GetMonitor().RecordPurchase(true)

	invalidateKeys(ctx, s.cache,
		cache.UserKey(userID), cache.KeyUsersAll,
		cache.BookKey(bookID), cache.KeyBooksAll,
	)
	total := snapshot.Price
	s.events.publishAsync(&ActionEvent{
		UserID: userID, Type: action.TypeBuyBook,
		Details: fmt.Sprintf("bought a book with id=%d", bookID),
		Total:   &total, At: time.Now(),
	})
	return &snapshot, nil
}

// ReturnBook 退货。书存在且当前持有才允许退。退款按退货时的现价，
// 不锁定购买价。times_returned+1、删除持有关系、追加流水，同一事务。
func (s *LedgerService) ReturnBook(ctx context.Context, userID string, bookID int64) (*book.Book, error) {
	var snapshot book.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return storageErr(err)
		}

		var b book.Book
		if err := lockForUpdate(tx).First(&b, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return storageErr(err)
		}

		res := tx.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&ownership.Edge{})
		if res.Error != nil {
			return storageErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotOwned
		}

		u.Money += b.Price
		if err := tx.Save(&u).Error; err != nil {
			return storageErr(err)
		}

		b.TimesReturned++
		if err := tx.Save(&b).Error; err != nil {
			return storageErr(err)
		}

		total := b.Price
		if err := tx.Create(&action.Record{
			UserID:  userID,
			Type:    action.TypeReturnBook,
			Details: fmt.Sprintf("returned a book with id=%d", bookID),
			Total:   &total,
		}).Error; err != nil {
			return storageErr(err)
		}

		snapshot = b
		return nil
	})
	if err != nil {
		GetMonitor().RecordReturn(false)
		return nil, err
	}
	GetMonitor().RecordReturn(true)

	invalidateKeys(ctx, s.cache,
		cache.UserKey(userID), cache.KeyUsersAll,
		cache.BookKey(bookID), cache.KeyBooksAll,
	)
	total := snapshot.Price
	s.events.publishAsync(&ActionEvent{
		UserID: userID, Type: action.TypeReturnBook,
		Details: fmt.Sprintf("returned a book with id=%d", bookID),
		Total:   &total, At: time.Now(),
	})
	return &snapshot, nil
}

// Actions 查询用户行为流水，新的在前
func (s *LedgerService) Actions(ctx context.Context, userID string, limit int) ([]*action.Record, error) {
	list, err := s.actionRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}
