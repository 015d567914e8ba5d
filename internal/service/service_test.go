package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/uskudu/books-cont/internal/auth"
	"github.com/uskudu/books-cont/internal/cache"
	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/datamodels/action"
	"github.com/uskudu/books-cont/internal/datamodels/admin"
	"github.com/uskudu/books-cont/internal/datamodels/book"
	"github.com/uskudu/books-cont/internal/datamodels/ownership"
	"github.com/uskudu/books-cont/internal/datamodels/user"
	"github.com/uskudu/books-cont/internal/repository/mysql"
)

// testEnv 每个测试独立的 sqlite 库 + 进程内缓存 + 全套服务
type testEnv struct {
	db      *gorm.DB
	cache   cache.Cache
	jwtCfg  *config.JWTConfig
	ledger  *LedgerService
	account *AccountService
	books   *BookService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.Migrate(db))

	c := cache.NewMemory()
	jwtCfg := &config.JWTConfig{Secret: "test-secret", TTL: time.Hour}
	cacheCfg := &config.CacheConfig{ListingTTL: time.Hour, ScopedTTL: 60 * time.Second}
	events := NewEventPublisher(nil)

	userRepo := mysql.NewUserRepository(db)
	adminRepo := mysql.NewAdminRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	ownershipRepo := mysql.NewOwnershipRepository(db)
	actionRepo := mysql.NewActionRepository(db)

	return &testEnv{
		db:     db,
		cache:  c,
		jwtCfg: jwtCfg,
		ledger: NewLedgerService(db, actionRepo, c, events),
		account: NewAccountService(
			db, userRepo, adminRepo, ownershipRepo, actionRepo,
			c, jwtCfg, cacheCfg, events,
		),
		books: NewBookService(bookRepo, c, cacheCfg),
	}
}

// seedUser 直接落库一个用户，返回不透明 ID
func (e *testEnv) seedUser(t *testing.T, username string, money int64) string {
	t.Helper()
	hash, err := auth.HashPassword("test_password")
	require.NoError(t, err)
	u := &user.User{
		UserID:   auth.NewAccountID(),
		Username: username,
		Password: hash,
		Role:     auth.RoleUser,
		Money:    money,
		Active:   true,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u.UserID
}

func (e *testEnv) seedAdmin(t *testing.T, username string) string {
	t.Helper()
	hash, err := auth.HashPassword("test_password")
	require.NoError(t, err)
	a := &admin.Admin{
		AdminID:  auth.NewAccountID(),
		Username: username,
		Password: hash,
		Role:     auth.RoleAdmin,
	}
	require.NoError(t, e.db.Create(a).Error)
	return a.AdminID
}

func (e *testEnv) seedBook(t *testing.T, title string, price, timesBought, timesReturned int64) int64 {
	t.Helper()
	b := &book.Book{
		Title:         title,
		Author:        "test author",
		Genre:         "test",
		Description:   "test description",
		Year:          2020,
		Price:         price,
		TimesBought:   timesBought,
		TimesReturned: timesReturned,
		Rating:        4.0,
	}
	require.NoError(t, e.db.Create(b).Error)
	return b.ID
}

func (e *testEnv) userMoney(t *testing.T, uid string) int64 {
	t.Helper()
	var u user.User
	require.NoError(t, e.db.Where("user_id = ?", uid).First(&u).Error)
	return u.Money
}

func (e *testEnv) bookRow(t *testing.T, id int64) *book.Book {
	t.Helper()
	var b book.Book
	require.NoError(t, e.db.First(&b, id).Error)
	return &b
}

func (e *testEnv) edgeCount(t *testing.T, uid string, bookID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&ownership.Edge{}).
		Where("user_id = ? AND book_id = ?", uid, bookID).Count(&n).Error)
	return n
}

func (e *testEnv) actionsOf(t *testing.T, uid string) []*action.Record {
	t.Helper()
	var list []*action.Record
	require.NoError(t, e.db.Where("user_id = ?", uid).Order("id ASC").Find(&list).Error)
	return list
}
