package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/auth"
	"github.com/uskudu/books-cont/internal/cache"
	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/datamodels/action"
	"github.com/uskudu/books-cont/internal/datamodels/admin"
	"github.com/uskudu/books-cont/internal/datamodels/ownership"
	"github.com/uskudu/books-cont/internal/datamodels/user"
)

// AccountService 账户生命周期：注册、登录、注销，以及管理端的账户查询
type AccountService struct {
	db            *gorm.DB
	userRepo      user.Repository
	adminRepo     admin.Repository
	ownershipRepo ownership.Repository
	actionRepo    action.Repository
	cache         cache.Cache
	jwtCfg        *config.JWTConfig
	cacheCfg      *config.CacheConfig
	events        *EventPublisher
}

// NewAccountService 创建账户服务
func NewAccountService(
	db *gorm.DB,
	userRepo user.Repository,
	adminRepo admin.Repository,
	ownershipRepo ownership.Repository,
	actionRepo action.Repository,
	c cache.Cache,
	jwtCfg *config.JWTConfig,
	cacheCfg *config.CacheConfig,
	events *EventPublisher,
) *AccountService {
	return &AccountService{
		db:            db,
		userRepo:      userRepo,
		adminRepo:     adminRepo,
		ownershipRepo: ownershipRepo,
		actionRepo:    actionRepo,
		cache:         c,
		jwtCfg:        jwtCfg,
		cacheCfg:      cacheCfg,
		events:        events,
	}
}

// AccountView 注册结果投影，永远不带密码哈希
type AccountView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Money    int64  `json:"money,omitempty"`
}

// UserProfile 用户自查投影
type UserProfile struct {
	UserID      string           `json:"user_id"`
	Username    string           `json:"username"`
	Role        string           `json:"role"`
	Money       int64            `json:"money"`
	Active      bool             `json:"active"`
	BoughtBooks []int64          `json:"bought_books"`
	Actions     []*action.Record `json:"actions,omitempty"`
}

// UserSummary 管理端用户目录条目
type UserSummary struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	Money       int64   `json:"money"`
	Active      bool    `json:"active"`
	BoughtBooks []int64 `json:"bought_books"`
}

// AdminSummary 管理端管理员目录条目
type AdminSummary struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// checkUsernameTaken 用户与管理员共用用户名命名空间，注册前统一查重
func checkUsernameTaken(tx *gorm.DB, username string) error {
	var count int64
	if err := tx.Model(&user.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return storageErr(err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	if err := tx.Model(&admin.Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return storageErr(err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return nil
}

// SignUpUser 注册用户：查重、哈希密码、生成不透明 ID、落库并在同一事务
// 追加 create_account 流水
func (s *AccountService) SignUpUser(ctx context.Context, username, password string) (*AccountView, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		UserID:   auth.NewAccountID(),
		Username: username,
		Password: hash,
		Role:     auth.RoleUser,
		Money:    0,
		Active:   true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUsernameTaken(tx, username); err != nil {
			return err
		}
		if err := tx.Create(u).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.Create(&action.Record{
			UserID:  u.UserID,
			Type:    action.TypeCreateAccount,
			Details: "created a new account",
		}).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateKeys(ctx, s.cache, cache.KeyUsersAll)
	s.events.publishAsync(&ActionEvent{
		UserID: u.UserID, Type: action.TypeCreateAccount,
		Details: "created a new account", At: time.Now(),
	})
	return &AccountView{ID: u.UserID, Username: u.Username, Role: u.Role, Money: u.Money}, nil
}

// SignUpAdmin 注册管理员。与用户注册不同，管理员不产生行为流水
func (s *AccountService) SignUpAdmin(ctx context.Context, username, password string) (*AccountView, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	a := &admin.Admin{
		AdminID:  auth.NewAccountID(),
		Username: username,
		Password: hash,
		Role:     auth.RoleAdmin,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUsernameTaken(tx, username); err != nil {
			return err
		}
		if err := tx.Create(a).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateKeys(ctx, s.cache, cache.KeyAdminsAll)
	return &AccountView{ID: a.AdminID, Username: a.Username, Role: a.Role}, nil
}

// SignIn 登录：先查用户再查管理员。用户名不存在、密码不符、账户停用
// 一律返回 ErrInvalidCredentials。用户登录成功追加 sign_in 流水，
// 管理员不追加。
func (s *AccountService) SignIn(ctx context.Context, username, password string) (string, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		if !u.Active || !auth.CheckPassword(password, u.Password) {
			return "", ErrInvalidCredentials
		}
		if err := s.actionRepo.Create(ctx, &action.Record{
			UserID:  u.UserID,
			Type:    action.TypeSignIn,
			Details: "signed in",
		}); err != nil {
			return "", storageErr(err)
		}
		invalidateKeys(ctx, s.cache, cache.UserKey(u.UserID))
		s.events.publishAsync(&ActionEvent{
			UserID: u.UserID, Type: action.TypeSignIn, Details: "signed in", At: time.Now(),
		})
		return auth.GenerateToken(s.jwtCfg, u.UserID, u.Username, auth.RoleUser)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storageErr(err)
	}

	a, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", storageErr(err)
	}
	if !auth.CheckPassword(password, a.Password) {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(s.jwtCfg, a.AdminID, a.Username, auth.RoleAdmin)
}

// DeleteAccount 注销账户：密码校验通过后在一个事务里硬删除 ——
// 先清持有关系，再清行为流水，最后删用户行。不可逆。
func (s *AccountService) DeleteAccount(ctx context.Context, userID, password string) error {
	u, err := s.userRepo.GetByUID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return storageErr(err)
	}
	if !auth.CheckPassword(password, u.Password) {
		return ErrInvalidCredentials
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&ownership.Edge{}).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&action.Record{}).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&user.User{}).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateKeys(ctx, s.cache, cache.UserKey(userID), cache.KeyUsersAll)
	// 流水已随账户删除，注销事件只进审计队列
	s.events.publishAsync(&ActionEvent{
		UserID: userID, Type: action.TypeDeleteAccount, Details: "deleted account", At: time.Now(),
	})
	return nil
}

// GetProfile 用户自查：余额、持有书目与最近流水。个人数据不走缓存。
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	u, err := s.userRepo.GetByUID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	books, err := s.ownershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	actions, err := s.actionRepo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, storageErr(err)
	}
	return &UserProfile{
		UserID:      u.UserID,
		Username:    u.Username,
		Role:        u.Role,
		Money:       u.Money,
		Active:      u.Active,
		BoughtBooks: books,
		Actions:     actions,
	}, nil
}

// ListUsers 管理端用户目录，users:all 走列表级缓存
func (s *AccountService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var cached []UserSummary
	if ok := cacheGet(ctx, s.cache, cache.KeyUsersAll, &cached); ok {
		return cached, nil
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		books, err := s.ownershipRepo.ListByUser(ctx, u.UserID)
		if err != nil {
			return nil, storageErr(err)
		}
		out = append(out, UserSummary{
			UserID:      u.UserID,
			Username:    u.Username,
			Money:       u.Money,
			Active:      u.Active,
			BoughtBooks: books,
		})
	}

	cacheSet(ctx, s.cache, cache.KeyUsersAll, out, s.cacheCfg.ListingTTL)
	return out, nil
}

// GetUserByID 管理端单用户查询。按请求个性化的读取，走短 TTL 档
func (s *AccountService) GetUserByID(ctx context.Context, userID string) (*UserSummary, error) {
	var cached UserSummary
	if ok := cacheGet(ctx, s.cache, cache.UserKey(userID), &cached); ok {
		return &cached, nil
	}

	u, err := s.userRepo.GetByUID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	books, err := s.ownershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	out := &UserSummary{
		UserID:      u.UserID,
		Username:    u.Username,
		Money:       u.Money,
		Active:      u.Active,
		BoughtBooks: books,
	}

	cacheSet(ctx, s.cache, cache.UserKey(userID), out, s.cacheCfg.ScopedTTL)
	return out, nil
}

// ListAdmins 管理端管理员目录，admins:all 走列表级缓存
func (s *AccountService) ListAdmins(ctx context.Context) ([]AdminSummary, error) {
	var cached []AdminSummary
	if ok := cacheGet(ctx, s.cache, cache.KeyAdminsAll, &cached); ok {
		return cached, nil
	}

	admins, err := s.adminRepo.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]AdminSummary, 0, len(admins))
	for _, a := range admins {
		out = append(out, AdminSummary{AdminID: a.AdminID, Username: a.Username, Role: a.Role})
	}

	cacheSet(ctx, s.cache, cache.KeyAdminsAll, out, s.cacheCfg.ListingTTL)
	return out, nil
}
