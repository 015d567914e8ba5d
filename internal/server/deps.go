package server

import (
	"errors"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"github.com/uskudu/books-cont/internal/auth"
	"github.com/uskudu/books-cont/internal/cache"
	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/infra/mq"
	"github.com/uskudu/books-cont/internal/infra/redis"
	"github.com/uskudu/books-cont/internal/repository/mysql"
	"github.com/uskudu/books-cont/internal/service"
)

// Deps 两个服务进程共用的依赖装配
type Deps struct {
	DB         *gorm.DB
	Cache      cache.Cache
	AccountSvc *service.AccountService
	LedgerSvc  *service.LedgerService
	BookSvc    *service.BookService
}

// BuildDeps 初始化基础设施并装配服务。Redis/MQ 可按配置关掉，
// 关掉后缓存退化为进程内实现、审计事件不发布。
func BuildDeps(cfg *config.Config) *Deps {
	db := mysql.Init(&cfg.MySQL)

	var c cache.Cache
	if cfg.Redis.Enabled {
		c = cache.NewRedis(redis.Init(&cfg.Redis))
	} else {
		c = cache.NewMemory()
	}

	var events *service.EventPublisher
	if cfg.RabbitMQ.Enabled {
		events = service.NewEventPublisher(mq.Init(&cfg.RabbitMQ))
	} else {
		events = service.NewEventPublisher(nil)
	}

	userRepo := mysql.NewUserRepository(db)
	adminRepo := mysql.NewAdminRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	ownershipRepo := mysql.NewOwnershipRepository(db)
	actionRepo := mysql.NewActionRepository(db)

	return &Deps{
		DB:    db,
		Cache: c,
		AccountSvc: service.NewAccountService(
			db, userRepo, adminRepo, ownershipRepo, actionRepo,
			c, &cfg.JWT, &cfg.Cache, events,
		),
		LedgerSvc: service.NewLedgerService(db, actionRepo, c, events),
		BookSvc:   service.NewBookService(bookRepo, c, &cfg.Cache),
	}
}

// fail 统一错误响应：业务错误按分类映射状态码，其余一律 500
func fail(ctx iris.Context, err error) {
	status := 500
	switch {
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAdminNotFound):
		status = 404
	case errors.Is(err, service.ErrNotEnoughMoney):
		status = 403
	case errors.Is(err, service.ErrAlreadyOwned),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidAmount):
		status = 400
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		status = 401
	}
	ctx.StopWithJSON(status, iris.Map{"code": status, "msg": err.Error()})
}
