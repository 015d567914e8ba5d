package service

import (
	"errors"
	"fmt"
)

// 业务错误分类，路由层用 errors.Is 映射到 HTTP 状态码。
var (
	// ErrInvalidAmount 入参金额超出 (0, 2^31) 范围
	ErrInvalidAmount = errors.New("金额必须大于 0 且小于 2^31")
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = errors.New("图书不存在")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("用户不存在")
	// ErrAdminNotFound 管理员不存在
	ErrAdminNotFound = errors.New("管理员不存在")
	// ErrUsernameTaken 用户名已被占用（用户与管理员共用一个命名空间）
	ErrUsernameTaken = errors.New("用户名已被占用")
	// ErrInvalidCredentials 认证失败。未知用户名、密码错误、账户停用
	// 统一收敛成这一个错误，避免泄露账户是否存在。
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrNotEnoughMoney 余额不足
	ErrNotEnoughMoney = errors.New("余额不足")
	// ErrAlreadyOwned 已持有该书，不能重复购买
	ErrAlreadyOwned = errors.New("已购买过这本书")
	// ErrNotOwned 未持有该书，无法退货
	ErrNotOwned = errors.New("尚未购买这本书")
	// ErrStorage 底层存储失败，当前操作已整体回滚
	ErrStorage = errors.New("存储层错误")
)

// storageErr 把底层事务失败包一层 ErrStorage，保留原始错误链并计入监控
func storageErr(err error) error {
	GetMonitor().RecordDBError()
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
