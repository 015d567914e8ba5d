package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uskudu/books-cont/internal/auth"
	"github.com/uskudu/books-cont/internal/datamodels/action"
	"github.com/uskudu/books-cont/internal/datamodels/user"
)

func TestSignUpUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.account.SignUpUser(ctx, "test_user1", "test_password")
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "test_user1", view.Username)
	assert.Equal(t, auth.RoleUser, view.Role)
	assert.Equal(t, int64(0), view.Money)

	// 密码只能以 bcrypt 哈希落库
	var u user.User
	require.NoError(t, env.db.Where("user_id = ?", view.ID).First(&u).Error)
	assert.NotEqual(t, "test_password", u.Password)
	assert.True(t, auth.CheckPassword("test_password", u.Password))
	assert.True(t, u.Active)

	records := env.actionsOf(t, view.ID)
	require.Len(t, records, 1)
	assert.Equal(t, action.TypeCreateAccount, records[0].Type)
	assert.Nil(t, records[0].Total)
}

func TestSignUpUserUsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "test_user1", 0)

	_, err := env.account.SignUpUser(ctx, "test_user1", "other_password")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// 注册失败不能留下半个账户
	var n int64
	require.NoError(t, env.db.Model(&user.User{}).Where("username = ?", "test_user1").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSignUpUserUsernameTakenByAdmin(t *testing.T) {
	// 用户与管理员共用用户名命名空间
	env := newTestEnv(t)
	env.seedAdmin(t, "test_admin1")

	_, err := env.account.SignUpUser(context.Background(), "test_admin1", "test_password")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignUpAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.account.SignUpAdmin(ctx, "test_admin1", "test_password")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, view.Role)

	// 管理员注册不产生流水
	assert.Empty(t, env.actionsOf(t, view.ID))

	_, err = env.account.SignUpAdmin(ctx, "test_admin1", "test_password")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignInUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.seedUser(t, "test_user1", 100)

	token, err := env.account.SignIn(ctx, "test_user1", "test_password")
	require.NoError(t, err)

	claims, err := auth.VerifyCredential(env.jwtCfg, token)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.ID)
	assert.Equal(t, "test_user1", claims.Username)
	assert.Equal(t, auth.RoleUser, claims.Role)

	records := env.actionsOf(t, uid)
	require.Len(t, records, 1)
	assert.Equal(t, action.TypeSignIn, records[0].Type)
}

func TestSignInInvalidCredentials(t *testing.T) {
	// 用户名不存在、密码错误、账户停用，对外表现必须完全一致
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.seedUser(t, "test_user1", 100)

	_, err := env.account.SignIn(ctx, "no_such_user", "test_password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.account.SignIn(ctx, "test_user1", "wrong_password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.db.Model(&user.User{}).
		Where("user_id = ?", uid).Update("active", false).Error)
	_, err = env.account.SignIn(ctx, "test_user1", "test_password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 全部失败，不应有登录流水
	assert.Empty(t, env.actionsOf(t, uid))
}

func TestSignInAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aid := env.seedAdmin(t, "test_admin1")

	token, err := env.account.SignIn(ctx, "test_admin1", "test_password")
	require.NoError(t, err)

	claims, err := auth.VerifyCredential(env.jwtCfg, token)
	require.NoError(t, err)
	assert.Equal(t, aid, claims.ID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	// 管理员登录不产生流水
	assert.Empty(t, env.actionsOf(t, aid))

	_, err = env.account.SignIn(ctx, "test_admin1", "wrong_password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.seedUser(t, "test_user1", 1000)
	bookID := env.seedBook(t, "test book", 100, 0, 0)

	_, err := env.ledger.BuyBook(ctx, uid, bookID)
	require.NoError(t, err)
	require.Equal(t, int64(1), env.edgeCount(t, uid, bookID))
	require.NotEmpty(t, env.actionsOf(t, uid))

	err = env.account.DeleteAccount(ctx, uid, "test_password")
	require.NoError(t, err)

	// 硬删除：用户行、持有关系、流水一并消失
	var n int64
	require.NoError(t, env.db.Model(&user.User{}).Where("user_id = ?", uid).Count(&n).Error)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, int64(0), env.edgeCount(t, uid, bookID))
	assert.Empty(t, env.actionsOf(t, uid))
}

func TestDeleteAccountWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.seedUser(t, "test_user1", 100)

	err := env.account.DeleteAccount(ctx, uid, "wrong_password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var n int64
	require.NoError(t, env.db.Model(&user.User{}).Where("user_id = ?", uid).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	err := env.account.DeleteAccount(context.Background(), "no-such-user", "test_password")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.seedUser(t, "test_user1", 1000)
	bookID := env.seedBook(t, "test book", 100, 0, 0)

	_, err := env.ledger.BuyBook(ctx, uid, bookID)
	require.NoError(t, err)

	p, err := env.account.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, uid, p.UserID)
	assert.Equal(t, "test_user1", p.Username)
	assert.Equal(t, int64(900), p.Money)
	assert.True(t, p.Active)
	assert.Equal(t, []int64{bookID}, p.BoughtBooks)
	require.Len(t, p.Actions, 1)
	assert.Equal(t, action.TypeBuyBook, p.Actions[0].Type)
}

func TestGetProfileUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.account.GetProfile(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "test_user1", 100)
	env.seedUser(t, "test_user2", 200)

	first, err := env.account.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// 绕过服务直接落库，命中缓存时不应看到新用户
	env.seedUser(t, "test_user3", 300)
	second, err := env.account.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestListUsersInvalidatedByLedgerWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.seedUser(t, "test_user1", 100)

	first, err := env.account.ListUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(100), first[0].Money)

	// 充值提交后列表缓存必须失效
	_, err = env.ledger.AddFunds(ctx, uid, 50)
	require.NoError(t, err)

	second, err := env.account.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(150), second[0].Money)
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uid := env.seedUser(t, "test_user1", 100)

	s, err := env.account.GetUserByID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "test_user1", s.Username)
	assert.Equal(t, int64(100), s.Money)

	_, err = env.account.GetUserByID(ctx, "no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAdmin(t, "test_admin1")

	list, err := env.account.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "test_admin1", list[0].Username)
	assert.Equal(t, auth.RoleAdmin, list[0].Role)
}
