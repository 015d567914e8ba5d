package middleware

import (
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/uskudu/books-cont/internal/auth"
	"github.com/uskudu/books-cont/internal/config"
)

// 上下文键
const (
	CtxAccountID = "account_id"
	CtxUsername  = "username"
	CtxRole      = "role"
)

// RequireAuth 解析 Authorization 头里的 JWT，把可信主体放进请求上下文
func RequireAuth(cfg *config.JWTConfig) iris.Handler {
	return func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, err := auth.VerifyCredential(cfg, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		ctx.Values().Set(CtxAccountID, claims.ID)
		ctx.Values().Set(CtxUsername, claims.Username)
		ctx.Values().Set(CtxRole, claims.Role)
		ctx.Next()
	}
}

// RequireRole 角色闸门，必须在 RequireAuth 之后挂载
func RequireRole(role string) iris.Handler {
	return func(ctx iris.Context) {
		if ctx.Values().GetString(CtxRole) != role {
			ctx.StopWithJSON(403, iris.Map{"code": 403, "msg": "无权访问该接口"})
			return
		}
		ctx.Next()
	}
}
