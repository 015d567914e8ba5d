package server

import (
	"github.com/kataras/iris/v12"

	"github.com/uskudu/books-cont/internal/auth"
	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/datamodels/book"
	"github.com/uskudu/books-cont/internal/middleware"
	"github.com/uskudu/books-cont/internal/service"
)

// RegisterAdminRoutes 注册后台管理端的 HTTP 路由。
// 端口通常是 8081，与前台 Web 服务分离。
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config) {
	deps := BuildDeps(cfg)
	registerAdminRoutes(app, cfg, deps)
}

func registerAdminRoutes(app *iris.Application, cfg *config.Config, deps *Deps) {
	api := app.Party("/api")

	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 管理员注册/登录
	authParty := api.Party("/", middleware.AuthRateLimit())

	authParty.Post("/sign-up", func(ctx iris.Context) {
		var req credentialsRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		view, err := deps.AccountSvc.SignUpAdmin(ctx.Request().Context(), req.Username, req.Password)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": view})
	})

	authParty.Post("/sign-in", func(ctx iris.Context) {
		var req credentialsRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, err := deps.AccountSvc.SignIn(ctx.Request().Context(), req.Username, req.Password)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	// 管理接口：必须登录且角色为 admin
	adminAPI := api.Party("/", middleware.RequireAuth(&cfg.JWT), middleware.RequireRole(auth.RoleAdmin))

	// ---------- 图书管理 ----------

	adminAPI.Get("/books", func(ctx iris.Context) {
		list, err := deps.BookSvc.ListBooks(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	adminAPI.Post("/books", func(ctx iris.Context) {
		var b book.Book
		if err := ctx.ReadJSON(&b); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		b.ID = 0 // ID 由存储分配
		b.TimesBought = 0
		b.TimesReturned = 0
		if err := deps.BookSvc.AddBook(ctx.Request().Context(), &b); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": b})
	})

	adminAPI.Put("/books/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var e book.Edit
		if err := ctx.ReadJSON(&e); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		b, err := deps.BookSvc.EditBook(ctx.Request().Context(), id, &e)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": b})
	})

	adminAPI.Delete("/books/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := deps.BookSvc.DeleteBook(ctx.Request().Context(), id); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "book deleted"})
	})

	// ---------- 账户目录 ----------

	adminAPI.Get("/users", func(ctx iris.Context) {
		list, err := deps.AccountSvc.ListUsers(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	adminAPI.Get("/users/{uid:string}", func(ctx iris.Context) {
		uid := ctx.Params().Get("uid")
		u, err := deps.AccountSvc.GetUserByID(ctx.Request().Context(), uid)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": u})
	})

	adminAPI.Get("/admins", func(ctx iris.Context) {
		list, err := deps.AccountSvc.ListAdmins(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// ---------- 运行指标 ----------

	adminAPI.Get("/stats", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().GetStats()})
	})
}
