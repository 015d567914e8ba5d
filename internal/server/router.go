package server

import (
	"strconv"

	"github.com/kataras/iris/v12"

	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/datamodels/book"
	"github.com/uskudu/books-cont/internal/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRoutes 注册前台（用户端）HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	deps := BuildDeps(cfg)
	registerUserRoutes(app, cfg, deps)
}

func registerUserRoutes(app *iris.Application, cfg *config.Config, deps *Deps) {
	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 注册/登录挂在限流器后面，防撞库
	authParty := api.Party("/", middleware.AuthRateLimit())

	authParty.Post("/sign-up", func(ctx iris.Context) {
		var req credentialsRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		view, err := deps.AccountSvc.SignUpUser(ctx.Request().Context(), req.Username, req.Password)
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

	// 需要登录的接口
	authAPI := api.Party("/", middleware.RequireAuth(&cfg.JWT))

	// 当前用户资料（余额、持有书目、流水）
	authAPI.Get("/me", func(ctx iris.Context) {
		uid := ctx.Values().GetString(middleware.CtxAccountID)
		profile, err := deps.AccountSvc.GetProfile(ctx.Request().Context(), uid)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": profile})
	})

	authAPI.Get("/me/actions", func(ctx iris.Context) {
		uid := ctx.Values().GetString(middleware.CtxAccountID)
		limit, _ := strconv.Atoi(ctx.URLParamDefault("limit", "50"))
		list, err := deps.LedgerSvc.Actions(ctx.Request().Context(), uid, limit)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Post("/me/add-funds", func(ctx iris.Context) {
		var req struct {
			Amount int64 `json:"amount"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		uid := ctx.Values().GetString(middleware.CtxAccountID)
		balance, err := deps.LedgerSvc.AddFunds(ctx.Request().Context(), uid, req.Amount)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"new_balance": balance}})
	})

	authAPI.Delete("/me", func(ctx iris.Context) {
		var req struct {
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		uid := ctx.Values().GetString(middleware.CtxAccountID)
		if err := deps.AccountSvc.DeleteAccount(ctx.Request().Context(), uid, req.Password); err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "account deleted"})
	})

	// 图书目录
	authAPI.Get("/books", func(ctx iris.Context) {
		list, err := deps.BookSvc.ListBooks(ctx.Request().Context())
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Get("/books/search", func(ctx iris.Context) {
		filter := filterFromQuery(ctx)
		list, err := deps.BookSvc.SearchBooks(ctx.Request().Context(), filter)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Get("/books/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		b, err := deps.BookSvc.GetBook(ctx.Request().Context(), id)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": b})
	})

	// 购买与退货
	authAPI.Post("/books/{id:int64}/buy", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		uid := ctx.Values().GetString(middleware.CtxAccountID)
		b, err := deps.LedgerSvc.BuyBook(ctx.Request().Context(), uid, id)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "process complete", "data": b})
	})

	authAPI.Post("/books/{id:int64}/return", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		uid := ctx.Values().GetString(middleware.CtxAccountID)
		b, err := deps.LedgerSvc.ReturnBook(ctx.Request().Context(), uid, id)
		if err != nil {
			fail(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "process complete", "data": b})
	})
}

// filterFromQuery 从查询串组装搜索过滤条件，缺省字段不参与过滤
func filterFromQuery(ctx iris.Context) *book.Filter {
	f := &book.Filter{
		Title:       ctx.URLParam("title"),
		Author:      ctx.URLParam("author"),
		Genre:       ctx.URLParam("genre"),
		Description: ctx.URLParam("description"),
	}
	f.YearMin = qInt(ctx, "year_min")
	f.YearMax = qInt(ctx, "year_max")
	f.PriceMin = qInt64(ctx, "price_min")
	f.PriceMax = qInt64(ctx, "price_max")
	f.TimesBoughtMin = qInt64(ctx, "times_bought_min")
	f.TimesBoughtMax = qInt64(ctx, "times_bought_max")
	f.TimesReturnedMin = qInt64(ctx, "times_returned_min")
	f.TimesReturnedMax = qInt64(ctx, "times_returned_max")
	f.RatingMin = qFloat(ctx, "rating_min")
	f.RatingMax = qFloat(ctx, "rating_max")
	return f
}

func qInt(ctx iris.Context, name string) *int {
	raw := ctx.URLParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func qInt64(ctx iris.Context, name string) *int64 {
	raw := ctx.URLParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func qFloat(ctx iris.Context, name string) *float64 {
	raw := ctx.URLParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
