package main

import (
	"log"

	"github.com/kataras/iris/v12"

	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/server"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := iris.New()
	server.RegisterAdminRoutes(app, cfg)

	addr := cfg.AdminServer.Addr()
	log.Printf("admin server listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to run admin server: %v", err)
	}
}
