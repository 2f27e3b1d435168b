package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"devconnect/internal/config"
	"devconnect/internal/database/migration"
	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/delivery/http/routes"
)

type App struct {
	Fiber *fiber.App
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.Default()

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := (migration.Runner{}).Run(migCtx, c.DB.SQLDB()); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	go c.Hub.Run()

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, logger)
	routes.Register(f, cfg, c.DB, c.Cache, c.Hub, logger)

	return &App{Fiber: f}, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
