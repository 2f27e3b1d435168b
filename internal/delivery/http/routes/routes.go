package routes

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/delivery/http/handler"
	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/infrastructure/cache"
	"devconnect/internal/infrastructure/github"
	pgrepo "devconnect/internal/infrastructure/persistence/postgres"
	"devconnect/internal/pkg/jwt"
	ucauth "devconnect/internal/usecase/auth"
	ucpost "devconnect/internal/usecase/post"
	ucprofile "devconnect/internal/usecase/profile"
	"devconnect/internal/ws"
)

// Register wires repositories, services and handlers onto the app. The
// route shapes are fixed: the SPA client consumes these paths as-is.
func Register(app *fiber.App, cfg config.Config, db database.DB, redis *cache.Redis, hub *ws.Hub, logger *log.Logger) {
	if app == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := pgrepo.NewUserRepository(db)
	profileRepo := pgrepo.NewProfileRepository(db)
	postRepo := pgrepo.NewPostRepository(db)

	ghClient := github.NewClient(cfg.GitHub)

	authUC := ucauth.NewService(userRepo, jwtSvc)
	profileUC := ucprofile.NewService(db, profileRepo, userRepo, postRepo, redis, ghClient)
	postUC := ucpost.NewService(postRepo, userRepo, ws.NewFeedNotifier(hub))

	feedHandler := ws.NewHandler(hub, jwtSvc, logger)

	health := handler.NewHealthHandler()
	health.RegisterRoutes(app)

	api := app.Group("/api")
	handler.NewUserHandler(authUC).RegisterRoutes(api.Group("/user"))
	handler.NewAuthHandler(authUC, authMw).RegisterRoutes(api.Group("/auth"))
	handler.NewProfileHandler(profileUC, authMw).RegisterRoutes(api.Group("/profile"))
	handler.NewPostHandler(postUC, authMw, feedHandler.HandleFeed).RegisterRoutes(api.Group("/posts"))
}
