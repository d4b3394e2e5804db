package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"waterpermits/internal/config"
	"waterpermits/internal/coredb"
	"waterpermits/internal/database"
	"waterpermits/internal/middleware"
	"waterpermits/internal/modules/auth"
	"waterpermits/internal/modules/dashboard"
	"waterpermits/internal/modules/permits"
	"waterpermits/internal/repository"
	"waterpermits/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	coreDB, err := database.ConnectCore(cfg.CoreDatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	divisionRepo := repository.NewDivisionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	permitRepo := repository.NewPermitRepository(db)
	photoRepo := repository.NewPermitPhotoRepository(db)

	store := storage.NewStore(cfg.StorageDir, cfg.StorageURLBase)
	coreStore := coredb.NewStore(coreDB)

	codec := auth.NewTokenCodec(cfg.SessionSecret, cfg.SessionTTL)
	sessions := auth.NewSessionService(sessionRepo, userRepo, codec, cfg.SessionTTL)
	syncer := auth.NewIdentitySync(userRepo)
	cookies := auth.CookieFromConfig(cfg)

	permitService := permits.NewService(permitRepo, photoRepo, store)
	permitHandler := permits.NewHandler(permitService)
	dashboardHandler := dashboard.NewHandler(userRepo, divisionRepo, sessions, cookies)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	// attachment blobs are served statically, no auth
	r.Static(cfg.StorageURLBase, store.BaseDir())

	// the adoption gateway runs on every app route, before dispatch
	r.Use(middleware.ExternalSession(coreStore, syncer, sessions, cookies))

	root := r.Group("/")
	{
		dashboardHandler.RegisterPublicRoutes(root)

		protected := root.Group("/")
		protected.Use(middleware.RequireAuth())
		{
			dashboardHandler.RegisterRoutes(protected)
			permitHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
