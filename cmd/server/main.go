package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"inkwell/internal/config"     // Internal config loader
	"inkwell/internal/database"   // MySQL connection pool
	"inkwell/internal/handler"    // HTTP handlers
	"inkwell/internal/queue"      // article event consumer
	"inkwell/internal/repository" // data access layer
	"inkwell/internal/router"     // Internal router setup
	"inkwell/internal/storage"    // uploaded image store
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg) // Connect to MySQL
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // May be nil; caching and rate limiting degrade gracefully
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	articles := repository.NewArticleRepo(db)
	categories := repository.NewCategoryRepo(db)
	reviews := repository.NewReviewRepo(db)
	likes := repository.NewLikeRepo(db)

	images := storage.NewImageStore(cfg.UploadDir)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users),
		Users:      handler.NewUserHandler(cfg, users, articles, images),
		Articles:   handler.NewArticleHandler(articles, categories, users, images),
		Categories: handler.NewCategoryHandler(categories, users),
		Reviews:    handler.NewReviewHandler(reviews, articles, users),
		Likes:      handler.NewLikeHandler(likes, articles, users),
	}

	// Background consumer appends article lifecycle events to the audit log.
	go func() {
		if err := queue.StartArticleConsumer(); err != nil {
			log.Printf("article consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.Register(e, h, cfg, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
