package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"inkwell/internal/config"     // configuration for middleware and uploads
	"inkwell/internal/handler"    // import the handlers that implement business logic
	"inkwell/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Articles   *handler.ArticleHandler
	Categories *handler.CategoryHandler
	Reviews    *handler.ReviewHandler
	Likes      *handler.LikeHandler
}

// Register wires all application routes onto the provided Echo instance.
// Read endpoints for articles, categories, reviews and likes are public;
// every mutating endpoint runs behind the JWT gate. Public reads go
// through the Redis response cache and mutations through the rate
// limiter; both degrade to pass-throughs when Redis is unavailable.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	// Health check endpoint for load balancers and monitoring systems.
	e.GET("/healthz", handler.Health)

	// Uploaded images are served straight from the upload directory.
	e.Static("/uploads", cfg.UploadDir)

	// Middleware shared by the groups below.  The cache only ever caches
	// the methods named in its config (GET by default), so attaching it
	// to a whole group is safe.
	auth := middleware.JWTAuth(cfg.JWTSecret)
	admin := middleware.RequireAdmin()
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Mutations drop the affected cache groups. Article reads embed
	// category names, reviews and likes (with usernames), so mutations on
	// any of those invalidate the article group too.
	invArticle := middleware.NewCacheInvalidator(cacheCfg, rdb, "article")
	invCategory := middleware.NewCacheInvalidator(cacheCfg, rdb, "category", "article")
	invReview := middleware.NewCacheInvalidator(cacheCfg, rdb, "reviews", "article")
	invLike := middleware.NewCacheInvalidator(cacheCfg, rdb, "likes", "article")
	invUser := middleware.NewCacheInvalidator(cacheCfg, rdb, "article")

	// Registration and login issue tokens and are necessarily public.
	e.POST("/register", h.Auth.Register, limit)
	e.POST("/login", h.Auth.Login, limit)

	// Articles.  The /article/search route must be registered alongside
	// /article/:id; Echo prefers the static segment over the parameter.
	ar := e.Group("/article")
	ar.GET("", h.Articles.GetAll, cache)
	ar.GET("/search", h.Articles.Search, cache)
	ar.GET("/:id", h.Articles.Get, cache)
	ar.POST("", h.Articles.Create, auth, limit, invArticle)
	ar.PUT("/:id", h.Articles.Update, auth, limit, invArticle)
	ar.DELETE("/:id", h.Articles.Delete, auth, limit, invArticle)

	// Categories.  Creation is open to any authenticated user; update and
	// delete check for the admin role against the database inside the
	// handler, since categories have no owner.
	ca := e.Group("/category")
	ca.GET("", h.Categories.GetAll, cache)
	ca.GET("/:id", h.Categories.Get, cache)
	ca.POST("", h.Categories.Create, auth, limit, invCategory)
	ca.PUT("/:id", h.Categories.Update, auth, limit, invCategory)
	ca.DELETE("/:id", h.Categories.Delete, auth, limit, invCategory)

	// Reviews.
	rv := e.Group("/reviews")
	rv.GET("", h.Reviews.GetAll, cache)
	rv.GET("/:id", h.Reviews.Get, cache)
	rv.POST("", h.Reviews.Create, auth, limit, invReview)
	rv.PUT("/:id", h.Reviews.Update, auth, limit, invReview)
	rv.DELETE("/:id", h.Reviews.Delete, auth, limit, invReview)

	// Likes.
	li := e.Group("/likes")
	li.GET("", h.Likes.GetAll, cache)
	li.POST("", h.Likes.Create, auth, limit, invLike)
	li.DELETE("/:id", h.Likes.Delete, auth, limit, invLike)

	// Users.  The listing endpoints are admin-only; /user/profile/:userId
	// is available to any authenticated user.  Static segments again take
	// precedence over the /user/:userId parameter route.
	us := e.Group("/user")
	us.PUT("/update", h.Users.Update, auth, limit, invUser)
	us.PUT("/update/:id", h.Users.Update, auth, limit, invUser)
	us.DELETE("/delete/:id", h.Users.Delete, auth, limit, invUser)
	us.GET("/all", h.Users.GetAll, auth, admin)
	us.GET("/profile/:userId", h.Users.Profile, auth)
	us.GET("/:userId", h.Users.Get, auth, admin)
}
