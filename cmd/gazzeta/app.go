package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akulinich/gazzeta/internal/cache"
	"github.com/akulinich/gazzeta/internal/db"
	"github.com/akulinich/gazzeta/internal/handlers"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/ratelimit"
	"github.com/akulinich/gazzeta/internal/repository/postgres"
	"github.com/akulinich/gazzeta/internal/service/admin"
	"github.com/akulinich/gazzeta/internal/service/auth"
	"github.com/akulinich/gazzeta/internal/service/blogger"
	"github.com/akulinich/gazzeta/internal/service/category"
	"github.com/akulinich/gazzeta/internal/service/comment"
	"github.com/akulinich/gazzeta/internal/service/favorite"
	"github.com/akulinich/gazzeta/internal/service/feed"
	"github.com/akulinich/gazzeta/internal/service/notification"
	"github.com/akulinich/gazzeta/internal/service/post"
	"github.com/akulinich/gazzeta/internal/service/report"
	"github.com/akulinich/gazzeta/internal/service/user"
)

// Limiter classes. Windows and limits match what the frontend is allowed to
// generate organically; anything above is abuse or a bug
const (
	globalIPLimit  = 1000
	globalIPWindow = 15 * time.Minute

	commentsLimit  = 10
	commentsWindow = time.Minute

	searchLimit  = 30
	searchWindow = time.Minute

	listingsLimit  = 60
	listingsWindow = time.Minute
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Redis backs both the cache and the rate limiters
	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Degraded but not fatal: cache reads fall through to postgres and
		// limiters fail open
		log.Warn("redis unreachable at startup, running degraded", "error", err.Error())
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Cache facade and the invalidation table
	redisCache := cache.NewRedis(rdb)
	invalidator := cache.NewInvalidator(redisCache, log)

	// Initialize services
	tokenManager, err := auth.NewTokenManager(auth.TokenConfig{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService := auth.NewAuthService(storage.User(), tokenManager, nil)
	resolver := auth.NewResolver(tokenManager, storage.User())
	cookies := auth.CookieWriter{Secure: c.Environment == logger.EnvProduction}

	postService := post.New(storage.Post(), invalidator)
	commentService := comment.New(storage, invalidator)
	categoryService := category.New(storage.Category(), storage.Tag(), redisCache, invalidator, log)
	favoriteService := favorite.New(storage.Favorite(), storage.Post(), invalidator)
	reportService := report.New(storage.Report())
	notificationService := notification.New(storage.Notification())
	adminService := admin.New(storage, redisCache, invalidator, log)
	feedService := feed.New(storage.Post(), redisCache, log)
	userService := user.New(storage.User(), invalidator)
	bloggerService := blogger.New(storage.User(), storage.Post())

	// Rate limiter classes
	limiters, err := newLimiters(rdb)
	if err != nil {
		return nil, err
	}

	mux := handlers.NewRouter(handlers.RouterConfig{
		AuthService:         authService,
		PostService:         postService,
		CommentService:      commentService,
		CategoryService:     categoryService,
		FavoriteService:     favoriteService,
		ReportService:       reportService,
		NotificationService: notificationService,
		AdminService:        adminService,
		FeedService:         feedService,
		SearchService:       postService,
		UserService:         userService,
		BloggerService:      bloggerService,

		Resolver:       resolver,
		Cookies:        cookies,
		Limiters:       limiters,
		AllowedOrigins: c.Origins(),
		Logger:         log,
	})

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

func newLimiters(rdb *redis.Client) (handlers.Limiters, error) {
	var limiters handlers.Limiters
	var err error

	if limiters.GlobalIP, err = ratelimit.New(rdb, "global", globalIPLimit, globalIPWindow); err != nil {
		return limiters, err
	}
	if limiters.Comments, err = ratelimit.New(rdb, "comments", commentsLimit, commentsWindow); err != nil {
		return limiters, err
	}
	if limiters.Search, err = ratelimit.New(rdb, "search", searchLimit, searchWindow); err != nil {
		return limiters, err
	}
	if limiters.Listings, err = ratelimit.New(rdb, "listings", listingsLimit, listingsWindow); err != nil {
		return limiters, err
	}

	return limiters, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
