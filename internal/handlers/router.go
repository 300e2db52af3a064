package handlers

import (
	"net/http"

	"github.com/akulinich/gazzeta/internal/handlers/middleware"
	"github.com/akulinich/gazzeta/internal/logger"
	"github.com/akulinich/gazzeta/internal/models"
	"github.com/akulinich/gazzeta/internal/ratelimit"
	"github.com/akulinich/gazzeta/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// Limiters groups the per-route limiter classes. Routes of one class share
// windows per identifier, routes of different classes never do
type Limiters struct {
	GlobalIP *ratelimit.Limiter // every request, keyed by client IP
	Comments *ratelimit.Limiter // comment writes, keyed by user
	Search   *ratelimit.Limiter // search queries, keyed by client IP
	Listings *ratelimit.Limiter // post listings, keyed by user or IP
}

type RouterConfig struct {
	AuthService         authService
	PostService         postService
	CommentService      commentService
	CategoryService     categoryService
	FavoriteService     favoriteService
	ReportService       reportService
	NotificationService notificationService
	AdminService        adminService
	FeedService         feedService
	SearchService       searchService
	UserService         userService
	BloggerService      bloggerService

	Resolver       *auth.Resolver
	Cookies        auth.CookieWriter
	Limiters       Limiters
	AllowedOrigins []string
	Logger         logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	l := cfg.Logger

	anyUser := middleware.RequireRoles()
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	holderOnly := middleware.RequireRoles(models.RoleHolder)
	moderators := middleware.RequireRoles(models.RoleAdmin, models.RoleHolder)

	limitComments := middleware.RateLimitByUser(cfg.Limiters.Comments, l)
	limitSearch := middleware.RateLimitByIP(cfg.Limiters.Search, l)
	limitListings := middleware.RateLimitByUser(cfg.Limiters.Listings, l)

	mux := http.NewServeMux()

	// Auth
	mux.Handle("POST /api/auth/register", handleRegister(cfg.AuthService, cfg.Cookies, l))
	mux.Handle("POST /api/auth/login", handleLogin(cfg.AuthService, cfg.Cookies, l))
	mux.Handle("POST /api/auth/refresh", handleTokenRefresh(cfg.AuthService, cfg.Cookies, l))
	mux.Handle("POST /api/auth/logout", handleLogout(cfg.AuthService, cfg.Cookies, l))
	mux.Handle("POST /api/auth/register-admin", chain(handleRegisterAdmin(cfg.AuthService, l), holderOnly))

	// Profile
	mux.Handle("GET /api/users/me", chain(handleUserMe(), anyUser))
	mux.Handle("PUT /api/users/me", chain(handleUpdateProfile(cfg.UserService, l), anyUser))
	mux.Handle("GET /api/users/me/posts", chain(handleMyPosts(cfg.PostService, l), adminOnly))

	// Posts
	mux.Handle("GET /api/posts", chain(handleListPosts(cfg.PostService, l), limitListings))
	mux.Handle("GET /api/posts/videos", handleListVideoPosts(cfg.PostService, l))
	mux.Handle("GET /api/posts/{slug}", handleGetPost(cfg.PostService, l))
	mux.Handle("GET /api/posts/{slug}/related", handleRelatedPosts(cfg.PostService, l))
	mux.Handle("GET /api/posts/{slug}/navigation", handlePostNavigation(cfg.PostService, l))
	mux.Handle("POST /api/posts", chain(handleCreatePost(cfg.PostService, l), adminOnly))
	mux.Handle("PUT /api/posts/{slug}", chain(handleUpdatePost(cfg.PostService, l), adminOnly))
	mux.Handle("DELETE /api/posts/{slug}", chain(handleDeletePost(cfg.PostService, l), adminOnly))

	// Comments
	mux.Handle("GET /api/comments/{postID}", handleListComments(cfg.CommentService, l))
	mux.Handle("POST /api/comments/{postID}", chain(handleCreateComment(cfg.CommentService, l), anyUser, limitComments))
	mux.Handle("PUT /api/comments/{id}", chain(handleUpdateComment(cfg.CommentService, l), anyUser))
	mux.Handle("DELETE /api/comments/{id}", chain(handleDeleteComment(cfg.CommentService, l), anyUser))

	// Categories and tags
	mux.Handle("GET /api/categories", handleListCategories(cfg.CategoryService, l))
	mux.Handle("GET /api/categories/sidebar", handleCategorySidebar(cfg.CategoryService, l))
	mux.Handle("GET /api/tags", chain(handleListTags(cfg.CategoryService, l), limitListings))
	mux.Handle("POST /api/categories", chain(handleCreateCategory(cfg.CategoryService, l), adminOnly))
	mux.Handle("PUT /api/categories/{id}", chain(handleUpdateCategory(cfg.CategoryService, l), adminOnly))
	mux.Handle("DELETE /api/categories/{id}", chain(handleDeleteCategory(cfg.CategoryService, l), adminOnly))

	// Favorites
	mux.Handle("POST /api/favorites/{postID}", chain(handleToggleFavorite(cfg.FavoriteService, l), anyUser))
	mux.Handle("GET /api/favorites", chain(handleListFavorites(cfg.FavoriteService, l), anyUser))

	// Reports
	mux.Handle("POST /api/reports/posts/{postID}", chain(handleReportPost(cfg.ReportService, l), anyUser))
	mux.Handle("POST /api/reports/comments/{commentID}", chain(handleReportComment(cfg.ReportService, l), anyUser))

	// Notifications
	mux.Handle("GET /api/notifications", chain(handleListNotifications(cfg.NotificationService, l), anyUser))
	mux.Handle("GET /api/notifications/unread-count", chain(handleUnreadCount(cfg.NotificationService, l), anyUser))
	mux.Handle("PUT /api/notifications/{id}/read", chain(handleMarkNotificationRead(cfg.NotificationService, l), anyUser))
	mux.Handle("DELETE /api/notifications", chain(handleClearNotifications(cfg.NotificationService, l), anyUser))

	// Admin panel
	mux.Handle("GET /api/admin/dashboard", chain(handleAdminDashboard(cfg.AdminService, l), moderators))
	mux.Handle("GET /api/admin/analytics", chain(handleAdminAnalytics(cfg.AdminService, l), moderators))
	mux.Handle("GET /api/admin/reported/posts", chain(handleReportedPosts(cfg.AdminService, l), moderators))
	mux.Handle("GET /api/admin/reported/comments", chain(handleReportedComments(cfg.AdminService, l), moderators))
	mux.Handle("DELETE /api/admin/posts/{id}", chain(handleAdminDeletePost(cfg.AdminService, l), moderators))
	mux.Handle("DELETE /api/admin/comments/{id}", chain(handleAdminDeleteComment(cfg.AdminService, l), moderators))

	// Public blogger profiles
	mux.Handle("GET /api/bloggers/{id}", chain(handleBloggerProfile(cfg.BloggerService, l), limitListings))

	// Homepage and search
	mux.Handle("GET /api/homepage/trending", handleTrending(cfg.FeedService, l))
	mux.Handle("GET /api/homepage/top-by-category", handleTopByCategory(cfg.FeedService, l))
	mux.Handle("GET /api/search", chain(handleSearch(cfg.SearchService, l), limitSearch))

	// Outer pipeline. Order matters: CORS answers preflights before anything
	// counts against limits, the global limiter sheds abusive IPs before any
	// session or db work, and session resolution runs before the per-route
	// middlewares that read the user from the context
	return chain(mux,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimitByIP(cfg.Limiters.GlobalIP, l),
		middleware.LoggerMiddleware(l),
		middleware.Session(cfg.Resolver),
	)
}
