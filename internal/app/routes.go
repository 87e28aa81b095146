package app

import (
	"github.com/keyxmakerx/itemhub/internal/plugins/auth"
	"github.com/keyxmakerx/itemhub/internal/plugins/items"
	"github.com/keyxmakerx/itemhub/internal/plugins/posts"
)

// RegisterRoutes sets up all application routes. It registers the health
// endpoints directly and delegates to each plugin's route registration
// function.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Health ---
	e.GET("/", a.health)
	e.GET("/health", a.health)

	// --- Plugin Routes ---

	// auth plugin (signup, login, logout, me). Its token issuer also
	// guards the other plugins' write routes.
	tokens := auth.NewTokenIssuer(a.Config.Auth.JWTSecret)
	authService := auth.NewAuthService(
		auth.NewUserRepository(a.DB),
		auth.NewBcryptHasher(auth.DefaultBcryptCost),
		tokens,
	)
	auth.RegisterRoutes(e, auth.NewHandler(authService, a.Config.IsProduction()), tokens)

	// items plugin (public CRUD)
	itemService := items.NewItemService(items.NewItemRepository(a.DB))
	items.RegisterRoutes(e, items.NewHandler(itemService))

	// posts plugin (feed is public, writes need a session)
	var feed posts.FeedCache
	if a.Redis != nil {
		feed = posts.NewFeedCache(a.Redis, a.Config.Posts.CacheTTL)
	}
	postService := posts.NewPostService(posts.NewPostRepository(a.DB), feed)
	posts.RegisterRoutes(e, posts.NewHandler(postService), tokens)
}
