package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/akulinich/gazzeta/internal/logger"
)

// Mutation kinds the write path reports to the invalidator
const (
	MutationPostChanged     = "post_changed"
	MutationCommentChanged  = "comment_changed"
	MutationCategoryChanged = "category_changed"
	MutationFavoriteToggled = "favorite_toggled"
	MutationUserChanged     = "user_changed"
)

// Cache keys for the aggregate reads. Read sites and the dependents table
// below must agree on these, so they are built in exactly one place.
func KeyTrendingPosts() string              { return Key("homepage", "trending") }
func KeyTopByCategory() string              { return Key("homepage", "top_by_category") }
func KeyAllCategories() string              { return Key("categories", "all") }
func KeyCategorySidebar() string            { return Key("categories", "sidebar") }
func KeyGlobalDashboard() string            { return Key("admin", "dashboard", "global") }
func KeyGlobalAnalytics() string            { return Key("admin", "analytics", "global") }
func KeyAdminDashboard(id uuid.UUID) string { return Key("admin", "dashboard", id.String()) }
func KeyAdminAnalytics(id uuid.UUID) string { return Key("admin", "analytics", id.String()) }

// Event describes a committed mutation. AuthorID is the id of the post author
// whose personal dashboards may now be stale; uuid.Nil when not applicable.
type Event struct {
	Kind     string
	AuthorID uuid.UUID
}

// KeysFor maps a mutation event to every cache key whose value may now be
// stale. Keeping the whole mapping in one table makes the dependency set
// reviewable instead of being scattered across mutation call sites.
func KeysFor(ev Event) []string {
	var keys []string

	switch ev.Kind {
	case MutationPostChanged:
		keys = []string{
			KeyTrendingPosts(),
			KeyTopByCategory(),
			KeyCategorySidebar(),
			KeyGlobalDashboard(),
			KeyGlobalAnalytics(),
		}
	case MutationCommentChanged:
		keys = []string{
			KeyGlobalDashboard(),
			KeyGlobalAnalytics(),
		}
	case MutationCategoryChanged:
		keys = []string{
			KeyAllCategories(),
			KeyCategorySidebar(),
			KeyTopByCategory(),
		}
	case MutationFavoriteToggled:
		keys = []string{
			KeyTrendingPosts(),
			KeyGlobalDashboard(),
		}
	case MutationUserChanged:
		keys = []string{
			KeyGlobalDashboard(),
			KeyGlobalAnalytics(),
		}
	}

	if ev.AuthorID != uuid.Nil {
		keys = append(keys, KeyAdminDashboard(ev.AuthorID), KeyAdminAnalytics(ev.AuthorID))
	}

	return keys
}

// Invalidator applies the dependents table after mutations commit
type Invalidator struct {
	cache  Cache
	logger logger.Logger
}

func NewInvalidator(c Cache, l logger.Logger) *Invalidator {
	return &Invalidator{cache: c, logger: l}
}

// Apply invalidates every key dependent on the event.
// Called only after the authoritative mutation committed. Cache failures are
// logged and swallowed, the mutation itself already succeeded.
func (i *Invalidator) Apply(ctx context.Context, ev Event) {
	keys := KeysFor(ev)
	if len(keys) == 0 {
		return
	}

	if err := i.cache.Invalidate(ctx, keys...); err != nil {
		i.logger.Warn("cache invalidation failed", "mutation", ev.Kind, "error", err.Error())
	}
}
