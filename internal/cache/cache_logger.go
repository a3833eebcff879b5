package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SafeInvalidatePattern safely invalidates a cache pattern with logging.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache drops the cached course row after a mutation.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uuid.UUID) {
	SafeDelete(ctx, cm.Course, fmt.Sprintf("id:%s", courseID))
}

// InvalidateCategoryCache drops the cached category row and the cached
// full list after a mutation. Cached course rows embed the category, so
// they are flushed as well.
func InvalidateCategoryCache(ctx context.Context, cm *CacheManager, categoryID uuid.UUID) {
	SafeDelete(ctx, cm.Category, fmt.Sprintf("id:%s", categoryID), "all")
	SafeInvalidatePattern(ctx, cm.Course, "*")
}

// InvalidateCategoryList drops only the cached category list. Course
// mutations call this because the list carries per-category course counts.
func InvalidateCategoryList(ctx context.Context, cm *CacheManager) {
	SafeDelete(ctx, cm.Category, "all")
}
