package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCacheManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCacheManager(client), mr
}

func TestInvalidateCourseCache(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()
	courseID := uuid.New()
	key := fmt.Sprintf("id:%s", courseID)

	if err := cm.Course.Set(ctx, key, "cached", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists(CourseCacheConfig.Prefix + key) {
		t.Fatal("course key not stored")
	}

	InvalidateCourseCache(ctx, cm, courseID)

	if mr.Exists(CourseCacheConfig.Prefix + key) {
		t.Error("course key survived invalidation")
	}
}

func TestInvalidateCategoryCacheFlushesDependents(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()
	categoryID := uuid.New()

	seed := map[string]*CacheHelper{
		CategoryCacheConfig.Prefix + fmt.Sprintf("id:%s", categoryID): cm.Category,
		CategoryCacheConfig.Prefix + "all":                            cm.Category,
		CourseCacheConfig.Prefix + "id:" + uuid.NewString():           cm.Course,
		CourseCacheConfig.Prefix + "id:" + uuid.NewString():           cm.Course,
	}
	for fullKey, helper := range seed {
		key := fullKey[len(helper.GetCacheKey("")):]
		if err := helper.Set(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("Set %s: %v", fullKey, err)
		}
	}

	InvalidateCategoryCache(ctx, cm, categoryID)

	// The category row, the category list, and every cached course row
	// (which embeds the category) must all be gone.
	for fullKey := range seed {
		if mr.Exists(fullKey) {
			t.Errorf("key %s survived invalidation", fullKey)
		}
	}
}

func TestInvalidateCategoryList(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()

	if err := cm.Category.Set(ctx, "all", "cached", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	InvalidateCategoryList(ctx, cm)

	if mr.Exists(CategoryCacheConfig.Prefix + "all") {
		t.Error("category list key survived invalidation")
	}
}
