package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/cache"
	"github.com/openlms/lms-service/internal/models"
)

func newTestCacheManager(t *testing.T) *cache.CacheManager {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCacheManager(client)
}

func testCourseRow() *models.Course {
	categoryID := uuid.New()
	return &models.Course{
		ID:           uuid.New(),
		Title:        "Compilers",
		InstructorID: uuid.New(),
		CategoryID:   &categoryID,
		Instructor: models.User{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      models.RoleInstructor,
		},
		Category:        &models.Category{ID: categoryID, Name: "Engineering"},
		EnrollmentCount: 7,
	}
}

// The course model hides its relations from JSON output, so the cached form
// must carry them separately or instructor_name and category_name go blank
// on cached reads.
func TestCourseCacheEntryKeepsRelations(t *testing.T) {
	cm := newTestCacheManager(t)
	ctx := context.Background()
	row := testCourseRow()
	key := "id:" + row.ID.String()

	// Cache miss: the entry built from the fetch must survive the
	// marshal into the caller's destination.
	var entry courseCacheEntry
	err := cm.Course.CacheOrExecute(ctx, key, &entry, time.Minute, func() (interface{}, error) {
		return newCourseCacheEntry(row), nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute: %v", err)
	}
	assertCourseIntact(t, entry.course())

	// Cache hit: seed the key synchronously, then the fetch must not run
	// and the cached entry must still carry the relations.
	hitKey := "id:" + uuid.NewString()
	if err := cm.Course.Set(ctx, hitKey, newCourseCacheEntry(row), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var cached courseCacheEntry
	err = cm.Course.CacheOrExecute(ctx, hitKey, &cached, time.Minute, func() (interface{}, error) {
		t.Fatal("fetch ran despite cached entry")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute: %v", err)
	}
	assertCourseIntact(t, cached.course())
}

func assertCourseIntact(t *testing.T, course *models.Course) {
	t.Helper()

	if got := course.Instructor.FullName(); got != "Ada Lovelace" {
		t.Errorf("Instructor.FullName() = %q, want %q", got, "Ada Lovelace")
	}
	if course.Category == nil {
		t.Fatal("Category dropped")
	}
	if course.Category.Name != "Engineering" {
		t.Errorf("Category.Name = %q, want %q", course.Category.Name, "Engineering")
	}
	if course.EnrollmentCount != 7 {
		t.Errorf("EnrollmentCount = %d, want 7", course.EnrollmentCount)
	}
}

// A read inside a transaction must go to the transaction, never the cache.
// The bare tx cannot serve queries, so reaching it proves the cached row
// was skipped.
func TestCategoryGetByIDSkipsCacheInTransaction(t *testing.T) {
	cm := newTestCacheManager(t)
	ctx := context.Background()
	repo := &CategoryPostgreSQL{db: nil, cacheManager: cm}

	id := uuid.New()
	stale := &models.Category{ID: id, Name: "stale"}
	if err := cm.Category.Set(ctx, "id:"+id.String(), stale, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("transactional read was served from the cache")
		}
	}()
	_, _ = repo.GetByID(ctx, &gorm.DB{}, id)
}
