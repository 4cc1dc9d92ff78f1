package services

import (
	"context"
	"testing"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/types"
)

type fakeCatalogCache struct {
	courses []*types.Course
	hits    int
	sets    int
	drops   int
}

func (f *fakeCatalogCache) GetCourses(ctx context.Context) ([]*types.Course, bool) {
	if f.courses == nil {
		return nil, false
	}
	f.hits++
	return f.courses, true
}

func (f *fakeCatalogCache) SetCourses(ctx context.Context, courses []*types.Course) {
	f.sets++
	f.courses = courses
}

func (f *fakeCatalogCache) Invalidate(ctx context.Context) {
	f.drops++
	f.courses = nil
}

func (f *fakeCatalogCache) Close() error { return nil }

func newCourseTestService(t *testing.T, cache *fakeCatalogCache) CourseService {
	t.Helper()
	db := newTestDB(t)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	if cache == nil {
		return NewCourseService(db, log, repos.NewCourseRepo(db, log), nil)
	}
	return NewCourseService(db, log, repos.NewCourseRepo(db, log), cache)
}

func TestCreateCourseRejectsUnknownDifficulty(t *testing.T) {
	svc := newCourseTestService(t, nil)

	_, err := svc.CreateCourse(context.Background(), nil, CreateCourseInput{
		Title:          "Bad",
		Difficulty:     "expert",
		EstimatedHours: 1,
	})
	if err == nil {
		t.Fatalf("expected unknown difficulty rejection")
	}
}

func TestCreateCourseDefaultsToBeginner(t *testing.T) {
	svc := newCourseTestService(t, nil)

	course, err := svc.CreateCourse(context.Background(), nil, CreateCourseInput{
		Title:          "Intro",
		EstimatedHours: 1,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if course.Difficulty != "beginner" {
		t.Fatalf("difficulty: want=beginner got=%s", course.Difficulty)
	}
}

func TestListCoursesReadThroughCache(t *testing.T) {
	cache := &fakeCatalogCache{}
	svc := newCourseTestService(t, cache)
	ctx := context.Background()

	if _, err := svc.CreateCourse(ctx, nil, CreateCourseInput{Title: "A", EstimatedHours: 1}); err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if cache.drops != 1 {
		t.Fatalf("create should invalidate: drops=%d", cache.drops)
	}

	// Miss then fill.
	first, err := svc.ListCourses(ctx, nil)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(first) != 1 || cache.sets != 1 {
		t.Fatalf("fill: courses=%d sets=%d", len(first), cache.sets)
	}

	// Second read is served from cache.
	second, err := svc.ListCourses(ctx, nil)
	if err != nil {
		t.Fatalf("ListCourses (cached): %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("cache hits: want=1 got=%d", cache.hits)
	}
	if len(second) != 1 {
		t.Fatalf("cached courses: want=1 got=%d", len(second))
	}
}

func TestListCoursesInsideTransactionSkipsCache(t *testing.T) {
	cache := &fakeCatalogCache{courses: []*types.Course{}}
	db := newTestDB(t)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	svc := NewCourseService(db, log, repos.NewCourseRepo(db, log), cache)
	ctx := context.Background()

	if _, err := svc.CreateCourse(ctx, nil, CreateCourseInput{Title: "A", EstimatedHours: 1}); err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	// A transactional read must see the database, not a possibly stale cache.
	courses, err := svc.ListCourses(ctx, db)
	if err != nil {
		t.Fatalf("ListCourses(tx): %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("tx read: want=1 got=%d", len(courses))
	}
	if cache.hits != 0 || cache.sets != 0 {
		t.Fatalf("cache touched inside tx: hits=%d sets=%d", cache.hits, cache.sets)
	}
}
