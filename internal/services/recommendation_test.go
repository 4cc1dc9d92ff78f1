package services

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/types"
)

func testRecommender(t *testing.T) RecommendationService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewRecommendationService(log)
}

func jsonSet(vals ...string) datatypes.JSON {
	out := []byte("[")
	for i, v := range vals {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '"')
		out = append(out, []byte(v)...)
		out = append(out, '"')
	}
	out = append(out, ']')
	return datatypes.JSON(out)
}

func testCourse(title string, topics datatypes.JSON, prereqs datatypes.JSON, difficulty string, hours float64) *types.Course {
	return &types.Course{
		ID:             uuid.New(),
		Title:          title,
		Topics:         topics,
		Prerequisites:  prereqs,
		Difficulty:     difficulty,
		EstimatedHours: hours,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreCoursesDeterministic(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		PreferredTopics:      []string{"pharmacology", "cardiology"},
		AvailableTimeMinutes: 60,
		CurrentLevel:         2,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	candidates := []*types.Course{
		testCourse("A", jsonSet("pharmacology"), jsonSet(), "beginner", 1),
		testCourse("B", jsonSet("surgery"), jsonSet(), "advanced", 3),
		testCourse("C", jsonSet("cardiology", "pharmacology"), jsonSet(), "intermediate", 2),
	}

	first := rs.ScoreCourses(profile, candidates)
	second := rs.ScoreCourses(profile, candidates)

	if len(first) != len(second) {
		t.Fatalf("result length: want=%d got=%d", len(first), len(second))
	}
	for i := range first {
		if first[i].Course.ID != second[i].Course.ID {
			t.Fatalf("ordering differs at %d: want=%s got=%s", i, first[i].Course.ID, second[i].Course.ID)
		}
		if !almostEqual(first[i].Score, second[i].Score) {
			t.Fatalf("score differs at %d: want=%v got=%v", i, first[i].Score, second[i].Score)
		}
	}
}

func TestScoreCoursesStableTieOrder(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		AvailableTimeMinutes: 60,
		CurrentLevel:         1,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	// Identical scoring inputs, so scores tie and catalog order must hold.
	first := testCourse("first", jsonSet("obstetrics"), jsonSet(), "beginner", 1)
	second := testCourse("second", jsonSet("obstetrics"), jsonSet(), "beginner", 1)

	scored := rs.ScoreCourses(profile, []*types.Course{first, second})
	if len(scored) != 2 {
		t.Fatalf("scored count: want=2 got=%d", len(scored))
	}
	if !almostEqual(scored[0].Score, scored[1].Score) {
		t.Fatalf("expected tied scores, got %v and %v", scored[0].Score, scored[1].Score)
	}
	if scored[0].Course.ID != first.ID {
		t.Fatalf("tie broke catalog order: want=%s first, got=%s", first.ID, scored[0].Course.ID)
	}
}

func TestScoreCoursesUnparsableTopicsScoreZero(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		PreferredTopics:      []string{"pharmacology"},
		AvailableTimeMinutes: 60,
		CurrentLevel:         2,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	bad := testCourse("bad", datatypes.JSON([]byte("not-json")), jsonSet(), "beginner", 1)

	scored := rs.ScoreCourses(profile, []*types.Course{bad})
	if len(scored) != 1 {
		t.Fatalf("course should be retained, got %d results", len(scored))
	}
	if scored[0].Score != 0 {
		t.Fatalf("score: want=0 got=%v", scored[0].Score)
	}
	zero := MatchDetails{}
	if scored[0].MatchDetails != zero {
		t.Fatalf("match details: want all zero, got=%+v", scored[0].MatchDetails)
	}
}

func TestScoreCoursesExcludesZeroHourCourses(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		AvailableTimeMinutes: 60,
		CurrentLevel:         1,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	malformed := testCourse("malformed", jsonSet("pediatrics"), jsonSet(), "beginner", 0)
	ok := testCourse("ok", jsonSet("pediatrics"), jsonSet(), "beginner", 1)

	scored := rs.ScoreCourses(profile, []*types.Course{malformed, ok})
	if len(scored) != 1 {
		t.Fatalf("scored count: want=1 got=%d", len(scored))
	}
	if scored[0].Course.ID != ok.ID {
		t.Fatalf("wrong course survived: got=%s", scored[0].Course.ID)
	}
}

func TestScoreCoursesTopFiveBound(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		AvailableTimeMinutes: 60,
		CurrentLevel:         1,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	var candidates []*types.Course
	for i := 0; i < 8; i++ {
		candidates = append(candidates, testCourse("c", jsonSet("fundamentals"), jsonSet(), "beginner", float64(i+1)))
	}

	scored := rs.ScoreCourses(profile, candidates)
	if len(scored) != 5 {
		t.Fatalf("selection size: want=5 got=%d", len(scored))
	}
}

func TestScoreCoursesOrderMonotonic(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		PreferredTopics:      []string{"pharmacology"},
		AvailableTimeMinutes: 60,
		CurrentLevel:         3,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	candidates := []*types.Course{
		testCourse("A", jsonSet("surgery"), jsonSet(), "advanced", 6),
		testCourse("B", jsonSet("pharmacology"), jsonSet(), "intermediate", 1),
		testCourse("C", jsonSet(), jsonSet(), "beginner", 2),
		testCourse("D", jsonSet("pharmacology", "cardiology"), jsonSet(), "beginner", 1),
	}

	scored := rs.ScoreCourses(profile, candidates)
	for i := 1; i < len(scored); i++ {
		if scored[i-1].Score < scored[i].Score {
			t.Fatalf("scores not descending at %d: %v < %v", i, scored[i-1].Score, scored[i].Score)
		}
	}
}

// Mirrors the reference scenario: a pharmacology beginner course that builds
// on a completed prerequisite must outrank an unrelated long advanced one.
func TestScoreCoursesPrerequisiteScenario(t *testing.T) {
	rs := testRecommender(t)
	completedID := uuid.New()
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		PreferredTopics:      []string{"pharmacology"},
		AvailableTimeMinutes: 60,
		CurrentLevel:         2,
		CompletedCourseIDs:   map[uuid.UUID]bool{completedID: true},
	}
	pharm := testCourse("pharm", jsonSet("pharmacology"), jsonSet(completedID.String()), "beginner", 1)
	surgery := testCourse("surgery", jsonSet("surgery"), jsonSet(), "advanced", 5)

	scored := rs.ScoreCourses(profile, []*types.Course{surgery, pharm})
	if len(scored) != 2 {
		t.Fatalf("scored count: want=2 got=%d", len(scored))
	}
	if scored[0].Course.ID != pharm.ID {
		t.Fatalf("ranking: want pharm first, got=%s", scored[0].Course.Title)
	}

	// Exact totals pin the weighting arithmetic, including the intentional
	// double topic multiplication.
	if !almostEqual(scored[0].Score, 72.25) {
		t.Fatalf("pharm score: want=72.25 got=%v", scored[0].Score)
	}
	if !almostEqual(scored[1].Score, 18.75) {
		t.Fatalf("surgery score: want=18.75 got=%v", scored[1].Score)
	}
	if scored[0].MatchDetails.Progressive != 10 {
		t.Fatalf("progressive detail: want=10 got=%v", scored[0].MatchDetails.Progressive)
	}
}

func TestScoreCoursesNewLearnerNeutralPace(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		AvailableTimeMinutes: 60,
		CurrentLevel:         1,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	course := testCourse("intro", jsonSet(), jsonSet(), "beginner", 1)

	scored := rs.ScoreCourses(profile, []*types.Course{course})
	if len(scored) != 1 {
		t.Fatalf("scored count: want=1 got=%d", len(scored))
	}
	if scored[0].MatchDetails.LearningPace != 5 {
		t.Fatalf("learning pace detail: want=5 got=%v", scored[0].MatchDetails.LearningPace)
	}
}

func TestScoreCoursesMatchDetailsClampedForDisplay(t *testing.T) {
	rs := testRecommender(t)
	profile := &LearnerProfile{
		UserID:               uuid.New(),
		PreferredTopics:      []string{"a", "b", "c", "d", "e", "f"},
		AvailableTimeMinutes: 60,
		CurrentLevel:         1,
		CompletedCourseIDs:   map[uuid.UUID]bool{},
	}
	// Six overlapping topics: raw topic component is 12, display caps at 10.
	course := testCourse("broad", jsonSet("a", "b", "c", "d", "e", "f"), jsonSet(), "beginner", 1)

	scored := rs.ScoreCourses(profile, []*types.Course{course})
	if scored[0].MatchDetails.TopicMatch != 10 {
		t.Fatalf("topic display: want=10 got=%v", scored[0].MatchDetails.TopicMatch)
	}
	// The total keeps the raw 12: 12*2 + 10*1.5 + 8.5*2.5 + 5 + 0.
	want := 12*2.0 + 10*1.5 + 8.5*2.5 + 5
	if !almostEqual(scored[0].Score, want) {
		t.Fatalf("total score: want=%v got=%v", want, scored[0].Score)
	}
}

func TestNewLearnerProfileDefaults(t *testing.T) {
	user := &types.User{ID: uuid.New()}
	profile := NewLearnerProfile(user, nil)
	if profile.LearningStyle != "visual" {
		t.Fatalf("learning style default: want=visual got=%q", profile.LearningStyle)
	}
	if profile.AvailableTimeMinutes != 60 {
		t.Fatalf("available time default: want=60 got=%d", profile.AvailableTimeMinutes)
	}
	if profile.CurrentLevel != 1 {
		t.Fatalf("level default: want=1 got=%d", profile.CurrentLevel)
	}
	if profile.CompletedCourseIDs == nil {
		t.Fatalf("completed set should be non-nil")
	}
}
