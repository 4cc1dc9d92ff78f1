package services

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/types"
)

// maxRecommendedCourses is the fixed size of a generated path.
const maxRecommendedCourses = 5

const defaultLearningStyle = "visual"
const defaultAvailableTimeMinutes = 60

// LearnerProfile is the slice of a user's stored attributes the scorer
// reads. Callers build it with NewLearnerProfile so defaults are applied in
// one place.
type LearnerProfile struct {
	UserID               uuid.UUID
	LearningStyle        string
	PreferredTopics      []string
	AvailableTimeMinutes int
	CurrentLevel         int
	CompletedCourseIDs   map[uuid.UUID]bool
}

func NewLearnerProfile(user *types.User, completedCourseIDs map[uuid.UUID]bool) *LearnerProfile {
	if user == nil {
		return nil
	}
	profile := &LearnerProfile{
		UserID:               user.ID,
		LearningStyle:        user.LearningStyle,
		AvailableTimeMinutes: user.AvailableTimeMinutes,
		CurrentLevel:         user.CurrentLevel,
		CompletedCourseIDs:   completedCourseIDs,
	}
	if profile.LearningStyle == "" {
		profile.LearningStyle = defaultLearningStyle
	}
	if profile.AvailableTimeMinutes <= 0 {
		profile.AvailableTimeMinutes = defaultAvailableTimeMinutes
	}
	if profile.CurrentLevel <= 0 {
		profile.CurrentLevel = 1
	}
	if profile.CompletedCourseIDs == nil {
		profile.CompletedCourseIDs = map[uuid.UUID]bool{}
	}
	// Preferred topics are stored as a jsonb array; unparsable data means no
	// topic preference rather than a failed request.
	topics, err := decodeStringSet(user.PreferredTopics)
	if err == nil {
		profile.PreferredTopics = topics
	}
	return profile
}

// MatchDetails carries the per-component sub-scores on a 0-10 display scale.
// They exist for explainability only; ranking uses the raw signed values.
type MatchDetails struct {
	TopicMatch      float64 `json:"topic_match"`
	TimeMatch       float64 `json:"time_match"`
	DifficultyMatch float64 `json:"difficulty_match"`
	LearningPace    float64 `json:"learning_pace"`
	Progressive     float64 `json:"progressive"`
}

type ScoredCourse struct {
	*types.Course
	Score                   float64      `json:"score"`
	MatchDetails            MatchDetails `json:"match_details"`
	DifficultyLevel         string       `json:"difficulty_level"`
	EstimatedTimeToComplete int          `json:"estimated_time_to_complete"`
}

// RecommendationService ranks candidate courses for a learner. It is a pure
// computation: no stored state, deterministic for identical inputs, safe to
// call concurrently.
type RecommendationService interface {
	ScoreCourses(profile *LearnerProfile, candidates []*types.Course) []ScoredCourse
}

type recommendationService struct {
	log *logger.Logger
}

func NewRecommendationService(baseLog *logger.Logger) RecommendationService {
	serviceLog := baseLog.With("service", "RecommendationService")
	return &recommendationService{log: serviceLog}
}

// ScoreCourses scores every candidate, ranks descending, and keeps the top
// maxRecommendedCourses. Candidates must already exclude courses the learner
// completed; that filter belongs to the caller, which has the enrollment
// rows in hand. Courses with a non-positive estimated_hours are malformed
// catalog rows and are dropped before scoring.
func (rs *recommendationService) ScoreCourses(profile *LearnerProfile, candidates []*types.Course) []ScoredCourse {
	scored := make([]ScoredCourse, 0, len(candidates))
	for _, course := range candidates {
		if course == nil || course.EstimatedHours <= 0 {
			continue
		}
		scored = append(scored, rs.scoreCourse(profile, course))
	}

	// Stable: equal scores keep catalog order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxRecommendedCourses {
		scored = scored[:maxRecommendedCourses]
	}
	return scored
}

func (rs *recommendationService) scoreCourse(profile *LearnerProfile, course *types.Course) ScoredCourse {
	out := ScoredCourse{
		Course:                  course,
		DifficultyLevel:         course.Difficulty,
		EstimatedTimeToComplete: int(course.EstimatedHours * 60),
	}

	topics, topicsErr := decodeStringSet(course.Topics)
	prereqs, prereqsErr := decodeStringSet(course.Prerequisites)
	if topicsErr != nil || prereqsErr != nil {
		// Unparsable catalog data zeroes the course instead of dropping it,
		// so callers still see it was considered.
		rs.log.Warn("Course has unparsable topics or prerequisites, scoring as 0",
			"course_id", course.ID, "topics_error", topicsErr, "prerequisites_error", prereqsErr)
		return out
	}

	topicScore := topicMatchScore(topics, profile.PreferredTopics)
	timeScore := timeMatchScore(profile.AvailableTimeMinutes, course.EstimatedHours)
	difficultyScore := difficultyMatchScore(profile.CurrentLevel, course.Difficulty)
	paceScore := learningPaceScore(len(profile.CompletedCourseIDs))
	progressiveScore := progressiveBonus(prereqs, profile.CompletedCourseIDs)

	// The topic component already carries an inner x2 before the outer x2
	// weight; the double multiplication is intentional and load-bearing for
	// ranking order.
	out.Score = topicScore*2 + timeScore*1.5 + difficultyScore*2.5 + paceScore + progressiveScore*3
	out.MatchDetails = MatchDetails{
		TopicMatch:      displayScale(topicScore),
		TimeMatch:       displayScale(timeScore),
		DifficultyMatch: displayScale(difficultyScore),
		LearningPace:    displayScale(paceScore),
		Progressive:     displayScale(progressiveScore),
	}
	return out
}

func topicMatchScore(courseTopics, preferredTopics []string) float64 {
	if len(courseTopics) == 0 || len(preferredTopics) == 0 {
		return 0
	}
	preferred := make(map[string]bool, len(preferredTopics))
	for _, t := range preferredTopics {
		preferred[t] = true
	}
	overlap := 0
	for _, t := range courseTopics {
		if preferred[t] {
			overlap++
		}
	}
	return float64(overlap) * 2
}

func timeMatchScore(availableMinutes int, estimatedHours float64) float64 {
	diff := math.Abs(float64(availableMinutes) - estimatedHours*60)
	return 10 - math.Min(10, diff/30)
}

// difficultyMatchScore prefers courses half a step above the learner's
// level. The result is left signed: a big mismatch drags the total down
// below what a zero component would.
func difficultyMatchScore(currentLevel int, difficulty string) float64 {
	ordinals := map[string]float64{
		"beginner":     1,
		"intermediate": 2,
		"advanced":     3,
	}
	ordinal, ok := ordinals[difficulty]
	if !ok {
		ordinal = 1
	}
	userDifficultyLevel := math.Ceil(float64(currentLevel) / 2)
	preferredDifficulty := math.Min(3, userDifficultyLevel+0.5)
	return 10 - math.Abs(preferredDifficulty-ordinal)*3
}

func learningPaceScore(completedCount int) float64 {
	if completedCount == 0 {
		// Neutral prior for new learners.
		return 5
	}
	return math.Min(10, float64(completedCount)/5*10)
}

func progressiveBonus(prereqs []string, completed map[uuid.UUID]bool) float64 {
	for _, raw := range prereqs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if completed[id] {
			return 10
		}
	}
	return 0
}

func displayScale(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func decodeStringSet(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var vals []string
	if err := json.Unmarshal([]byte(trimmed), &vals); err != nil {
		return nil, err
	}
	return vals, nil
}
