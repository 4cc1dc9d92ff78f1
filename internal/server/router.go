package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nursepath/nursepath-backend/internal/handlers"
)

type RouterConfig struct {
	UserHandler         *handlers.UserHandler
	CourseHandler       *handlers.CourseHandler
	EnrollmentHandler   *handlers.EnrollmentHandler
	LearningPathHandler *handlers.LearningPathHandler
	FlashcardHandler    *handlers.FlashcardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Users
		api.POST("/users", cfg.UserHandler.CreateUser)
		api.GET("/users/:userId", cfg.UserHandler.GetUser)
		api.GET("/users/:userId/progress", cfg.UserHandler.GetUserProgress)

		// Courses
		api.GET("/courses", cfg.CourseHandler.ListCourses)
		api.POST("/courses", cfg.CourseHandler.CreateCourse)
		api.GET("/courses/:courseId", cfg.CourseHandler.GetCourse)

		// Enrollments
		api.POST("/users/:userId/enrollments", cfg.EnrollmentHandler.EnrollUser)
		api.GET("/users/:userId/enrollments", cfg.EnrollmentHandler.ListUserEnrollments)
		api.PATCH("/enrollments/:enrollmentId", cfg.EnrollmentHandler.UpdateProgress)

		// Learning paths
		api.POST("/users/:userId/learning-paths", cfg.LearningPathHandler.GeneratePath)
		api.GET("/users/:userId/learning-paths", cfg.LearningPathHandler.ListPaths)

		// Flashcards
		api.POST("/courses/:courseId/flashcards/generate", cfg.FlashcardHandler.GenerateFlashcards)
		api.GET("/courses/:courseId/flashcards", cfg.FlashcardHandler.ListFlashcards)
	}

	return router
}
