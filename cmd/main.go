package main

import (
	"fmt"
	"os"

	"github.com/nursepath/nursepath-backend/internal/clients/redis"
	"github.com/nursepath/nursepath-backend/internal/db"
	"github.com/nursepath/nursepath-backend/internal/handlers"
	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/repos"
	"github.com/nursepath/nursepath-backend/internal/server"
	"github.com/nursepath/nursepath-backend/internal/services"
	"github.com/nursepath/nursepath-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	enrollmentRepo := repos.NewEnrollmentRepo(thePG, log)
	learningPathRepo := repos.NewLearningPathRepo(thePG, log)
	userEventRepo := repos.NewUserEventRepo(thePG, log)
	flashcardRepo := repos.NewFlashcardRepo(thePG, log)

	// Clients
	log.Info("Setting up clients from main...")
	catalogCache, err := redis.NewCatalogCache(log)
	if err != nil {
		log.Warn("Could not init catalog cache, catalog reads will hit postgres", "error", err)
		catalogCache = nil
	}
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		log.Warn("Could not init AI client, flashcard generation disabled", "error", err)
		aiClient = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	userService := services.NewUserService(thePG, log, userRepo)
	courseService := services.NewCourseService(thePG, log, courseRepo, catalogCache)
	enrollmentService := services.NewEnrollmentService(thePG, log, userRepo, courseRepo, enrollmentRepo, userEventRepo)
	progressService := services.NewProgressService(thePG, log, userRepo, enrollmentRepo, userEventRepo)
	recommendationService := services.NewRecommendationService(log)
	learningPathService := services.NewLearningPathService(thePG, log, userRepo, courseRepo, enrollmentRepo, learningPathRepo, recommendationService)
	flashcardService := services.NewFlashcardService(thePG, log, courseRepo, flashcardRepo, aiClient)

	// Handlers
	log.Info("Setting up handlers from main...")
	userHandler := handlers.NewUserHandler(log, userService, progressService)
	courseHandler := handlers.NewCourseHandler(log, courseService)
	enrollmentHandler := handlers.NewEnrollmentHandler(log, enrollmentService)
	learningPathHandler := handlers.NewLearningPathHandler(log, learningPathService)
	flashcardHandler := handlers.NewFlashcardHandler(log, flashcardService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		UserHandler:         userHandler,
		CourseHandler:       courseHandler,
		EnrollmentHandler:   enrollmentHandler,
		LearningPathHandler: learningPathHandler,
		FlashcardHandler:    flashcardHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
