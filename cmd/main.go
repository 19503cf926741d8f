package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campushq/eduportal/config"
	"github.com/campushq/eduportal/database"
	_ "github.com/campushq/eduportal/docs" // Swagger docs
	"github.com/campushq/eduportal/internal/auth"
	instructorctrl "github.com/campushq/eduportal/internal/controller/instructor"
	studentctrl "github.com/campushq/eduportal/internal/controller/student"
	"github.com/campushq/eduportal/internal/logger"
	"github.com/campushq/eduportal/internal/model"
	"github.com/campushq/eduportal/internal/repository"
	"github.com/campushq/eduportal/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Course Portal Quiz API
// @version 1.0
// @description Quiz authoring, attempts and scoring for the course portal.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewCourseDirectory,
			repository.NewEnrollmentChecker,
		),

		// Services
		fx.Provide(
			service.NewScoringService,
			service.NewQuizCatalogService,
			service.NewQuestionBankService,
			service.NewAttemptService,
		),

		// Controllers
		fx.Provide(
			instructorctrl.NewQuizController,
			studentctrl.NewAttemptController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	quizCtrl *instructorctrl.QuizController,
	attemptCtrl *studentctrl.AttemptController,
) {
	authn := auth.Middleware(cfg.JWTSecret)

	instructorGroup := router.Group("/api/v1/instructor", authn)
	{
		instructorGroup.POST("/courses/:course_id/quizzes", quizCtrl.CreateQuiz)
		instructorGroup.GET("/courses/:course_id/quizzes", quizCtrl.ListQuizzes)
		instructorGroup.PUT("/quizzes/:quiz_id", quizCtrl.UpdateQuiz)
		instructorGroup.DELETE("/quizzes/:quiz_id", quizCtrl.DeleteQuiz)
		instructorGroup.PUT("/quizzes/:quiz_id/questions", quizCtrl.ReplaceQuestions)
		instructorGroup.POST("/quizzes/:quiz_id/questions", quizCtrl.AppendQuestions)
		instructorGroup.GET("/quizzes/:quiz_id/questions", quizCtrl.ListQuestions)
		instructorGroup.DELETE("/questions/:question_id", quizCtrl.DeleteQuestion)
		instructorGroup.GET("/quizzes/:quiz_id/attempts", quizCtrl.GetQuizStatistics)
	}

	studentGroup := router.Group("/api/v1", authn)
	{
		studentGroup.GET("/courses/:course_id/quizzes", attemptCtrl.ListCourseQuizzes)
		studentGroup.POST("/quizzes/:quiz_id/attempts/start", attemptCtrl.StartAttempt)
		studentGroup.POST("/quizzes/:quiz_id/attempts", attemptCtrl.SubmitAttempt)
		studentGroup.GET("/quizzes/:quiz_id/my-attempts", attemptCtrl.ListMyAttempts)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Course{},
		&model.Enrollment{},
		&model.Quiz{},
		&model.Question{},
		&model.Attempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
