package routes

import (
	"social_games_backend/handlers"
	"social_games_backend/logging"
	"social_games_backend/metrics"
	"social_games_backend/middleware"
	"social_games_backend/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	DB           handlers.Pinger
	Cache        handlers.Pinger
	Quizzes      handlers.QuizService
	Home         handlers.HomeService
	Users        repository.UserRepository
	Tokens       *middleware.TokenService
	Logger       logging.Logger
	ExposeErrors bool
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	r.Use(logging.Middleware(deps.Logger), metrics.Middleware(), gin.Recovery())

	// Setup CORS - Simplified for mobile app
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		logging.RequestIDHeader,
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.ExposeHeaders = []string{logging.RequestIDHeader, "Content-Disposition"}
	r.Use(cors.New(config))

	responder := handlers.Responder{ExposeErrors: deps.ExposeErrors}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache)
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens, responder)
	userHandler := handlers.NewUserHandler(responder)
	compatibilityHandler := handlers.NewCompatibilityHandler(deps.Quizzes, responder)
	homeHandler := handlers.NewHomeHandler(deps.Home, responder)

	authRequired := middleware.AuthMiddleware(deps.Users, deps.Tokens)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	// User routes
	users := api.Group("/users")
	{
		users.POST("/register-user", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.POST("/refresh", authHandler.RefreshToken)
		users.POST("/logout", authRequired, authHandler.Logout)
		users.GET("/me", authRequired, userHandler.GetUserInfo)
	}

	// Compatibility routes. Taking and submitting a quiz is open to anyone
	// holding the code.
	compatibility := api.Group("/compatibility")
	{
		compatibility.GET("/get-quiz/:quizCode", compatibilityHandler.GetQuiz)
		compatibility.POST("/submit-quiz", compatibilityHandler.SubmitQuiz)
	}

	protected := compatibility.Group("")
	protected.Use(authRequired)
	{
		protected.GET("/get-templates", compatibilityHandler.GetTemplates)
		protected.GET("/get-questions-categories", compatibilityHandler.GetQuestionCategories)
		protected.GET("/get-questions", compatibilityHandler.GetQuestions)
		protected.POST("/create-question", compatibilityHandler.CreateQuestion)
		protected.GET("/get-quiz-list", compatibilityHandler.GetQuizList)
		protected.GET("/my-quiz-result/:quizCode", compatibilityHandler.GetQuizResults)
		protected.GET("/my-quiz-result/:quizCode/export", compatibilityHandler.ExportQuizResults)
		protected.GET("/my-quiz-response/:quizCode/:userName", compatibilityHandler.GetUserResult)
	}

	// Home routes
	home := api.Group("/home")
	home.Use(authRequired)
	{
		home.GET("/get-home-info", homeHandler.GetHomeInfo)
		home.GET("/get-active-games-info", homeHandler.GetActiveGamesInfo)
	}
}
