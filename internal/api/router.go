package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/siscrap/internal/api/handler"
	"github.com/timmy/siscrap/internal/api/middleware"
	"github.com/timmy/siscrap/internal/client"
	"github.com/timmy/siscrap/internal/config"
	"github.com/timmy/siscrap/internal/export"
	"github.com/timmy/siscrap/internal/review"
	"github.com/timmy/siscrap/internal/robot"
	"github.com/timmy/siscrap/internal/session"
)

// Deps are the long-lived services behind the gateway.
type Deps struct {
	Session         *session.Manager
	Client          *client.Client
	Exporter        *export.Exporter
	Robot           *robot.Controller
	CatalogDebounce time.Duration
}

// SetupRouter configures the Gin router with all routes. Per-user view state is
// dropped whenever the session ends.
func SetupRouter(deps Deps, mode string, cors config.CORSConfig) *gin.Engine {
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware("gateway"))
	r.Use(middleware.CORS(cors))

	reviews := review.NewRegistry(deps.Client)

	healthHandler := handler.NewHealthHandler(deps.Session.IsAuthenticated)
	authHandler := handler.NewAuthHandler(deps.Session, deps.Client)
	projectsHandler := handler.NewProjectsHandler(deps.Client, deps.Exporter, reviews)
	reviewHandler := handler.NewReviewHandler(reviews)
	produtoHandler := handler.NewProdutoHandler(deps.Client, deps.CatalogDebounce)
	roboHandler := handler.NewRoboHandler(deps.Robot, deps.Exporter)

	deps.Session.OnTeardown(reviews.Reset)
	deps.Session.OnTeardown(produtoHandler.Reset)
	deps.Session.OnTeardown(deps.Robot.Reset)

	// Public
	r.GET("/health", healthHandler.Health)
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.POST("/logout", authHandler.Logout)

	// Everything else needs a session
	views := r.Group("/", middleware.RequireSession(deps.Session, handler.LoginPath))
	{
		views.GET("/me", authHandler.Me)

		// Batches
		views.GET("/projetos", projectsHandler.List)
		views.POST("/projetos", projectsHandler.Upload)
		views.DELETE("/projetos/:id", projectsHandler.Delete)
		views.GET("/projetos/:id/pallets", projectsHandler.Pallets)
		views.POST("/projetos/:id/export", projectsHandler.Export)

		// Review
		views.GET("/projeto/:id", reviewHandler.Get)
		views.POST("/projeto/:id/filters", reviewHandler.SetFilter)
		views.DELETE("/projeto/:id/filters", reviewHandler.ClearFilters)
		views.POST("/projeto/:id/page", reviewHandler.SetPage)
		views.POST("/projeto/:id/reprocess", reviewHandler.Reprocess)
		views.POST("/projeto/:id/tasks/:taskId/approve", reviewHandler.Approve)
		views.POST("/projeto/:id/tasks/:taskId/candidates/:candidateId", reviewHandler.ChooseCandidate)
		views.GET("/projeto/:id/tasks/:taskId/correction", reviewHandler.OpenCorrection)
		views.PUT("/projeto/:id/tasks/:taskId/correction", reviewHandler.SubmitCorrection)
		views.DELETE("/projeto/:id/tasks/:taskId/correction", reviewHandler.CancelCorrection)

		// Catalog
		views.GET("/produto", produtoHandler.Get)
		views.PUT("/produto/query", produtoHandler.Query)
		views.PUT("/produto/:id/price", produtoHandler.EditPrice)
		views.POST("/produto/save", produtoHandler.Save)

		// Robot
		views.GET("/robo", roboHandler.Get)
		views.POST("/robo/toggle", roboHandler.Toggle)
		views.POST("/robo/agent", roboHandler.DownloadAgent)
	}

	return r
}
