// Package router is the composition root: it wires repositories, the mirror
// syncer, the batch committer, the placement board, services, and handlers
// into one gin engine.
package router

import (
	"time"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/config"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/handler"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/infra"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/middleware"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/mirror"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/pick2"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/placement"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/repository"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App bundles the wired application: the HTTP engine plus the services a
// caller needs outside request handling (startup board load, shutdown).
type App struct {
	Engine *gin.Engine
	Menu   *service.MenuService
}

// New wires the whole application.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker) *App {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	featureRepo := repository.NewFeatureRepository(db)
	catalogRepo := repository.NewCatalogOptionRepository(db)
	pick2ConfigRepo := repository.NewPick2ConfigRepository(db)
	writer := repository.NewBatchWriter(db)

	// Infrastructure
	cache := service.NewCatalogCache(rdb, time.Duration(cfg.CatalogCacheTTLSeconds)*time.Second)
	committer := batch.NewCommitter(writer, cb,
		batch.WithChunkSize(cfg.BatchChunkSize),
		batch.WithRetry(cfg.BatchMaxAttempts, time.Duration(cfg.BatchBaseDelayMs)*time.Millisecond),
		batch.WithDLQ(rdb),
	)

	// Domain
	syncer := mirror.NewSyncer(catalogRepo, cache)
	board := placement.NewBoard()
	controller := placement.NewController(board, syncer, committer, featureRepo)
	sessions := pick2.NewSessionStore(time.Duration(cfg.SelectionTTLMinutes) * time.Minute)

	// Services
	menuSvc := service.NewMenuService(featureRepo, catalogRepo, syncer, controller, committer)
	catalogSvc := service.NewCatalogService(catalogRepo, cache)
	pick2Svc := service.NewPick2Service(pick2ConfigRepo, catalogRepo, cache, sessions)

	// Handlers
	healthH := handler.NewHealthHandler(db, rdb, cb)
	featureH := handler.NewFeatureHandler(menuSvc)
	placementH := handler.NewPlacementHandler(menuSvc)
	catalogH := handler.NewCatalogHandler(menuSvc, catalogSvc)
	pick2H := handler.NewPick2Handler(pick2Svc)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.ErrorHandler(),
		middleware.RateLimiter(300, time.Minute),
	)

	r.GET("/health", healthH.Health)

	v1 := r.Group("/api/v1")
	{
		features := v1.Group("/features")
		{
			features.POST("", featureH.Create)
			features.GET("", featureH.List)
			features.GET("/:id", featureH.Get)
			features.PATCH("/:id", featureH.Update)
			features.POST("/:id/connector/toggle", placementH.ToggleConnector)
			features.POST("/:id/publish", catalogH.Publish)
			features.DELETE("/:id/publish", catalogH.Unpublish)
			features.PUT("/:id/pick2", catalogH.SetPick2Meta)
		}

		board := v1.Group("/board")
		{
			board.GET("", placementH.Board)
			board.POST("/move", placementH.Move)
			board.POST("/reorder", placementH.Reorder)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("", catalogH.ListPublished)
			catalog.GET("/:id", catalogH.GetOption)
		}

		p2 := v1.Group("/pick2")
		{
			p2.GET("/config", pick2H.GetConfig)
			p2.PUT("/config", pick2H.SaveConfig)
			p2.GET("/options", pick2H.ListOptions)

			sel := p2.Group("/selection")
			{
				sel.GET("", pick2H.State)
				sel.POST("/select", pick2H.Select)
				sel.POST("/remove", pick2H.Remove)
				sel.POST("/swap", pick2H.Swap)
				sel.POST("/preset", pick2H.ApplyPreset)
				sel.POST("/clear", pick2H.Clear)
			}
		}
	}

	return &App{Engine: r, Menu: menuSvc}
}
