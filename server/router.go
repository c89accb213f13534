package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "page-scheduler/interfaces/http"
	"page-scheduler/interfaces/middleware"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	facebookHandler httpHandler.IFacebookHandler,
	postHandler httpHandler.IPostHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	// The dialog URL requires a logged-in caller so the issued state carries
	// its owner; the callback is hit by a browser redirect and recovers the
	// owner from that state.
	router.GET("/auth/facebook", middleware.Auth(), facebookHandler.GetAuthURL)
	router.GET("/auth/facebook/callback", facebookHandler.Callback)

	api := router.Group("api")
	api.Use(middleware.Auth())

	facebook := api.Group("/facebook")
	{
		facebook.POST("/connect", facebookHandler.Connect)
		facebook.GET("/status", facebookHandler.Status)
		facebook.GET("/pages", facebookHandler.Pages)
		facebook.POST("/refresh", facebookHandler.Refresh)
		facebook.DELETE("/disconnect", facebookHandler.Disconnect)
		facebook.GET("/token-log", facebookHandler.TokenLog)
	}

	posts := api.Group("/posts")
	{
		posts.POST("/schedule", postHandler.Schedule)
		posts.GET("/scheduled", postHandler.Scheduled)
		posts.GET("/scheduled/pending", postHandler.Pending)
		// DELETE cancels; pending is the only cancellable state
		posts.DELETE("/scheduled/:id", postHandler.Cancel)
		posts.DELETE("/scheduled/:id/purge", postHandler.Delete)
		posts.GET("/history", postHandler.History)
		posts.GET("/stats", postHandler.Stats)
		posts.POST("/run-cycle", postHandler.RunCycle)
	}

	return router
}
