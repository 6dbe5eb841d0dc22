package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sohbetapp/sohbet-server/internal/auth"
	"github.com/sohbetapp/sohbet-server/internal/config"
	"github.com/sohbetapp/sohbet-server/internal/core"
)

// NewServer builds the HTTP server: auth endpoints, health check, and the
// WebSocket chat endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	authHandlers := NewAuthHandlers(authService, logger)
	api := router.Group("/api")
	{
		api.POST("/register", authHandlers.Register)
		api.POST("/login", authHandlers.Login)
		api.POST("/guest", authHandlers.GuestLogin)
		api.GET("/me", AuthMiddleware(authService, logger), authHandlers.Me)
	}

	wsHandler := NewWSHandler(hub, authService, logger)
	router.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
