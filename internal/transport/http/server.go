package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/devhire/interview-server/internal/auth"
	"github.com/devhire/interview-server/internal/config"
	"github.com/devhire/interview-server/internal/core"
)

// NewServer builds the HTTP server: a health endpoint and the websocket
// upgrade route.
func NewServer(hub *core.Hub, authCfg *auth.Config, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authCfg, cfg.AllowedOrigins, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
