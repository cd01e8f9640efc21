package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chatrelay/internal/config"
)

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *ChatController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	chat := r.Group("/chat")
	chat.POST("/new", ctl.HandleNewRoom)
	chat.GET("/rooms", ctl.HandleListRooms)
	chat.GET("/ws/:room/:user", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
