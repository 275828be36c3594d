package config

import (
	"time"

	"absensi/middleware"
	"absensi/services/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// InitApp builds the router with CORS, request ids and error rendering, plus
// the websocket hub and a cron scheduler running in the reference timezone.
func InitApp(cfg AppConfig, loc *time.Location, log logger.Logger) (*gin.Engine, *melody.Melody, *cron.Cron) {
	router := gin.Default()

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	if len(cfg.CorsOrigins) > 0 {
		configCors.AllowOrigins = cfg.CorsOrigins
	} else {
		configCors.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	router.Use(cors.New(configCors))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ErrorHandler(log))

	router.SetTrustedProxies(nil)

	m := melody.New()
	c := cron.New(cron.WithLocation(loc))

	return router, m, c
}

// InitWebSocket serves the live attendance feed behind the given handlers.
func InitWebSocket(router *gin.Engine, m *melody.Melody, guards ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, guards...), func(c *gin.Context) {
		m.HandleRequest(c.Writer, c.Request)
	})
	router.GET("/ws", handlers...)
}
