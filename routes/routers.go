package routes

import (
	"net/http"

	"absensi/controllers"
	middlewares "absensi/middleware"
	"absensi/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the services the HTTP layer is wired to.
type Dependencies struct {
	Attendance *controllers.AttendanceController
	Auth       *controllers.AuthController
	Tokens     *services.TokenManager
	EnableDocs bool
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	auth := middlewares.AuthMiddleware(deps.Tokens)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", deps.Auth.Register)
	v1.POST("/auth/login", deps.Auth.Login)
	v1.DELETE("/auth/logout", deps.Auth.Logout)
	v1.POST("/auth/google", deps.Auth.AuthGoogle)
	v1.GET("/auth/me", auth, deps.Auth.Me)

	attendance := v1.Group("/attendance", auth)
	attendance.POST("/check-in", deps.Attendance.CheckIn)
	attendance.POST("/check-out", deps.Attendance.CheckOut)
	attendance.GET("/today", deps.Attendance.GetToday)
	attendance.GET("/history", deps.Attendance.GetHistory)

	v1.GET("/attendance/admin", middlewares.AdminMiddleware(deps.Tokens), deps.Attendance.GetAll)

	if deps.EnableDocs {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}
