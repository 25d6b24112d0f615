package app

import (
	"github.com/Saravana-31/Form-Builder/docs"
	"github.com/Saravana-31/Form-Builder/internal/config"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/Saravana-31/Form-Builder/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	if isLocalStorage(cfg) {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		forms := api.Group("/forms")
		{
			forms.GET("", c.form.List)
			forms.POST("", c.form.Create)
			forms.GET("/:id", c.form.Get)
			forms.PUT("/:id", c.form.Update)
			forms.DELETE("/:id", c.form.Delete)
			forms.POST("/:id/duplicate", c.form.Duplicate)
			forms.POST("/:id/score", c.form.Score)
			forms.POST("/:id/questions/move", c.form.MoveQuestion)
			forms.GET("/:id/results", c.results.Summary)
			forms.GET("/:id/results/export", c.results.Export)
		}

		api.POST("/responses", c.response.Create)
		api.GET("/responses", c.response.List)

		api.POST("/upload", c.upload.Upload)
	}

	router.NoRoute(func(ctx *gin.Context) {
		util.NotFound(ctx, "Route not found")
	})
}
