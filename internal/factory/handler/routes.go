package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the full API under /api.
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	router.GET("/health", func(c *gin.Context) {
		Success(c, "ok", gin.H{"status": "up"})
	})

	api := router.Group("/api")
	{
		inventory := api.Group("/inventory")
		{
			inventory.POST("", h.Inventory.Create)
			inventory.GET("", h.Inventory.List)
			inventory.GET("/stock", h.Inventory.Stock)
			inventory.GET("/export", h.Inventory.Export)
			inventory.GET("/code/:code", h.Inventory.GetByCode)
			inventory.GET("/:id", h.Inventory.Get)
			inventory.GET("/:id/movements", h.Inventory.Movements)
			inventory.PUT("/:id", h.Inventory.Update)
			inventory.PUT("/:id/stock", h.Inventory.Adjust)
			inventory.DELETE("/:id", h.Inventory.Delete)
		}

		recipes := api.Group("/recipes")
		{
			recipes.POST("", h.Recipe.Create)
			recipes.GET("", h.Recipe.List)
			recipes.GET("/:id", h.Recipe.Get)
			recipes.PUT("/:id", h.Recipe.Update)
			recipes.PUT("/:id/materials", h.Recipe.ReplaceMaterials)
			recipes.DELETE("/:id", h.Recipe.Delete)
		}

		orders := api.Group("/production-orders")
		{
			orders.POST("", h.Production.Create)
			orders.GET("", h.Production.List)
			orders.GET("/open", h.Production.ListOpen)
			orders.GET("/:id", h.Production.Get)
			orders.PUT("/:id", h.Production.Update)
			orders.DELETE("/:id", h.Production.Delete)
		}

		purchases := api.Group("/purchases")
		{
			purchases.POST("", h.Purchase.Create)
			purchases.GET("", h.Purchase.List)
			purchases.GET("/:id", h.Purchase.Get)
			purchases.PUT("/:id", h.Purchase.Update)
			purchases.DELETE("/:id", h.Purchase.Delete)
		}

		machines := api.Group("/machines")
		{
			machines.POST("", h.Machine.Create)
			machines.GET("", h.Machine.List)
			machines.GET("/:id", h.Machine.Get)
			machines.PUT("/:id", h.Machine.Update)
			machines.DELETE("/:id", h.Machine.Delete)
		}

		logs := api.Group("/machine-logs")
		{
			logs.POST("", h.Machine.CreateLog)
			logs.GET("", h.Machine.ListLogs)
			logs.PUT("/fulfill", h.Machine.Fulfill)
			logs.GET("/:id", h.Machine.GetLog)
		}

		operators := api.Group("/operators")
		{
			operators.POST("", h.Operator.Create)
			operators.GET("", h.Operator.List)
			operators.GET("/:id", h.Operator.Get)
			operators.PUT("/:id", h.Operator.Update)
			operators.DELETE("/:id", h.Operator.Delete)
		}

		entries := api.Group("/operator-entries")
		{
			entries.POST("/start", h.Operator.StartWork)
			entries.PUT("/stop", h.Operator.StopWork)
			entries.GET("/open", h.Operator.OpenEntries)
			entries.GET("", h.Operator.ListEntries)
		}
	}
}
