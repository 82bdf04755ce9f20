package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/config"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/handlers"
	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/importer"
)

func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "rahi-crm-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	clientHandler := handlers.NewClientHandler(db)
	workHandler := handlers.NewWorkHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	importHandler := handlers.NewImportHandler(importer.New(db, cfg.ImportMaxRows))
	invoiceHandler := handlers.NewInvoiceHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)

	api := router.Group("/api")
	{
		api.GET("/dashboard", dashboardHandler.Get)

		api.GET("/clients", clientHandler.List)
		api.GET("/clients/:id", clientHandler.Get)
		api.POST("/clients", clientHandler.Create)
		api.PUT("/clients/:id", clientHandler.Update)
		api.DELETE("/clients/:id", clientHandler.Delete)

		api.GET("/work", workHandler.List)
		api.POST("/work", workHandler.Create)
		api.PUT("/work/:id", workHandler.Update)
		api.PATCH("/work/:id/deliver", workHandler.Deliver)
		api.DELETE("/work/:id", workHandler.Delete)

		api.GET("/payments", paymentHandler.List)
		api.POST("/payments", paymentHandler.Create)
		api.PUT("/payments/:id", paymentHandler.Update)
		api.DELETE("/payments/:id", paymentHandler.Delete)

		api.GET("/import/mapping", importHandler.SuggestMapping)
		api.POST("/import", importHandler.Run)

		api.GET("/invoices", invoiceHandler.List)
		api.GET("/invoices/:id", invoiceHandler.Get)
		api.POST("/invoices", invoiceHandler.Compose)
		api.DELETE("/invoices/:id", invoiceHandler.Delete)

		api.GET("/settings/invoice", settingsHandler.GetInvoiceSettings)
		api.PUT("/settings/invoice", settingsHandler.UpdateInvoiceSettings)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
