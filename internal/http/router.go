package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hieuld/liftcare/internal/http/middleware"
)

func NewRouter(h *Handler, authMW gin.HandlerFunc, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if authMW == nil {
		authMW = middleware.Auth(nil)
	}

	api := r.Group("/api", authMW)
	{
		customers := api.Group("/customers")
		{
			customers.POST("", h.createCustomer)
			customers.GET("", h.getAllCustomers)
			customers.GET("/:id", h.getCustomerByID)
			customers.PUT("/:id", h.updateCustomer)
			customers.DELETE("/:id", h.deleteCustomer)
			customers.GET("/:id/contracts", h.getContractsByCustomer)
			customers.GET("/:id/history", h.getHistoryByCustomer)
			customers.GET("/:id/history/export", h.exportVisitLogPDF)
		}

		contracts := api.Group("/contracts")
		{
			contracts.POST("", h.createContract)
			contracts.GET("/export", h.exportContractsWorkbook)
			contracts.GET("/:id", h.getContract)
			contracts.PUT("/:id", h.updateContract)
			contracts.DELETE("/:id", h.deleteContract)
		}

		history := api.Group("/history")
		{
			history.POST("", h.createHistoryEntry)
			history.GET("/:id", h.getHistoryEntry)
			history.PUT("/:id", h.updateHistoryEntry)
			history.DELETE("/:id", h.deleteHistoryEntry)
		}

		trash := api.Group("/trash")
		{
			trash.GET("/customers", h.trashListCustomers)
			trash.GET("/contracts", h.trashListContracts)
			trash.POST("/customers/:id/restore", h.trashRestoreCustomer)
			trash.POST("/contracts/:id/restore", h.trashRestoreContract)
			trash.DELETE("/customers/:id", h.trashPurgeCustomer)
			trash.DELETE("/contracts/:id", h.trashPurgeContract)
			trash.DELETE("", h.trashEmptyAll)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/candidates", h.listReportCandidates)
			reports.POST("/generate", h.generateReports)
		}
	}

	return r
}
