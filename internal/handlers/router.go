package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-gap-service/internal/services"
	"github.com/SAP-F-2025/learning-gap-service/internal/utils"
)

type HandlerManager struct {
	datasetHandler  *DatasetHandler
	analysisHandler *AnalysisHandler
}

func NewHandlerManager(
	datasetService services.DatasetService,
	analysisService services.AnalysisService,
	fleetService services.FleetService,
	reportService services.ReportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		datasetHandler:  NewDatasetHandler(datasetService, logger),
		analysisHandler: NewAnalysisHandler(analysisService, fleetService, reportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Dataset routes
		datasets := v1.Group("/datasets")
		{
			datasets.POST("", hm.datasetHandler.UploadDataset)
			datasets.GET("/current", hm.datasetHandler.GetDatasetInfo)
		}

		// Student routes
		students := v1.Group("/students")
		{
			students.GET("", hm.datasetHandler.ListStudents)
			students.GET("/:id/analysis", hm.analysisHandler.GetStudentAnalysis)
			students.GET("/:id/recommendations", hm.analysisHandler.GetStudentRecommendations)
			students.GET("/:id/report", hm.analysisHandler.GetStudentReport)
		}

		// Fleet routes
		fleet := v1.Group("/fleet")
		{
			fleet.GET("/summary", hm.analysisHandler.GetFleetSummary)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "learning-gap-service",
		})
	})
}
