package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-gap-service/internal/services"
	"github.com/SAP-F-2025/learning-gap-service/internal/utils"
)

// AnalysisHandler serves per-student analysis, recommendation and report
// endpoints plus the fleet rollup.
type AnalysisHandler struct {
	BaseHandler
	analysisService services.AnalysisService
	fleetService    services.FleetService
	reportService   services.ReportService
}

func NewAnalysisHandler(
	analysisService services.AnalysisService,
	fleetService services.FleetService,
	reportService services.ReportService,
	logger utils.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler:     NewBaseHandler(logger),
		analysisService: analysisService,
		fleetService:    fleetService,
		reportService:   reportService,
	}
}

// GetStudentAnalysis handles GET /api/v1/students/:id/analysis
func (h *AnalysisHandler) GetStudentAnalysis(c *gin.Context) {
	studentID := c.Param("id")

	analysis, err := h.analysisService.AnalyzeStudent(c.Request.Context(), studentID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "student analysis", analysis)
}

// GetStudentRecommendations handles GET /api/v1/students/:id/recommendations
func (h *AnalysisHandler) GetStudentRecommendations(c *gin.Context) {
	studentID := c.Param("id")

	recommendations, err := h.analysisService.GetRecommendations(c.Request.Context(), studentID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "recommendations", gin.H{
		"student_id":      studentID,
		"recommendations": recommendations,
	})
}

// GetStudentReport handles GET /api/v1/students/:id/report?format=text|csv|xlsx
func (h *AnalysisHandler) GetStudentReport(c *gin.Context) {
	studentID := c.Param("id")
	format := services.ReportFormat(c.DefaultQuery("format", string(services.ReportText)))

	report, err := h.reportService.GenerateReport(c.Request.Context(), studentID, format)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}

// GetFleetSummary handles GET /api/v1/fleet/summary
func (h *AnalysisHandler) GetFleetSummary(c *gin.Context) {
	summary, err := h.fleetService.AnalyzeAll(c.Request.Context())
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "fleet summary", summary)
}
