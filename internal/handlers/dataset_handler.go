package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-gap-service/internal/services"
	"github.com/SAP-F-2025/learning-gap-service/internal/utils"
)

// DatasetHandler serves dataset upload and inspection endpoints.
type DatasetHandler struct {
	BaseHandler
	datasetService services.DatasetService
}

func NewDatasetHandler(datasetService services.DatasetService, logger utils.Logger) *DatasetHandler {
	return &DatasetHandler{
		BaseHandler:    NewBaseHandler(logger),
		datasetService: datasetService,
	}
}

// UploadDataset handles POST /api/v1/datasets
// Accepts a multipart upload under the "file" field (CSV or Excel) and
// replaces the active dataset.
func (h *DatasetHandler) UploadDataset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "missing file upload", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "failed to open uploaded file", err)
		return
	}
	defer file.Close()

	info, err := h.datasetService.LoadDataset(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.LogInfo(c, "Dataset uploaded", "file", info.Name, "rows", info.TotalRows)
	h.RespondWithSuccess(c, http.StatusCreated, "dataset loaded", info)
}

// GetDatasetInfo handles GET /api/v1/datasets/current
func (h *DatasetHandler) GetDatasetInfo(c *gin.Context) {
	info, err := h.datasetService.Info(c.Request.Context())
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "dataset info", info)
}

// ListStudents handles GET /api/v1/students
func (h *DatasetHandler) ListStudents(c *gin.Context) {
	students, err := h.datasetService.ListStudents(c.Request.Context())
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "students", gin.H{
		"students": students,
		"count":    len(students),
	})
}
