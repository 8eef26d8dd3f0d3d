package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fees-admin-api/services"
)

// UploadHandler accepts the fee-record CSV from the upload screen.
type UploadHandler struct {
	Service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{Service: service}
}

// Upload handles POST /upload/fees (multipart, field "file").
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	result, err := h.Service.Upload(c.Request.Context(), file)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "result": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
