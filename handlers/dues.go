package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fees-admin-api/models"
	"fees-admin-api/services"
)

// DuesHandler exposes the search/deletion screen: list every due of a
// student across categories, delete one.
type DuesHandler struct {
	Service *services.InstallmentService
}

func NewDuesHandler(service *services.InstallmentService) *DuesHandler {
	return &DuesHandler{Service: service}
}

// Search handles GET /students/:studentID/dues.
func (h *DuesHandler) Search(c *gin.Context) {
	dues, err := h.Service.SearchAllDues(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "dues": []models.Due{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dues": dues})
}

// Delete handles DELETE /students/:studentID/dues/:receiptNo?category=...
// and responds with the refreshed listing.
func (h *DuesHandler) Delete(c *gin.Context) {
	category := models.FeeCategory(c.Query("category"))

	dues, err := h.Service.DeleteDue(c.Request.Context(), category, c.Param("studentID"), c.Param("receiptNo"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": services.MsgDueDeleted,
		"dues":    dues,
	})
}
