package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fees-admin-api/services"
)

// ReportsHandler serves the bank-due report and the insights charts data.
type ReportsHandler struct {
	Service *services.ReportsService
}

func NewReportsHandler(service *services.ReportsService) *ReportsHandler {
	return &ReportsHandler{Service: service}
}

// BankDues handles GET /reports/bank-dues?unsettled=true.
func (h *ReportsHandler) BankDues(c *gin.Context) {
	unsettledOnly := c.Query("unsettled") == "true"

	dues, err := h.Service.BankDueReport(c.Request.Context(), unsettledOnly)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dues": dues})
}

// Totals handles GET /reports/totals.
func (h *ReportsHandler) Totals(c *gin.Context) {
	totals, err := h.Service.FeeTotals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, totals)
}
