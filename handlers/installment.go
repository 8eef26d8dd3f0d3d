package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fees-admin-api/middleware"
	"fees-admin-api/models"
	"fees-admin-api/services"
	"fees-admin-api/utils"
)

// InstallmentHandler exposes the edit-installment wizard: fetch a student's
// dues for a source category, resolve one due for display, submit the
// category transfer.
type InstallmentHandler struct {
	Service *services.InstallmentService
	DB      *sql.DB
}

func NewInstallmentHandler(service *services.InstallmentService, db *sql.DB) *InstallmentHandler {
	return &InstallmentHandler{Service: service, DB: db}
}

// statusFor maps service errors onto HTTP statuses. The notification has
// already been published by the service; the JSON body mirrors its text.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// FetchDues handles GET /installments/:studentID/dues?source=...&destination=...
func (h *InstallmentHandler) FetchDues(c *gin.Context) {
	req := models.FetchDuesRequest{
		StudentID:           c.Param("studentID"),
		SourceCategory:      models.FeeCategory(c.Query("source")),
		DestinationCategory: models.FeeCategory(c.Query("destination")),
	}

	dues, err := h.Service.FetchDues(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "dues": []models.Due{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dues": dues})
}

// SelectDue handles GET /installments/:studentID/dues/:receiptNo?source=...&destination=...
// It re-fetches the listing and resolves the selection against it, so the
// detail panel always reflects the upstream state at selection time. The
// whole path is silent; notifications belong to the explicit lookup.
func (h *InstallmentHandler) SelectDue(c *gin.Context) {
	req := models.FetchDuesRequest{
		StudentID:           c.Param("studentID"),
		SourceCategory:      models.FeeCategory(c.Query("source")),
		DestinationCategory: models.FeeCategory(c.Query("destination")),
	}

	details, found, err := h.Service.ResolveDue(c.Request.Context(), req, c.Param("receiptNo"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if !found {
		// Not-found is silent: the detail panel just stays hidden.
		c.JSON(http.StatusOK, gin.H{"visible": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"visible": true, "details": details})
}

// Transfer handles PUT /installments/exchange.
func (h *InstallmentHandler) Transfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dues, err := h.Service.Transfer(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.audit(c, req)

	c.JSON(http.StatusOK, gin.H{
		"message": services.MsgInstallmentUpdated,
		"dues":    dues,
	})
}

// audit records a successful transfer. Audit failures are logged, never
// surfaced: the transfer itself already happened upstream.
func (h *InstallmentHandler) audit(c *gin.Context, req models.TransferRequest) {
	if h.DB == nil {
		return
	}

	staffID := middleware.GetStaffID(c)
	_, err := h.DB.Exec(`
		INSERT INTO transfer_audit (staff_id, student_id, due_number, source_category, destination_category)
		VALUES ($1, $2, $3, $4, $5)
	`, staffID, req.StudentID, req.DueNumber, string(req.SourceCategory), string(req.DestinationCategory))
	if err != nil {
		utils.SafeWarn("transfer audit insert failed: %v", err)
	}
}
