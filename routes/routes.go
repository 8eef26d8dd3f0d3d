package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"fees-admin-api/handlers"
	"fees-admin-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/logout", authHandler.Logout)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupInstallmentRoutes sets up the protected edit-installment wizard.
func SetupInstallmentRoutes(rg *gin.RouterGroup, db *sql.DB, installments *services.InstallmentService) {
	h := handlers.NewInstallmentHandler(installments, db)

	rg.GET("/installments/:studentID/dues", h.FetchDues)
	rg.GET("/installments/:studentID/dues/:receiptNo", h.SelectDue)
	rg.PUT("/installments/exchange", h.Transfer)
}

// SetupDuesRoutes sets up the protected due search/deletion screen.
func SetupDuesRoutes(rg *gin.RouterGroup, installments *services.InstallmentService) {
	h := handlers.NewDuesHandler(installments)

	rg.GET("/students/:studentID/dues", h.Search)
	rg.DELETE("/students/:studentID/dues/:receiptNo", h.Delete)
}

// SetupUploadRoutes sets up the protected fee-record upload.
func SetupUploadRoutes(rg *gin.RouterGroup, uploads *services.UploadService) {
	h := handlers.NewUploadHandler(uploads)

	rg.POST("/upload/fees", h.Upload)
}

// SetupReportRoutes sets up the protected bank-due report and insights.
func SetupReportRoutes(rg *gin.RouterGroup, reports *services.ReportsService) {
	h := handlers.NewReportsHandler(reports)

	rg.GET("/reports/bank-dues", h.BankDues)
	rg.GET("/reports/totals", h.Totals)
}

// SetupUserRoutes sets up protected staff profile routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}

// SetupNotificationRoutes sets up the notification surface.
func SetupNotificationRoutes(rg *gin.RouterGroup, hub *handlers.NotificationHub) {
	rg.GET("/ws/notifications", hub.HandleWS)
	rg.GET("/notifications/current", hub.GetCurrent)
	rg.POST("/notifications/dismiss", hub.DismissNotification)
}
