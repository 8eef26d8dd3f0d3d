package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fees-admin-api/config"
	"fees-admin-api/handlers"
	"fees-admin-api/middleware"
	"fees-admin-api/routes"
	"fees-admin-api/services"
	"fees-admin-api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	go scheduleSessionCleaning(db)

	hub := handlers.NewNotificationHub()

	feeAPI := services.NewFeeAPIService()
	installments := services.NewInstallmentService(feeAPI, hub)
	uploads := services.NewUploadService(feeAPI, hub)
	reports := services.NewReportsService(feeAPI, hub)

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, utils.MaskString(c.Request.URL.Path), c.ClientIP())
		c.Next()
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, utils.MaskString(c.Request.URL.Path), c.Writer.Status(), time.Since(start))
	})

	v1 := router.Group("/api/v1")
	{
		// Pre-auth routes are throttled by client IP; the same limiter keys
		// by staff member once AuthMiddleware has identified them.
		public := v1.Group("/")
		public.Use(middleware.RateLimiter())
		routes.SetupAuthRoutes(public, db)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		protected.Use(middleware.RateLimiter())
		{
			routes.SetupInstallmentRoutes(protected, db, installments)
			routes.SetupDuesRoutes(protected, installments)
			routes.SetupUploadRoutes(protected, uploads)
			routes.SetupReportRoutes(protected, reports)
			routes.SetupUserRoutes(protected, db)
			routes.SetupNotificationRoutes(protected, hub)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.LogStartup("fees-admin-api", "1.0.0", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// scheduleSessionCleaning drops expired staff sessions once a day.
func scheduleSessionCleaning(db *sql.DB) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	cleanExpiredSessions(db)
	for range ticker.C {
		cleanExpiredSessions(db)
	}
}

func cleanExpiredSessions(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := db.ExecContext(ctx, `DELETE FROM staff_sessions WHERE expires_at < NOW()`)
	if err != nil {
		log.Printf("❌ Session cleanup failed: %v", err)
		return
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		log.Printf("🧹 Cleaned %d expired sessions", rows)
	}
}
