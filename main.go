package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/akkervarken/webshop-api/config"
	"github.com/akkervarken/webshop-api/controllers"
	"github.com/akkervarken/webshop-api/middleware"
	"github.com/akkervarken/webshop-api/models"
	"github.com/akkervarken/webshop-api/services"
)

func main() {
	log.Println("Starting Akkervarken webshop API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Apply schema migrations
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Batch{},
		&models.PickupSlot{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services
	services.InitEmailService(cfg)
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set - product image uploads disabled")
	}

	router := setupRouter(cfg)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS, templates and all routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.LoadHTMLGlob("templates/admin/*.html")

	// Health check endpoint
	router.GET("/health", healthCheck)

	// Public API routes
	api := router.Group("/api")
	{
		api.POST("/orders", controllers.CreateOrder)
		api.GET("/orders", controllers.ListOrders)
		api.GET("/orders/:id", controllers.GetOrder)

		api.GET("/products", controllers.ListProducts)
		api.GET("/products/:slug", controllers.GetProduct)

		api.GET("/batches", controllers.ListBatches)
		api.GET("/batches/:slug", controllers.GetBatch)
	}

	// Admin product API (JSON, credential-guarded)
	adminAPI := router.Group("/api", middleware.RequireAdmin(cfg))
	{
		adminAPI.POST("/products", controllers.CreateProduct)
		adminAPI.PUT("/products/:id", controllers.UpdateProduct)
		adminAPI.DELETE("/products/:id", controllers.DeleteProduct)
		adminAPI.POST("/products/:id/image", controllers.UploadProductImage)
	}

	// Admin panel (HTML, credential-guarded)
	admin := router.Group("/admin", middleware.RequireAdmin(cfg))
	{
		admin.GET("/orders", controllers.AdminListOrders)
		admin.POST("/orders/:id/status", controllers.AdminUpdateOrderStatus)

		admin.GET("/batches", controllers.AdminListBatches)
		admin.GET("/batches/new", controllers.AdminNewBatchForm)
		admin.POST("/batches", controllers.AdminCreateBatch)
		admin.GET("/batches/:id/edit", controllers.AdminEditBatchForm)
		admin.POST("/batches/:id/update", controllers.AdminUpdateBatch)
		admin.POST("/batches/:id/delete", controllers.AdminDeleteBatch)
	}

	return router
}

// healthCheck reports API and database connectivity status
func healthCheck(c *gin.Context) {
	health := gin.H{
		"status":   "healthy",
		"api":      "ok",
		"database": "unknown",
	}

	db := config.GetDB()
	if db == nil {
		health["database"] = "not_configured"
		health["status"] = "degraded"
		c.JSON(http.StatusOK, health)
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		health["database"] = "error"
		health["status"] = "unhealthy"
		c.JSON(http.StatusOK, health)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		health["database"] = "error"
		health["status"] = "unhealthy"
		c.JSON(http.StatusOK, health)
		return
	}

	health["database"] = "connected"
	c.JSON(http.StatusOK, health)
}
