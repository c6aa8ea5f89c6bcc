package main

import (
	"log"
	"os"

	_ "github.com/MarioTomas0209/system-order/api/swagger" // swagger docs
	"github.com/MarioTomas0209/system-order/internal/database"
	"github.com/MarioTomas0209/system-order/internal/handler"
	"github.com/MarioTomas0209/system-order/internal/logger"
	"github.com/MarioTomas0209/system-order/internal/middleware"
	"github.com/MarioTomas0209/system-order/internal/repository"
	"github.com/MarioTomas0209/system-order/internal/service"
	"github.com/MarioTomas0209/system-order/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           System Order API
// @version         1.0
// @description     Order tracking, payment and delivery management API for multi-branch fabrication workshops.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	appLogger, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer appLogger.Sync()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "system_order"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		appLogger.Sugar().Fatalf("Database connection failed: %v", err)
	}
	appLogger.Info("Connected to PostgreSQL successfully")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	userService := service.NewUserService(userRepo, orderRepo)
	branchService := service.NewBranchService(branchRepo, orderRepo)
	orderService := service.NewOrderService(orderRepo, paymentRepo, deliveryRepo, branchRepo, txManager, wsHub, appLogger)
	reportService := service.NewReportService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	branchHandler := handler.NewBranchHandler(branchService)
	orderHandler := handler.NewOrderHandler(orderService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(appLogger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	branchHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	appLogger.Sugar().Infof("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		appLogger.Sugar().Fatalf("Server failed: %v", err)
	}
}
