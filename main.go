package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/roomloop/chat_backend/controllers"
	"github.com/roomloop/chat_backend/database"
	"github.com/roomloop/chat_backend/docs"
	"github.com/roomloop/chat_backend/middleware"
	"github.com/roomloop/chat_backend/services"
	"github.com/roomloop/chat_backend/uploads"
	"github.com/roomloop/chat_backend/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Chat Rooms API
// @version         1.0
// @description     API Server for the chat rooms application
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize storage backends
	db := database.Connect()
	database.Migrate(db)
	redisClient := database.ConnectRedis()

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads-data"
	}
	storage := uploads.NewLocalStorage(uploadsDir)

	// Services
	hasher := services.BcryptHasher{}
	usersService := services.NewUsersService(db, hasher)
	roomsService := services.NewRoomsService(db, hasher)
	messagesService := services.NewMessagesService(db, roomsService)
	tokensService := services.NewTokensService(redisClient)

	// Presence hub
	hub := websocket.NewHub(usersService)
	go hub.Run()
	wsHandler := websocket.NewHandler(hub, usersService)

	// Controllers
	authController := controllers.NewAuthController(usersService, tokensService)
	userController := controllers.NewUserController(usersService, storage)
	roomController := controllers.NewRoomController(roomsService)
	messageController := controllers.NewMessageController(messagesService, storage)

	// Set up Swagger info
	docs.SwaggerInfo.Host = "localhost:" + os.Getenv("PORT")
	if docs.SwaggerInfo.Host == "localhost:" {
		docs.SwaggerInfo.Host = "localhost:8080"
	}

	// Set up router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded blobs
	router.Static("/uploads", uploadsDir)

	// Authentication routes
	auth := router.Group("/api")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth(usersService))
	{
		// User routes
		api.GET("/users/me", userController.GetMe)
		api.PUT("/users/me", userController.UpdateProfile)
		api.GET("/users", userController.GetUsers)
		api.GET("/users/:id", userController.GetUser)
		api.GET("/users/:id/rooms/created", roomController.GetRoomsUserCreated)
		api.GET("/users/:id/rooms/joined", roomController.GetRoomsUserJoined)

		// Room routes
		api.GET("/rooms", roomController.GetRooms)
		api.POST("/rooms", roomController.CreateRoom)
		api.DELETE("/rooms/:id", roomController.DeleteRoom)
		api.POST("/rooms/:id/participants", roomController.JoinRoom)
		api.GET("/rooms/:id/participants", roomController.GetRoomParticipants)
		api.DELETE("/rooms/:id/leave", roomController.LeaveRoom)

		// Message routes
		api.POST("/rooms/:id/messages", messageController.CreateMessage)
		api.GET("/rooms/:id/messages", messageController.GetMessages)
	}

	// WebSocket route
	router.GET("/ws", wsHandler.HandleConnection)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on port %s", port)
	log.Printf("Swagger documentation available at http://localhost:%s/swagger/index.html", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
