package routes

import (
	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/controllers"
	"github.com/charlotte58cafe/loyalty-be/middleware"
	"github.com/charlotte58cafe/loyalty-be/websocket"
	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	r := gin.Default()

	// Initialize controllers
	authController := controllers.NewAuthController()
	userController := controllers.NewUserController()
	transactionController := controllers.NewTransactionController()
	redemptionController := controllers.NewRedemptionController()
	adminController := controllers.NewAdminController()
	dashboardController := controllers.NewDashboardController()

	// Uploaded reward images
	r.Static("/uploads", "./uploads")

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/send-otp", authController.SendOTP)
		public.POST("/auth/verify-otp", authController.VerifyOTP)
		public.POST("/auth/staff/login", authController.StaffLogin)
	}

	// Customer routes
	customer := r.Group("/api/v1")
	customer.Use(middleware.AuthMiddleware())
	customer.Use(middleware.CustomerOnly())
	{
		customer.GET("/auth/me", authController.Me)
		customer.GET("/summary", userController.GetSummary)
		customer.GET("/points", userController.GetPointLog)
		customer.GET("/transactions", userController.GetTransactions)
		customer.GET("/rewards", userController.GetRewards)
		customer.POST("/rewards/:id/redemptions", redemptionController.RequestRedemption)
		customer.GET("/redemptions", redemptionController.GetHistory)
		customer.GET("/redemptions/:code", redemptionController.CheckStatus)
	}

	// Staff routes (staff and admin)
	staff := r.Group("/api/v1/admin")
	staff.Use(middleware.AuthMiddleware())
	staff.Use(middleware.StaffOnly())
	{
		staff.POST("/transactions", transactionController.RecordPurchase)

		staff.GET("/redemptions", redemptionController.ListRedemptions)
		staff.POST("/redemptions/verify", redemptionController.VerifyRedemption)
		staff.PUT("/redemptions/:id/complete", redemptionController.CompleteRedemption)
		staff.DELETE("/redemptions/:id", redemptionController.CancelRedemption)

		staff.GET("/dashboard", dashboardController.GetStats)
		staff.GET("/ws", websocket.HandleWebSocket(config.WSHub))
	}

	// Admin only routes
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.StaffOnly())
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/users", adminController.GetUsers)

		admin.POST("/rewards", adminController.CreateReward)
		admin.GET("/rewards", adminController.GetRewards)
		admin.PUT("/rewards/:id", adminController.UpdateReward)
		admin.DELETE("/rewards/:id", adminController.DeleteReward)
		admin.POST("/rewards/:id/image", adminController.UploadRewardImage)

		admin.GET("/points-rate", adminController.GetPointsRate)
		admin.POST("/points-rate", adminController.SetPointsRate)
	}

	return r
}
