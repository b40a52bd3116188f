// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ptbook/internal/delivery/http/middleware"
	"ptbook/internal/delivery/http/router/handler"
	"ptbook/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler       *handler.UserHandler
	BookingHandler    *handler.BookingHandler
	PointHandler      *handler.PointHandler
	SettlementHandler *handler.SettlementHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler       *handler.UserHandler
	bookingHandler    *handler.BookingHandler
	pointHandler      *handler.PointHandler
	settlementHandler *handler.SettlementHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:       params.UserHandler,
		bookingHandler:    params.BookingHandler,
		pointHandler:      params.PointHandler,
		settlementHandler: params.SettlementHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public: the signup flow picks a trainer before an account exists
	e.GET("/trainers", r.userHandler.ListTrainers)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.RegisterMember)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// Current-user routes
	meGroup := e.Group("/me")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("/profile", r.userHandler.GetProfile)
		meGroup.PUT("/push-token", r.userHandler.RegisterPushToken)
	}

	// Trainer calendars, projected per role
	trainerGroup := e.Group("/trainers")
	trainerGroup.Use(r.authMiddleware.Authenticate)
	{
		trainerGroup.GET("/:id/availability", r.bookingHandler.GetAvailability)
	}

	// Appointment lifecycle
	appointmentGroup := e.Group("/appointments")
	appointmentGroup.Use(r.authMiddleware.Authenticate)
	{
		appointmentGroup.POST("", r.bookingHandler.Book)
		appointmentGroup.GET("", r.bookingHandler.ListAppointments)
		appointmentGroup.GET("/:id", r.bookingHandler.GetAppointment)
		appointmentGroup.POST("/:id/cancel", r.bookingHandler.Cancel)
		appointmentGroup.GET("/:id/qrcode", r.bookingHandler.GetCheckInQR)

		appointmentGroup.POST("/:id/complete", r.bookingHandler.Complete, r.authMiddleware.RequireStaff)
		appointmentGroup.POST("/:id/no-show", r.bookingHandler.MarkNoShow, r.authMiddleware.RequireStaff)
		appointmentGroup.POST("/check-in", r.bookingHandler.CheckIn, r.authMiddleware.RequireStaff)
	}

	// Catalog and point ledger
	productGroup := e.Group("/products")
	productGroup.Use(r.authMiddleware.Authenticate)
	{
		productGroup.GET("", r.pointHandler.ListProducts)
		productGroup.POST("", r.pointHandler.CreateProduct, r.authMiddleware.RequireRole(entity.RoleAdmin))
	}

	pointGroup := e.Group("/points")
	pointGroup.Use(r.authMiddleware.Authenticate)
	{
		pointGroup.POST("/purchase", r.pointHandler.Purchase)
		pointGroup.GET("/balance", r.pointHandler.GetBalance)
	}

	// Monthly settlements for payout processing
	settlementGroup := e.Group("/settlements")
	settlementGroup.Use(r.authMiddleware.Authenticate)
	settlementGroup.Use(r.authMiddleware.RequireStaff)
	{
		settlementGroup.GET("/:month", r.settlementHandler.MonthlyStats)
		settlementGroup.POST("/:month/export", r.settlementHandler.Export, r.authMiddleware.RequireRole(entity.RoleAdmin))
	}

	// Admin-only operations
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.POST("/staff", r.userHandler.CreateStaff)
		adminGroup.POST("/appointments/sweep", r.bookingHandler.Sweep)
		adminGroup.GET("/logs", r.bookingHandler.ListLogs)
	}
}
