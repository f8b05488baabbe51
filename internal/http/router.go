package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "homeservice/internal/config"
	h "homeservice/internal/http/handlers"
	"homeservice/internal/http/middleware"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		authed := api.Group("")
		authed.Use(middleware.Auth(env.JWTSecret))

		// Bookings (customer surface)
		bookings := authed.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/all", h.ListAllBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/rated", h.MarkBookingRated)

		// Reschedule workflow for delayed bookings
		bookings.POST("/:id/suggest", h.SuggestReschedule)
		bookings.POST("/:id/respond", h.RespondToReschedule)

		// Admin assignment and worker approval
		bookings.POST("/:id/assign", h.AssignWorker)
		workers := authed.Group("/workers")
		workers.POST("/:id/approval", h.WorkerApproval)

		// Worker surface
		worker := authed.Group("/worker")
		worker.GET("/bookings", h.ListWorkerBookings)
		worker.POST("/bookings/:id/decision", h.DecideBooking)
		worker.POST("/bookings/:id/reached", h.MarkReached)
		worker.POST("/bookings/:id/generate-otp", h.GenerateOtp)
		worker.POST("/verify-otp", h.VerifyOtp)

		// Payments
		payments := authed.Group("/payments")
		payments.POST("", h.ProcessPayment)
		payments.GET("/:id", h.PaymentDetails)
		payments.GET("/:id/receipt", h.PaymentReceipt)

		// Notifications
		notifications := authed.Group("/notifications")
		notifications.GET("", h.ListNotifications)
		notifications.POST("/:id/read", h.MarkNotificationRead)
	}

	return r
}
