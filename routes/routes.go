package routes

import (
	"net/http"
	"time"

	"pocketclass/handlers"
	"pocketclass/middleware"
	"pocketclass/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterClassRoutes registers the public class endpoints.
func RegisterClassRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/classes")
	{
		api.GET("/:classID/slots", hb.GetDaySlots)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(utils.RoleStudent))
		bookingGroup.POST("/checkout", hb.StartCheckout)
		bookingGroup.POST("/checkout/:checkoutID/confirm", hb.ConfirmCheckout)
		bookingGroup.GET("/:bookingID/eligibility", hb.GetEligibility)
		bookingGroup.POST("/:bookingID/cancel", hb.CancelBooking)
		bookingGroup.POST("/:bookingID/reschedule", hb.RescheduleBooking)
		bookingGroup.GET("/:bookingID/refund", hb.GetRefundQuote)
		bookingGroup.POST("/:bookingID/refund", hb.RefundBooking)
	}
}

// RegisterAIRoutes registers AI endpoints.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/ai")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/reviews/analyze", hb.AnalyzeReview)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the
// background health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterClassRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAIRoutes(r, hb)
}
