package api

import (
	"log"
	stdhttp "net/http"

	intconfig "transitpay/internal/config"
	h "transitpay/internal/http/handlers"
	"transitpay/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(), middleware.Metrics())

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

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := middleware.Auth(env.JWTSecret)
	adminOnly := middleware.RequireRoles("admin")
	staff := middleware.RequireRoles("admin", "driver")

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", authed, h.Me)

		// Payment reconciliation (client-invoked after checkout)
		api.POST("/verify-payment", h.VerifyPayment)
		api.POST("/verify-charter-payment", h.VerifyCharterPayment)

		// Provider callbacks
		api.POST("/paystack/webhook", h.PaystackWebhook)

		// Admin payment backfill
		api.POST("/payments/sync", authed, adminOnly, h.SyncPayments)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id/status", authed, staff, h.UpdateBookingStatus)
		bookings.GET("/:id/e-ticket", h.GetETicket)
		bookings.GET("/:id/receipt", h.GetReceipt)

		// Trips
		trips := api.Group("/trips")
		trips.GET("", h.SearchTrips)
		trips.GET("/:id/seats", h.GetTripSeats)
		trips.POST("", authed, adminOnly, h.CreateTrip)
		trips.PUT("/:id", authed, adminOnly, h.UpdateTrip)
		trips.DELETE("/:id", authed, adminOnly, h.DeleteTrip)

		// Wallet
		wallet := api.Group("/wallet", authed)
		wallet.GET("", h.GetWallet)
		wallet.POST("/verify-topup", h.VerifyWalletTopup)
		wallet.POST("/withdrawals", h.RequestWithdrawal)
		wallet.POST("/pin", h.SetWalletPin)

		// Withdrawal settlement
		fundRequests := api.Group("/fund-requests", authed, adminOnly)
		fundRequests.GET("", h.ListFundRequests)
		fundRequests.PUT("/:id/approve", h.ApproveFundRequest)
		fundRequests.PUT("/:id/reject", h.RejectFundRequest)

		// Fleet administration
		vehicles := api.Group("/vehicles", authed, adminOnly)
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)

		drivers := api.Group("/drivers", authed, adminOnly)
		drivers.GET("", h.ListDrivers)
		drivers.POST("", h.CreateDriver)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", h.DeleteDriver)

		routes := api.Group("/transit-routes")
		routes.GET("", h.ListRoutes)
		routes.POST("", authed, adminOnly, h.CreateRoute)
		routes.PUT("/:id", authed, adminOnly, h.UpdateRoute)
		routes.DELETE("/:id", authed, adminOnly, h.DeleteRoute)
	}

	h.SetRouter(r)
	return r
}
