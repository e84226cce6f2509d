package handlers

import (
	"net/http"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "transitpay backend running"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected"})
		return
	}
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database ping failed: " + err.Error()})
		return
	}

	missing := []string{}
	for _, table := range []string{"users", "bookings", "booking_seats", "payments", "scheduled_trips", "trip_seat_holds", "trip_booked_seats", "wallet_transactions", "fund_requests"} {
		if !intdb.HasTable(intconfig.DB, table) {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "missing_tables": missing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK"})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
