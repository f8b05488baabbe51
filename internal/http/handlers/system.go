package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "homeservice/internal/config"
	intdb "homeservice/internal/db"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck reports connectivity and whether the core tables exist.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not reachable: " + err.Error()})
		return
	}
	tables := gin.H{}
	for _, t := range []string{"users", "worker_profiles", "services", "bookings", "otps", "payments", "notifications"} {
		tables[t] = intdb.HasTable(intconfig.DB, t)
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "tables": tables})
}
