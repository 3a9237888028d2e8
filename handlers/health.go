package handlers

import (
	"context"
	"net/http"
	"time"

	"issuetracker/database"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func HealthCheck(store database.IssueStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
}
