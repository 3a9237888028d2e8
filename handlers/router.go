package handlers

import (
	"issuetracker/database"
	"issuetracker/middleware"
	"issuetracker/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter wires the health check and the issue routes.
// When apiKey is non-empty the /api group requires a bearer token.
// Requests are logged to logger.
func NewRouter(store database.IssueStore, svc *service.IssueService, apiKey string, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/health", HealthCheck(store))

	api := r.Group("/api")
	if apiKey != "" {
		api.Use(middleware.APIKeyRequired(apiKey))
	}

	issues := api.Group("/issues/:project")
	issues.GET("", ListIssues(svc))
	issues.POST("", CreateIssue(svc))
	issues.PUT("", UpdateIssue(svc))
	issues.DELETE("", DeleteIssue(svc))

	return r
}
