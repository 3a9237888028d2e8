package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"issuetracker/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthCheck_Unavailable(t *testing.T) {
	store := brokenStore{}
	router := NewRouter(store, service.NewIssueService(store), "", zerolog.Nop())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}
