package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vitrine/internal/models"
)

func TestBuildApp(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:main_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductAnalytics{}, &models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	app := buildApp(db, "test_jwt_secret", nil)

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		if err != nil {
			t.Fatalf("Health check request failed: %v", err)
		}
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("PublicListing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
		if err != nil {
			t.Fatalf("Products request failed: %v", err)
		}
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("AdminRouteRequiresToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("Create request failed: %v", err)
		}
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
