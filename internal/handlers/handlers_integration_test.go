package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"vitrine/internal/handlers"
	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/repositories"
	"vitrine/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp boots the full HTTP surface against a test-scoped in-memory
// SQLite database, wired exactly like main.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	v := viper.New()
	v.SetDefault("JWT_SECRET", "test_jwt_secret")
	v.AutomaticEnv()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductAnalytics{}, &models.User{}); err != nil {
		t.Fatalf("Failed to auto-migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	productRepo := repositories.NewGORMProductRepository(db)
	analyticsRepo := repositories.NewGORMAnalyticsRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	productService := services.NewProductService(productRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo, nil) // no broker in tests
	authService := services.NewAuthService(userRepo, v.GetString("JWT_SECRET"))

	app := fiber.New()
	authRequired := middleware.AuthRequired(authService)
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, authRequired)
	handlers.NewAnalyticsHandler(analyticsService).RegisterRoutes(apiV1, authRequired)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

// registerAndLogin creates an account and returns its bearer token,
// optionally promoting it to admin first (promotion has no public
// endpoint on purpose).
func registerAndLogin(t *testing.T, app *fiber.App, db *gorm.DB, email string, admin bool) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{
		"email":    email,
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	if admin {
		if err := db.Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleAdmin).Error; err != nil {
			t.Fatalf("Failed to promote %s to admin: %v", email, err)
		}
	}

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{
		"email":    email,
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginBody struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &loginBody)
	assert.NotEmpty(t, loginBody.Token)
	return loginBody.Token
}

func TestAuthEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	// Invalid registration body.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{"email": "nope", "password": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Happy path, then duplicate email.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{"email": "a@loja.dev", "password": "secret123"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", fiber.Map{"email": "a@loja.dev", "password": "secret123"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", fiber.Map{"email": "a@loja.dev", "password": "errada1"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProductAuthorization(t *testing.T) {
	app, db := setupApp(t)
	input := fiber.Map{"name": "PC Gamer Pro", "category": "gamer"}

	// Anonymous caller: rejected by the auth middleware.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", input, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Authenticated non-admin: forbidden by the service.
	userToken := registerAndLogin(t, app, db, "user@loja.dev", false)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", input, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admin with a missing name: validation error.
	adminToken := registerAndLogin(t, app, db, "admin@loja.dev", true)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", fiber.Map{"category": "gamer"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody struct {
		Code   string            `json:"code"`
		Errors map[string]string `json:"errors"`
	}
	decodeJSON(t, resp, &errBody)
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
	assert.Contains(t, errBody.Errors, "Name")
}

func TestProductLifecycleWithAnalytics(t *testing.T) {
	app, db := setupApp(t)
	adminToken := registerAndLogin(t, app, db, "admin@loja.dev", true)
	userToken := registerAndLogin(t, app, db, "user@loja.dev", false)

	// Create with defaults applied.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", fiber.Map{
		"name":     "PC Gamer Pro",
		"category": "gamer",
	}, adminToken)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeJSON(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.DefaultPrice, created.Price)

	// Public listing sees it.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page repositories.Page
	decodeJSON(t, resp, &page)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, created.ID, page.Data[0].ID)

	// Three concurrent views are all counted. No t.Fatal in the
	// goroutines: only the test goroutine may abort the test.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			_ = json.NewEncoder(&buf).Encode(fiber.Map{"productId": created.ID, "type": "view"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", &buf)
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	// Admin reads the counters back.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/analytics/"+created.ID, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var counters models.ProductAnalytics
	decodeJSON(t, resp, &counters)
	assert.Equal(t, int64(3), counters.Views)
	assert.Equal(t, int64(0), counters.Clicks)

	// The mapping endpoint is admin-only.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/analytics", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodGet, "/api/v1/analytics", nil, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodGet, "/api/v1/analytics", nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var mapping map[string]services.AnalyticsStats
	decodeJSON(t, resp, &mapping)
	assert.Equal(t, int64(3), mapping[created.ID].Views)

	// Partial update leaves other fields untouched.
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/"+created.ID, fiber.Map{
		"price": "R$ 4.999,00",
	}, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decodeJSON(t, resp, &updated)
	assert.Equal(t, "R$ 4.999,00", updated.Price)
	assert.Equal(t, "PC Gamer Pro", updated.Name)

	// Soft delete, then every read path returns 404.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, nil, adminToken)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &page)
	assert.Equal(t, int64(0), page.Total)

	// Counters survive the product's deletion.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/analytics/"+created.ID, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &counters)
	assert.Equal(t, int64(3), counters.Views)
}

func TestListQueryValidation(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{
		"/api/v1/products?page=abc",
		"/api/v1/products?page=0",
		"/api/v1/products?page_size=1000",
		"/api/v1/products?category=drones",
	} {
		resp := doJSON(t, app, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for %s", path)
		resp.Body.Close()
	}
}

func TestTrackValidation(t *testing.T) {
	app, _ := setupApp(t)

	// Unknown event type.
	resp := doJSON(t, app, http.MethodPost, "/api/v1/analytics/track", fiber.Map{
		"productId": "p1",
		"type":      "hover",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Missing product id.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/analytics/track", fiber.Map{"type": "view"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Tracking an id with no product row is accepted by design.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/analytics/track", fiber.Map{
		"productId": "ghost-product",
		"type":      "click",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ok struct {
		OK bool `json:"ok"`
	}
	decodeJSON(t, resp, &ok)
	assert.True(t, ok.OK)
}
