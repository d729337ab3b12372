package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/middleware"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/internal/routes"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	baseDSN    = "postgres://postgres:@localhost:5432/postgres?sslmode=disable"
	testDBName = "vibehelper_test"
)

func setupTestDB(t *testing.T) *gorm.DB {
	config.AppConfig = &config.Config{
		JWTSecret: "test_secret_key_12345",
		AppURL:    "https://vibe-helper.test",
	}

	db, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to postgres DB: %v", err)
	}

	// Terminate lingering connections so DROP succeeds
	db.Exec(fmt.Sprintf("SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s'", testDBName))

	if err := db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName)).Error; err != nil {
		t.Fatalf("Failed to drop test DB: %v", err)
	}

	if err := db.Exec(fmt.Sprintf("CREATE DATABASE %s", testDBName)).Error; err != nil {
		t.Fatalf("Failed to create test DB: %v", err)
	}

	testDSN := fmt.Sprintf("postgres://postgres:@localhost:5432/%s?sslmode=disable", testDBName)
	testDB, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test DB: %v", err)
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.CursorRule{},
		&models.RuleRequest{},
		&models.Like{},
		&models.RuleView{},
		&models.RuleCopy{},
		&models.Notification{},
		&models.SystemSettings{},
		&models.AdminAuditLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	// Handlers resolve the connection through the package-level variable
	database.DB = testDB

	return testDB
}

// setupRouter mirrors the route layout in cmd/server/main.go.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	r.Use(middleware.ErrorHandlerMiddleware())

	api := r.Group("/api")
	{
		routes.RegisterAuthRoutes(api)
		routes.RegisterRegistryRoutes(api)
		routes.RegisterAdminRoutes(api)
		routes.RegisterRuleRoutes(api)
		routes.RegisterRequestRoutes(api)
		routes.RegisterNotificationRoutes(api)
		routes.RegisterGithubRoutes(api)
	}

	return r
}

// --- Shared helpers ---

func createTestUser(t *testing.T, prefix string, role string) string {
	passHash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		ID:       utils.GenerateID(),
		Username: prefix + "_user",
		Email:    prefix + "@test.com",
		Password: string(passHash),
		Name:     prefix + " Test",
		Role:     models.Role(role),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", prefix, err)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func performRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(jsonBytes))
	} else {
		bodyReader = strings.NewReader("")
	}

	req, _ := http.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response body: %v (body: %s)", err, w.Body.String())
	}
	return resp
}
