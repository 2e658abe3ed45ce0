package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sameed619/FMS/internal/factory/entity"
)

const TestSchema = "test_factory"

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "factory")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Create a unique test schema for isolation
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	// First: create schema using a temporary connection
	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// Second: open connection with search_path in DSN so ALL pooled connections use test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		name  VARCHAR(64) PRIMARY KEY,
		value BIGINT NOT NULL DEFAULT 0
	)`).Error; err != nil {
		t.Fatalf("Failed to create sequences table: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_operator_entries_open
		ON operator_entries (operator_id) WHERE end_time IS NULL`).Error; err != nil {
		t.Fatalf("Failed to create open-entry index: %v", err)
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		// Reconnect to drop the schema
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedItem creates an inventory item with the given code and stock.
func SeedItem(t *testing.T, db *gorm.DB, code, itemType, name string, qty float64) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		ItemCode: code,
		ItemType: itemType,
		Name:     name,
		StockQty: qty,
		Unit:     "m",
		Supplier: "Test Supplier",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed inventory item: %v", err)
	}
	return item
}

// SeedRecipe creates a recipe with one material line per item given.
func SeedRecipe(t *testing.T, db *gorm.DB, product string, lines map[*entity.InventoryItem]float64) *entity.Recipe {
	t.Helper()
	recipe := &entity.Recipe{ProductName: product}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("Failed to seed recipe: %v", err)
	}
	for item, qty := range lines {
		mat := &entity.RecipeMaterial{RecipeID: recipe.ID, ItemID: item.ID, QtyPerUnit: qty}
		if err := db.Create(mat).Error; err != nil {
			t.Fatalf("Failed to seed recipe material: %v", err)
		}
	}
	return recipe
}

// SeedMachine creates a machine.
func SeedMachine(t *testing.T, db *gorm.DB, code, name string) *entity.Machine {
	t.Helper()
	machine := &entity.Machine{
		MachineCode: code,
		Name:        name,
		Status:      entity.MachineStatusActive,
	}
	if err := db.Create(machine).Error; err != nil {
		t.Fatalf("Failed to seed machine: %v", err)
	}
	return machine
}

// SeedOperator creates an active operator.
func SeedOperator(t *testing.T, db *gorm.DB, code, name string) *entity.Operator {
	t.Helper()
	op := &entity.Operator{
		OperatorCode: code,
		Name:         name,
		Active:       true,
	}
	if err := db.Create(op).Error; err != nil {
		t.Fatalf("Failed to seed operator: %v", err)
	}
	return op
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
