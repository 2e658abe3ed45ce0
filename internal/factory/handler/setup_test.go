package handler_test

import (
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/handler"
	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/repository"
	"github.com/sameed619/FMS/internal/factory/service"
	"github.com/sameed619/FMS/internal/factory/testutil"
)

// setupAPI builds a router with the full API wired against an isolated
// test schema.
func setupAPI(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	stock := ledger.NewStockLedger(db, zap.NewNop())

	invRepo := repository.NewInventoryRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	machineRepo := repository.NewMachineRepository(db)

	handlers := handler.NewHandlers(
		service.NewInventoryService(invRepo, stock, db),
		service.NewRecipeService(recipeRepo, invRepo),
		service.NewProductionService(repository.NewProductionRepository(db), recipeRepo, machineRepo, stock, db),
		service.NewPurchaseService(repository.NewPurchaseRepository(db), stock, db),
		service.NewMachineService(machineRepo, repository.NewMachineLogRepository(db), db),
		service.NewOperatorService(repository.NewOperatorRepository(db), repository.NewOperatorEntryRepository(db), db),
	)

	router := testutil.SetupRouter()
	handler.RegisterRoutes(router, handlers)
	return db, router
}

// data extracts the data object from a parsed response envelope.
func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return d
}
