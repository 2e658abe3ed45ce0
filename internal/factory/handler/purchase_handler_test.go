package handler_test

import (
	"testing"

	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/testutil"
)

func TestPurchaseCreateFeedsStock(t *testing.T) {
	db, router := setupAPI(t)

	body := map[string]interface{}{
		"supplier":      "Silk House",
		"bill_number":   "B-100",
		"purchase_date": "2026-03-15",
		"items": []map[string]interface{}{
			{
				"item_code":      "101", // bare digits, should land as MSK-101
				"item_type":      "Fabric",
				"name":           "Red Silk",
				"quantity":       25,
				"unit":           "m",
				"price_per_unit": 12.5,
			},
		},
	}
	w := testutil.DoRequest(router, "POST", "/api/purchases", body)
	if w.Code != 201 {
		t.Fatalf("create purchase status = %d, body %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["success"] != true {
		t.Fatalf("success = %v, want true", resp["success"])
	}
	entry := data(t, resp)
	if entry["entry_number"] != "PUR-001" {
		t.Fatalf("entry_number = %v, want PUR-001", entry["entry_number"])
	}

	var item entity.InventoryItem
	if err := db.Where("item_code = ?", "MSK-101").First(&item).Error; err != nil {
		t.Fatalf("item MSK-101 not created: %v", err)
	}
	if item.StockQty != 25 {
		t.Fatalf("stock = %v, want 25", item.StockQty)
	}
}

func TestPurchaseEditAppliesNetDelta(t *testing.T) {
	db, router := setupAPI(t)

	create := map[string]interface{}{
		"supplier":      "Thread Co",
		"purchase_date": "2026-03-01",
		"items": []map[string]interface{}{
			{"item_code": "MSK-7", "item_type": "Thread", "name": "White Thread", "quantity": 10, "unit": "pc"},
		},
	}
	w := testutil.DoRequest(router, "POST", "/api/purchases", create)
	if w.Code != 201 {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	entryID := data(t, testutil.ParseResponse(w))["id"].(string)

	update := map[string]interface{}{
		"items": []map[string]interface{}{
			{"item_code": "MSK-7", "item_type": "Thread", "name": "White Thread", "quantity": 4, "unit": "pc"},
		},
	}
	w = testutil.DoRequest(router, "PUT", "/api/purchases/"+entryID, update)
	if w.Code != 200 {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	var item entity.InventoryItem
	if err := db.Where("item_code = ?", "MSK-7").First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	// 10 received, edit nets -6: stock is 4, not 10-10+4 applied twice.
	if item.StockQty != 4 {
		t.Fatalf("stock after edit = %v, want 4", item.StockQty)
	}
}

func TestPurchaseDeleteReversesOnce(t *testing.T) {
	db, router := setupAPI(t)

	create := map[string]interface{}{
		"supplier":      "Thread Co",
		"purchase_date": "2026-03-01",
		"items": []map[string]interface{}{
			{"item_code": "MSK-8", "item_type": "Thread", "name": "Black Thread", "quantity": 12, "unit": "pc"},
		},
	}
	w := testutil.DoRequest(router, "POST", "/api/purchases", create)
	if w.Code != 201 {
		t.Fatalf("create status = %d", w.Code)
	}
	entryID := data(t, testutil.ParseResponse(w))["id"].(string)

	w = testutil.DoRequest(router, "DELETE", "/api/purchases/"+entryID, nil)
	if w.Code != 200 {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}

	var item entity.InventoryItem
	if err := db.Where("item_code = ?", "MSK-8").First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.StockQty != 0 {
		t.Fatalf("stock after delete = %v, want 0", item.StockQty)
	}

	// Entry is gone; a second delete is a 404, not a second reversal.
	w = testutil.DoRequest(router, "DELETE", "/api/purchases/"+entryID, nil)
	if w.Code != 404 {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
	if item.StockQty != 0 {
		t.Fatalf("stock after second delete = %v, want still 0", item.StockQty)
	}
}

func TestPurchaseRejectsInvalidItemCode(t *testing.T) {
	_, router := setupAPI(t)

	body := map[string]interface{}{
		"supplier":      "Bad Co",
		"purchase_date": "2026-03-01",
		"items": []map[string]interface{}{
			{"item_code": "hello", "item_type": "Thread", "name": "Bad", "quantity": 1, "unit": "pc"},
		},
	}
	w := testutil.DoRequest(router, "POST", "/api/purchases", body)
	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["success"] != false {
		t.Fatalf("success = %v, want false", resp["success"])
	}
}
