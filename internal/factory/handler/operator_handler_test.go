package handler_test

import (
	"sync"
	"testing"

	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/testutil"
)

func TestOperatorStartStopFlow(t *testing.T) {
	db, router := setupAPI(t)
	op := testutil.SeedOperator(t, db, "OP-01", "Amina")
	machine := testutil.SeedMachine(t, db, "M-01", "Loom A")

	start := map[string]interface{}{
		"operator_id": op.ID,
		"machine_id":  machine.ID,
	}
	w := testutil.DoRequest(router, "POST", "/api/operator-entries/start", start)
	if w.Code != 201 {
		t.Fatalf("start status = %d, body %s", w.Code, w.Body.String())
	}

	// A second start while the first entry is open conflicts.
	w = testutil.DoRequest(router, "POST", "/api/operator-entries/start", start)
	if w.Code != 409 {
		t.Fatalf("double start status = %d, want 409", w.Code)
	}

	w = testutil.DoRequest(router, "GET", "/api/operator-entries/open", nil)
	items := data(t, testutil.ParseResponse(w))["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("open entries = %d, want 1", len(items))
	}

	w = testutil.DoRequest(router, "PUT", "/api/operator-entries/stop", map[string]interface{}{
		"operator_id": op.ID,
	})
	if w.Code != 200 {
		t.Fatalf("stop status = %d, body %s", w.Code, w.Body.String())
	}
	entry := data(t, testutil.ParseResponse(w))
	if entry["end_time"] == nil {
		t.Fatal("stopped entry has no end_time")
	}

	// No open entry left: stop again is a 404, start works again.
	w = testutil.DoRequest(router, "PUT", "/api/operator-entries/stop", map[string]interface{}{
		"operator_id": op.ID,
	})
	if w.Code != 404 {
		t.Fatalf("second stop status = %d, want 404", w.Code)
	}
	w = testutil.DoRequest(router, "POST", "/api/operator-entries/start", start)
	if w.Code != 201 {
		t.Fatalf("restart status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestOperatorDeleteBlockedByEntries(t *testing.T) {
	db, router := setupAPI(t)
	op := testutil.SeedOperator(t, db, "OP-02", "Bilal")
	machine := testutil.SeedMachine(t, db, "M-02", "Loom B")

	w := testutil.DoRequest(router, "POST", "/api/operator-entries/start", map[string]interface{}{
		"operator_id": op.ID,
		"machine_id":  machine.ID,
	})
	if w.Code != 201 {
		t.Fatalf("start status = %d", w.Code)
	}

	w = testutil.DoRequest(router, "DELETE", "/api/operators/"+op.ID, nil)
	if w.Code != 409 {
		t.Fatalf("delete status = %d, want 409", w.Code)
	}
}

func TestStartWorkUnknownOperator(t *testing.T) {
	db, router := setupAPI(t)
	machine := testutil.SeedMachine(t, db, "M-03", "Cutter")

	w := testutil.DoRequest(router, "POST", "/api/operator-entries/start", map[string]interface{}{
		"operator_id": "11111111-1111-1111-1111-111111111111",
		"machine_id":  machine.ID,
	})
	if w.Code != 404 {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestStartWorkConcurrentSingleWinner(t *testing.T) {
	db, router := setupAPI(t)
	op := testutil.SeedOperator(t, db, "OP-04", "Chandni")
	machine := testutil.SeedMachine(t, db, "M-04", "Loom C")

	// Two racing starts for the same operator: the row lock serializes the
	// open-entry check, and the partial unique index backstops it.
	body := map[string]interface{}{
		"operator_id": op.ID,
		"machine_id":  machine.ID,
	}
	codes := make(chan int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- testutil.DoRequest(router, "POST", "/api/operator-entries/start", body).Code
		}()
	}
	wg.Wait()
	close(codes)

	var started, conflicted int
	for code := range codes {
		switch code {
		case 201:
			started++
		case 409:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if started != 1 || conflicted != 1 {
		t.Fatalf("got %d starts and %d conflicts, want 1 and 1", started, conflicted)
	}

	w := testutil.DoRequest(router, "GET", "/api/operator-entries/open", nil)
	items := data(t, testutil.ParseResponse(w))["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("open entries = %d, want 1", len(items))
	}
}

func TestStartWorkInactiveOperator(t *testing.T) {
	db, router := setupAPI(t)
	op := testutil.SeedOperator(t, db, "OP-05", "Danish")
	machine := testutil.SeedMachine(t, db, "M-05", "Press")
	if err := db.Model(&entity.Operator{}).Where("id = ?", op.ID).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate operator: %v", err)
	}

	w := testutil.DoRequest(router, "POST", "/api/operator-entries/start", map[string]interface{}{
		"operator_id": op.ID,
		"machine_id":  machine.ID,
	})
	if w.Code != 409 {
		t.Fatalf("inactive start status = %d, want 409, body %s", w.Code, w.Body.String())
	}
}

func TestOperatorDuplicateCodeConflicts(t *testing.T) {
	_, router := setupAPI(t)

	body := map[string]interface{}{
		"operator_code": "OP-10",
		"name":          "Farhan",
	}
	w := testutil.DoRequest(router, "POST", "/api/operators", body)
	if w.Code != 201 {
		t.Fatalf("first create status = %d, body %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(router, "POST", "/api/operators", body)
	if w.Code != 409 {
		t.Fatalf("duplicate create status = %d, want 409, body %s", w.Code, w.Body.String())
	}
}
