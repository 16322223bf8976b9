package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	initDB()
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}
	return token
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register a collector. Unique name per run so the step exercises
	// registration even against a persistent test database.
	collector := fmt.Sprintf("collector-%d", time.Now().UnixNano())
	regBody, _ := json.Marshal(map[string]string{"username": collector, "password": "collect123", "area": "Market Road"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	// the fresh collector can log in
	_ = loginAs(t, r, collector, "collect123")

	// 2. Login as the seeded owner (transactions and reports need owner rights)
	token := loginAs(t, r, "admin", "admin123")

	// 3. Create customer
	custBody, _ := json.Marshal(map[string]any{
		"name": "Test Customer", "phone_number": "0811111111",
		"area": "Market Road", "is_monthly": true,
	})
	resp = performRequest(r, http.MethodPost, "/customers", bytes.NewBuffer(custBody), token, "application/json")
	if resp.Code != 201 {
		t.Fatalf("create customer failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var customer map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &customer)
	customerID := uint(customer["ID"].(float64))

	// 4. Create a monthly interest loan
	loanBody, _ := json.Marshal(map[string]any{
		"customer_id": customerID, "loan_type": "Monthly Interest Loan",
		"principal_amount": "10000", "monthly_interest_rate": "5",
		"interest_cycle_day": 15, "start_date": time.Now().UTC().Format("2006-01-02"),
	})
	resp = performRequest(r, http.MethodPost, "/loans", bytes.NewBuffer(loanBody), token, "application/json")
	if resp.Code != 201 {
		t.Fatalf("create loan failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loan map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loan)
	loanID := uint(loan["ID"].(float64))
	if loan["RemainingAmount"].(string) != "10000" {
		t.Fatalf("expected remaining 10000 got %v", loan["RemainingAmount"])
	}

	// 5. Record an interest payment
	txnBody, _ := json.Marshal(map[string]any{
		"loan_id": loanID, "interest_amount": "500",
		"payment_method": "cash", "idempotency_key": "itest-pay-1",
	})
	resp = performRequest(r, http.MethodPost, "/transactions", bytes.NewBuffer(txnBody), token, "application/json")
	if resp.Code != 201 {
		t.Fatalf("create transaction failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var txn map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &txn)

	// 5b. Replay with the same idempotency key must not double-book
	resp = performRequest(r, http.MethodPost, "/transactions", bytes.NewBuffer(txnBody), token, "application/json")
	if resp.Code != 200 && resp.Code != 201 {
		t.Fatalf("idempotent replay failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var replay map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &replay)
	if replay["id"] != txn["id"] {
		t.Fatalf("replay created a new transaction: %v vs %v", replay["id"], txn["id"])
	}

	// 6. Loan still holds full principal; interest does not reduce it
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/loans/%d", loanID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("get loan failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &loan)
	if loan["RemainingAmount"].(string) != "10000" {
		t.Fatalf("interest payment changed remaining: %v", loan["RemainingAmount"])
	}

	// 7. Loan with transactions rejects principal edits
	updBody, _ := json.Marshal(map[string]any{"principal_amount": "8000"})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/loans/%d", loanID), bytes.NewBuffer(updBody), token, "application/json")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 editing loan with transactions got %d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Dashboard stats
	resp = performRequest(r, http.MethodGet, "/dashboard-stats", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("dashboard stats failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Report data for the current month
	day := time.Now().UTC().Format("2006-01-02")
	resp = performRequest(r, http.MethodGet, "/reports/data?start_date="+day+"&end_date="+day, nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("report data failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 10. CSV download
	resp = performRequest(r, http.MethodGet, "/reports/download?start_date="+day+"&end_date="+day+"&format=csv", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("report download failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if cd := resp.Header().Get("Content-Disposition"); cd == "" {
		t.Fatalf("missing Content-Disposition on download")
	}

	// 11. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/loans", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list loans got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
