package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hzein/exchange"
	"github.com/hzein/exchange/kvstore"
)

// setupServer starts a test server over a fresh in-memory store, with an
// admin and a teller account.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	store := kvstore.New(kvstore.NewMemory())

	users := exchange.NewUsers(store)
	if err := users.Upsert(ctx, exchange.User{Username: "admin", Name: "Super Admin", Role: exchange.RoleAdmin}, "123"); err != nil {
		t.Fatalf("could not create admin: %v", err)
	}
	if err := users.Upsert(ctx, exchange.User{Username: "sara", Name: "Sara", Role: exchange.RoleExchange}, "123"); err != nil {
		t.Fatalf("could not create teller: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(store, []byte("test-secret"), log).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// login returns a bearer token for the given account.
func login(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()
	status, body := doJSON(t, ts, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login as %s returned %d: %s", username, status, body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("could not decode login response: %v", err)
	}
	return resp.Token
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, payload any) (int, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("could not encode payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("could not build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read response body: %v", err)
	}
	return resp.StatusCode, raw
}

func TestHealth_Open(t *testing.T) {
	ts := setupServer(t)
	status, _ := doJSON(t, ts, http.MethodGet, "/health", "", nil)
	if status != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", status)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := setupServer(t)
	status, _ := doJSON(t, ts, http.MethodPost, "/login", "", map[string]string{
		"username": "sara", "password": "wrong",
	})
	if status != http.StatusForbidden {
		t.Errorf("login with bad password = %d, want 403", status)
	}
	status, _ = doJSON(t, ts, http.MethodPost, "/login", "", map[string]string{
		"username": "nobody", "password": "123",
	})
	if status != http.StatusForbidden {
		t.Errorf("login with unknown user = %d, want 403", status)
	}
}

func TestAuthentication_Required(t *testing.T) {
	ts := setupServer(t)
	if status, _ := doJSON(t, ts, http.MethodGet, "/transactions", "", nil); status != http.StatusUnauthorized {
		t.Errorf("GET /transactions without token = %d, want 401", status)
	}
	if status, _ := doJSON(t, ts, http.MethodGet, "/transactions", "not-a-token", nil); status != http.StatusUnauthorized {
		t.Errorf("GET /transactions with garbage token = %d, want 401", status)
	}
}

func TestTransactionFlow(t *testing.T) {
	ts := setupServer(t)
	teller := login(t, ts, "sara", "123")
	admin := login(t, ts, "admin", "123")

	// Buy 10 EUR at 1.0.
	status, body := doJSON(t, ts, http.MethodPost, "/transactions", teller, map[string]string{
		"type": "buy", "currency": "EUR", "amount": "10", "rate": "1.0", "customer": "walk-in",
	})
	if status != http.StatusCreated {
		t.Fatalf("POST buy = %d: %s", status, body)
	}

	// Sell 4 EUR at 2.0.
	status, body = doJSON(t, ts, http.MethodPost, "/transactions", teller, map[string]string{
		"type": "sell", "currency": "EUR", "amount": "4", "rate": "2.0",
	})
	if status != http.StatusCreated {
		t.Fatalf("POST sell = %d: %s", status, body)
	}
	var sellResp struct {
		Transaction exchange.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(body, &sellResp); err != nil {
		t.Fatalf("could not decode sell response: %v", err)
	}
	if len(sellResp.Transaction.Realized) != 1 {
		t.Errorf("sell realized %d fragments, want 1", len(sellResp.Transaction.Realized))
	}

	// Oversell is rejected against net holdings.
	status, _ = doJSON(t, ts, http.MethodPost, "/transactions", teller, map[string]string{
		"type": "sell", "currency": "EUR", "amount": "100", "rate": "2.0",
	})
	if status != http.StatusUnprocessableEntity {
		t.Errorf("POST oversell = %d, want 422", status)
	}

	// Remaining holdings.
	status, body = doJSON(t, ts, http.MethodGet, "/holdings", teller, nil)
	if status != http.StatusOK {
		t.Fatalf("GET /holdings = %d: %s", status, body)
	}
	var holdings []exchange.HoldingReport
	if err := json.Unmarshal(body, &holdings); err != nil {
		t.Fatalf("could not decode holdings: %v", err)
	}
	if len(holdings) != 1 || !holdings[0].Total.Equal(exchange.A(6)) {
		t.Errorf("holdings = %+v, want 6 EUR", holdings)
	}

	// Void the sell; the fragments go back to the queue head.
	path := fmt.Sprintf("/transactions/%d/void", sellResp.Transaction.ID)
	status, body = doJSON(t, ts, http.MethodPost, path, admin, map[string]string{"reason": "customer returned"})
	if status != http.StatusOK {
		t.Fatalf("POST void = %d: %s", status, body)
	}
	var voidResp struct {
		Reversal string `json:"reversal"`
	}
	if err := json.Unmarshal(body, &voidResp); err != nil {
		t.Fatalf("could not decode void response: %v", err)
	}
	if voidResp.Reversal != "exact" {
		t.Errorf("reversal = %q, want exact", voidResp.Reversal)
	}

	// A second void of the same id is a 404.
	status, _ = doJSON(t, ts, http.MethodPost, path, admin, map[string]string{"reason": "again"})
	if status != http.StatusNotFound {
		t.Errorf("second void = %d, want 404", status)
	}

	// Dashboard and activity respond for authenticated users.
	if status, _ := doJSON(t, ts, http.MethodGet, "/dashboard", teller, nil); status != http.StatusOK {
		t.Errorf("GET /dashboard = %d, want 200", status)
	}
	status, body = doJSON(t, ts, http.MethodGet, "/activity", teller, nil)
	if status != http.StatusOK {
		t.Fatalf("GET /activity = %d", status)
	}
	var entries []exchange.ActivityEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("could not decode activity: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("activity log is empty")
	}
	// Newest first.
	if entries[0].Action != "Void" {
		t.Errorf("latest activity = %q, want Void", entries[0].Action)
	}
}

func TestRates_PermissionsAndResolution(t *testing.T) {
	ts := setupServer(t)
	teller := login(t, ts, "sara", "123")
	admin := login(t, ts, "admin", "123")

	// Only admins may edit the table.
	status, _ := doJSON(t, ts, http.MethodPut, "/rates/EUR", teller, map[string]string{"rate": "1.08"})
	if status != http.StatusForbidden {
		t.Errorf("PUT /rates as teller = %d, want 403", status)
	}

	status, body := doJSON(t, ts, http.MethodPut, "/rates/EUR", admin, map[string]string{
		"buy_rate": "1.05", "sell_rate": "1.10",
	})
	if status != http.StatusOK {
		t.Fatalf("PUT /rates as admin = %d: %s", status, body)
	}

	// A buy without an explicit rate picks up the configured buy rate.
	status, body = doJSON(t, ts, http.MethodPost, "/transactions", teller, map[string]string{
		"type": "buy", "currency": "EUR", "amount": "10",
	})
	if status != http.StatusCreated {
		t.Fatalf("POST buy without rate = %d: %s", status, body)
	}
	var resp struct {
		Transaction exchange.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if !resp.Transaction.Rate.Equal(exchange.R(1.05)) {
		t.Errorf("resolved rate = %s, want 1.05", resp.Transaction.Rate)
	}

	// No rate configured for an unknown currency.
	status, _ = doJSON(t, ts, http.MethodPost, "/transactions", teller, map[string]string{
		"type": "buy", "currency": "CHF", "amount": "10",
	})
	if status != http.StatusNotFound {
		t.Errorf("POST buy with unresolvable rate = %d, want 404", status)
	}

	if status, _ := doJSON(t, ts, http.MethodDelete, "/rates/EUR", admin, nil); status != http.StatusNoContent {
		t.Errorf("DELETE /rates/EUR = %d, want 204", status)
	}
	if status, _ := doJSON(t, ts, http.MethodDelete, "/rates/EUR", admin, nil); status != http.StatusNotFound {
		t.Errorf("second DELETE /rates/EUR = %d, want 404", status)
	}
}
