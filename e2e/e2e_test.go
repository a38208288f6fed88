//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"subtrack-go/internal/config"
	"subtrack-go/internal/db"
	analysisdomain "subtrack-go/internal/domain/analysis"
	categorydomain "subtrack-go/internal/domain/category"
	jobdomain "subtrack-go/internal/domain/job"
	reminderdomain "subtrack-go/internal/domain/reminder"
	subscriptiondomain "subtrack-go/internal/domain/subscription"
	userdomain "subtrack-go/internal/domain/user"
	analysisrepo "subtrack-go/internal/repository/gorm/analysis"
	categoryrepo "subtrack-go/internal/repository/gorm/category"
	jobrepo "subtrack-go/internal/repository/gorm/job"
	reminderrepo "subtrack-go/internal/repository/gorm/reminder"
	subscriptionrepo "subtrack-go/internal/repository/gorm/subscription"
	userrepo "subtrack-go/internal/repository/gorm/user"
	"subtrack-go/internal/transport/httpserver"
	"subtrack-go/internal/transport/httpserver/handler"
	"subtrack-go/pkg/logger"
)

type testEnv struct {
	server *httptest.Server
	cancel context.CancelFunc
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New(io.Discard, slog.LevelError, "text")

	cfg := config.Config{
		HTTPPort:    "0",
		CORSOrigins: []string{"http://localhost:5173"},
		DB: config.DBConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "e2e.db"),
		},
	}

	dbConn, err := db.New(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := userdomain.NewService(userrepo.NewGorm(dbConn))
	categories := categorydomain.NewService(categoryrepo.NewGorm(dbConn))
	subscriptions := subscriptiondomain.NewService(subscriptionrepo.NewGorm(dbConn))
	reminders := reminderdomain.NewService(reminderrepo.NewGorm(dbConn))
	analysis := analysisdomain.NewService(analysisrepo.NewGorm(dbConn))
	// Zero delays keep the job scenarios fast.
	jobs := jobdomain.NewService(jobrepo.NewGorm(dbConn), categories, log, jobdomain.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	go jobs.Run(ctx)

	handlers := handler.New(log, users, categories, subscriptions, reminders, analysis, jobs)
	router := httpserver.NewRouter(cfg, handlers)
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &testEnv{server: server, cancel: cancel}
}

func (e *testEnv) request(t *testing.T, method, path, role, userID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-Role", role)
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// List endpoints return arrays; wrap them for uniform access.
			var list []interface{}
			if err := json.Unmarshal(raw, &list); err != nil {
				t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
			}
			decoded = map[string]interface{}{"items": list}
		}
	}
	return resp.StatusCode, decoded
}

func TestSubscriptionLifecycle(t *testing.T) {
	env := setupE2E(t)

	status, owner := env.request(t, http.MethodPost, "/api/users", "admin", "", map[string]interface{}{
		"email": "anna@example.com",
		"name":  "Anna",
	})
	if status != http.StatusCreated {
		t.Fatalf("create user: status %d", status)
	}
	ownerID := owner["id"].(string)

	status, category := env.request(t, http.MethodPost, "/api/categories", "admin", "", map[string]interface{}{
		"name": "Streaming",
	})
	if status != http.StatusCreated {
		t.Fatalf("create category: status %d", status)
	}
	categoryID := category["id"].(string)

	status, sub := env.request(t, http.MethodPost, "/api/subscriptions", "user", ownerID, map[string]interface{}{
		"name":            "Netflix",
		"price":           12.99,
		"billingCycle":    "monthly",
		"nextBillingDate": time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
		"userId":          ownerID,
		"categoryId":      categoryID,
	})
	if status != http.StatusCreated {
		t.Fatalf("create subscription: status %d (%v)", status, sub)
	}
	subID := sub["id"].(string)

	// A stranger must not see the subscription; the owner must.
	status, _ = env.request(t, http.MethodGet, "/api/subscriptions/"+subID, "user", "someone-else", nil)
	if status != http.StatusForbidden {
		t.Fatalf("stranger read: expected 403, got %d", status)
	}
	status, _ = env.request(t, http.MethodGet, "/api/subscriptions/"+subID, "user", ownerID, nil)
	if status != http.StatusOK {
		t.Fatalf("owner read: expected 200, got %d", status)
	}

	status, analysis := env.request(t, http.MethodPost, "/api/actions/cost-analysis?userId="+ownerID, "user", ownerID, nil)
	if status != http.StatusOK {
		t.Fatalf("cost analysis: status %d", status)
	}
	if total := analysis["totalMonthly"].(float64); total != 12.99 {
		t.Fatalf("expected totalMonthly 12.99, got %v", total)
	}
	if upcoming := analysis["upcomingPayments"].([]interface{}); len(upcoming) != 1 {
		t.Fatalf("expected 1 upcoming payment, got %d", len(upcoming))
	}

	status, _ = env.request(t, http.MethodDelete, "/api/subscriptions/"+subID, "user", ownerID, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete subscription: status %d", status)
	}
}

func TestRoleGate(t *testing.T) {
	env := setupE2E(t)

	status, body := env.request(t, http.MethodGet, "/api/users", "user", "", nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d (%v)", status, body)
	}
	status, _ = env.request(t, http.MethodGet, "/api/users", "admin", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", status)
	}
}

func TestExportJobCompletes(t *testing.T) {
	env := setupE2E(t)

	status, owner := env.request(t, http.MethodPost, "/api/users", "admin", "", map[string]interface{}{
		"email": "max@example.com",
		"name":  "Max",
	})
	if status != http.StatusCreated {
		t.Fatalf("create user: status %d", status)
	}
	ownerID := owner["id"].(string)

	status, category := env.request(t, http.MethodPost, "/api/categories", "admin", "", map[string]interface{}{
		"name": "Software",
	})
	if status != http.StatusCreated {
		t.Fatalf("create category: status %d", status)
	}
	categoryID := category["id"].(string)

	for i := 0; i < 3; i++ {
		status, _ = env.request(t, http.MethodPost, "/api/subscriptions", "user", ownerID, map[string]interface{}{
			"name":            fmt.Sprintf("Tool %d", i),
			"price":           5.0,
			"billingCycle":    "monthly",
			"nextBillingDate": "2026-10-01",
			"userId":          ownerID,
			"categoryId":      categoryID,
		})
		if status != http.StatusCreated {
			t.Fatalf("create subscription %d: status %d", i, status)
		}
	}

	status, created := env.request(t, http.MethodPost, "/api/jobs/export-subscriptions", "premium", ownerID, map[string]interface{}{
		"userId": ownerID,
	})
	if status != http.StatusAccepted {
		t.Fatalf("start export: status %d (%v)", status, created)
	}
	jobID := created["jobId"].(string)

	deadline := time.Now().Add(5 * time.Second)
	for {
		status, job := env.request(t, http.MethodGet, "/api/jobs/"+jobID+"/status", "user", ownerID, nil)
		if status != http.StatusOK {
			t.Fatalf("job status: %d", status)
		}
		if job["status"] == "completed" {
			result := job["result"].(map[string]interface{})
			if total := result["totalSubscriptions"].(float64); total != 3 {
				t.Fatalf("expected 3 exported subscriptions, got %v", total)
			}
			return
		}
		if job["status"] == "failed" {
			t.Fatalf("job failed: %v", job["error"])
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete in time, last state %v", job["status"])
		}
		time.Sleep(50 * time.Millisecond)
	}
}
