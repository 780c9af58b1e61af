package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outfit-planner/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		BackendURL:      srv.URL,
		RequestTimeout:  2 * time.Second,
		GenerateTimeout: 2 * time.Second,
	}
	return NewClient(cfg, nil)
}

func TestListPlans(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plan/plans" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 3, "date": "2025-06-01", "outfit": []any{
				map[string]any{"id": 1, "name": "Shirt", "role": "top"},
				"Legacy string item",
			}},
		})
	}))

	plans, err := c.ListPlans(context.Background())
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(plans) != 1 || plans[0].ID != 3 {
		t.Fatalf("Unexpected plans %+v", plans)
	}
	if len(plans[0].Outfit) != 2 {
		t.Fatalf("Expected 2 outfit items, got %d", len(plans[0].Outfit))
	}
	if plans[0].Outfit[1].Name != "Legacy string item" {
		t.Errorf("Plain-label item not normalized: %+v", plans[0].Outfit[1])
	}
}

func TestErrorInOKResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "no forecast available for this date"})
	}))

	_, err := c.WeatherForDate(context.Background(), 51.5, -0.1, "2025-06-01")
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	if !IsSemantic(err) {
		t.Errorf("Expected a semantic error, got %v", err)
	}
	if IsTimeout(err) {
		t.Error("Semantic error misreported as timeout")
	}
}

func TestNon2xxResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"error": "upstream exploded"})
	}))

	_, err := c.GenerateOutfit(context.Background(), GenerateRequest{Lat: 1, Lon: 2, Occasion: "Casual", Weather: "Clear"})
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	if IsSemantic(err) {
		t.Errorf("HTTP failure misreported as semantic error: %v", err)
	}
}

func TestRateLimitDetection(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{"error": "rate limit reached", "code": "rate_limited", "retry_after": 12})
	}))

	_, err := c.GenerateOutfit(context.Background(), GenerateRequest{})
	if !IsRateLimited(err) {
		t.Errorf("Expected rate-limit detection, got %v", err)
	}
}

func TestClientTimeout(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	c.genClient.Timeout = 50 * time.Millisecond

	_, err := c.GenerateOutfit(context.Background(), GenerateRequest{})
	if err == nil {
		t.Fatal("Expected a timeout error, got nil")
	}
	if !IsTimeout(err) {
		t.Errorf("Expected IsTimeout, got %v", err)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth, gotReqID string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]Place{})
	}))
	c.apiKey = "keyid:646561646265656664656164"

	if _, err := c.Autocomplete(context.Background(), "lon"); err != nil {
		t.Fatalf("Autocomplete failed: %v", err)
	}
	if gotAuth == "" {
		t.Error("Expected a signed Authorization header")
	}
	if gotReqID == "" {
		t.Error("Expected an X-Request-ID header")
	}
}

func TestUpdatePlanUnappliedResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))

	err := c.UpdatePlan(context.Background(), 7, nil)
	if err == nil {
		t.Fatal("Expected an error for success=false, got nil")
	}
	if !IsSemantic(err) {
		t.Errorf("Expected a semantic error, got %v", err)
	}
}

func TestDeletePlanSuccessIndicator(t *testing.T) {
	t.Run("Applied", func(t *testing.T) {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		if err := c.DeletePlan(context.Background(), 7); err != nil {
			t.Fatalf("DeletePlan failed: %v", err)
		}
	})

	t.Run("NotApplied", func(t *testing.T) {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": false})
		}))
		if err := c.DeletePlan(context.Background(), 7); err == nil {
			t.Fatal("Expected an error for success=false, got nil")
		}
	})
}

func TestCreatePlanEmptyResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]PlanRecord{})
	}))

	_, err := c.CreatePlan(context.Background(), CreatePlanRequest{Start: "2025-06-01", End: "2025-06-01"})
	if err == nil {
		t.Fatal("Expected an error for empty create response, got nil")
	}
}
