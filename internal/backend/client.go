package backend

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"outfit-planner/internal/config"
	"outfit-planner/internal/outfit"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// API is the backend surface the plan controller depends on. The concrete
// Client also carries the page-module endpoints (wardrobe, accessories,
// history, profile, auth).
type API interface {
	ListPlans(ctx context.Context) ([]PlanRecord, error)
	CreatePlan(ctx context.Context, req CreatePlanRequest) ([]PlanRecord, error)
	UpdatePlan(ctx context.Context, id int64, items []outfit.Item) error
	DeletePlan(ctx context.Context, id int64) error
	WeatherForDate(ctx context.Context, lat, lon float64, date string) (WeatherReport, error)
	Autocomplete(ctx context.Context, query string) ([]Place, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
	GenerateOutfit(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// Recorder receives one sample per backend call. Implemented by the local
// metrics store; a nil Recorder disables recording.
type Recorder interface {
	Record(endpoint string, status int, latency time.Duration) error
}

// Client is an HTTP JSON client for the planner backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	genClient  *http.Client // longer timeout: generation calls are slow
	recorder   Recorder
}

// NewClient creates a backend client from configuration.
func NewClient(cfg *config.Config, rec Recorder) *Client {
	return &Client{
		baseURL:    cfg.BackendURL,
		apiKey:     cfg.BackendAPIKey,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		genClient:  &http.Client{Timeout: cfg.GenerateTimeout},
		recorder:   rec,
	}
}

/* ---------- plan CRUD ---------- */

// ListPlans fetches every saved plan. This is the authoritative list:
// callers rebuild their saved map from it rather than trusting local state.
func (c *Client) ListPlans(ctx context.Context) ([]PlanRecord, error) {
	var plans []PlanRecord
	if err := c.get(ctx, "/plan/plans", nil, &plans); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// CreatePlan creates plan rows for the given span and returns the created
// records; the first record's id is the one callers capture.
func (c *Client) CreatePlan(ctx context.Context, req CreatePlanRequest) ([]PlanRecord, error) {
	var created []PlanRecord
	if err := c.post(ctx, "/plan/create", req, &created); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	if len(created) == 0 {
		return nil, &APIError{Message: "create returned no records"}
	}
	return created, nil
}

// UpdatePlan attaches the final outfit to an existing plan.
func (c *Client) UpdatePlan(ctx context.Context, id int64, items []outfit.Item) error {
	body := map[string]any{"id": id, "outfit": items}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/plan/update", body, &resp); err != nil {
		return fmt.Errorf("failed to update plan %d: %w", id, err)
	}
	if !resp.Success {
		return &APIError{Message: fmt.Sprintf("update for plan %d was not applied", id)}
	}
	return nil
}

// DeletePlan removes a saved plan by id.
func (c *Client) DeletePlan(ctx context.Context, id int64) error {
	body := map[string]any{"id": id}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/plan/delete", body, &resp); err != nil {
		return fmt.Errorf("failed to delete plan %d: %w", id, err)
	}
	if !resp.Success {
		return &APIError{Message: fmt.Sprintf("delete for plan %d was not applied", id)}
	}
	return nil
}

/* ---------- weather and location ---------- */

// WeatherForDate resolves the forecast for one date. A semantic error
// means no forecast exists for that date; callers flag the date instead of
// failing the whole operation.
func (c *Client) WeatherForDate(ctx context.Context, lat, lon float64, date string) (WeatherReport, error) {
	q := url.Values{}
	q.Set("lat", formatFloat(lat))
	q.Set("lon", formatFloat(lon))
	q.Set("date", date)

	var report WeatherReport
	if err := c.get(ctx, "/plan_ahead/api/weather_for_date", q, &report); err != nil {
		return WeatherReport{}, err
	}
	return report, nil
}

// Autocomplete suggests places matching the query. An empty result is not
// an error.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]Place, error) {
	q := url.Values{}
	q.Set("q", query)

	var places []Place
	if err := c.get(ctx, "/get_outfit/api/location/autocomplete", q, &places); err != nil {
		return nil, fmt.Errorf("autocomplete failed: %w", err)
	}
	return places, nil
}

// ReverseGeocode resolves coordinates to a labelled place.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error) {
	q := url.Values{}
	q.Set("lat", formatFloat(lat))
	q.Set("lon", formatFloat(lon))

	var place Place
	if err := c.get(ctx, "/get_outfit/api/location/reverse", q, &place); err != nil {
		return Place{}, fmt.Errorf("reverse geocode failed: %w", err)
	}
	return place, nil
}

/* ---------- generation ---------- */

// GenerateOutfit asks the backend generator for an outfit. Uses the longer
// generation timeout; the backend has its own shorter one, so a client-side
// abort here means the upstream hung.
func (c *Client) GenerateOutfit(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	var result GenerateResult
	if err := c.doJSON(ctx, c.genClient, http.MethodPost, "/get_outfit/api/get_outfit", nil, req, &result); err != nil {
		return GenerateResult{}, err
	}
	return result, nil
}

/* ---------- page endpoints ---------- */

// WardrobeItems lists wardrobe items, optionally filtered by status.
func (c *Client) WardrobeItems(ctx context.Context, filter string) ([]WardrobeItem, error) {
	q := url.Values{}
	if filter == "" {
		filter = "all"
	}
	q.Set("filter", filter)

	var items []WardrobeItem
	if err := c.get(ctx, "/wardrobe/data", q, &items); err != nil {
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}
	return items, nil
}

// AddWardrobeItem creates a new clothing item.
func (c *Client) AddWardrobeItem(ctx context.Context, item WardrobeItem) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/wardrobe/add-item", item, &resp); err != nil {
		return fmt.Errorf("failed to add wardrobe item: %w", err)
	}
	return nil
}

// ToggleWardrobeItem flips an item between clean and worn.
func (c *Client) ToggleWardrobeItem(ctx context.Context, id int64) error {
	body := map[string]any{"id": id}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/wardrobe/update", body, &resp); err != nil {
		return fmt.Errorf("failed to update wardrobe item %d: %w", id, err)
	}
	return nil
}

// Accessories lists all accessories; filtering happens client-side.
func (c *Client) Accessories(ctx context.Context) ([]Accessory, error) {
	var accs []Accessory
	if err := c.get(ctx, "/accessories/api/accessories", nil, &accs); err != nil {
		return nil, fmt.Errorf("failed to load accessories: %w", err)
	}
	return accs, nil
}

// AddAccessory creates an accessory and returns the created record.
func (c *Client) AddAccessory(ctx context.Context, name, kind string) (Accessory, error) {
	body := map[string]any{"name": name, "type": kind}
	var created Accessory
	if err := c.post(ctx, "/accessories/api/accessories", body, &created); err != nil {
		return Accessory{}, fmt.Errorf("failed to add accessory: %w", err)
	}
	return created, nil
}

// DeleteAccessory removes an accessory by id.
func (c *Client) DeleteAccessory(ctx context.Context, id string) error {
	var resp struct {
		Success bool `json:"success"`
	}
	path := "/accessories/api/accessories/" + url.PathEscape(id)
	if err := c.doJSON(ctx, c.httpClient, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return fmt.Errorf("failed to delete accessory %s: %w", id, err)
	}
	return nil
}

// History lists the outfit history.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := c.get(ctx, "/outfit_history/data", nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// DeleteHistoryEntry removes one history entry.
func (c *Client) DeleteHistoryEntry(ctx context.Context, id string) error {
	var resp struct {
		OK bool `json:"ok"`
	}
	path := "/outfit_history/api/delete/" + url.PathEscape(id)
	if err := c.doJSON(ctx, c.httpClient, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return fmt.Errorf("failed to delete history entry %s: %w", id, err)
	}
	if !resp.OK {
		return &APIError{Message: "history delete was not acknowledged"}
	}
	return nil
}

// SaveOutfit stores a liked outfit in the history, optionally rated.
func (c *Client) SaveOutfit(ctx context.Context, req SaveOutfitRequest) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/get_outfit/api/save_outfit", req, &resp); err != nil {
		return fmt.Errorf("failed to save outfit: %w", err)
	}
	return nil
}

// Login submits credentials. Session handling is entirely backend-owned.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, creds Credentials) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/auth/signup", creds, &resp); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	return nil
}

// FetchProfile loads the current user profile.
func (c *Client) FetchProfile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.get(ctx, "/profile/data", nil, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

// UpdateProfile saves name/email changes.
func (c *Client) UpdateProfile(ctx context.Context, p Profile) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/profile/update", p, &resp); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

/* ---------- transport ---------- */

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, c.httpClient, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, c.httpClient, http.MethodPost, path, nil, body, out)
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.apiKey != "" {
		token, err := c.signToken()
		if err != nil {
			return fmt.Errorf("failed to sign request token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.record(path, 0, time.Since(start))
		if isTimeout(err) {
			return &APIError{
				Message: "request timed out; the upstream service may be slow, try again",
				Timeout: true,
			}
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.record(path, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var envelope errorEnvelope
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
			apiErr.Code = envelope.Code
			apiErr.RetryAfter = envelope.RetryAfter
		}
		return apiErr
	}

	// Semantic error-in-200: treated identically to a transport failure.
	var envelope errorEnvelope
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
		return &APIError{
			Message:    envelope.Error,
			Code:       envelope.Code,
			RetryAfter: envelope.RetryAfter,
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

type errorEnvelope struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retry_after"`
}

// signToken generates a short-lived JWT from the "id:secret" API key.
func (c *Client) signToken() (string, error) {
	keyParts := strings.Split(c.apiKey, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid api key format: expected id:secret")
	}

	secret, err := hex.DecodeString(keyParts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/api/",
	})
	token.Header["kid"] = keyParts[0]

	return token.SignedString(secret)
}

func (c *Client) record(endpoint string, status int, latency time.Duration) {
	if c.recorder == nil {
		return
	}
	_ = c.recorder.Record(endpoint, status, latency)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func formatFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", f), "0"), ".")
}
