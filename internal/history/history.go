// Package history backs the outfit history page: saved outfits, newest
// first, with display formatting and deletion.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"outfit-planner/internal/backend"
	"outfit-planner/internal/outfit"
)

// API is the backend slice the history page uses.
type API interface {
	History(ctx context.Context) ([]backend.HistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, id string) error
	SaveOutfit(ctx context.Context, req backend.SaveOutfitRequest) error
}

// Service is the history page controller.
type Service struct {
	api API
}

// NewService creates a history service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Display is one history card ready for rendering.
type Display struct {
	ID          string
	Date        string
	Location    string
	Weather     string
	WeatherIcon string
	Occasion    string
	Items       []string
	Stars       string // "" when unrated
}

// List fetches the history and formats it newest first. Outfit items are
// role-ordered and color-prefixed the same way the planner shows them.
func (s *Service) List(ctx context.Context) ([]Display, error) {
	entries, err := s.api.History(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })

	out := make([]Display, 0, len(entries))
	for _, e := range entries {
		items := append([]outfit.Item(nil), e.Outfit...)
		outfit.SortByRole(items)
		out = append(out, Display{
			ID:          e.ID,
			Date:        e.Date,
			Location:    e.Location,
			Weather:     e.Weather,
			WeatherIcon: outfit.WeatherIcon(e.Weather),
			Occasion:    e.Occasion,
			Items:       outfit.Labels(items),
			Stars:       stars(e.Rating),
		})
	}
	return out, nil
}

// Delete removes one history entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("history entry id is required")
	}
	return s.api.DeleteHistoryEntry(ctx, id)
}

// Save stores a liked outfit. Rating is optional; when given it must be
// 1 to 5 stars.
func (s *Service) Save(ctx context.Context, req backend.SaveOutfitRequest) error {
	if len(req.Outfit) == 0 {
		return fmt.Errorf("no outfit to save")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return s.api.SaveOutfit(ctx, req)
}

func stars(rating *int) string {
	if rating == nil || *rating < 1 {
		return ""
	}
	n := *rating
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
