// Package wardrobe backs the wardrobe page: listing, filtering, adding
// and toggling clothing items.
package wardrobe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"outfit-planner/internal/backend"
)

// Categories the add-item form offers, in menu order.
var Categories = []string{"top", "bottom", "onepiece", "outer", "shoes"}

// Filters the list view understands.
var Filters = []string{"all", "clean", "worn"}

// API is the backend slice the wardrobe page uses.
type API interface {
	WardrobeItems(ctx context.Context, filter string) ([]backend.WardrobeItem, error)
	AddWardrobeItem(ctx context.Context, item backend.WardrobeItem) error
	ToggleWardrobeItem(ctx context.Context, id int64) error
}

// Service is the wardrobe page controller.
type Service struct {
	api API
}

// NewService creates a wardrobe service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Group is one category section of the wardrobe list.
type Group struct {
	Category string
	Items    []backend.WardrobeItem
}

// List fetches items for the given filter and groups them by category in
// the fixed display order. Unknown filters fall back to "all".
func (s *Service) List(ctx context.Context, filter string) ([]Group, error) {
	if !validFilter(filter) {
		filter = "all"
	}
	items, err := s.api.WardrobeItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	byCategory := map[string][]backend.WardrobeItem{}
	for _, it := range items {
		cat := strings.ToLower(it.Category)
		byCategory[cat] = append(byCategory[cat], it)
	}

	var groups []Group
	for _, cat := range Categories {
		if list, ok := byCategory[cat]; ok {
			sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
			groups = append(groups, Group{Category: cat, Items: list})
			delete(byCategory, cat)
		}
	}
	// Anything the backend returns outside the known categories still
	// shows up, after the known ones.
	var rest []string
	for cat := range byCategory {
		rest = append(rest, cat)
	}
	sort.Strings(rest)
	for _, cat := range rest {
		groups = append(groups, Group{Category: cat, Items: byCategory[cat]})
	}
	return groups, nil
}

// Add validates and creates a new clothing item. New items start clean.
func (s *Service) Add(ctx context.Context, item backend.WardrobeItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	if !validCategory(item.Category) {
		return fmt.Errorf("unknown category %q", item.Category)
	}
	item.Status = "clean"
	return s.api.AddWardrobeItem(ctx, item)
}

// Toggle flips an item between clean and worn.
func (s *Service) Toggle(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("item id is required")
	}
	return s.api.ToggleWardrobeItem(ctx, id)
}

func validFilter(f string) bool {
	for _, known := range Filters {
		if f == known {
			return true
		}
	}
	return false
}

func validCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
