package wardrobe

import (
	"context"
	"testing"

	"outfit-planner/internal/backend"
)

type fakeWardrobeAPI struct {
	items      []backend.WardrobeItem
	lastFilter string
	added      []backend.WardrobeItem
	toggled    []int64
}

func (f *fakeWardrobeAPI) WardrobeItems(ctx context.Context, filter string) ([]backend.WardrobeItem, error) {
	f.lastFilter = filter
	return f.items, nil
}

func (f *fakeWardrobeAPI) AddWardrobeItem(ctx context.Context, item backend.WardrobeItem) error {
	f.added = append(f.added, item)
	return nil
}

func (f *fakeWardrobeAPI) ToggleWardrobeItem(ctx context.Context, id int64) error {
	f.toggled = append(f.toggled, id)
	return nil
}

func TestListGroupsByCategory(t *testing.T) {
	api := &fakeWardrobeAPI{items: []backend.WardrobeItem{
		{ID: 1, Name: "Sneakers", Category: "shoes"},
		{ID: 2, Name: "Jeans", Category: "bottom"},
		{ID: 3, Name: "Hoodie", Category: "Top"},
		{ID: 4, Name: "Cape", Category: "costume"},
	}}
	s := NewService(api)

	groups, err := s.List(context.Background(), "clean")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if api.lastFilter != "clean" {
		t.Errorf("Expected filter passed through, got %q", api.lastFilter)
	}

	want := []string{"top", "bottom", "shoes", "costume"}
	if len(groups) != len(want) {
		t.Fatalf("Expected %d groups, got %d", len(want), len(groups))
	}
	for i, cat := range want {
		if groups[i].Category != cat {
			t.Errorf("Group %d: expected %q, got %q", i, cat, groups[i].Category)
		}
	}
}

func TestListUnknownFilterFallsBack(t *testing.T) {
	api := &fakeWardrobeAPI{}
	s := NewService(api)
	if _, err := s.List(context.Background(), "dirty"); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if api.lastFilter != "all" {
		t.Errorf("Expected fallback to all, got %q", api.lastFilter)
	}
}

func TestAdd(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		api := &fakeWardrobeAPI{}
		s := NewService(api)
		err := s.Add(context.Background(), backend.WardrobeItem{Name: "  Parka ", Category: "Outer", Status: "worn"})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		got := api.added[0]
		if got.Name != "Parka" || got.Category != "outer" {
			t.Errorf("Expected normalized item, got %+v", got)
		}
		if got.Status != "clean" {
			t.Errorf("New items must start clean, got %q", got.Status)
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		s := NewService(&fakeWardrobeAPI{})
		if err := s.Add(context.Background(), backend.WardrobeItem{Category: "top"}); err == nil {
			t.Error("Expected an error for a missing name")
		}
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		s := NewService(&fakeWardrobeAPI{})
		if err := s.Add(context.Background(), backend.WardrobeItem{Name: "Thing", Category: "gadget"}); err == nil {
			t.Error("Expected an error for an unknown category")
		}
	})
}

func TestToggle(t *testing.T) {
	api := &fakeWardrobeAPI{}
	s := NewService(api)
	if err := s.Toggle(context.Background(), 42); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if len(api.toggled) != 1 || api.toggled[0] != 42 {
		t.Errorf("Expected toggle of id 42, got %v", api.toggled)
	}
	if err := s.Toggle(context.Background(), 0); err == nil {
		t.Error("Expected an error for a zero id")
	}
}
