package accessories

import (
	"context"
	"testing"

	"outfit-planner/internal/backend"
)

type fakeAccessoryAPI struct {
	accs    []backend.Accessory
	deleted []string
}

func (f *fakeAccessoryAPI) Accessories(ctx context.Context) ([]backend.Accessory, error) {
	return f.accs, nil
}

func (f *fakeAccessoryAPI) AddAccessory(ctx context.Context, name, kind string) (backend.Accessory, error) {
	acc := backend.Accessory{ID: "abc123", Name: name, Type: kind}
	f.accs = append(f.accs, acc)
	return acc, nil
}

func (f *fakeAccessoryAPI) DeleteAccessory(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestListFiltersAndSorts(t *testing.T) {
	api := &fakeAccessoryAPI{accs: []backend.Accessory{
		{ID: "1", Name: "Tote Bag", Type: "bag"},
		{ID: "2", Name: "Aviators", Type: "sunglasses"},
		{ID: "3", Name: "Clutch", Type: "bag"},
	}}
	s := NewService(api)

	all, err := s.List(context.Background(), "all")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 accessories, got %d", len(all))
	}
	if all[0].Name != "Aviators" {
		t.Errorf("Expected name-sorted output, got %q first", all[0].Name)
	}

	bags, err := s.List(context.Background(), "bag")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(bags) != 2 {
		t.Fatalf("Expected 2 bags, got %d", len(bags))
	}
	if bags[0].Icon != "👜" {
		t.Errorf("Expected the bag icon, got %q", bags[0].Icon)
	}
}

func TestAdd(t *testing.T) {
	api := &fakeAccessoryAPI{}
	s := NewService(api)

	got, err := s.Add(context.Background(), "  Fedora ", "Hat")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got.ID != "abc123" || got.Name != "Fedora" || got.Type != "hat" {
		t.Errorf("Unexpected created accessory %+v", got)
	}
	if got.Icon != "🧢" {
		t.Errorf("Expected the hat icon, got %q", got.Icon)
	}

	if _, err := s.Add(context.Background(), "  ", "hat"); err == nil {
		t.Error("Expected an error for a blank name")
	}
}

func TestDelete(t *testing.T) {
	api := &fakeAccessoryAPI{}
	s := NewService(api)

	if err := s.Delete(context.Background(), "abc123"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "abc123" {
		t.Errorf("Expected delete of abc123, got %v", api.deleted)
	}
	if err := s.Delete(context.Background(), " "); err == nil {
		t.Error("Expected an error for a blank id")
	}
}
