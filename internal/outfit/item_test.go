package outfit

import (
	"encoding/json"
	"testing"
)

func TestItemUnmarshalStructured(t *testing.T) {
	raw := `{"id": 7, "name": "Linen Shirt", "color": "White", "role": "Top", "category": "Shirts", "icon": "👕"}`

	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if it.ID != 7 {
		t.Errorf("Expected id 7, got %d", it.ID)
	}
	if it.Name != "Linen Shirt" {
		t.Errorf("Expected name 'Linen Shirt', got '%s'", it.Name)
	}
	if it.Role != "top" {
		t.Errorf("Expected normalized role 'top', got '%s'", it.Role)
	}
}

func TestItemUnmarshalPlainLabel(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`"👕 Blue Jeans"`), &it); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if it.Name != "Blue Jeans" {
		t.Errorf("Expected leading emoji stripped, got '%s'", it.Name)
	}
	if it.ID != 0 {
		t.Errorf("Plain labels carry no id, got %d", it.ID)
	}
}

func TestItemUnmarshalStringID(t *testing.T) {
	// Accessory ids arrive as numeric strings from the backend.
	var it Item
	if err := json.Unmarshal([]byte(`{"id": "42", "name": "Watch", "role": "accessory"}`), &it); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if it.ID != 42 {
		t.Errorf("Expected id 42, got %d", it.ID)
	}
}

func TestItemUnmarshalTypeFallback(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"id": 3, "name": "Sneakers", "type": "Shoes"}`), &it); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if it.Role != "shoes" {
		t.Errorf("Expected role from type field, got '%s'", it.Role)
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		name string
		item Item
		want string
	}{
		{"ColorPrefixed", Item{Name: "Jeans", Color: "Blue"}, "Blue Jeans"},
		{"ColorAlreadyInName", Item{Name: "Blue Jeans", Color: "Blue"}, "Blue Jeans"},
		{"NoColor", Item{Name: "Jeans"}, "Jeans"},
		{"RoleFallback", Item{Role: "shoes"}, "shoes"},
		{"Empty", Item{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item.Label(); got != tc.want {
				t.Errorf("Expected '%s', got '%s'", tc.want, got)
			}
		})
	}
}

func TestSortByRole(t *testing.T) {
	items := []Item{
		{Name: "Boots", Role: "shoes"},
		{Name: "Hat", Role: "accessory"},
		{Name: "Shirt", Role: "top"},
		{Name: "Chinos", Role: "bottom"},
	}
	SortByRole(items)

	got := []string{items[0].Name, items[1].Name, items[2].Name, items[3].Name}
	want := []string{"Shirt", "Chinos", "Boots", "Hat"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestIDs(t *testing.T) {
	items := []Item{
		{ID: 4, Name: "Shirt"},
		{Name: "Plain label"},
		{ID: 9, Name: "Boots"},
	}
	ids := IDs(items)
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 9 {
		t.Errorf("Expected [4 9], got %v", ids)
	}
}

func TestMixedOutfitDecode(t *testing.T) {
	raw := `[{"id": 1, "name": "Coat", "role": "outer"}, "Old string entry", {"id": 2, "name": "Boots", "role": "shoes"}]`

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[1].Name != "Old string entry" {
		t.Errorf("Expected plain entry normalized, got '%s'", items[1].Name)
	}
}
