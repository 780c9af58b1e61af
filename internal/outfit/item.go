package outfit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Item is one piece of an outfit. The generation endpoint returns either
// bare label strings (legacy payloads) or structured objects; both decode
// into this one shape so the controller and renderers never branch on it.
type Item struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Role     string `json:"role,omitempty"`
	Category string `json:"category,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// itemWire mirrors the structured object form. IDs arrive as numbers or
// numeric strings depending on the upstream collection.
type itemWire struct {
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	Color    string      `json:"color"`
	Role     string      `json:"role"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Icon     string      `json:"icon"`
}

// UnmarshalJSON accepts both item forms and normalizes immediately.
func (it *Item) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*it = Item{Name: stripLeadingSymbols(label)}
		return nil
	}

	var w itemWire
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("outfit item is neither a label nor an object: %w", err)
	}

	role := w.Role
	if role == "" {
		role = w.Type
	}

	var id int64
	if w.ID != "" {
		if n, err := strconv.ParseInt(w.ID.String(), 10, 64); err == nil {
			id = n
		}
	}

	*it = Item{
		ID:       id,
		Name:     stripLeadingSymbols(w.Name),
		Color:    strings.TrimSpace(w.Color),
		Role:     strings.ToLower(strings.TrimSpace(role)),
		Category: w.Category,
		Icon:     w.Icon,
	}
	return nil
}

// Label formats the item for display, prefixing the color unless the name
// already starts with it.
func (it Item) Label() string {
	name := it.Name
	if name == "" {
		name = it.Role
	}
	if name == "" {
		return ""
	}
	color := strings.TrimSpace(it.Color)
	if color == "" {
		return name
	}
	if strings.HasPrefix(strings.ToLower(name), strings.ToLower(color)+" ") {
		return name
	}
	return color + " " + name
}

// roleOrder is the display order for clothing roles.
var roleOrder = map[string]int{
	"top":       1,
	"onepiece":  2,
	"bottom":    3,
	"outer":     4,
	"shoes":     5,
	"accessory": 6,
}

// SortByRole orders items top-to-bottom for display. Unknown roles sort last
// in their original relative order.
func SortByRole(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return rank(items[i].Role) < rank(items[j].Role)
	})
}

func rank(role string) int {
	if r, ok := roleOrder[strings.ToLower(role)]; ok {
		return r
	}
	return 99
}

// IDs returns the numeric ids of the given items, for exclusion lists.
// Items without an id (plain labels, accessories) are skipped.
func IDs(items []Item) []int64 {
	var ids []int64
	for _, it := range items {
		if it.ID != 0 {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// Labels renders every item through Label, dropping empties.
func Labels(items []Item) []string {
	var out []string
	for _, it := range items {
		if l := it.Label(); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// stripLeadingSymbols removes leading emoji and punctuation from a label.
func stripLeadingSymbols(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return s[i:]
		}
	}
	return s
}
