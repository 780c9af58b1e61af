// Package accessories backs the accessories page. Accessories live in a
// separate backend collection with string ids; filtering happens
// client-side.
package accessories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"outfit-planner/internal/backend"
	"outfit-planner/internal/outfit"
)

// Types the add form offers, in menu order.
var Types = []string{"bag", "hat", "scarf", "belt", "watch", "sunglasses", "jewelry", "other"}

// API is the backend slice the accessories page uses.
type API interface {
	Accessories(ctx context.Context) ([]backend.Accessory, error)
	AddAccessory(ctx context.Context, name, kind string) (backend.Accessory, error)
	DeleteAccessory(ctx context.Context, id string) error
}

// Service is the accessories page controller.
type Service struct {
	api API
}

// NewService creates an accessories service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Display is one accessory ready for rendering.
type Display struct {
	ID   string
	Name string
	Type string
	Icon string
}

// List fetches all accessories, optionally filtered by type, sorted by
// name. An empty or "all" kind returns everything.
func (s *Service) List(ctx context.Context, kind string) ([]Display, error) {
	accs, err := s.api.Accessories(ctx)
	if err != nil {
		return nil, err
	}

	kind = strings.ToLower(strings.TrimSpace(kind))
	var out []Display
	for _, a := range accs {
		if kind != "" && kind != "all" && !strings.EqualFold(a.Type, kind) {
			continue
		}
		out = append(out, Display{
			ID:   a.ID,
			Name: a.Name,
			Type: a.Type,
			Icon: outfit.AccessoryIcon(a.Type + " " + a.Name),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Add validates and creates an accessory, returning it ready for display.
func (s *Service) Add(ctx context.Context, name, kind string) (Display, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Display{}, fmt.Errorf("accessory name is required")
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = "other"
	}

	created, err := s.api.AddAccessory(ctx, name, kind)
	if err != nil {
		return Display{}, err
	}
	return Display{
		ID:   created.ID,
		Name: created.Name,
		Type: created.Type,
		Icon: outfit.AccessoryIcon(created.Type + " " + created.Name),
	}, nil
}

// Delete removes an accessory by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("accessory id is required")
	}
	return s.api.DeleteAccessory(ctx, id)
}
