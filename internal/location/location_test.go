package location

import (
	"context"
	"sync"
	"testing"
	"time"

	"outfit-planner/internal/backend"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	queries []string
	reverse backend.Place
}

func (f *fakeGeocoder) Autocomplete(ctx context.Context, query string) ([]backend.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return []backend.Place{{Label: query + " City", Lat: 1, Lon: 2}}, nil
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (backend.Place, error) {
	return f.reverse, nil
}

func (f *fakeGeocoder) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func TestQueryDebouncesBursts(t *testing.T) {
	geo := &fakeGeocoder{}
	p := &Picker{geo: geo, debounce: NewDebouncer(20 * time.Millisecond)}

	var mu sync.Mutex
	var delivered [][]backend.Place
	deliver := func(places []backend.Place, err error) {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, places)
	}

	p.Query(context.Background(), "li", deliver)
	p.Query(context.Background(), "lis", deliver)
	p.Query(context.Background(), "lisbon", deliver)

	time.Sleep(100 * time.Millisecond)

	if got := geo.seen(); len(got) != 1 || got[0] != "lisbon" {
		t.Errorf("Expected one upstream call for the last query, got %v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 1 || len(delivered[0]) != 1 {
		t.Fatalf("Expected one delivery with suggestions, got %v", delivered)
	}
	if delivered[0][0].Label != "lisbon City" {
		t.Errorf("Unexpected suggestion %q", delivered[0][0].Label)
	}
}

func TestShortQueryClearsAndCancels(t *testing.T) {
	geo := &fakeGeocoder{}
	p := &Picker{geo: geo, debounce: NewDebouncer(20 * time.Millisecond)}

	var mu sync.Mutex
	var clears int
	p.Query(context.Background(), "lisbon", func([]backend.Place, error) {})
	// Clearing the input before the debounce settles must cancel the
	// pending lookup.
	p.Query(context.Background(), "l", func(places []backend.Place, err error) {
		mu.Lock()
		defer mu.Unlock()
		if places != nil {
			t.Error("Short queries must deliver an empty list")
		}
		clears++
	})

	time.Sleep(100 * time.Millisecond)

	if got := geo.seen(); len(got) != 0 {
		t.Errorf("Expected no upstream calls, got %v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if clears != 1 {
		t.Errorf("Expected one immediate empty delivery, got %d", clears)
	}
}

func TestDetect(t *testing.T) {
	t.Run("Labelled", func(t *testing.T) {
		geo := &fakeGeocoder{reverse: backend.Place{Label: "Porto", Lat: 41.15, Lon: -8.61}}
		p := NewPicker(geo)
		place, err := p.Detect(context.Background(), 41.15, -8.61)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if place.Label != "Porto" {
			t.Errorf("Expected resolved label, got %q", place.Label)
		}
	})

	t.Run("FallbackToCoordinates", func(t *testing.T) {
		p := NewPicker(&fakeGeocoder{})
		place, err := p.Detect(context.Background(), 41.1496, -8.6109)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if place.Label != "41.1496, -8.6109" {
			t.Errorf("Expected coordinate fallback label, got %q", place.Label)
		}
	})
}
