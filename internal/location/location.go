// Package location drives the place picker: debounced autocomplete as
// the user types, and reverse geocoding for the auto-detect button.
package location

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"outfit-planner/internal/backend"
)

// minQueryLen is the shortest query worth sending upstream.
const minQueryLen = 2

// Geocoder is the slice of the backend the picker needs.
type Geocoder interface {
	Autocomplete(ctx context.Context, query string) ([]backend.Place, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (backend.Place, error)
}

// Debouncer coalesces rapid triggers into one delayed call. Each trigger
// cancels the pending one, so only the last in a burst fires.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

// NewDebouncer creates a debouncer with the given settle delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the settle delay, cancelling any pending fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Picker is the location input behind the planner form.
type Picker struct {
	geo      Geocoder
	debounce *Debouncer
}

// NewPicker creates a picker with the standard 300ms typing debounce.
func NewPicker(geo Geocoder) *Picker {
	return &Picker{geo: geo, debounce: NewDebouncer(300 * time.Millisecond)}
}

// Query schedules a debounced autocomplete lookup and delivers the
// suggestions asynchronously. Queries below the minimum length deliver an
// empty list immediately and cancel any pending lookup, so a stale burst
// can never overwrite the cleared suggestions.
func (p *Picker) Query(ctx context.Context, query string, deliver func([]backend.Place, error)) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		p.debounce.Stop()
		deliver(nil, nil)
		return
	}
	p.debounce.Trigger(func() {
		deliver(p.geo.Autocomplete(ctx, query))
	})
}

// Detect resolves device coordinates to a labelled place for the
// auto-detect button.
func (p *Picker) Detect(ctx context.Context, lat, lon float64) (backend.Place, error) {
	place, err := p.geo.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return backend.Place{}, err
	}
	if place.Label == "" {
		place.Label = fmt.Sprintf("%.4f, %.4f", lat, lon)
	}
	return place, nil
}

// Stop cancels any in-flight debounce, for page teardown.
func (p *Picker) Stop() { p.debounce.Stop() }
