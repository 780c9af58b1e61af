package planner

import (
	"context"
	"fmt"
	"time"

	"outfit-planner/internal/backend"
)

// Mode selects between single-day and multi-day (trip) planning.
type Mode string

const (
	ModeSingle Mode = "one"
	ModeMulti  Mode = "trip"
)

// Backoff is the spacing policy for multi-day generation. The upstream
// generator is rate limited, so calls are spaced by Delay and rate-limit
// rejections are retried up to Retries times, RetryDelay apart.
type Backoff struct {
	Delay      time.Duration
	Retries    int
	RetryDelay time.Duration
}

// Selection is the outcome of a calendar click.
type Selection int

const (
	// SelectionRangeStarted means a range start was picked; the calendar
	// should highlight it and wait for the end date.
	SelectionRangeStarted Selection = iota
	// SelectionOpenInput means the selection is complete and the
	// generation input should open.
	SelectionOpenInput
	// SelectionOpenSaved means the date already has a persisted outfit;
	// the saved single-day viewer opens instead of any selection flow.
	SelectionOpenSaved
)

// SaveOutcome tells the view what to do after a successful save.
type SaveOutcome int

const (
	// SaveAdvanced: a multi-day session saved a middle slide; the slider
	// moved to the next date.
	SaveAdvanced SaveOutcome = iota
	// SaveCompleted: the last (or only) date was saved; the session is done.
	SaveCompleted
)

// Controller owns the saved/temp plan maps and mediates between calendar
// selection, generation requests, and persistence.
//
// savedPlans reflects backend truth and changes only on confirmed backend
// responses. tempPlans holds this session's unsaved generated entries and
// is discarded when the session closes without an explicit save.
//
// The controller is written for a single caller at a time, matching the
// one-handler-at-a-time event model of the UI that drives it. Methods that
// await the backend build entries locally and commit them to the maps in a
// single assignment afterwards, so a re-entrant caller never observes a
// half-updated entry.
type Controller struct {
	api     backend.API
	backoff Backoff
	sleep   func(time.Duration)

	mode       Mode
	savedPlans map[string]*Entry
	tempPlans  map[string]*Entry

	selectedDates []string
	sliderDates   []string
	slideIndex    int

	location        string
	lat, lon        float64
	placeSelected   bool
	occasion        string
	weatherOverride string
}

// NewController creates a controller for one page session.
func NewController(api backend.API, backoff Backoff) *Controller {
	return &Controller{
		api:        api,
		backoff:    backoff,
		sleep:      time.Sleep,
		mode:       ModeSingle,
		savedPlans: make(map[string]*Entry),
		tempPlans:  make(map[string]*Entry),
	}
}

// LoadSavedPlans rebuilds the saved map from the backend's authoritative
// list. Temp state is untouched.
func (c *Controller) LoadSavedPlans(ctx context.Context) error {
	records, err := c.api.ListPlans(ctx)
	if err != nil {
		return fmt.Errorf("failed to load saved plans: %w", err)
	}

	saved := make(map[string]*Entry, len(records))
	for _, rec := range records {
		saved[rec.Date] = entryFromRecord(rec)
	}
	c.savedPlans = saved
	return nil
}

/* ---------- session inputs ---------- */

// SetMode switches between single-day and multi-day planning and resets
// any in-progress selection.
func (c *Controller) SetMode(m Mode) {
	c.mode = m
	c.selectedDates = nil
}

// Mode returns the current planning mode.
func (c *Controller) Mode() Mode { return c.mode }

// SetPlace records the user-chosen location for this session.
func (c *Controller) SetPlace(label string, lat, lon float64) {
	c.location = label
	c.lat = lat
	c.lon = lon
	c.placeSelected = true
}

// HasPlace reports whether a location has been selected; generation
// requires one.
func (c *Controller) HasPlace() bool { return c.placeSelected }

// SetOccasion records the occasion tag for this session.
func (c *Controller) SetOccasion(occasion string) { c.occasion = occasion }

// SetWeatherOverride sets a manual weather string that bypasses the
// forecast lookup. Empty clears the override.
func (c *Controller) SetWeatherOverride(weather string) { c.weatherOverride = weather }

/* ---------- calendar selection ---------- */

// SelectDate handles a calendar click.
//
// A date with a persisted outfit always opens the saved viewer and never
// re-enters selection. Otherwise: single mode replaces the selection;
// multi mode picks range start on the first click, expands the inclusive
// span on the second, and restarts at the new date on a third click while
// a complete range exists.
func (c *Controller) SelectDate(dateStr string) (Selection, error) {
	if c.savedPlans[dateStr].HasSavedOutfit() {
		return SelectionOpenSaved, nil
	}

	if c.mode == ModeSingle {
		c.selectedDates = []string{dateStr}
		c.beginSession()
		return SelectionOpenInput, nil
	}

	switch len(c.selectedDates) {
	case 0:
		c.selectedDates = []string{dateStr}
		return SelectionRangeStarted, nil
	case 1:
		span, err := DateRange(c.selectedDates[0], dateStr)
		if err != nil {
			return SelectionRangeStarted, err
		}
		c.selectedDates = span
		c.beginSession()
		return SelectionOpenInput, nil
	default:
		c.selectedDates = []string{dateStr}
		return SelectionRangeStarted, nil
	}
}

// beginSession resets per-session generation state when the input opens.
func (c *Controller) beginSession() {
	c.tempPlans = make(map[string]*Entry)
	c.sliderDates = nil
	c.slideIndex = 0
	c.weatherOverride = ""
}

// DiscardSession clears all unsaved session state. Saved plans are backend
// truth and are never touched here.
func (c *Controller) DiscardSession() {
	c.tempPlans = make(map[string]*Entry)
	c.selectedDates = nil
	c.sliderDates = nil
	c.slideIndex = 0
	c.weatherOverride = ""
}

/* ---------- slider navigation ---------- */

// NextSlide moves the active slide forward. Plan data is never mutated by
// navigation.
func (c *Controller) NextSlide() {
	if c.slideIndex < len(c.sliderDates)-1 {
		c.slideIndex++
	}
}

// PrevSlide moves the active slide back.
func (c *Controller) PrevSlide() {
	if c.slideIndex > 0 {
		c.slideIndex--
	}
}

// GoToSlide jumps to the slide for the given date, if it is part of the
// current session.
func (c *Controller) GoToSlide(dateStr string) {
	for i, d := range c.sliderDates {
		if d == dateStr {
			c.slideIndex = i
			return
		}
	}
}

/* ---------- state accessors ---------- */

// SavedPlans exposes the saved map for rendering. Read-only by convention.
func (c *Controller) SavedPlans() map[string]*Entry { return c.savedPlans }

// TempPlans exposes this session's unsaved entries. Read-only by convention.
func (c *Controller) TempPlans() map[string]*Entry { return c.tempPlans }

// SelectedDates is the in-progress calendar selection.
func (c *Controller) SelectedDates() []string { return c.selectedDates }

// SliderDates is the date list of the active multi-day session, in the
// user-selected chronological order.
func (c *Controller) SliderDates() []string { return c.sliderDates }

// SlideIndex is the active slide position.
func (c *Controller) SlideIndex() int { return c.slideIndex }

// CurrentSlideDate is the date of the active slide, or "" outside a
// multi-day session.
func (c *Controller) CurrentSlideDate() string {
	if c.slideIndex < 0 || c.slideIndex >= len(c.sliderDates) {
		return ""
	}
	return c.sliderDates[c.slideIndex]
}

// Saved returns the saved entry for a date, if any.
func (c *Controller) Saved(dateStr string) (*Entry, bool) {
	e, ok := c.savedPlans[dateStr]
	return e, ok
}

// Temp returns this session's entry for a date, if any.
func (c *Controller) Temp(dateStr string) (*Entry, bool) {
	e, ok := c.tempPlans[dateStr]
	return e, ok
}
