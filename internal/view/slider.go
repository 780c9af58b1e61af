package view

import (
	"outfit-planner/internal/outfit"
	"outfit-planner/internal/planner"
)

// SlideState is the exclusive display state of one slider day.
type SlideState string

const (
	// SlideOutfit shows the generated outfit with save and regenerate
	// actions.
	SlideOutfit SlideState = "outfit"
	// SlideNoWeather shows the manual weather picker for a date with no
	// forecast.
	SlideNoWeather SlideState = "no-weather"
	// SlideError shows the generation failure with a retry action.
	SlideError SlideState = "error"
	// SlideSaved shows the confirmation for a day already saved during
	// this session.
	SlideSaved SlideState = "saved"
)

// Slide is one day of a multi-day session, ready for rendering.
type Slide struct {
	Date         string
	Active       bool
	State        SlideState
	WeatherLabel string
	WeatherIcon  string
	Occasion     string
	OccasionIcon string
	Items        []outfit.Item
	ErrorMessage string
	WeatherMenu  []string // only on SlideNoWeather
}

// Slider is the rendered multi-day session.
type Slider struct {
	Location string
	Slides   []Slide
	Index    int
	HasPrev  bool
	HasNext  bool
}

// BuildSlider assembles the slider from the controller's session state.
// Exactly one slide is active; each slide is in exactly one state.
func BuildSlider(c *planner.Controller) Slider {
	dates := c.SliderDates()
	s := Slider{
		Index:   c.SlideIndex(),
		HasPrev: c.SlideIndex() > 0,
		HasNext: c.SlideIndex() < len(dates)-1,
	}

	for i, date := range dates {
		slide := Slide{Date: date, Active: i == c.SlideIndex()}

		entry, ok := c.Temp(date)
		switch {
		case !ok:
			// Saved mid-session: the date left the temp map on promotion.
			slide.State = SlideSaved
			if saved, found := c.Saved(date); found {
				slide.WeatherLabel = saved.WeatherLabel()
				slide.WeatherIcon = outfit.WeatherIcon(saved.Weather)
			}
		case entry.MissingWeather:
			slide.State = SlideNoWeather
			slide.WeatherMenu = outfit.WeatherOptions
		case entry.OutfitError != "":
			slide.State = SlideError
			slide.ErrorMessage = entry.OutfitError
		default:
			slide.State = SlideOutfit
			items := append([]outfit.Item(nil), entry.TempOutfit...)
			outfit.SortByRole(items)
			slide.Items = items
			slide.WeatherLabel = entry.WeatherLabel()
			slide.WeatherIcon = outfit.WeatherIcon(entry.Weather)
			slide.Occasion = entry.Occasion
			slide.OccasionIcon = outfit.OccasionIcon(entry.Occasion)
		}

		if ok && s.Location == "" {
			s.Location = entry.Location
		}
		s.Slides = append(s.Slides, slide)
	}
	return s
}

// RenderSlider renders the multi-day session to HTML.
func RenderSlider(s Slider) (string, error) {
	return render("slider.tmpl", s)
}

// SavedDay is the single-day viewer for a persisted plan.
type SavedDay struct {
	Date         string
	Location     string
	WeatherLabel string
	WeatherIcon  string
	Occasion     string
	OccasionIcon string
	Items        []outfit.Item
}

// BuildSavedDay assembles the saved viewer for a date, or ok=false when
// the date has no persisted outfit.
func BuildSavedDay(c *planner.Controller, date string) (SavedDay, bool) {
	entry, _ := c.Saved(date)
	if !entry.HasSavedOutfit() {
		return SavedDay{}, false
	}
	items := append([]outfit.Item(nil), entry.Outfit...)
	outfit.SortByRole(items)
	return SavedDay{
		Date:         entry.Date,
		Location:     entry.Location,
		WeatherLabel: entry.WeatherLabel(),
		WeatherIcon:  outfit.WeatherIcon(entry.Weather),
		Occasion:     entry.Occasion,
		OccasionIcon: outfit.OccasionIcon(entry.Occasion),
		Items:        items,
	}, true
}

// RenderSavedDay renders the saved single-day viewer to HTML.
func RenderSavedDay(d SavedDay) (string, error) {
	return render("savedday.tmpl", d)
}
