package planner

import (
	"outfit-planner/internal/backend"
	"outfit-planner/internal/outfit"
)

// Entry is one day's outfit plan. An entry lives in the temp map while it
// is being generated this session, and moves to the saved map only after
// the backend confirms persistence.
type Entry struct {
	Date        string
	ID          int64 // backend-assigned; 0 until persisted
	Location    string
	Lat         float64
	Lon         float64
	Occasion    string
	Weather     string
	Temp        *float64
	Description string

	// Outfit is set only once persisted. TempOutfit is this session's
	// generated, unsaved outfit. The two flags below are mutually
	// exclusive with a valid TempOutfit.
	Outfit         []outfit.Item
	TempOutfit     []outfit.Item
	MissingWeather bool
	OutfitError    string
}

// HasSavedOutfit reports whether the entry holds a persisted outfit.
func (e *Entry) HasSavedOutfit() bool {
	return e != nil && e.ID != 0 && len(e.Outfit) > 0
}

// Ready reports whether a temp entry can be saved: a non-empty generated
// outfit and no error flags.
func (e *Entry) Ready() bool {
	return e != nil && len(e.TempOutfit) > 0 && e.OutfitError == "" && !e.MissingWeather
}

// WeatherLabel formats the weather with its temperature, if known.
func (e *Entry) WeatherLabel() string {
	if e == nil || e.Weather == "" {
		return ""
	}
	if e.Temp == nil {
		return e.Weather
	}
	return formatTemp(e.Weather, *e.Temp)
}

func entryFromRecord(rec backend.PlanRecord) *Entry {
	return &Entry{
		Date:        rec.Date,
		ID:          rec.ID,
		Location:    rec.Location,
		Lat:         rec.Lat,
		Lon:         rec.Lon,
		Occasion:    rec.Occasion,
		Weather:     rec.Weather,
		Temp:        rec.Temp,
		Description: rec.Description,
		Outfit:      rec.Outfit,
	}
}
