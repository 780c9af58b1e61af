package backend

import (
	"outfit-planner/internal/outfit"
)

// PlanRecord is one persisted day plan as the backend returns it.
type PlanRecord struct {
	ID          int64         `json:"id"`
	Date        string        `json:"date"`
	Location    string        `json:"location"`
	Lat         float64       `json:"lat"`
	Lon         float64       `json:"lon"`
	Occasion    string        `json:"occasion"`
	Weather     string        `json:"weather"`
	Temp        *float64      `json:"temp"`
	Description string        `json:"description"`
	Outfit      []outfit.Item `json:"outfit"`
	GroupID     *int64        `json:"group_id"`
}

// CreatePlanRequest creates plan rows for an inclusive date span.
type CreatePlanRequest struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Location    string   `json:"location"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Occasion    string   `json:"occasion"`
	Weather     string   `json:"weather"`
	Temp        *float64 `json:"temp"`
	Description string   `json:"description"`
}

// WeatherReport is the resolved forecast snapshot for a single date.
type WeatherReport struct {
	Weather     string   `json:"weather"`
	Temp        *float64 `json:"temp"`
	Description string   `json:"description"`
}

// Place is a geocoded location.
type Place struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// GenerateRequest asks the backend generator for an outfit.
type GenerateRequest struct {
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Occasion   string   `json:"occasion"`
	Weather    string   `json:"weather"`
	Temp       *float64 `json:"temp,omitempty"`
	ExcludeIDs []int64  `json:"exclude_ids,omitempty"`
}

// GenerateResult is a successful generation response.
type GenerateResult struct {
	Outfit      []outfit.Item `json:"outfit"`
	Explanation string        `json:"explanation"`
	Warning     string        `json:"warning"`
	Source      string        `json:"source"`
}

// WardrobeItem is one clothing item on the wardrobe page.
type WardrobeItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	Occasion  string `json:"occasion"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	WearCount int    `json:"wear_count"`
}

// Accessory is one accessory item; ids are backend-assigned strings.
type Accessory struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// HistoryEntry is one saved outfit on the history page.
type HistoryEntry struct {
	ID       string        `json:"id"`
	Date     string        `json:"date"`
	Location string        `json:"location"`
	Weather  string        `json:"weather"`
	Occasion string        `json:"occasion"`
	Outfit   []outfit.Item `json:"outfit"`
	Rating   *int          `json:"rating"`
}

// SaveOutfitRequest persists a liked outfit to the history, with an
// optional star rating.
type SaveOutfitRequest struct {
	Location string        `json:"location"`
	Weather  string        `json:"weather"`
	Occasion string        `json:"occasion"`
	Outfit   []outfit.Item `json:"outfit"`
	Rating   *int          `json:"rating"`
}

// Profile is the user profile record.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials are login/signup inputs. The backend owns the session; the
// client only reports the outcome.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
