package outfit

import "strings"

// Occasions the planner understands, in menu order.
var Occasions = []string{"Casual", "Formal", "Party", "Gym", "Rainy"}

// WeatherOptions is the manual-override condition set shown when no
// forecast is available for a date.
var WeatherOptions = []string{"Clear", "Clouds", "Rain", "Snow"}

var occasionIcons = map[string]string{
	"Casual": "👕",
	"Formal": "👔",
	"Party":  "🎉",
	"Gym":    "🏋️",
	"Rainy":  "☔",
}

// OccasionIcon returns the emoji for an occasion tag.
func OccasionIcon(occasion string) string {
	if icon, ok := occasionIcons[occasion]; ok {
		return icon
	}
	return "✨"
}

// AccessoryIcon maps an accessory type or name to a display icon.
func AccessoryIcon(kind string) string {
	text := strings.ToLower(kind)
	switch {
	case strings.Contains(text, "sunglass"):
		return "🕶️"
	case strings.Contains(text, "watch"):
		return "⌚"
	case strings.Contains(text, "bag"), strings.Contains(text, "purse"), strings.Contains(text, "clutch"):
		return "👜"
	case strings.Contains(text, "hat"), strings.Contains(text, "cap"), strings.Contains(text, "beanie"):
		return "🧢"
	case strings.Contains(text, "scarf"):
		return "🧣"
	case strings.Contains(text, "belt"):
		return "🧷"
	case strings.Contains(text, "umbrella"):
		return "☂️"
	case strings.Contains(text, "ring"), strings.Contains(text, "necklace"),
		strings.Contains(text, "earring"), strings.Contains(text, "jewel"):
		return "💎"
	}
	return "✨"
}

var roleIcons = map[string]string{
	"top":       "👕",
	"onepiece":  "👗",
	"bottom":    "👖",
	"outer":     "🧥",
	"shoes":     "👟",
	"accessory": "✨",
}

// RoleIcon returns the fallback icon for a clothing role, for items that
// carry no icon of their own.
func RoleIcon(role string) string {
	if icon, ok := roleIcons[strings.ToLower(role)]; ok {
		return icon
	}
	return "👕"
}

// WeatherIcon maps a condition to a display icon.
func WeatherIcon(condition string) string {
	switch {
	case strings.Contains(condition, "Rain"):
		return "🌧️"
	case strings.Contains(condition, "Clear"):
		return "☀️"
	case strings.Contains(condition, "Snow"):
		return "❄️"
	}
	return "☁️"
}
