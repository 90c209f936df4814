package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skosovsky/toolview/toolsgen"
)

var conditionIcons = map[string]string{
	"sunny":         "☀",
	"clear":         "☀",
	"partly cloudy": "⛅",
	"cloudy":        "☁",
	"rainy":         "☂",
	"snowy":         "❄",
	"windy":         "≋",
	"foggy":         "≡",
}

// Weather draws a get_weather result as a card.
func (r *Renderer) Weather(w toolsgen.GetWeatherOutput) string {
	s := r.styles
	city := strings.TrimSpace(w.City)
	if city == "" {
		return r.errorPanel("get_weather", "result has no city")
	}
	unit := "F"
	if w.Unit != nil && *w.Unit != "" {
		unit = *w.Unit
	}
	icon := conditionIcons[strings.ToLower(w.Condition)]
	if icon == "" {
		icon = "•"
	}
	temp := s.title.Render(formatNumber(w.Temperature) + "°" + unit)
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render(city),
		lipgloss.JoinHorizontal(lipgloss.Top, s.value.Render(icon+" "), temp),
		s.label.Render(w.Condition),
	)
	return s.card.Render(body)
}
