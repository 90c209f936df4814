package builtin

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/skosovsky/toolview/toolserver"
)

// WeatherArgs are the arguments of get_weather.
type WeatherArgs struct {
	City string `json:"city" description:"City name"`
}

// Weather is the output of get_weather.
type Weather struct {
	City        string  `json:"city"`
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
	Unit        string  `json:"unit,omitempty"`
}

// JSONSchemaExtend sets the schema description.
func (Weather) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "Weather data model."
}

var conditions = []string{"sunny", "partly cloudy", "cloudy", "rainy", "windy", "snowy", "foggy"}

// NewWeatherTool builds get_weather. Readings are a deterministic function of the
// city name, in degrees Fahrenheit.
func NewWeatherTool() (toolserver.Tool, error) {
	return toolserver.NewTool("get_weather", "Get the current weather for a city.",
		func(_ context.Context, args WeatherArgs) (Weather, error) {
			city := strings.TrimSpace(args.City)
			if city == "" {
				return Weather{}, toolserver.Invalidf("city must not be empty")
			}
			return mockWeather(city), nil
		},
		toolserver.WithStrict(),
	)
}

func mockWeather(city string) Weather {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(city)))
	sum := h.Sum32()
	temp := 20 + float64(sum%750)/10
	return Weather{
		City:        city,
		Condition:   conditions[int(sum>>16)%len(conditions)],
		Temperature: math.Round(temp*10) / 10,
		Unit:        "F",
	}
}
