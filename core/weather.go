package core

import "context"

type (
	WeatherConditions struct {
		LocationName string
		Description  string
		IconID       string
		Temperature  float64
		FeelsLike    float64
		Humidity     int
	}

	// WeatherService is any service that can report current conditions for
	// a location. Units is "metric" or "imperial".
	WeatherService interface {
		CurrentConditions(ctx context.Context, location, units string) (WeatherConditions, error)
	}
)
