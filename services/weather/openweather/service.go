package openweather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"classhub/core"
)

type service struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ core.WeatherService = (*service)(nil)

func NewService() core.WeatherService {
	return &service{
		baseURL: core.Conf.GetString("weather.baseURL"),
		apiKey:  core.Conf.GetString("weather.apiKey"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (svc service) CurrentConditions(ctx context.Context, location, units string) (core.WeatherConditions, error) {
	q := make(url.Values)
	q.Set("q", location)
	q.Set("units", units)
	q.Set("appid", svc.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return core.WeatherConditions{}, errors.Wrap(err, "building weather request")
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return core.WeatherConditions{}, errors.Wrap(err, "fetching weather")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return core.WeatherConditions{}, errors.Errorf("weather API returned %d for %q", resp.StatusCode, location)
	}

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return core.WeatherConditions{}, errors.Wrap(err, "decoding weather response")
	}

	cond := core.WeatherConditions{
		LocationName: payload.Name,
		Temperature:  payload.Main.Temp,
		FeelsLike:    payload.Main.FeelsLike,
		Humidity:     payload.Main.Humidity,
	}
	if len(payload.Weather) > 0 {
		cond.Description = payload.Weather[0].Description
		cond.IconID = payload.Weather[0].Icon
	}
	return cond, nil
}
