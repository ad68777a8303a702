package widget

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"classhub/core"
)

type WeatherDisplay struct {
	LocationName bool `json:"locationName"`
	WeatherIcon  bool `json:"weatherIcon"`
	Temperature  bool `json:"temperature"`
	Description  bool `json:"description"`
	Humidity     bool `json:"humidity"`
	FeelsLike    bool `json:"feelsLike"`
}

type WeatherSettings struct {
	Location string         `json:"location"`
	Units    string         `json:"units"`
	Color    string         `json:"color"`
	TextSize string         `json:"textSize"`
	Display  WeatherDisplay `json:"display"`
}

// Weather shows current conditions, fetched on attach and then on an
// interval. A failed fetch keeps the last good data on screen.
type Weather struct {
	base
	svc     core.WeatherService
	refresh time.Duration
	log     core.Logger

	settings   WeatherSettings
	conditions *core.WeatherConditions
	fetchedAt  time.Time
}

func newWeather(d Descriptor, svc core.WeatherService, refresh time.Duration, log core.Logger) (*Weather, error) {
	w := &Weather{
		base:    newBase(d, TypeWeather),
		svc:     svc,
		refresh: refresh,
		log:     log,
		settings: WeatherSettings{
			Location: "London,UK",
			Units:    "metric",
			Color:    "#2ec4b6",
			TextSize: "medium",
			Display: WeatherDisplay{
				LocationName: true, WeatherIcon: true, Temperature: true,
				Description: true, Humidity: true, FeelsLike: true,
			},
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Weather) Attach(s Surface) {
	stop := w.attach(s)
	w.push(w.Render())
	go w.fetch()
	w.every(stop, w.refresh, func() { w.fetch() })
}

// fetch pulls fresh conditions. A fetch still in flight when the widget
// detaches resolves on its own; its result is discarded.
func (w *Weather) fetch() {
	if w.svc == nil {
		return
	}
	w.mu.Lock()
	location, units := w.settings.Location, w.settings.Units
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	cond, err := w.svc.CurrentConditions(ctx, location, units)
	if err != nil {
		if w.log != nil {
			w.log.Warn("weather fetch failed", location, err)
		}
		return
	}

	w.mu.Lock()
	if w.surface == nil {
		w.mu.Unlock()
		return
	}
	w.conditions = &cond
	w.fetchedAt = nowFunc()
	w.mu.Unlock()
	w.push(w.Render())
}

// FetchedAt reports when the displayed conditions were obtained, zero when
// nothing has been fetched yet.
func (w *Weather) FetchedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fetchedAt
}

func (w *Weather) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	go w.fetch()
	return nil
}

func (w *Weather) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *Weather) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		cond := w.conditions
		fetchedAt := w.fetchedAt
		w.mu.Unlock()

		if cond == nil {
			return fmt.Sprintf(`<div class="weather-widget text-%s" style="color: %s"><p>Loading weather...</p></div>`,
				st.TextSize, st.Color), nil
		}

		unit := "°C"
		if st.Units == "imperial" {
			unit = "°F"
		}

		var b strings.Builder
		fmt.Fprintf(&b, `<div class="weather-widget text-%s" style="color: %s">`, st.TextSize, st.Color)
		if st.Display.LocationName {
			fmt.Fprintf(&b, `<h3>%s</h3>`, html.EscapeString(cond.LocationName))
		}
		if st.Display.WeatherIcon && cond.IconID != "" {
			fmt.Fprintf(&b, `<img src="https://openweathermap.org/img/wn/%s@2x.png" alt="">`, cond.IconID)
		}
		if st.Display.Temperature {
			fmt.Fprintf(&b, `<span class="weather-temp">%.0f%s</span>`, cond.Temperature, unit)
		}
		if st.Display.Description {
			fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(cond.Description))
		}
		if st.Display.Humidity {
			fmt.Fprintf(&b, `<p>Humidity: %d%%</p>`, cond.Humidity)
		}
		if st.Display.FeelsLike {
			fmt.Fprintf(&b, `<p>Feels like: %.0f%s</p>`, cond.FeelsLike, unit)
		}
		fmt.Fprintf(&b, `<small>updated %s</small></div>`, fetchedAt.Format("15:04"))
		return b.String(), nil
	})
}
