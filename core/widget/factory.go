package widget

import (
	"time"

	"classhub/core"
)

// Factory builds widgets from descriptors, injecting the collaborators the
// networked variants need.
type Factory struct {
	Log            core.Logger
	Weather        core.WeatherService
	WeatherRefresh time.Duration
}

// New builds a fresh widget of the given type with default settings.
func (f Factory) New(typ string) (Widget, error) {
	return f.Rehydrate(Descriptor{Type: typ})
}

// Rehydrate rebuilds a widget from its persisted form: defaults first, then
// the stored settings key-wise on top. Runtime state always starts fresh.
func (f Factory) Rehydrate(d Descriptor) (Widget, error) {
	switch d.Type {
	case TypeClock:
		return newClock(d)
	case TypeWeather:
		return newWeather(d, f.Weather, f.refresh(), f.Log)
	case TypeMaterials:
		return newMaterials(d)
	case TypeAnnouncement:
		return newAnnouncement(d)
	case TypeHomework:
		return newHomework(d)
	case TypeObjective:
		return newObjective(d)
	case TypeBellRinger:
		return newBellRinger(d)
	case TypeTimer:
		return newTimer(d)
	case TypeStickyNote:
		return newStickyNote(d)
	case TypeTimetable:
		return newTimetable(d)
	}
	return nil, ErrUnknownType
}

func (f Factory) refresh() time.Duration {
	if f.WeatherRefresh > 0 {
		return f.WeatherRefresh
	}
	return 30 * time.Minute
}
