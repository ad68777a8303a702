package widget

import (
	"encoding/json"
	"fmt"
	"html"
	"time"

	"github.com/pkg/errors"
)

// Widget type names, in the order the add-widget picker lists them.
const (
	TypeClock        = "clock"
	TypeWeather      = "weather"
	TypeMaterials    = "materials"
	TypeAnnouncement = "announcement"
	TypeHomework     = "homework"
	TypeObjective    = "objective"
	TypeBellRinger   = "bellringer"
	TypeTimer        = "timer"
	TypeStickyNote   = "stickynote"
	TypeTimetable    = "timetable"
)

var Types = []string{
	TypeClock, TypeWeather, TypeMaterials, TypeAnnouncement, TypeHomework,
	TypeObjective, TypeBellRinger, TypeTimer, TypeStickyNote, TypeTimetable,
}

var (
	ErrUnknownType     = errors.New("unknown widget type")
	ErrInvalidSettings = errors.New("invalid widget settings")

	nowFunc = time.Now
)

type Position struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultPosition is where a rehydrated widget without a stored position
// lands.
var DefaultPosition = Position{Left: 0, Top: 0, Width: 200, Height: 150}

// Descriptor is the persisted form of a widget: identity, placement and the
// JSON settings its variant knows how to read. Runtime state (a running
// countdown, fetched weather) is never part of it.
type Descriptor struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position Position        `json:"position"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// Surface is the render target widgets push their markup to.
type Surface interface {
	Update(widgetID, markup string)
}

// Widget is one dashboard tile. Implementations own at most one background
// goroutine while attached, and none once Detach returns.
type Widget interface {
	ID() string
	Type() string
	Position() Position
	SetPosition(Position)

	// Render returns the widget's markup. It never fails; internal errors
	// render as an inline error state.
	Render() string

	// Attach binds the widget to a surface and starts its background
	// activity. A widget has at most one live attachment; attaching again
	// detaches first.
	Attach(s Surface)

	// Detach stops background activity and waits for it. Idempotent.
	Detach()

	// UpdateSettings merges the given keys over the current settings and
	// re-renders. Unknown keys are ignored; mistyped values are rejected.
	UpdateSettings(partial map[string]interface{}) error

	// Persistable returns the widget's durable form.
	Persistable() Descriptor
}

// mergeSettings overlays stored JSON onto a defaults struct.
func mergeSettings(raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Wrap(ErrInvalidSettings, err.Error())
	}
	return nil
}

// mergePartial overlays a settings patch onto the current settings struct.
func mergePartial(partial map[string]interface{}, dest interface{}) error {
	if partial == nil {
		return ErrInvalidSettings
	}
	raw, err := json.Marshal(partial)
	if err != nil {
		return errors.Wrap(ErrInvalidSettings, err.Error())
	}
	return mergeSettings(raw, dest)
}

// safeRender fences a render function so a panicking variant degrades to an
// inline error tile instead of taking the dashboard down.
func safeRender(fn func() (string, error)) (markup string) {
	defer func() {
		if r := recover(); r != nil {
			markup = errorState(fmt.Sprintf("%v", r))
		}
	}()
	s, err := fn()
	if err != nil {
		return errorState(err.Error())
	}
	return s
}

func errorState(msg string) string {
	return `<div class="widget-error-state"><p>Widget Error</p><small>` + html.EscapeString(msg) + `</small></div>`
}
