package space

import (
	"github.com/pkg/errors"

	"classhub/core"
	"classhub/core/widget"
)

// StoreKey is the persistence key for the space collection.
const StoreKey = "classHubSpaces"

const defaultEmoji = "📚"

var ErrWidgetNotFound = errors.New("widget not found")

// Record is the persisted form of a learning space. The class assignment
// lives in its own registry and is deliberately not part of it.
type Record struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Emoji       string              `json:"emoji"`
	CentralIdea string              `json:"centralIdea,omitempty"`
	Widgets     []widget.Descriptor `json:"widgets"`
}

// Space is a live learning space: a named container of widget instances.
type Space struct {
	ID          string
	Name        string
	Emoji       string
	CentralIdea string
	ClassID     string // derived from the assignment registry, in-memory only
	Widgets     []widget.Widget
}

func New(name, centralIdea string) *Space {
	return &Space{
		ID:          core.NewToken(),
		Name:        name,
		Emoji:       defaultEmoji,
		CentralIdea: centralIdea,
	}
}

// FromRecord rebuilds a space from its persisted form. Descriptors of
// unknown type or with a duplicate id are dropped with a log line; one bad
// widget never takes the space down.
func FromRecord(rec Record, f widget.Factory, log core.Logger) *Space {
	sp := &Space{
		ID:          rec.ID,
		Name:        rec.Name,
		Emoji:       rec.Emoji,
		CentralIdea: rec.CentralIdea,
	}
	if sp.ID == "" {
		sp.ID = core.NewToken()
	}
	if sp.Emoji == "" {
		sp.Emoji = defaultEmoji
	}

	seen := make(map[string]bool, len(rec.Widgets))
	for _, d := range rec.Widgets {
		if d.ID != "" && seen[d.ID] {
			log.Warn("dropping widget with duplicate id", sp.ID, d.ID)
			continue
		}
		w, err := f.Rehydrate(d)
		if err != nil {
			log.Warn("dropping widget", sp.ID, d.Type, err)
			continue
		}
		seen[w.ID()] = true
		sp.Widgets = append(sp.Widgets, w)
	}
	return sp
}

// Record returns the space's persisted form, asking every widget for its
// durable state.
func (sp *Space) Record() Record {
	rec := Record{
		ID:          sp.ID,
		Name:        sp.Name,
		Emoji:       sp.Emoji,
		CentralIdea: sp.CentralIdea,
		Widgets:     make([]widget.Descriptor, 0, len(sp.Widgets)),
	}
	for _, w := range sp.Widgets {
		rec.Widgets = append(rec.Widgets, w.Persistable())
	}
	return rec
}

// NextPosition staggers a new widget so consecutive additions do not stack
// exactly on top of each other.
func (sp *Space) NextPosition() widget.Position {
	offset := (len(sp.Widgets) * 30) % 150
	return widget.Position{
		Left:   offset,
		Top:    offset,
		Width:  widget.DefaultPosition.Width,
		Height: widget.DefaultPosition.Height,
	}
}

// AddWidget creates a widget of the given type with default settings and a
// staggered position.
func (sp *Space) AddWidget(f widget.Factory, typ string) (widget.Widget, error) {
	w, err := f.New(typ)
	if err != nil {
		return nil, err
	}
	w.SetPosition(sp.NextPosition())
	sp.Widgets = append(sp.Widgets, w)
	return w, nil
}

// RemoveWidget detaches and drops a widget.
func (sp *Space) RemoveWidget(id string) bool {
	for i, w := range sp.Widgets {
		if w.ID() == id {
			w.Detach()
			sp.Widgets = append(sp.Widgets[:i], sp.Widgets[i+1:]...)
			return true
		}
	}
	return false
}

func (sp *Space) Widget(id string) (widget.Widget, error) {
	for _, w := range sp.Widgets {
		if w.ID() == id {
			return w, nil
		}
	}
	return nil, ErrWidgetNotFound
}

// Attach binds every widget to the surface, starting their background
// activity.
func (sp *Space) Attach(s widget.Surface) {
	for _, w := range sp.Widgets {
		w.Attach(s)
	}
}

// Detach stops every widget. Synchronous and idempotent.
func (sp *Space) Detach() {
	for _, w := range sp.Widgets {
		w.Detach()
	}
}
