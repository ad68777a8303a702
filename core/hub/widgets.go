package hub

import (
	"context"

	"classhub/core"
	"classhub/core/space"
	"classhub/core/widget"
)

// AddWidget drops a new widget of the given type onto the active space and
// starts it immediately.
func (h *Hub) AddWidget(typ string) (widget.Widget, error) {
	h.mu.Lock()
	sp := h.findSpace(h.current)
	if sp == nil {
		h.mu.Unlock()
		return nil, ErrNoActiveSpace
	}
	w, err := sp.AddWidget(h.factory, typ)
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}
	if err := h.persistLocked(); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	surface := h.surface
	h.mu.Unlock()

	if surface != nil {
		w.Attach(surface)
	}
	return w, nil
}

// RemoveWidget asks for confirmation, then detaches and drops the widget
// from the active space.
func (h *Hub) RemoveWidget(ctx context.Context, id string) error {
	answer, err := h.prompter.Ask(ctx, core.Prompt{
		Title: "Remove widget?",
		Text:  "This widget and its settings will be removed.",
	})
	if err != nil {
		return err
	}
	if !answer.Confirmed {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	sp := h.findSpace(h.current)
	if sp == nil {
		return ErrNoActiveSpace
	}
	if !sp.RemoveWidget(id) {
		return space.ErrWidgetNotFound
	}
	return h.persistLocked()
}

// UpdateWidgetSettings merges a settings patch into a widget on the active
// space and persists the result.
func (h *Hub) UpdateWidgetSettings(id string, partial map[string]interface{}) error {
	h.mu.Lock()
	sp := h.findSpace(h.current)
	if sp == nil {
		h.mu.Unlock()
		return ErrNoActiveSpace
	}
	w, err := sp.Widget(id)
	h.mu.Unlock()
	if err != nil {
		return err
	}

	if err := w.UpdateSettings(partial); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.persistLocked()
}

// MoveWidget records a widget's new placement after a drag or resize.
func (h *Hub) MoveWidget(id string, pos widget.Position) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	sp := h.findSpace(h.current)
	if sp == nil {
		return ErrNoActiveSpace
	}
	w, err := sp.Widget(id)
	if err != nil {
		return err
	}
	w.SetPosition(pos)
	return h.persistLocked()
}
