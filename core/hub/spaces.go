package hub

import (
	"context"

	"github.com/pkg/errors"

	"classhub/core"
	"classhub/core/space"
)

// CreateSpace builds a space, optionally assigns it a class, persists and
// activates it.
func (h *Hub) CreateSpace(name, centralIdea, classID string) (*space.Space, error) {
	name = core.CleanString(name)
	if name == "" {
		return nil, core.NewValidationError(errors.New("invalid space"), core.FieldError{Field: "name", Error: "this field is required"})
	}
	if classID != "" && !h.classes.Exists(classID) {
		return nil, ErrUnknownClass
	}

	sp := space.New(name, core.CleanString(centralIdea))
	sp.ClassID = classID

	h.mu.Lock()
	h.spaces = append(h.spaces, sp)
	if classID != "" {
		h.assignments[sp.ID] = classID
	}
	if err := h.persistLocked(); err != nil {
		h.mu.Unlock()
		return nil, err
	}
	h.mu.Unlock()

	if err := h.ActivateSpace(sp.ID); err != nil {
		return nil, err
	}
	return sp, nil
}

// ActivateSpace makes a space current: the previous active space is fully
// detached before the new one attaches.
func (h *Hub) ActivateSpace(id string) error {
	h.mu.Lock()
	next := h.findSpace(id)
	if next == nil {
		h.mu.Unlock()
		return ErrSpaceNotFound
	}
	if prev := h.findSpace(h.current); prev != nil && prev != next {
		prev.Detach()
	}
	h.current = id
	h.settings.LastActiveSpace = id
	surface := h.surface
	err := h.persistSettingsLocked()
	h.mu.Unlock()

	if surface != nil {
		next.Attach(surface)
	}
	return err
}

// RemoveSpace asks for confirmation, detaches the space if it is active,
// drops it together with its class assignment, and activates the first
// remaining space.
func (h *Hub) RemoveSpace(ctx context.Context, id string) error {
	h.mu.Lock()
	sp := h.findSpace(id)
	h.mu.Unlock()
	if sp == nil {
		return ErrSpaceNotFound
	}

	answer, err := h.prompter.Ask(ctx, core.Prompt{
		Title: "Remove learning space?",
		Text:  sp.Name + " and all its widgets will be removed.",
	})
	if err != nil {
		return err
	}
	if !answer.Confirmed {
		return nil
	}

	h.mu.Lock()
	for i, cand := range h.spaces {
		if cand.ID != id {
			continue
		}
		cand.Detach()
		h.spaces = append(h.spaces[:i], h.spaces[i+1:]...)
		break
	}
	delete(h.assignments, id)
	wasActive := h.current == id
	if wasActive {
		h.current = ""
		h.settings.LastActiveSpace = ""
	}
	var nextID string
	if wasActive && len(h.spaces) > 0 {
		nextID = h.spaces[0].ID
	}
	if err := h.persistLocked(); err != nil {
		h.mu.Unlock()
		return err
	}
	h.mu.Unlock()

	if nextID != "" {
		return h.ActivateSpace(nextID)
	}
	return nil
}

// MoveSpace shifts a space by delta within the ordered list, clamped at the
// ends. Order is part of the persisted state.
func (h *Hub) MoveSpace(id string, delta int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	from := -1
	for i, sp := range h.spaces {
		if sp.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return ErrSpaceNotFound
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(h.spaces)-1 {
		to = len(h.spaces) - 1
	}
	if to == from {
		return nil
	}
	sp := h.spaces[from]
	h.spaces = append(h.spaces[:from], h.spaces[from+1:]...)
	h.spaces = append(h.spaces[:to], append([]*space.Space{sp}, h.spaces[to:]...)...)
	return h.persistLocked()
}

// UpdateSpace edits a space's name, emoji and central idea. Empty name and
// emoji keep their current values.
func (h *Hub) UpdateSpace(id, name, emoji, centralIdea string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	sp := h.findSpace(id)
	if sp == nil {
		return ErrSpaceNotFound
	}
	if name = core.CleanString(name); name != "" {
		sp.Name = name
	}
	if emoji != "" {
		sp.Emoji = emoji
	}
	sp.CentralIdea = core.CleanString(centralIdea)
	return h.persistLocked()
}

// AssignClass binds a space to a class. An empty class id clears the
// assignment.
func (h *Hub) AssignClass(spaceID, classID string) error {
	if classID != "" && !h.classes.Exists(classID) {
		return ErrUnknownClass
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	sp := h.findSpace(spaceID)
	if sp == nil {
		return ErrSpaceNotFound
	}
	sp.ClassID = classID
	if classID == "" {
		delete(h.assignments, spaceID)
	} else {
		h.assignments[spaceID] = classID
	}
	return h.persistLocked()
}

// SpaceClassID resolves the class assigned to a space, "" when unassigned.
func (h *Hub) SpaceClassID(spaceID string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.assignments[spaceID]
}
