package hub

import (
	"context"

	"classhub/core"
	"classhub/core/sparkpoint"
	"classhub/core/student"
)

// EnrollStudent adds a student to a class, defaulting them into the active
// space and initializing their ledgers.
func (h *Hub) EnrollStudent(classID string, ns student.NewStudent) (student.Student, error) {
	if !h.classes.Exists(classID) {
		return student.Student{}, ErrUnknownClass
	}
	if ns.SpaceID == "" {
		if sp := h.CurrentSpace(); sp != nil {
			ns.SpaceID = sp.ID
		}
	}
	return h.students.Create(classID, ns, h.ledgers()...)
}

// ImportRoster bulk-enrolls rows into a class, pointing every imported
// student at the active space, then re-runs the ledger validation pass.
func (h *Hub) ImportRoster(classID string, rows []student.ImportRow) (student.ImportResult, error) {
	if !h.classes.Exists(classID) {
		return student.ImportResult{}, ErrUnknownClass
	}
	var spaceID string
	if sp := h.CurrentSpace(); sp != nil {
		spaceID = sp.ID
	}
	res, err := h.students.Import(classID, spaceID, rows, h.ledgers()...)
	if err != nil {
		return res, err
	}
	return res, h.students.ValidateData(h.ledgers()...)
}

// RemoveClass asks for confirmation, then deletes the class and cascades:
// its roster and attendance history go with it, and any space assigned to
// it becomes unassigned. The spaces themselves survive.
func (h *Hub) RemoveClass(ctx context.Context, classID string) error {
	cls, err := h.classes.Get(classID)
	if err != nil {
		return err
	}

	answer, err := h.prompter.Ask(ctx, core.Prompt{
		Title: "Remove class?",
		Text:  cls.Name + ", its students and its attendance records will be removed.",
	})
	if err != nil {
		return err
	}
	if !answer.Confirmed {
		return nil
	}

	if err := h.classes.Remove(classID); err != nil {
		return err
	}
	if err := h.students.RemoveClass(classID); err != nil {
		h.log.Error("removing class roster", classID, err)
	}
	if err := h.attendance.RemoveClass(classID); err != nil {
		h.log.Error("removing class attendance", classID, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for spaceID, assigned := range h.assignments {
		if assigned == classID {
			delete(h.assignments, spaceID)
		}
	}
	for _, sp := range h.spaces {
		if sp.ClassID == classID {
			sp.ClassID = ""
		}
	}
	return h.persistLocked()
}

// AwardSparks quick-awards spark points, stamping the record with the name
// of the active space.
func (h *Hub) AwardSparks(studentID string, points int) (sparkpoint.Record, error) {
	if !h.students.HasStudent(studentID) {
		return sparkpoint.Record{}, student.ErrNotFound
	}
	var spaceName string
	if sp := h.CurrentSpace(); sp != nil {
		spaceName = sp.Name
	}
	return h.sparks.QuickAward(studentID, points, spaceName)
}
