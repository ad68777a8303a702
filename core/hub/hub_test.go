package hub

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classhub/core"
	"classhub/core/achievement"
	"classhub/core/attendance"
	"classhub/core/class"
	"classhub/core/space"
	"classhub/core/sparkpoint"
	"classhub/core/student"
	"classhub/core/widget"
	dialogsvc "classhub/services/dialog"
	logsvc "classhub/services/logger"
	"classhub/storage/inmem"
)

type recordingSurface struct {
	mu      sync.Mutex
	updates map[string]int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{updates: make(map[string]int)}
}

func (s *recordingSurface) Update(widgetID, _ string) {
	s.mu.Lock()
	s.updates[widgetID]++
	s.mu.Unlock()
}

type fixture struct {
	hub      *Hub
	store    *inmem.Store
	surface  *recordingSurface
	prompter *dialogsvc.ScriptedPrompter

	classes      *class.Service
	students     *student.Service
	attendance   *attendance.Service
	achievements *achievement.Service
	sparks       *sparkpoint.Service
}

func setup(t *testing.T, answers ...core.Answer) *fixture {
	t.Helper()
	store := inmem.Open()
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))

	classes := class.NewService(store, logger)
	students := student.NewService(store, logger)
	achievements := achievement.NewService(store, logger, students)
	sparks := sparkpoint.NewService(store, logger)
	attendanceSvc := attendance.NewService(store, logger)

	surface := newRecordingSurface()
	prompter := dialogsvc.NewScriptedPrompter(answers...)

	h := New(Options{
		Store:        store,
		Logger:       logger,
		Prompter:     prompter,
		Surface:      surface,
		Factory:      widget.Factory{Log: logger},
		Classes:      classes,
		Students:     students,
		Attendance:   attendanceSvc,
		Achievements: achievements,
		Sparks:       sparks,
	})
	return &fixture{
		hub: h, store: store, surface: surface, prompter: prompter,
		classes: classes, students: students, attendance: attendanceSvc,
		achievements: achievements, sparks: sparks,
	}
}

func TestInit_firstRun(t *testing.T) {
	fix := setup(t, core.Answer{Confirmed: true, Values: map[string]string{"name": "Grade 5 Blue"}})

	require.NoError(t, fix.hub.Init(context.Background()))

	require.Len(t, fix.prompter.Prompts, 1)
	classes := fix.classes.GetAll()
	require.Len(t, classes, 1)
	assert.Equal(t, "Grade 5 Blue", classes[0].Name)
}

func TestInit_firstRunDeclined(t *testing.T) {
	fix := setup(t, dialogsvc.Decline())
	require.NoError(t, fix.hub.Init(context.Background()))
	assert.Empty(t, fix.classes.GetAll())
	assert.Nil(t, fix.hub.CurrentSpace())
}

func TestInit_activatesLastActiveSpace(t *testing.T) {
	fix := setup(t, dialogsvc.Confirm())
	cls, err := fix.classes.Create(class.NewClass{Name: "Grade 5 Blue"})
	require.NoError(t, err)
	require.NoError(t, fix.hub.Init(context.Background()))

	first, err := fix.hub.CreateSpace("Math Corner", "", cls.ID)
	require.NoError(t, err)
	second, err := fix.hub.CreateSpace("Reading Nook", "", "")
	require.NoError(t, err)
	require.Equal(t, second.ID, fix.hub.CurrentSpace().ID)
	require.NoError(t, fix.hub.ActivateSpace(first.ID))
	require.NoError(t, fix.hub.Close())

	// a fresh hub over the same store resumes where we left off
	reborn := setup(t)
	reborn.store.SetRaw(copyKey(t, fix.store, SettingsKey))
	reborn.store.SetRaw(copyKey(t, fix.store, space.StoreKey))
	reborn.store.SetRaw(copyKey(t, fix.store, AssignmentsKey))
	reborn.store.SetRaw(copyKey(t, fix.store, class.StoreKey))

	require.NoError(t, reborn.hub.Init(context.Background()))
	require.NotNil(t, reborn.hub.CurrentSpace())
	assert.Equal(t, first.ID, reborn.hub.CurrentSpace().ID)
	assert.Equal(t, cls.ID, reborn.hub.CurrentSpace().ClassID, "assignment rebound on load")
}

func copyKey(t *testing.T, from *inmem.Store, key string) (string, []byte) {
	t.Helper()
	raw, ok := from.Raw(key)
	require.True(t, ok, "missing key %s", key)
	return key, raw
}

func TestCreateSpace_validates(t *testing.T) {
	fix := setup(t)
	_, err := fix.hub.CreateSpace("  ", "", "")
	require.Error(t, err)
	_, err = fix.hub.CreateSpace("Math Corner", "", "ghost-class")
	assert.Equal(t, ErrUnknownClass, err)
}

func TestActivateSpace_detachesPrevious(t *testing.T) {
	fix := setup(t)
	first, err := fix.hub.CreateSpace("Math Corner", "", "")
	require.NoError(t, err)
	second, err := fix.hub.CreateSpace("Reading Nook", "", "")
	require.NoError(t, err)

	w, err := fix.hub.AddWidget(widget.TypeClock)
	require.NoError(t, err)
	_ = second

	require.NoError(t, fix.hub.ActivateSpace(first.ID))
	assert.Equal(t, first.ID, fix.hub.CurrentSpace().ID)

	// the widget on the deactivated space must not push anymore
	fix.surface.mu.Lock()
	n := fix.surface.updates[w.ID()]
	fix.surface.mu.Unlock()
	w.Render()
	fix.surface.mu.Lock()
	assert.Equal(t, n, fix.surface.updates[w.ID()])
	fix.surface.mu.Unlock()
}

func TestRemoveSpace_activatesFirstRemaining(t *testing.T) {
	fix := setup(t, dialogsvc.Confirm())
	first, err := fix.hub.CreateSpace("Math Corner", "", "")
	require.NoError(t, err)
	second, err := fix.hub.CreateSpace("Reading Nook", "", "")
	require.NoError(t, err)
	require.Equal(t, second.ID, fix.hub.CurrentSpace().ID)

	require.NoError(t, fix.hub.RemoveSpace(context.Background(), second.ID))
	require.NotNil(t, fix.hub.CurrentSpace())
	assert.Equal(t, first.ID, fix.hub.CurrentSpace().ID)
	assert.Len(t, fix.hub.Spaces(), 1)
}

func TestRemoveSpace_declined(t *testing.T) {
	fix := setup(t, dialogsvc.Decline())
	sp, err := fix.hub.CreateSpace("Math Corner", "", "")
	require.NoError(t, err)

	require.NoError(t, fix.hub.RemoveSpace(context.Background(), sp.ID))
	assert.Len(t, fix.hub.Spaces(), 1)
}

func TestMoveSpace(t *testing.T) {
	fix := setup(t)
	first, err := fix.hub.CreateSpace("A", "", "")
	require.NoError(t, err)
	_, err = fix.hub.CreateSpace("B", "", "")
	require.NoError(t, err)

	require.NoError(t, fix.hub.MoveSpace(first.ID, 1))
	assert.Equal(t, first.ID, fix.hub.Spaces()[1].ID)

	// clamped at the end
	require.NoError(t, fix.hub.MoveSpace(first.ID, 5))
	assert.Equal(t, first.ID, fix.hub.Spaces()[1].ID)
}

func TestAddWidget_persistsAndAttaches(t *testing.T) {
	fix := setup(t)
	_, err := fix.hub.AddWidget(widget.TypeClock)
	assert.Equal(t, ErrNoActiveSpace, err)

	_, err = fix.hub.CreateSpace("Math Corner", "", "")
	require.NoError(t, err)
	w, err := fix.hub.AddWidget(widget.TypeClock)
	require.NoError(t, err)

	fix.surface.mu.Lock()
	pushed := fix.surface.updates[w.ID()] > 0
	fix.surface.mu.Unlock()
	assert.True(t, pushed, "new widget renders immediately")

	var records []space.Record
	found, err := fix.store.Load(space.StoreKey, &records)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, records, 1)
	require.Len(t, records[0].Widgets, 1)
	assert.Equal(t, w.ID(), records[0].Widgets[0].ID)
}

func TestUpdateWidgetSettings_persists(t *testing.T) {
	fix := setup(t)
	_, err := fix.hub.CreateSpace("Math Corner", "", "")
	require.NoError(t, err)
	w, err := fix.hub.AddWidget(widget.TypeClock)
	require.NoError(t, err)

	require.NoError(t, fix.hub.UpdateWidgetSettings(w.ID(), map[string]interface{}{"format24": true}))

	var records []space.Record
	_, err = fix.store.Load(space.StoreKey, &records)
	require.NoError(t, err)
	assert.Contains(t, string(records[0].Widgets[0].Settings), `"format24":true`)
}

func TestRemoveClass_cascades(t *testing.T) {
	fix := setup(t, dialogsvc.Confirm())
	cls, err := fix.classes.Create(class.NewClass{Name: "Grade 5 Blue"})
	require.NoError(t, err)
	sp, err := fix.hub.CreateSpace("Math Corner", "", cls.ID)
	require.NoError(t, err)
	std, err := fix.hub.EnrollStudent(cls.ID, student.NewStudent{FirstName: "Ada"})
	require.NoError(t, err)
	require.NoError(t, fix.attendance.Take(cls.ID, "2026-08-31", map[string]attendance.Status{std.ID: attendance.StatusPresent}))

	require.NoError(t, fix.hub.RemoveClass(context.Background(), cls.ID))

	assert.False(t, fix.classes.Exists(cls.ID))
	assert.Empty(t, fix.students.ByClass(cls.ID))
	assert.Nil(t, fix.attendance.ForClass(cls.ID))
	assert.Empty(t, fix.hub.SpaceClassID(sp.ID), "space unassigned")
	assert.Len(t, fix.hub.Spaces(), 1, "space itself survives")
}

func TestEnrollStudent_defaultsToActiveSpace(t *testing.T) {
	fix := setup(t)
	cls, err := fix.classes.Create(class.NewClass{Name: "Grade 5 Blue"})
	require.NoError(t, err)
	sp, err := fix.hub.CreateSpace("Math Corner", "", cls.ID)
	require.NoError(t, err)

	std, err := fix.hub.EnrollStudent(cls.ID, student.NewStudent{FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, sp.ID, std.SpaceID)

	// enrolling initializes both ledgers
	assert.NotNil(t, fix.achievements.ForStudent(std.ID))
	assert.NotNil(t, fix.sparks.ForStudent(std.ID))
}

func TestAwardSparks_snapshotsSpaceName(t *testing.T) {
	fix := setup(t)
	cls, err := fix.classes.Create(class.NewClass{Name: "Grade 5 Blue"})
	require.NoError(t, err)
	_, err = fix.hub.CreateSpace("Math Corner", "", cls.ID)
	require.NoError(t, err)
	std, err := fix.hub.EnrollStudent(cls.ID, student.NewStudent{FirstName: "Ada"})
	require.NoError(t, err)

	rec, err := fix.hub.AwardSparks(std.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Math Corner", rec.SpaceName)
	assert.Equal(t, "Good Answer", rec.Category)

	_, err = fix.hub.AwardSparks("ghost", 2)
	assert.Equal(t, student.ErrNotFound, err)
}

func TestImportRoster(t *testing.T) {
	fix := setup(t)
	cls, err := fix.classes.Create(class.NewClass{Name: "Grade 5 Blue"})
	require.NoError(t, err)
	sp, err := fix.hub.CreateSpace("Math Corner", "", cls.ID)
	require.NoError(t, err)

	res, err := fix.hub.ImportRoster(cls.ID, []student.ImportRow{
		{FirstName: "Ada"},
		{LastName: "Nameless"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)

	roster := fix.students.ByClass(cls.ID)
	require.Len(t, roster, 1)
	assert.Equal(t, sp.ID, roster[0].SpaceID)
	assert.NotNil(t, fix.sparks.ForStudent(roster[0].ID))
}

func TestUpdateSettings(t *testing.T) {
	fix := setup(t)
	require.NoError(t, fix.hub.UpdateSettings("Northside Primary", "5B", ""))
	got := fix.hub.Settings()
	assert.Equal(t, "Northside Primary", got.SchoolName)
	assert.Equal(t, "5B", got.ClassName)

	// empty school name keeps the previous one
	require.NoError(t, fix.hub.UpdateSettings("", "5C", ""))
	got = fix.hub.Settings()
	assert.Equal(t, "Northside Primary", got.SchoolName)
	assert.Equal(t, "5C", got.ClassName)
}

func TestInit_corruptSettingsFallBack(t *testing.T) {
	fix := setup(t, dialogsvc.Decline())
	fix.store.SetRaw(SettingsKey, []byte("{not json"))

	require.NoError(t, fix.hub.Init(context.Background()))
	assert.Equal(t, "Class Hub", fix.hub.Settings().SchoolName)
}

func TestInit_mistypedSettingsFallBack(t *testing.T) {
	fix := setup(t, dialogsvc.Decline())
	// valid JSON, wrong type: decoding fills className before failing on
	// schoolName, so the whole document must be discarded
	fix.store.SetRaw(SettingsKey, []byte(`{"className": "5B", "schoolName": 42}`))

	require.NoError(t, fix.hub.Init(context.Background()))
	got := fix.hub.Settings()
	assert.Equal(t, "Class Hub", got.SchoolName)
	assert.Empty(t, got.ClassName, "partial decode kept")
}
