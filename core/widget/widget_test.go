package widget

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"classhub/core"
	dummyweather "classhub/services/weather/dummy"
)

type recordingSurface struct {
	mu      sync.Mutex
	updates []string
}

func (s *recordingSurface) Update(widgetID, markup string) {
	s.mu.Lock()
	s.updates = append(s.updates, markup)
	s.mu.Unlock()
}

func (s *recordingSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func (s *recordingSurface) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) == 0 {
		return ""
	}
	return s.updates[len(s.updates)-1]
}

func TestFactory_unknownType(t *testing.T) {
	_, err := Factory{}.New("crystalball")
	if err != ErrUnknownType {
		t.Errorf("err = %v; want ErrUnknownType", err)
	}
}

func TestFactory_defaults(t *testing.T) {
	f := Factory{}
	for _, typ := range Types {
		w, err := f.New(typ)
		if err != nil {
			t.Fatalf("New(%s): %v", typ, err)
		}
		if w.Type() != typ {
			t.Errorf("Type() = %s; want %s", w.Type(), typ)
		}
		if w.ID() == "" {
			t.Errorf("%s: missing id", typ)
		}
		if w.Position() != DefaultPosition {
			t.Errorf("%s: position = %+v; want default", typ, w.Position())
		}
	}
}

func TestFactory_rehydrateMergesSettings(t *testing.T) {
	d := Descriptor{
		ID:       "w1",
		Type:     TypeClock,
		Position: Position{Left: 40, Top: 60, Width: 300, Height: 200},
		Settings: json.RawMessage(`{"format24": true}`),
	}
	w, err := Factory{}.Rehydrate(d)
	if err != nil {
		t.Fatal(err)
	}
	clock := w.(*Clock)
	if !clock.settings.Format24 {
		t.Error("stored format24 not applied")
	}
	if !clock.settings.ShowSeconds {
		t.Error("unmentioned showSeconds lost its default")
	}
	if w.Position() != d.Position {
		t.Errorf("position = %+v; want %+v", w.Position(), d.Position)
	}
}

func TestFactory_rehydrateRejectsCorruptSettings(t *testing.T) {
	_, err := Factory{}.Rehydrate(Descriptor{Type: TypeClock, Settings: json.RawMessage(`{"format24": "yes"}`)})
	if err == nil {
		t.Error("expected error for mistyped settings")
	}
}

func TestPersistable_roundTrip(t *testing.T) {
	f := Factory{}
	for _, typ := range Types {
		w, err := f.New(typ)
		if err != nil {
			t.Fatal(err)
		}
		w.SetPosition(Position{Left: 10, Top: 20, Width: 250, Height: 180})

		d := w.Persistable()
		if d.Type != typ || d.ID != w.ID() {
			t.Errorf("%s: descriptor identity mismatch", typ)
		}

		back, err := f.Rehydrate(d)
		if err != nil {
			t.Fatalf("%s: rehydrate: %v", typ, err)
		}
		if back.Persistable().Position != d.Position {
			t.Errorf("%s: position lost in round trip", typ)
		}
		if string(back.Persistable().Settings) != string(d.Settings) {
			t.Errorf("%s: settings drifted in round trip", typ)
		}
	}
}

func TestTimer_runtimeStateNotPersisted(t *testing.T) {
	w, err := newTimer(Descriptor{})
	if err != nil {
		t.Fatal(err)
	}
	w.Attach(&recordingSurface{})
	defer w.Detach()

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.tick()

	var settings map[string]interface{}
	if err := json.Unmarshal(w.Persistable().Settings, &settings); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"remaining", "state", "running"} {
		if _, ok := settings[key]; ok {
			t.Errorf("runtime key %q leaked into the descriptor", key)
		}
	}
}

func TestDetach_idempotent(t *testing.T) {
	w, err := newClock(Descriptor{})
	if err != nil {
		t.Fatal(err)
	}

	w.Detach() // never attached

	surface := &recordingSurface{}
	w.Attach(surface)
	w.Detach()
	w.Detach()

	n := surface.count()
	w.push("late")
	if surface.count() != n {
		t.Error("push after detach reached the surface")
	}
}

func TestAttach_replacesLiveAttachment(t *testing.T) {
	w, err := newClock(Descriptor{})
	if err != nil {
		t.Fatal(err)
	}
	first := &recordingSurface{}
	second := &recordingSurface{}
	w.Attach(first)
	w.Attach(second)
	defer w.Detach()

	n := first.count()
	w.push("tick")
	if first.count() != n {
		t.Error("old surface still receiving updates")
	}
	if second.count() == 0 {
		t.Error("new surface got nothing")
	}
}

func TestRenderClock(t *testing.T) {
	st := func(show24, seconds bool) ClockSettings {
		return ClockSettings{Format24: show24, ShowSeconds: seconds, Size: "medium"}
	}
	tests := []struct {
		name     string
		settings ClockSettings
		now      time.Time
		want     string
	}{
		{"24h with seconds", st(true, true), time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), "15:04:05"},
		{"24h without seconds", st(true, false), time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), "15:04"},
		{"12h afternoon", st(false, false), time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC), "03:04 PM"},
		{"12h midnight", st(false, false), time.Date(2026, 1, 2, 0, 30, 0, 0, time.UTC), "12:30 AM"},
		{"12h noon", st(false, false), time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC), "12:00 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderClock(tt.settings, tt.now); !strings.Contains(got, tt.want) {
				t.Errorf("renderClock() = %q; want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTimer_lifecycle(t *testing.T) {
	w, err := newTimer(Descriptor{Settings: json.RawMessage(`{"minutes": 0, "seconds": 2}`)})
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != ErrTimerDetached {
		t.Fatalf("start while detached = %v; want ErrTimerDetached", err)
	}

	w.Attach(&recordingSurface{})
	defer w.Detach()

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if w.State() != TimerRunning || w.Remaining() != 2 {
		t.Fatalf("after start: %s/%d", w.State(), w.Remaining())
	}

	// duration edits are locked while running, other settings are not
	if err := w.UpdateSettings(map[string]interface{}{"minutes": 9}); err != ErrTimerRunning {
		t.Errorf("duration edit = %v; want ErrTimerRunning", err)
	}
	if err := w.UpdateSettings(map[string]interface{}{"title": "Quiz"}); err != nil {
		t.Errorf("title edit = %v", err)
	}

	w.tick()
	w.Stop()
	if w.State() != TimerIdle || w.Remaining() != 1 {
		t.Fatalf("after stop: %s/%d", w.State(), w.Remaining())
	}

	// resume and run out
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.tick()
	if w.State() != TimerExpired || w.Remaining() != 0 {
		t.Fatalf("after expiry: %s/%d", w.State(), w.Remaining())
	}

	w.Reset()
	if w.State() != TimerIdle || w.Remaining() != 2 {
		t.Fatalf("after reset: %s/%d", w.State(), w.Remaining())
	}
}

func TestWeather_fetchAfterDetachDiscarded(t *testing.T) {
	svc := dummyweather.NewService(core.WeatherConditions{
		LocationName: "London", Description: "clear sky", Temperature: 21,
	})
	w, err := newWeather(Descriptor{}, svc, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}

	surface := &recordingSurface{}
	w.attach(surface)
	w.Detach()

	n := surface.count()
	w.fetch() // resolves after the detach; the result must be dropped

	if !w.FetchedAt().IsZero() {
		t.Error("discarded fetch stamped FetchedAt")
	}
	if surface.count() != n {
		t.Error("discarded fetch reached the surface")
	}
	if got := w.Render(); !strings.Contains(got, "Loading weather") {
		t.Errorf("discarded fetch left state behind: %q", got)
	}
}

func TestWeather_failedFetchKeepsLastConditions(t *testing.T) {
	svc := dummyweather.NewService(core.WeatherConditions{
		LocationName: "London", Description: "clear sky", Temperature: 21,
	})
	w, err := newWeather(Descriptor{}, svc, time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}

	surface := &recordingSurface{}
	w.attach(surface)
	defer w.Detach()

	w.fetch()
	first := w.FetchedAt()
	if first.IsZero() {
		t.Fatal("successful fetch left FetchedAt zero")
	}
	if got := w.Render(); !strings.Contains(got, "London") {
		t.Fatalf("conditions not rendered: %q", got)
	}

	svc.Err = errors.New("service unavailable")
	n := surface.count()
	w.fetch()

	if got := w.Render(); !strings.Contains(got, "London") || !strings.Contains(got, "clear sky") {
		t.Errorf("failed fetch dropped the last good conditions: %q", got)
	}
	if !w.FetchedAt().Equal(first) {
		t.Error("failed fetch moved FetchedAt")
	}
	if surface.count() != n {
		t.Error("failed fetch pushed to the surface")
	}
}

func TestAnnouncement_cycle(t *testing.T) {
	settings := `{"announcements": [
		{"id": "1", "content": "first", "enabled": true},
		{"id": "2", "content": "hidden", "enabled": false},
		{"id": "3", "content": "third", "enabled": true}
	]}`
	w, err := newAnnouncement(Descriptor{Settings: json.RawMessage(settings)})
	if err != nil {
		t.Fatal(err)
	}

	if got := w.Render(); !strings.Contains(got, "first") {
		t.Errorf("initial render = %q", got)
	}
	w.Next()
	if got := w.Render(); !strings.Contains(got, "third") {
		t.Errorf("disabled entry not skipped: %q", got)
	}
	w.Next()
	if got := w.Render(); !strings.Contains(got, "first") {
		t.Errorf("cycle did not wrap: %q", got)
	}
	w.Prev()
	if got := w.Render(); !strings.Contains(got, "third") {
		t.Errorf("prev did not wrap backwards: %q", got)
	}
}

func TestAnnouncement_speedChangeRestartsCycle(t *testing.T) {
	settings := `{"scrollSpeed": 3600000, "announcements": [
		{"id": "1", "content": "first", "enabled": true},
		{"id": "2", "content": "second", "enabled": true}
	]}`
	w, err := newAnnouncement(Descriptor{Settings: json.RawMessage(settings)})
	if err != nil {
		t.Fatal(err)
	}
	w.Attach(&recordingSurface{})
	defer w.Detach()

	// the ticker was started at one cycle per hour; the new speed must
	// take effect without a manual re-attach
	if err := w.UpdateSettings(map[string]interface{}{"scrollSpeed": 30}); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for !strings.Contains(w.Render(), "second") {
		select {
		case <-deadline:
			t.Fatal("cycle still running at the old speed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAnnouncement_noneEnabled(t *testing.T) {
	w, err := newAnnouncement(Descriptor{Settings: json.RawMessage(`{"announcements": []}`)})
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Render(); !strings.Contains(got, "No announcements") {
		t.Errorf("render = %q", got)
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a    Assignment
		want bool
	}{
		{"past due and open", Assignment{DueDate: "2026-08-30"}, true},
		{"past due but completed", Assignment{DueDate: "2026-08-30", Completed: true}, false},
		{"due tomorrow", Assignment{DueDate: "2026-09-01"}, false},
		{"unparseable date", Assignment{DueDate: "soon"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overdue(tt.a, now); got != tt.want {
				t.Errorf("Overdue() = %t; want %t", got, tt.want)
			}
		})
	}
}

func TestCurrentPeriod(t *testing.T) {
	schedule := map[string][]Period{
		"monday": {
			{Time: "09:00", Name: "Period 1", Subject: "Mathematics"},
			{Time: "10:00", Name: "Period 2", Subject: "English"},
		},
	}
	monday := func(hour, min int) time.Time {
		return time.Date(2026, 8, 31, hour, min, 0, 0, time.UTC) // a Monday
	}

	tests := []struct {
		name     string
		now      time.Time
		wantName string
		wantOK   bool
	}{
		{"before school", monday(8, 0), "", false},
		{"first period", monday(9, 30), "Period 1", true},
		{"second period started, no successor", monday(10, 30), "", false},
		{"weekend", time.Date(2026, 9, 5, 9, 30, 0, 0, time.UTC), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, ok := CurrentPeriod(schedule, tt.now)
			if ok != tt.wantOK || period.Name != tt.wantName {
				t.Errorf("CurrentPeriod() = %q/%t; want %q/%t", period.Name, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}

func TestUpdateSettings_invalid(t *testing.T) {
	w, err := newClock(Descriptor{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.UpdateSettings(nil); err == nil {
		t.Error("nil patch accepted")
	}
	if err := w.UpdateSettings(map[string]interface{}{"showSeconds": "yes"}); err == nil {
		t.Error("mistyped value accepted")
	}
	// unknown keys are ignored, valid keys applied
	if err := w.UpdateSettings(map[string]interface{}{"sparkles": true, "format24": true}); err != nil {
		t.Errorf("patch rejected: %v", err)
	}
	if !w.settings.Format24 {
		t.Error("patch not applied")
	}
}

func TestSafeRender_recovers(t *testing.T) {
	got := safeRender(func() (string, error) { panic("boom") })
	if !strings.Contains(got, "widget-error-state") || !strings.Contains(got, "boom") {
		t.Errorf("safeRender() = %q", got)
	}
}
