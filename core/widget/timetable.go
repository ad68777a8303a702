package widget

import (
	"fmt"
	"html"
	"strings"
	"time"
)

type Period struct {
	Time    string `json:"time"` // HH:MM, 24h
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

type TimetableSettings struct {
	Color      string              `json:"color"`
	TextSize   string              `json:"textSize"`
	Title      string              `json:"title"`
	TitleColor string              `json:"titleColor"`
	Schedule   map[string][]Period `json:"schedule"` // keyed by lowercase weekday
}

// Timetable highlights the period in progress, refreshed every minute
// while attached.
type Timetable struct {
	base
	settings TimetableSettings
}

func defaultSchedule() map[string][]Period {
	day := []Period{
		{Time: "09:00", Name: "Period 1", Subject: "Mathematics"},
		{Time: "10:00", Name: "Period 2", Subject: "English"},
	}
	schedule := make(map[string][]Period, 5)
	for _, weekday := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		periods := make([]Period, len(day))
		copy(periods, day)
		schedule[weekday] = periods
	}
	return schedule
}

func newTimetable(d Descriptor) (*Timetable, error) {
	w := &Timetable{
		base: newBase(d, TypeTimetable),
		settings: TimetableSettings{
			Color:      "#2ec4b6",
			TextSize:   "medium",
			Title:      "Class Timetable",
			TitleColor: "#2ec4b6",
			Schedule:   defaultSchedule(),
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Timetable) Attach(s Surface) {
	stop := w.attach(s)
	w.push(w.Render())
	w.every(stop, time.Minute, func() { w.push(w.Render()) })
}

func (w *Timetable) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *Timetable) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

// CurrentPeriod finds the period in progress at the given moment: the last
// period of today whose start time has passed and whose successor has not
// started. After the final period begins there is no current period.
func CurrentPeriod(schedule map[string][]Period, now time.Time) (Period, bool) {
	weekday := strings.ToLower(now.Weekday().String())
	periods := schedule[weekday]
	hhmm := now.Format("15:04")
	for i := 0; i < len(periods)-1; i++ {
		if periods[i].Time <= hhmm && hhmm < periods[i+1].Time {
			return periods[i], true
		}
	}
	return Period{}, false
}

func (w *Timetable) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		w.mu.Unlock()

		current := "No classes scheduled"
		if period, ok := CurrentPeriod(st.Schedule, nowFunc()); ok {
			current = fmt.Sprintf("%s: %s", period.Name, period.Subject)
		}
		return fmt.Sprintf(
			`<div class="timetable-widget text-%s" style="color: %s"><h3 style="color: %s">%s</h3><p class="current-period">%s</p></div>`,
			st.TextSize, st.Color, st.TitleColor, html.EscapeString(st.Title), html.EscapeString(current)), nil
	})
}
