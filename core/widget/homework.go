package widget

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"classhub/core"
)

type Assignment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"` // ISO day, 2006-01-02
	Completed   bool   `json:"completed"`
}

type HomeworkSettings struct {
	Color       string       `json:"color"`
	TextSize    string       `json:"textSize"`
	Title       string       `json:"title"`
	Assignments []Assignment `json:"assignments"`
}

// Homework lists assignments by due date. Overdue is computed at render
// time, never stored.
type Homework struct {
	base
	settings HomeworkSettings
}

func newHomework(d Descriptor) (*Homework, error) {
	w := &Homework{
		base: newBase(d, TypeHomework),
		settings: HomeworkSettings{
			Color:    "#2ec4b6",
			TextSize: "medium",
			Title:    "Homework",
			Assignments: []Assignment{
				{
					ID:          "1",
					Title:       "Example Assignment",
					Description: "Complete pages 10-12",
					DueDate:     nowFunc().AddDate(0, 0, 7).Format("2006-01-02"),
				},
			},
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Homework) Attach(s Surface) {
	w.attach(s)
	w.push(w.Render())
}

func (w *Homework) Add(title, description, dueDate string) Assignment {
	a := Assignment{ID: core.NewToken(), Title: title, Description: description, DueDate: dueDate}
	w.mu.Lock()
	w.settings.Assignments = append(w.settings.Assignments, a)
	w.mu.Unlock()
	w.push(w.Render())
	return a
}

func (w *Homework) Remove(id string) bool {
	w.mu.Lock()
	for i, a := range w.settings.Assignments {
		if a.ID == id {
			w.settings.Assignments = append(w.settings.Assignments[:i], w.settings.Assignments[i+1:]...)
			w.mu.Unlock()
			w.push(w.Render())
			return true
		}
	}
	w.mu.Unlock()
	return false
}

func (w *Homework) ToggleCompleted(id string) bool {
	w.mu.Lock()
	for i, a := range w.settings.Assignments {
		if a.ID == id {
			w.settings.Assignments[i].Completed = !a.Completed
			w.mu.Unlock()
			w.push(w.Render())
			return true
		}
	}
	w.mu.Unlock()
	return false
}

func (w *Homework) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *Homework) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

// Overdue reports whether an assignment's due date has passed and it is
// still open.
func Overdue(a Assignment, now time.Time) bool {
	if a.Completed {
		return false
	}
	due, err := time.Parse("2006-01-02", a.DueDate)
	if err != nil {
		return false
	}
	return due.Before(now)
}

func (w *Homework) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		w.mu.Unlock()

		sorted := make([]Assignment, len(st.Assignments))
		copy(sorted, st.Assignments)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DueDate < sorted[j].DueDate })

		now := nowFunc()
		var b strings.Builder
		fmt.Fprintf(&b, `<div class="homework-widget text-%s" style="color: %s"><h3>%s</h3><ul>`,
			st.TextSize, st.Color, html.EscapeString(st.Title))
		for _, a := range sorted {
			class := "open"
			if a.Completed {
				class = "completed"
			} else if Overdue(a, now) {
				class = "overdue"
			}
			fmt.Fprintf(&b, `<li class="%s">%s (due %s)</li>`, class, html.EscapeString(a.Title), a.DueDate)
		}
		b.WriteString(`</ul></div>`)
		return b.String(), nil
	})
}
