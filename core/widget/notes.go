package widget

import (
	"fmt"
	"html"
)

// The three free-text tiles (lesson objective, bell ringer, sticky note)
// share one shape: a title and a block of rich content.

type ObjectiveSettings struct {
	Color     string `json:"color"`
	TextSize  string `json:"textSize"`
	Title     string `json:"title"`
	Objective string `json:"objective"`
}

type Objective struct {
	base
	settings ObjectiveSettings
}

func newObjective(d Descriptor) (*Objective, error) {
	w := &Objective{
		base: newBase(d, TypeObjective),
		settings: ObjectiveSettings{
			Color:     "#2ec4b6",
			TextSize:  "medium",
			Title:     "Lesson Objective",
			Objective: "<p>Students will be able to...</p>",
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Objective) Attach(s Surface) {
	w.attach(s)
	w.push(w.Render())
}

func (w *Objective) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *Objective) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *Objective) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		w.mu.Unlock()
		return renderNote("objective-widget", st.TextSize, st.Color, "", st.Title, st.Objective), nil
	})
}

type BellRingerSettings struct {
	Color      string `json:"color"`
	TextSize   string `json:"textSize"`
	Title      string `json:"title"`
	BellRinger string `json:"bellringer"`
}

type BellRinger struct {
	base
	settings BellRingerSettings
}

func newBellRinger(d Descriptor) (*BellRinger, error) {
	w := &BellRinger{
		base: newBase(d, TypeBellRinger),
		settings: BellRingerSettings{
			Color:      "#2ec4b6",
			TextSize:   "medium",
			Title:      "Bell Ringer",
			BellRinger: "<p>Today's warm-up activity...</p>",
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *BellRinger) Attach(s Surface) {
	w.attach(s)
	w.push(w.Render())
}

func (w *BellRinger) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *BellRinger) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *BellRinger) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		w.mu.Unlock()
		return renderNote("bellringer-widget", st.TextSize, st.Color, "", st.Title, st.BellRinger), nil
	})
}

type StickyNoteSettings struct {
	Color      string `json:"color"`
	TextSize   string `json:"textSize"`
	Title      string `json:"title"`
	TitleColor string `json:"titleColor"`
	Content    string `json:"content"`
}

type StickyNote struct {
	base
	settings StickyNoteSettings
}

func newStickyNote(d Descriptor) (*StickyNote, error) {
	w := &StickyNote{
		base: newBase(d, TypeStickyNote),
		settings: StickyNoteSettings{
			Color:      "#ffeb3b",
			TextSize:   "14",
			Title:      "Note",
			TitleColor: "#2ec4b6",
			Content:    "<p>Click edit to add a note...</p>",
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *StickyNote) Attach(s Surface) {
	w.attach(s)
	w.push(w.Render())
}

func (w *StickyNote) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *StickyNote) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *StickyNote) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		w.mu.Unlock()
		return renderNote("stickynote-widget", st.TextSize, st.Color, st.TitleColor, st.Title, st.Content), nil
	})
}

// renderNote lays out a titled rich-content tile. The content is
// teacher-authored markup and passes through as-is, matching how it is
// stored.
func renderNote(class, textSize, color, titleColor, title, content string) string {
	titleStyle := ""
	if titleColor != "" {
		titleStyle = fmt.Sprintf(` style="color: %s"`, titleColor)
	}
	return fmt.Sprintf(
		`<div class="%s text-%s" style="background-color: %s"><h3%s>%s</h3><div class="note-content">%s</div></div>`,
		class, textSize, color, titleStyle, html.EscapeString(title), content)
}
