package widget

import (
	"fmt"
	"html"
	"strings"

	"classhub/core"
)

type Material struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type MaterialsSettings struct {
	Color     string     `json:"color"`
	TextSize  string     `json:"textSize"`
	Title     string     `json:"title"`
	Materials []Material `json:"materials"`
}

// Materials lists what students need on their desks.
type Materials struct {
	base
	settings MaterialsSettings
}

func newMaterials(d Descriptor) (*Materials, error) {
	w := &Materials{
		base: newBase(d, TypeMaterials),
		settings: MaterialsSettings{
			Color:    "#2ec4b6",
			TextSize: "medium",
			Title:    "Required Materials",
			Materials: []Material{
				{ID: "1", Name: "Pencil Case", Icon: "fa-pencil-ruler"},
				{ID: "2", Name: "Workbook", Icon: "fa-book"},
			},
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Materials) Attach(s Surface) {
	w.attach(s)
	w.push(w.Render())
}

func (w *Materials) Add(name, icon string) Material {
	m := Material{ID: core.NewToken(), Name: name, Icon: icon}
	w.mu.Lock()
	w.settings.Materials = append(w.settings.Materials, m)
	w.mu.Unlock()
	w.push(w.Render())
	return m
}

func (w *Materials) Remove(id string) bool {
	w.mu.Lock()
	for i, m := range w.settings.Materials {
		if m.ID == id {
			w.settings.Materials = append(w.settings.Materials[:i], w.settings.Materials[i+1:]...)
			w.mu.Unlock()
			w.push(w.Render())
			return true
		}
	}
	w.mu.Unlock()
	return false
}

func (w *Materials) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *Materials) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *Materials) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		w.mu.Unlock()

		var b strings.Builder
		fmt.Fprintf(&b, `<div class="materials-widget text-%s" style="color: %s"><h3>%s</h3><ul>`,
			st.TextSize, st.Color, html.EscapeString(st.Title))
		for _, m := range st.Materials {
			fmt.Fprintf(&b, `<li><i class="fas %s"></i> %s</li>`, m.Icon, html.EscapeString(m.Name))
		}
		b.WriteString(`</ul></div>`)
		return b.String(), nil
	})
}
