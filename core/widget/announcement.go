package widget

import (
	"fmt"
	"html"
	"time"

	"classhub/core"
)

type AnnouncementEntry struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Enabled bool   `json:"enabled"`
}

type AnnouncementSettings struct {
	Color         string              `json:"color"`
	TextSize      string              `json:"textSize"`
	Title         string              `json:"title"`
	ScrollSpeedMS int                 `json:"scrollSpeed"`
	Announcements []AnnouncementEntry `json:"announcements"`
}

// Announcement cycles through its enabled entries on a timer. Manual
// next/previous moves do not reset the cycle.
type Announcement struct {
	base
	settings AnnouncementSettings
	index    int
}

func newAnnouncement(d Descriptor) (*Announcement, error) {
	w := &Announcement{
		base: newBase(d, TypeAnnouncement),
		settings: AnnouncementSettings{
			Color:         "#2ec4b6",
			TextSize:      "medium",
			Title:         "Announcements",
			ScrollSpeedMS: 5000,
			Announcements: []AnnouncementEntry{
				{ID: "1", Content: "👋 Welcome to Class! 📚", Enabled: true},
			},
		},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Announcement) Attach(s Surface) {
	stop := w.attach(s)
	w.push(w.Render())
	w.mu.Lock()
	speed := w.settings.ScrollSpeedMS
	w.mu.Unlock()
	if speed <= 0 {
		speed = 5000
	}
	w.every(stop, time.Duration(speed)*time.Millisecond, func() { w.Next() })
}

// Next advances to the next enabled entry, wrapping around.
func (w *Announcement) Next() {
	w.mu.Lock()
	w.index++
	w.mu.Unlock()
	w.push(w.Render())
}

// Prev moves back to the previous enabled entry, wrapping around.
func (w *Announcement) Prev() {
	w.mu.Lock()
	w.index--
	w.mu.Unlock()
	w.push(w.Render())
}

// Add appends an entry, enabled by default.
func (w *Announcement) Add(content string) AnnouncementEntry {
	entry := AnnouncementEntry{ID: core.NewToken(), Content: content, Enabled: true}
	w.mu.Lock()
	w.settings.Announcements = append(w.settings.Announcements, entry)
	w.mu.Unlock()
	w.push(w.Render())
	return entry
}

func (w *Announcement) Remove(id string) bool {
	w.mu.Lock()
	for i, entry := range w.settings.Announcements {
		if entry.ID == id {
			w.settings.Announcements = append(w.settings.Announcements[:i], w.settings.Announcements[i+1:]...)
			w.mu.Unlock()
			w.push(w.Render())
			return true
		}
	}
	w.mu.Unlock()
	return false
}

func (w *Announcement) Toggle(id string) bool {
	w.mu.Lock()
	for i, entry := range w.settings.Announcements {
		if entry.ID == id {
			w.settings.Announcements[i].Enabled = !entry.Enabled
			w.mu.Unlock()
			w.push(w.Render())
			return true
		}
	}
	w.mu.Unlock()
	return false
}

func (w *Announcement) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	prevSpeed := w.settings.ScrollSpeedMS
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	speedChanged := w.settings.ScrollSpeedMS != prevSpeed
	s := w.surface
	w.mu.Unlock()

	// the cycle ticker runs at the speed captured on attach; a speed
	// change needs a fresh one
	if speedChanged && s != nil {
		w.Attach(s)
		return nil
	}
	w.push(w.Render())
	return nil
}

func (w *Announcement) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *Announcement) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		index := w.index
		w.mu.Unlock()

		var enabled []AnnouncementEntry
		for _, entry := range st.Announcements {
			if entry.Enabled {
				enabled = append(enabled, entry)
			}
		}

		content := "No announcements"
		if n := len(enabled); n > 0 {
			content = enabled[((index%n)+n)%n].Content
		}
		return fmt.Sprintf(
			`<div class="announcement-widget text-%s" style="color: %s"><h3>%s</h3><p>%s</p></div>`,
			st.TextSize, st.Color, html.EscapeString(st.Title), html.EscapeString(content)), nil
	})
}
