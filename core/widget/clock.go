package widget

import (
	"fmt"
	"time"
)

type ClockSettings struct {
	ShowSeconds bool   `json:"showSeconds"`
	Format24    bool   `json:"format24"`
	Size        string `json:"size"`
}

// Clock shows the current time, re-rendered every second while attached.
type Clock struct {
	base
	settings ClockSettings
}

func newClock(d Descriptor) (*Clock, error) {
	w := &Clock{
		base:     newBase(d, TypeClock),
		settings: ClockSettings{ShowSeconds: true, Format24: false, Size: "medium"},
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Clock) Attach(s Surface) {
	stop := w.attach(s)
	w.push(w.Render())
	w.every(stop, time.Second, func() { w.push(w.Render()) })
}

func (w *Clock) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *Clock) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *Clock) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st := w.settings
		w.mu.Unlock()
		return renderClock(st, nowFunc()), nil
	})
}

func renderClock(st ClockSettings, now time.Time) string {
	hours, minutes, seconds := now.Hour(), now.Minute(), now.Second()

	period := ""
	if !st.Format24 {
		period = " AM"
		if hours >= 12 {
			period = " PM"
		}
		hours %= 12
		if hours == 0 {
			hours = 12
		}
	}

	text := fmt.Sprintf("%02d:%02d", hours, minutes)
	if st.ShowSeconds {
		text = fmt.Sprintf("%s:%02d", text, seconds)
	}
	return fmt.Sprintf(`<div class="clock-widget clock-%s"><span class="clock-time">%s%s</span></div>`,
		st.Size, text, period)
}
