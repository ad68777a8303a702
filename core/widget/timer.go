package widget

import (
	"fmt"
	"html"
	"time"

	"github.com/pkg/errors"
)

type TimerSettings struct {
	Color    string `json:"color"`
	TextSize string `json:"textSize"`
	Title    string `json:"title"`
	Minutes  int    `json:"minutes"`
	Seconds  int    `json:"seconds"`
}

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
)

var (
	ErrTimerRunning  = errors.New("cannot edit duration while the timer is running")
	ErrTimerDetached = errors.New("timer is not attached")
)

// Timer counts a configured duration down to zero. Only the configured
// duration persists; the countdown itself restarts fresh on rehydration.
type Timer struct {
	base
	settings  TimerSettings
	state     TimerState
	remaining int // seconds left; -1 = countdown not initialized
}

func newTimer(d Descriptor) (*Timer, error) {
	w := &Timer{
		base:      newBase(d, TypeTimer),
		settings:  TimerSettings{Color: "#2ec4b6", TextSize: "medium", Title: "Timer", Minutes: 5, Seconds: 0},
		state:     TimerIdle,
		remaining: -1,
	}
	if err := mergeSettings(d.Settings, &w.settings); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Timer) Attach(s Surface) {
	stop := w.attach(s)
	w.push(w.Render())
	w.every(stop, time.Second, w.tick)
}

func (w *Timer) tick() {
	w.mu.Lock()
	if w.state != TimerRunning {
		w.mu.Unlock()
		return
	}
	w.remaining--
	if w.remaining <= 0 {
		w.remaining = 0
		w.state = TimerExpired
	}
	w.mu.Unlock()
	w.push(w.Render())
}

// Start begins or resumes the countdown.
func (w *Timer) Start() error {
	if !w.attached() {
		return ErrTimerDetached
	}
	w.mu.Lock()
	if w.state == TimerRunning {
		w.mu.Unlock()
		return nil
	}
	if w.state == TimerExpired || w.remaining < 0 {
		w.remaining = w.settings.Minutes*60 + w.settings.Seconds
	}
	w.state = TimerRunning
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

// Stop pauses the countdown, keeping the remaining time for a resume.
func (w *Timer) Stop() {
	w.mu.Lock()
	if w.state == TimerRunning {
		w.state = TimerIdle
	}
	w.mu.Unlock()
	w.push(w.Render())
}

// Reset discards the countdown and returns to the configured duration.
func (w *Timer) Reset() {
	w.mu.Lock()
	w.state = TimerIdle
	w.remaining = -1
	w.mu.Unlock()
	w.push(w.Render())
}

func (w *Timer) State() TimerState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Timer) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.remaining < 0 {
		return w.settings.Minutes*60 + w.settings.Seconds
	}
	return w.remaining
}

func (w *Timer) UpdateSettings(partial map[string]interface{}) error {
	w.mu.Lock()
	if w.state == TimerRunning {
		if _, ok := partial["minutes"]; ok {
			w.mu.Unlock()
			return ErrTimerRunning
		}
		if _, ok := partial["seconds"]; ok {
			w.mu.Unlock()
			return ErrTimerRunning
		}
	}
	if err := mergePartial(partial, &w.settings); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	w.push(w.Render())
	return nil
}

func (w *Timer) Persistable() Descriptor {
	return w.descriptor(&w.settings)
}

func (w *Timer) Render() string {
	return safeRender(func() (string, error) {
		w.mu.Lock()
		st, state := w.settings, w.state
		remaining := w.remaining
		if remaining < 0 {
			remaining = st.Minutes*60 + st.Seconds
		}
		w.mu.Unlock()

		display := fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
		return fmt.Sprintf(
			`<div class="timer-widget timer-%s text-%s" style="color: %s"><h3>%s</h3><span class="timer-display">%s</span></div>`,
			state, st.TextSize, st.Color, html.EscapeString(st.Title), display), nil
	})
}
