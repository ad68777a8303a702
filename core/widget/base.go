package widget

import (
	"encoding/json"
	"sync"
	"time"

	"classhub/core"
)

// base carries the identity, placement and lifecycle shared by every
// variant. Variants embed it and guard their settings with its mutex.
type base struct {
	id  string
	typ string

	mu      sync.Mutex
	pos     Position
	surface Surface
	stop    chan struct{}
	wg      sync.WaitGroup
}

func newBase(d Descriptor, typ string) base {
	id := d.ID
	if id == "" {
		id = core.NewToken()
	}
	pos := d.Position
	if pos == (Position{}) {
		pos = DefaultPosition
	}
	return base{id: id, typ: typ, pos: pos}
}

func (b *base) ID() string   { return b.id }
func (b *base) Type() string { return b.typ }

func (b *base) Position() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

func (b *base) SetPosition(pos Position) {
	b.mu.Lock()
	b.pos = pos
	b.mu.Unlock()
}

// attach binds the surface and hands back the stop channel background
// goroutines must select on.
func (b *base) attach(s Surface) chan struct{} {
	b.Detach()
	b.mu.Lock()
	b.surface = s
	b.stop = make(chan struct{})
	stop := b.stop
	b.mu.Unlock()
	return stop
}

// Detach stops every background goroutine and waits for them. Safe to call
// repeatedly and on a never-attached widget.
func (b *base) Detach() {
	b.mu.Lock()
	if b.surface == nil {
		b.mu.Unlock()
		return
	}
	b.surface = nil
	stop := b.stop
	b.stop = nil
	b.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	b.wg.Wait()
}

func (b *base) attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface != nil
}

// every runs fn on a ticker until the stop channel closes.
func (b *base) every(stop chan struct{}, d time.Duration, fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// descriptor snapshots the widget's durable form. settings points at the
// variant's settings struct, read under the shared mutex.
func (b *base) descriptor(settings interface{}) Descriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, _ := json.Marshal(settings)
	return Descriptor{ID: b.id, Type: b.typ, Position: b.pos, Settings: raw}
}

// push sends markup to the surface, dropping it if the widget has been
// detached in the meantime.
func (b *base) push(markup string) {
	b.mu.Lock()
	s := b.surface
	b.mu.Unlock()
	if s != nil {
		s.Update(b.id, markup)
	}
}
