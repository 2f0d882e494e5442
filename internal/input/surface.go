// Package input scopes pointer listeners to the lifetime of a gesture.
//
// A gesture starts with a pointer press on the board. From then until the
// matching release, move and release events are delivered from the whole
// input surface, not only the board element, so a release outside the
// board still ends the gesture. Listeners are attached when a gesture
// starts and detached when it ends; an idle board holds none.
package input

import "github.com/virtualboard/board/internal/geometry"

// GestureListener receives the events that continue an active gesture.
// Positions are in screen space.
type GestureListener interface {
	PointerMove(p geometry.Point)
	PointerUp(p geometry.Point)
}

// Surface is the wide-scope event source a gesture attaches to.
type Surface interface {
	// Attach registers l until the returned release function is called.
	// Release is idempotent.
	Attach(l GestureListener) (release func())
}

// Dispatcher is a Surface driven by the host: the host forwards every
// move and release it sees, and the dispatcher fans them out to the
// listeners currently attached.
type Dispatcher struct {
	listeners []*registration
}

type registration struct {
	l GestureListener
}

// NewDispatcher returns a dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach implements Surface.
func (d *Dispatcher) Attach(l GestureListener) func() {
	reg := &registration{l: l}
	d.listeners = append(d.listeners, reg)

	return func() {
		for i, r := range d.listeners {
			if r == reg {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Active returns the number of attached listeners.
func (d *Dispatcher) Active() int {
	return len(d.listeners)
}

// PointerMove delivers a move to every attached listener.
func (d *Dispatcher) PointerMove(p geometry.Point) {
	for _, r := range d.snapshot() {
		if d.attached(r) {
			r.l.PointerMove(p)
		}
	}
}

// PointerUp delivers a release to every attached listener. Listeners
// normally detach themselves while handling it.
func (d *Dispatcher) PointerUp(p geometry.Point) {
	for _, r := range d.snapshot() {
		if d.attached(r) {
			r.l.PointerUp(p)
		}
	}
}

func (d *Dispatcher) snapshot() []*registration {
	out := make([]*registration, len(d.listeners))
	copy(out, d.listeners)
	return out
}

// attached reports whether r is still registered. A listener released
// by an earlier listener in the same dispatch must not see the event.
func (d *Dispatcher) attached(r *registration) bool {
	for _, cur := range d.listeners {
		if cur == r {
			return true
		}
	}
	return false
}
