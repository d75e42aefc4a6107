package engine

import "github.com/brandkit/brandkit/backend-go/internal/document"

type dragState struct {
	active bool
	id     string
	offset document.Point
	moved  bool
}

// Dragging reports whether a drag is in progress.
func (e *Editor) Dragging() bool { return e.drag.active }

// PointerDown picks the object under the pointer and selects it. A hit on the
// object that was already selected starts a drag anchored at the pointer's
// offset from its center; a hit on any other object only selects it, and a
// miss clears the selection.
func (e *Editor) PointerDown(x, y float64) string {
	prev := e.Selected()
	id := e.Pick(x, y)
	e.Select(id)
	if id == "" || id != prev {
		e.drag = dragState{}
		return id
	}
	obj, _ := e.objects.Find(id)
	e.drag = dragState{
		active: true,
		id:     id,
		offset: document.Point{X: x - obj.X, Y: y - obj.Y},
	}
	return id
}

// PointerMove moves the dragged object so the pointer keeps its grab offset.
func (e *Editor) PointerMove(x, y float64) {
	if !e.drag.active {
		return
	}
	if e.objects.Index(e.drag.id) < 0 {
		e.drag = dragState{}
		return
	}
	e.Update(e.drag.id, Position(x-e.drag.offset.X, y-e.drag.offset.Y))
	e.drag.moved = true
}

// PointerUp ends a drag, recording one history entry if anything moved.
func (e *Editor) PointerUp() {
	if !e.drag.active {
		return
	}
	moved := e.drag.moved
	e.drag = dragState{}
	if moved {
		e.Commit()
	}
}

// PointerLeave ends a drag exactly like PointerUp.
func (e *Editor) PointerLeave() {
	e.PointerUp()
}
