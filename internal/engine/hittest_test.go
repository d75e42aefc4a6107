package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandkit/brandkit/backend-go/internal/document"
)

func TestPick(t *testing.T) {
	square := document.Object{ID: "square", X: 250, Y: 250, Width: 100, Height: 100}
	circle := document.Object{ID: "circle", X: 250, Y: 250, Width: 100, Height: 100}
	far := document.Object{ID: "far", X: 50, Y: 50, Width: 20, Height: 20, Rotation: 45}
	scene := document.Scene{square, circle, far}

	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{"topmost wins tie", 250, 250, "circle"},
		{"edge is inclusive", 300, 300, "circle"},
		{"miss", 400, 400, ""},
		{"rotation ignored", 41, 41, "far"},
		{"just outside", 301, 250, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pick(scene, tt.x, tt.y))
		})
	}

	assert.Empty(t, Pick(nil, 0, 0))
}

func TestPickAfterAdd(t *testing.T) {
	e := NewEditor()
	e.AddShape(document.ShapeSquare)
	circle := e.AddShape(document.ShapeCircle)
	assert.Equal(t, circle, e.Pick(250, 250))
}
