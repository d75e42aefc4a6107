package engine

import "github.com/brandkit/brandkit/backend-go/internal/document"

// Pick returns the id of the topmost object whose unrotated bounding box
// contains the point, or "" when nothing is hit.
func Pick(scene document.Scene, x, y float64) string {
	// Front to back = reverse paint order.
	for i := len(scene) - 1; i >= 0; i-- {
		if scene[i].Bounds().Contains(x, y) {
			return scene[i].ID
		}
	}
	return ""
}

// SelectionBounds returns the unrotated bounds of the selected object.
func (e *Editor) SelectionBounds() (document.Rect, bool) {
	obj, ok := e.objects.Find(e.Selected())
	if !ok {
		return document.Rect{}, false
	}
	return obj.Bounds(), true
}
