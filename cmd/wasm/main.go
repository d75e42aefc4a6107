//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/brandkit/brandkit/backend-go/internal/asset"
	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/engine"
	"github.com/brandkit/brandkit/backend-go/internal/render"
)

const (
	canvasWidth  = 500
	canvasHeight = 500
)

var (
	editor   *engine.Editor
	assets   *asset.Registry
	renderer *render.Renderer
)

func main() {
	assets = asset.NewRegistry()
	renderer = render.NewRenderer(render.DefaultBackground)
	editor = engine.NewEditor(engine.WithReleaser(assets))

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("loadSample", js.FuncOf(loadSample))
	api.Set("addShape", js.FuncOf(addShape))
	api.Set("addText", js.FuncOf(addText))
	api.Set("addIcon", js.FuncOf(addIcon))
	api.Set("addImage", js.FuncOf(addImage))
	api.Set("updateObject", js.FuncOf(updateObject))
	api.Set("deleteObject", js.FuncOf(deleteObject))
	api.Set("reorder", js.FuncOf(reorder))
	api.Set("select", js.FuncOf(selectObject))
	api.Set("setTools", js.FuncOf(setTools))
	api.Set("previewStyle", js.FuncOf(previewStyle))
	api.Set("commitStyle", js.FuncOf(commitStyle))
	api.Set("applyGradient", js.FuncOf(applyGradient))
	api.Set("clearGradient", js.FuncOf(clearGradient))
	api.Set("commit", js.FuncOf(commit))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("pointerLeave", js.FuncOf(pointerLeave))
	api.Set("close", js.FuncOf(closeEditor))

	// --- Queries (frontend ← backend) ---
	api.Set("render", js.FuncOf(renderFrame))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getObjects", js.FuncOf(getObjects))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getHistoryState", js.FuncOf(getHistoryState))

	js.Global().Set("brandkitEditor", api)
	js.Global().Set("brandkitWasmReady", js.ValueOf(true))

	select {}
}

func errorResult(msg string) js.Value {
	return js.ValueOf(map[string]any{"error": msg})
}

func okResult() js.Value {
	return js.ValueOf(map[string]any{"ok": true})
}

func idResult(id string) js.Value {
	return js.ValueOf(map[string]any{"id": id})
}

func stringArg(args []js.Value, i int) string {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

func jsonArg(args []js.Value, i int, v any) error {
	return json.Unmarshal([]byte(stringArg(args, i)), v)
}

func toJSON(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

func loadSample(this js.Value, args []js.Value) any {
	editor.Load(document.NewSampleScene())
	return okResult()
}

func addShape(this js.Value, args []js.Value) any {
	kind := document.ShapeKind(stringArg(args, 0))
	if !kind.Valid() {
		return errorResult("unknown shape " + string(kind))
	}
	return idResult(editor.AddShape(kind))
}

func addText(this js.Value, args []js.Value) any {
	var font document.Text
	if len(args) > 1 {
		if err := jsonArg(args, 1, &font); err != nil {
			return errorResult("invalid font JSON")
		}
	}
	id, err := editor.AddText(stringArg(args, 0), font)
	if err != nil {
		return errorResult(err.Error())
	}
	return idResult(id)
}

func addIcon(this js.Value, args []js.Value) any {
	kind := document.IconKind(stringArg(args, 0))
	if !kind.Valid() {
		return errorResult("unknown icon " + string(kind))
	}
	return idResult(editor.AddIcon(kind))
}

// addImage takes the file bytes as a Uint8Array. Decoding runs inline since
// the browser build has a single thread of control.
func addImage(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return errorResult(asset.UserMessage(asset.ErrInvalidFileType))
	}
	data := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(data, args[0])

	contentType, err := asset.Validate(data)
	if err != nil {
		return errorResult(asset.UserMessage(err))
	}
	ref := assets.Create(data, contentType)
	editor.BeginImage(ref)
	img, decodeErr := asset.Decode(data)
	id, err := editor.CompleteImage(ref, img, decodeErr)
	if err != nil {
		return errorResult(asset.UserMessage(err))
	}
	return idResult(id)
}

func updateObject(this js.Value, args []js.Value) any {
	var patch engine.Patch
	if err := jsonArg(args, 1, &patch); err != nil {
		return errorResult("invalid patch JSON")
	}
	editor.Update(stringArg(args, 0), patch)
	return okResult()
}

func deleteObject(this js.Value, args []js.Value) any {
	editor.Delete(stringArg(args, 0))
	return nil
}

func reorder(this js.Value, args []js.Value) any {
	editor.Reorder(stringArg(args, 0), engine.Direction(stringArg(args, 1)))
	return nil
}

func selectObject(this js.Value, args []js.Value) any {
	editor.Select(stringArg(args, 0))
	return nil
}

func setTools(this js.Value, args []js.Value) any {
	var t engine.ToolOptions
	if err := jsonArg(args, 0, &t); err != nil {
		return errorResult("invalid tool options JSON")
	}
	editor.SetTools(t)
	return okResult()
}

func previewStyle(this js.Value, args []js.Value) any {
	var edit document.LiveEdit
	if err := jsonArg(args, 0, &edit); err != nil {
		return errorResult("invalid style JSON")
	}
	editor.PreviewStyle(edit)
	return okResult()
}

func commitStyle(this js.Value, args []js.Value) any {
	editor.CommitStyle()
	return nil
}

func applyGradient(this js.Value, args []js.Value) any {
	var g document.Gradient
	if err := jsonArg(args, 0, &g); err != nil {
		return errorResult("invalid gradient JSON")
	}
	editor.ApplyGradient(g)
	return okResult()
}

func clearGradient(this js.Value, args []js.Value) any {
	editor.ClearGradient()
	return nil
}

func commit(this js.Value, args []js.Value) any {
	editor.Commit()
	return nil
}

func undo(this js.Value, args []js.Value) any {
	return js.ValueOf(editor.Undo())
}

func redo(this js.Value, args []js.Value) any {
	return js.ValueOf(editor.Redo())
}

func pointerArgs(args []js.Value) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	return args[0].Float(), args[1].Float(), true
}

func pointerDown(this js.Value, args []js.Value) any {
	x, y, ok := pointerArgs(args)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(editor.PointerDown(x, y))
}

func pointerMove(this js.Value, args []js.Value) any {
	if x, y, ok := pointerArgs(args); ok {
		editor.PointerMove(x, y)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) any {
	editor.PointerUp()
	return nil
}

func pointerLeave(this js.Value, args []js.Value) any {
	editor.PointerLeave()
	return nil
}

func closeEditor(this js.Value, args []js.Value) any {
	editor.Close()
	return nil
}

// --- Query Handlers ---

// renderFrame returns the frame as a JSON array of draw commands for the
// canvas front end to replay.
func renderFrame(this js.Value, args []js.Value) any {
	rec := render.NewRecorder(canvasWidth, canvasHeight, render.ApproxMeasure)
	renderer.Render(rec, render.Frame{
		Objects:  editor.Objects(),
		Selected: editor.Selected(),
		Live:     editor.Live(),
	})
	out, err := render.DrawCommandsToJSON(rec.Commands())
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) any {
	x, y, ok := pointerArgs(args)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(editor.Pick(x, y))
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	r, ok := editor.SelectionBounds()
	if !ok {
		return js.Null()
	}
	return toJSON(r)
}

func getObjects(this js.Value, args []js.Value) any {
	return toJSON(editor.Objects())
}

func getSelection(this js.Value, args []js.Value) any {
	return js.ValueOf(editor.Selected())
}

func getHistoryState(this js.Value, args []js.Value) any {
	return js.ValueOf(map[string]any{
		"canUndo": editor.CanUndo(),
		"canRedo": editor.CanRedo(),
		"length":  editor.HistoryLen(),
	})
}
