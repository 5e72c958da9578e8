package editor

// Key is a named keyboard key the canvas reacts to
type Key string

const (
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "BackSpace"
	KeyEscape    Key = "Escape"
	KeyZ         Key = "Z"
	KeyY         Key = "Y"
)

type Modifiers struct {
	Ctrl  bool // ctrl or cmd
	Shift bool
}

// HandleKey runs the canvas shortcut for key, reporting whether it was used
func (e *Editor) HandleKey(key Key, mods Modifiers) bool {
	switch {
	case key == KeyDelete || key == KeyBackspace:
		e.finish()
		return e.DeleteSelected()
	case key == KeyEscape:
		if e.machine.Active() || e.stroke != nil || e.erasing {
			e.finish()
			return true
		}
		e.ClearSelection()
		return true
	case mods.Ctrl && key == KeyZ && mods.Shift, mods.Ctrl && key == KeyY:
		return e.Redo()
	case mods.Ctrl && key == KeyZ:
		return e.Undo()
	}
	return false
}
