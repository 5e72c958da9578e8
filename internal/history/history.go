// Package history is a linear undo/redo stack of full state snapshots.
// Callers decide what one edit is and commit once per finished action.
package history

// Stack holds past, present and future states. There is no branching: a
// commit after an undo discards the redo branch.
type Stack[S any] struct {
	past    []S
	present S
	future  []S // future[0] is the next redo
	limit   int
}

// New seeds a stack with the state at the start of tracking. limit caps the
// number of undo steps kept, 0 keeps all of them.
func New[S any](initial S, limit int) *Stack[S] {
	return &Stack[S]{present: initial, limit: max(limit, 0)}
}

// Commit records state as the new present and drops the redo branch
func (h *Stack[S]) Commit(state S) {
	h.past = append(h.past, h.present)
	if h.limit > 0 && len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.present = state
	h.future = nil
}

// Undo steps back and returns the restored state, ok is false when there is
// nothing to undo.
func (h *Stack[S]) Undo() (state S, ok bool) {
	if len(h.past) == 0 {
		return state, false
	}
	last := len(h.past) - 1
	h.future = append([]S{h.present}, h.future...)
	h.present = h.past[last]
	h.past = h.past[:last]
	return h.present, true
}

// Redo steps forward again
func (h *Stack[S]) Redo() (state S, ok bool) {
	if len(h.future) == 0 {
		return state, false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[0]
	h.future = h.future[1:]
	return h.present, true
}

func (h *Stack[S]) CanUndo() bool {
	return len(h.past) > 0
}

func (h *Stack[S]) CanRedo() bool {
	return len(h.future) > 0
}
