// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

// VariableTable maps identifier names to local slot indices, scoped as a
// stack of frames. The parser pushes a frame on function entry and pops it
// on exit, so slot indices never leak across function boundaries. The
// high-water mark of a frame determines the locals width of the compiled
// function.
type VariableTable struct {
	scopes []map[string]int
}

// NewVariableTable creates a table with the top-level scope already open.
func NewVariableTable() *VariableTable {
	return &VariableTable{scopes: []map[string]int{{}}}
}

// EnterScope pushes a fresh scope frame.
func (vt *VariableTable) EnterScope() {
	vt.scopes = append(vt.scopes, map[string]int{})
}

// LeaveScope pops the current scope frame and returns the number of slots it
// allocated. Popping the top-level scope is a programming error and panics.
func (vt *VariableTable) LeaveScope() int {
	if len(vt.scopes) == 1 {
		panic("holang: cannot leave the top-level scope")
	}
	n := len(vt.current())
	vt.scopes = vt.scopes[:len(vt.scopes)-1]
	return n
}

// Define returns the slot index bound to name in the current scope,
// allocating the next free index when the name is new.
func (vt *VariableTable) Define(name string) int {
	cur := vt.current()
	if idx, ok := cur[name]; ok {
		return idx
	}
	idx := len(cur)
	cur[name] = idx
	return idx
}

// Resolve returns the slot index of name in the current scope. Unlike
// Define it never allocates; the second result reports whether the name is
// bound.
func (vt *VariableTable) Resolve(name string) (int, bool) {
	idx, ok := vt.current()[name]
	return idx, ok
}

// NumDefined returns the number of slots allocated in the current scope.
func (vt *VariableTable) NumDefined() int {
	return len(vt.current())
}

func (vt *VariableTable) current() map[string]int {
	return vt.scopes[len(vt.scopes)-1]
}
