package values

// ObjModule holds a module's top-level variable bindings. Name is nil for
// the core module. VarName/VarValue are parallel arrays; a variable's
// index, once assigned, is stable for the module's lifetime and is what
// LOAD_MODULE_VAR / STORE_MODULE_VAR address directly.
type ObjModule struct {
	Header
	Name     *ObjString
	VarName  []string
	VarValue []Value
	index    map[string]int
}

func NewModule(name string) *ObjModule {
	m := &ObjModule{Header: NewHeader(ObjModuleType), index: make(map[string]int)}
	if name != "" {
		m.Name = NewString(name)
	}
	return m
}

func (m *ObjModule) ByteSize() int { return 32 + len(m.VarValue)*24 }

func (m *ObjModule) GoString() string {
	if m.Name == nil {
		return "module <core>"
	}
	return "module " + m.Name.Value
}

// Lookup returns the index of an already-declared variable.
func (m *ObjModule) Lookup(name string) (int, bool) {
	idx, ok := m.index[name]
	return idx, ok
}

// Declare adds a new module variable with the given initial value
// (null as the placeholder for a forward reference, or the real value for
// a resolved declaration) and returns its index.
func (m *ObjModule) Declare(name string, value Value) int {
	idx := len(m.VarName)
	m.VarName = append(m.VarName, name)
	m.VarValue = append(m.VarValue, value)
	m.index[name] = idx
	return idx
}

func (m *ObjModule) ValueAt(idx int) Value     { return m.VarValue[idx] }
func (m *ObjModule) SetValueAt(idx int, v Value) { m.VarValue[idx] = v }
