package values

// ObjList is a dynamic array of Values.
type ObjList struct {
	Header
	Elements []Value
}

func NewList() *ObjList {
	return &ObjList{Header: NewHeader(ObjListType)}
}

func (l *ObjList) ByteSize() int { return 24 + len(l.Elements)*24 }
func (l *ObjList) GoString() string {
	return "list"
}

func (l *ObjList) Len() int { return len(l.Elements) }

func (l *ObjList) Append(v Value) { l.Elements = append(l.Elements, v) }

func (l *ObjList) At(i int) Value { return l.Elements[i] }

func (l *ObjList) Set(i int, v Value) { l.Elements[i] = v }

// Insert inserts v at index i, shifting later elements up.
func (l *ObjList) Insert(i int, v Value) {
	l.Elements = append(l.Elements, Undefined)
	copy(l.Elements[i+1:], l.Elements[i:])
	l.Elements[i] = v
}

// RemoveAt deletes the element at index i and returns it.
func (l *ObjList) RemoveAt(i int) Value {
	v := l.Elements[i]
	copy(l.Elements[i:], l.Elements[i+1:])
	l.Elements = l.Elements[:len(l.Elements)-1]
	return v
}
