package values

// ObjInstance is a user-defined object: a class pointer (via Header) plus
// one Value per field, sized by the class's field count at construction.
type ObjInstance struct {
	Header
	Fields []Value
}

// NewInstance allocates an instance of class, with every field initialized
// to null.
func NewInstance(class *Class) *ObjInstance {
	inst := &ObjInstance{Header: NewHeader(ObjInstanceType), Fields: make([]Value, class.FieldCount)}
	for i := range inst.Fields {
		inst.Fields[i] = Null
	}
	inst.SetClassPtr(class)
	return inst
}

func (o *ObjInstance) ByteSize() int { return 16 + len(o.Fields)*24 }

func (o *ObjInstance) GoString() string {
	if o.ClassPtr() != nil {
		return "instance of " + o.ClassPtr().Name.Value
	}
	return "instance"
}
