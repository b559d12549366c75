package values

// ObjString is an immutable byte sequence with a precomputed FNV-1a hash,
// used both for user-visible strings and as the backing storage for
// interned names (method signatures, module variable names).
type ObjString struct {
	Header
	Value string
	Hash  uint32
}

// NewString allocates an ObjString and computes its hash. Interning (so
// that equal content shares one object) is the caller's responsibility via
// a SymbolTable; ObjString itself makes no uniqueness guarantee.
func NewString(s string) *ObjString {
	return &ObjString{Header: NewHeader(ObjStringType), Value: s, Hash: fnv1a(s)}
}

func fnv1a(s string) uint32 {
	const (
		offsetBasis = 2166136261
		prime       = 16777619
	)
	h := uint32(offsetBasis)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

func (s *ObjString) ByteSize() int { return 24 + len(s.Value) }
func (s *ObjString) GoString() string { return s.Value }
