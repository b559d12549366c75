package values

import "strings"

// SignatureKind discriminates the shapes a method name can take.
type SignatureKind int

const (
	SignGetter SignatureKind = iota
	SignSetter
	SignMethod
	SignConstructor
	SignSubscript
	SignSubscriptSetter
)

// Signature is the structured form of a method name; Canonical renders it
// to the string interned into the VM's global method-name table.
type Signature struct {
	Kind    SignatureKind
	Name    string
	ArgNum  int
}

// Canonical renders a Signature to its dispatch string, e.g. "name",
// "name=(_)", "name(_,_)", "name[_,_]", "name[_,_]=(_)", "new(_,_)".
func (s Signature) Canonical() string {
	var b strings.Builder
	switch s.Kind {
	case SignGetter:
		b.WriteString(s.Name)
	case SignSetter:
		b.WriteString(s.Name)
		b.WriteString("=(")
		writePlaceholders(&b, 1)
		b.WriteByte(')')
	case SignMethod, SignConstructor:
		b.WriteString(s.Name)
		b.WriteByte('(')
		writePlaceholders(&b, s.ArgNum)
		b.WriteByte(')')
	case SignSubscript:
		b.WriteString(s.Name)
		b.WriteByte('[')
		writePlaceholders(&b, s.ArgNum)
		b.WriteByte(']')
	case SignSubscriptSetter:
		b.WriteString(s.Name)
		b.WriteByte('[')
		writePlaceholders(&b, s.ArgNum-1)
		b.WriteString("]=(")
		writePlaceholders(&b, 1)
		b.WriteByte(')')
	}
	return b.String()
}

func writePlaceholders(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('_')
	}
}

// StaticFieldName synthesizes the module-local variable name a static
// field is stored under: "Cls <className> <name>".
func StaticFieldName(className, name string) string {
	return "Cls " + className + " " + name
}

// ModuleFnName synthesizes the module-variable name a top-level function
// declaration is resolved through: "Fn <name>".
func ModuleFnName(name string) string {
	return "Fn " + name
}
