package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureCanonicalForms(t *testing.T) {
	cases := []struct {
		sig  Signature
		want string
	}{
		{Signature{Kind: SignGetter, Name: "count"}, "count"},
		{Signature{Kind: SignSetter, Name: "value"}, "value=(_)"},
		{Signature{Kind: SignMethod, Name: "add", ArgNum: 2}, "add(_,_)"},
		{Signature{Kind: SignConstructor, Name: "new", ArgNum: 2}, "new(_,_)"},
		{Signature{Kind: SignSubscript, Name: "", ArgNum: 2}, "[_,_]"},
		{Signature{Kind: SignSubscriptSetter, Name: "", ArgNum: 2}, "[_]=(_)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.sig.Canonical())
	}
}

func TestSignatureInternIsStableAcrossClasses(t *testing.T) {
	table := NewSymbolTable()
	sig := Signature{Kind: SignMethod, Name: "toString", ArgNum: 0}
	id1 := table.Intern(sig.Canonical())
	id2 := table.Intern(sig.Canonical())
	assert.Equal(t, id1, id2, "interning the same canonical signature twice yields the same id")
}

func TestStaticFieldAndModuleFnNaming(t *testing.T) {
	assert.Equal(t, "Cls Counter total", StaticFieldName("Counter", "total"))
	assert.Equal(t, "Fn main", ModuleFnName("main"))
}
