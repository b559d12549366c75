package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/values"
)

type stubRoots struct {
	objs []values.Obj
}

func (s *stubRoots) WalkRoots(gray func(values.Obj)) {
	for _, o := range s.objs {
		gray(o)
	}
}

func TestCollectFreesUnreachableObjects(t *testing.T) {
	h := New()
	h.Enable()

	reachable := values.NewString("kept")
	unreachable := values.NewString("dropped")
	h.Register(reachable)
	h.Register(unreachable)

	roots := &stubRoots{objs: []values.Obj{reachable}}
	h.SetRoots(roots)

	h.Collect()

	assert.False(t, reachable.IsMarked(), "survivors have their mark bit cleared after sweep")

	var seen []values.Obj
	for cur := h.all; cur != nil; cur = cur.Next() {
		seen = append(seen, cur)
	}
	require.Len(t, seen, 1)
	assert.Same(t, reachable, seen[0])
}

func TestCollectTracesClassGraph(t *testing.T) {
	h := New()
	h.Enable()

	super := values.NewRawClass("Base", 0)
	sub := values.NewRawClass("Sub", 0)
	sub.Super = super
	h.Register(super)
	h.Register(sub)
	h.Register(super.Name)
	h.Register(sub.Name)

	h.SetRoots(&stubRoots{objs: []values.Obj{sub}})
	h.Collect()

	var count int
	for cur := h.all; cur != nil; cur = cur.Next() {
		count++
	}
	assert.Equal(t, 4, count, "sub, its name, super, and super's name are all reachable")
}

func TestManageTriggersCollectionPastThreshold(t *testing.T) {
	h := New()
	h.Enable()
	h.nextGC = 10

	obj := values.NewString("x")
	h.SetRoots(&stubRoots{})
	h.Register(obj)
	assert.Equal(t, 1, h.Collections())
}

func TestDisabledHeapNeverCollects(t *testing.T) {
	h := New()
	h.nextGC = 1
	h.SetRoots(&stubRoots{})
	h.Register(values.NewString("x"))
	assert.Equal(t, 0, h.Collections())
}

func TestOnCollectFiresAfterEachCycle(t *testing.T) {
	h := New()
	h.Enable()
	h.SetRoots(&stubRoots{})

	var fired int
	h.OnCollect = func(hh *Heap) { fired++ }

	h.Collect()
	h.Collect()

	assert.Equal(t, 2, fired)
}
