package values

import (
	"fmt"
	"math"
)

// mapEntry is one slot in the open-addressed table. occupied distinguishes
// "never used" from "deleted" (tombstone) from "live", so probing past a
// tombstone still finds entries inserted after it.
type mapEntry struct {
	key   Value
	value Value
	state entryState
}

type entryState uint8

const (
	entryEmpty entryState = iota
	entryTombstone
	entryLive
)

// ObjMap is an open-addressed hash table of (Value, Value) pairs with a
// load factor cap of 0.8.
type ObjMap struct {
	Header
	entries []mapEntry
	count   int // live entries
	used    int // live + tombstones, what load factor is measured against
}

func NewMap() *ObjMap {
	return &ObjMap{Header: NewHeader(ObjMapType), entries: make([]mapEntry, 8)}
}

func (m *ObjMap) ByteSize() int { return 24 + len(m.entries)*56 }
func (m *ObjMap) GoString() string { return "map" }

func (m *ObjMap) Len() int { return m.count }

func hashValue(v Value) uint32 {
	switch v.Type {
	case ValueNull:
		return 1
	case ValueFalse:
		return 2
	case ValueTrue:
		return 3
	case ValueNumber:
		// A simple, deterministic spread over the float's bit pattern; the
		// exact mixing function is not externally observable.
		bits := math.Float64bits(v.Num)
		return uint32(bits) ^ uint32(bits>>32)
	case ValueObj:
		if s, ok := v.Obj.(*ObjString); ok {
			return s.Hash
		}
		return fnv1a(fmt.Sprintf("%p", v.Obj))
	}
	return 0
}

func (m *ObjMap) findSlot(key Value) (idx int, found bool) {
	mask := uint32(len(m.entries) - 1)
	i := hashValue(key) & mask
	firstTombstone := -1
	for probes := 0; probes < len(m.entries); probes++ {
		e := &m.entries[i]
		switch e.state {
		case entryEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return int(i), false
		case entryTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(i)
			}
		case entryLive:
			if e.key.Equal(key) {
				return int(i), true
			}
		}
		i = (i + 1) & mask
	}
	if firstTombstone >= 0 {
		return firstTombstone, false
	}
	return -1, false
}

func (m *ObjMap) Get(key Value) (Value, bool) {
	idx, found := m.findSlot(key)
	if !found {
		return Undefined, false
	}
	return m.entries[idx].value, true
}

func (m *ObjMap) Set(key, value Value) {
	if float64(m.used+1)/float64(len(m.entries)) > 0.8 {
		m.grow()
	}
	idx, found := m.findSlot(key)
	e := &m.entries[idx]
	if !found {
		if e.state == entryEmpty {
			m.used++
		}
		m.count++
	}
	e.key = key
	e.value = value
	e.state = entryLive
}

// Delete removes key, leaving a tombstone so later probes still traverse
// this slot.
func (m *ObjMap) Delete(key Value) bool {
	idx, found := m.findSlot(key)
	if !found {
		return false
	}
	m.entries[idx] = mapEntry{state: entryTombstone}
	m.count--
	return true
}

func (m *ObjMap) grow() {
	old := m.entries
	m.entries = make([]mapEntry, len(old)*2)
	m.used = 0
	m.count = 0
	for _, e := range old {
		if e.state == entryLive {
			m.Set(e.key, e.value)
		}
	}
}

// Each calls fn for every live entry, in table order (not insertion order).
func (m *ObjMap) Each(fn func(key, value Value)) {
	for _, e := range m.entries {
		if e.state == entryLive {
			fn(e.key, e.value)
		}
	}
}

// Capacity returns the size of the backing slot array, the upper bound a
// slot-index iterator must walk.
func (m *ObjMap) Capacity() int { return len(m.entries) }

// EntryAt returns the key/value at raw slot index i and whether that slot
// is live, used by the iterate protocol to resume from an opaque slot
// index without exposing the hash table's probing scheme.
func (m *ObjMap) EntryAt(i int) (key, value Value, live bool) {
	e := m.entries[i]
	return e.key, e.value, e.state == entryLive
}
