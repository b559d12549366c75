package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSetGetDelete(t *testing.T) {
	m := NewMap()
	m.Set(FromObj(NewString("a")), Number(1))
	m.Set(FromObj(NewString("b")), Number(2))

	v, ok := m.Get(FromObj(NewString("a")))
	require.True(t, ok)
	assert.Equal(t, Number(1), v)

	assert.True(t, m.Delete(FromObj(NewString("a"))))
	_, ok = m.Get(FromObj(NewString("a")))
	assert.False(t, ok)

	v, ok = m.Get(FromObj(NewString("b")))
	require.True(t, ok)
	assert.Equal(t, Number(2), v)
}

func TestMapGrowsPastLoadFactor(t *testing.T) {
	m := NewMap()
	for i := 0; i < 100; i++ {
		m.Set(Number(float64(i)), Number(float64(i*2)))
	}
	assert.Equal(t, 100, m.Len())
	for i := 0; i < 100; i++ {
		v, ok := m.Get(Number(float64(i)))
		require.True(t, ok)
		assert.Equal(t, Number(float64(i*2)), v)
	}
}

func TestMapOverwriteExistingKey(t *testing.T) {
	m := NewMap()
	key := Number(1)
	m.Set(key, Number(10))
	m.Set(key, Number(20))
	assert.Equal(t, 1, m.Len())
	v, _ := m.Get(key)
	assert.Equal(t, Number(20), v)
}

func TestMapTombstoneReusedOnInsert(t *testing.T) {
	m := NewMap()
	a, b := Number(1), Number(2)
	m.Set(a, Number(1))
	m.Set(b, Number(2))
	m.Delete(a)
	m.Set(a, Number(100))
	v, ok := m.Get(a)
	require.True(t, ok)
	assert.Equal(t, Number(100), v)
	v, ok = m.Get(b)
	require.True(t, ok)
	assert.Equal(t, Number(2), v)
}

func TestMapEntryAtWalksEveryLiveSlot(t *testing.T) {
	m := NewMap()
	want := map[float64]float64{1: 10, 2: 20, 3: 30}
	for k, v := range want {
		m.Set(Number(k), Number(v))
	}
	m.Delete(Number(2))
	delete(want, 2)

	got := map[float64]float64{}
	for i := 0; i < m.Capacity(); i++ {
		key, value, live := m.EntryAt(i)
		if !live {
			continue
		}
		got[key.Num] = value.Num
	}
	assert.Equal(t, want, got, "EntryAt should surface exactly the live, non-tombstoned entries")
}

func TestMapCapacityCoversAllEverInsertedSlots(t *testing.T) {
	m := NewMap()
	for i := 0; i < 50; i++ {
		m.Set(Number(float64(i)), Number(float64(i)))
	}
	assert.GreaterOrEqual(t, m.Capacity(), m.Len(), "backing array must be at least as large as the live entry count")
}
