package hamt

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/npillmayer/persistent"
	"github.com/npillmayer/persistent/hashing"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	defer teardown()
	//
	m := Map[string, int]{}
	if m.Len() != 0 || !m.IsEmpty() {
		t.Errorf("expected empty map to have size 0, has %d", m.Len())
	}
	if m.Contains("x") {
		t.Error("expected empty map not to contain anything")
	}
	if _, err := m.At("x"); !errors.Is(err, persistent.ErrKeyNotFound) {
		t.Errorf("expected At on empty map to fail with key-not-found, is %v", err)
	}
	if !m.Lookup("x").IsNothing() {
		t.Error("expected Lookup on empty map to be Nothing")
	}
	w := m.Erase("x")
	if w.root != nil || w.Len() != 0 {
		t.Error("expected Erase on empty map to return an empty map")
	}
	n := 0
	for range m.All() {
		n++
	}
	assert.Equal(t, 0, n)
	assert.Equal(t, "map[]", m.String())
}

func TestScenarioB(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	defer teardown()
	//
	m0 := Map[string, int]{}
	m1 := m0.Set("a", 1).Set("b", 2)
	m2 := m1.Erase("a")
	if !m1.Contains("a") {
		t.Error("expected m1 to contain 'a'")
	}
	if m2.Contains("a") {
		t.Error("expected m2 not to contain 'a'")
	}
	b1, _ := m1.Get("b")
	b2, _ := m2.Get("b")
	if b1 != 2 || b2 != 2 {
		t.Errorf("expected m1[b] and m2[b] to be 2, are %d and %d", b1, b2)
	}
	assert.Equal(t, 0, m0.Len())
	assert.Equal(t, 2, m1.Len())
	assert.Equal(t, 1, m2.Len())
}

func TestAtAndLookup(t *testing.T) {
	m := From(Entry[string, int]{"one", 1}, Entry[string, int]{"two", 2})
	x, err := m.At("two")
	require.NoError(t, err)
	assert.Equal(t, 2, x)
	_, err = m.At("three")
	if !errors.Is(err, persistent.ErrKeyNotFound) {
		t.Errorf("expected At(three) to fail with key-not-found, is %v", err)
	}
	assert.EqualError(t, err, "key three: key not found")
	assert.Equal(t, 1, m.Lookup("one").WithDefault(0))
	assert.Equal(t, -1, m.Lookup("zero").WithDefault(-1))
}

func TestFromOverwrites(t *testing.T) {
	m := From(Entry[string, int]{"a", 1}, Entry[string, int]{"b", 2}, Entry[string, int]{"a", 3})
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, m.Lookup("a").WithDefault(0))
}

func TestWriteRead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := Map[int, int]{}
	for k := 0; k < 5000; k++ {
		m = m.Set(k, k*k)
		if x, ok := m.Get(k); !ok || x != k*k {
			t.Fatalf("expected Get(%d) after Set to be %d, is %d/%v", k, k*k, x, ok)
		}
	}
	for k := 0; k < 5000; k++ {
		x, ok := m.Get(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, k*k, x)
	}
	assert.Equal(t, 5000, m.Len())
	assert.False(t, m.Contains(5000))
}

func TestEraseAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	keys := make([]int, 3000)
	for i := range keys {
		keys[i] = i
	}
	m := Collect(slices.All(keys))
	rnd := rand.New(rand.NewPCG(1, 2))
	rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	full := m
	for i, k := range keys {
		w := m.Erase(k)
		if w.Contains(k) {
			t.Fatalf("expected key %d to be erased", k)
		}
		require.Equal(t, m.Len()-1, w.Len())
		require.True(t, m.Contains(k), "erase must not change the receiver")
		if i+1 < len(keys) {
			require.True(t, w.Contains(keys[i+1]))
		}
		m = w
	}
	if m.root != nil || !m.IsEmpty() {
		t.Log(printMap(m))
		t.Error("expected map with all keys erased to be the empty map")
	}
	assert.Equal(t, 3000, full.Len())
	for k := 0; k < 3000; k += 31 {
		assert.True(t, full.Contains(k))
	}
}

func TestEraseAbsentKeyReturnsReceiver(t *testing.T) {
	m := Immutable[int, int](WithHasher(identity))
	for k := 0; k < 40; k++ {
		m = m.Set(k, k)
	}
	for _, k := range []int{40, 41, 1 << 20, -1} {
		w := m.Erase(k)
		if w.root != m.root || w.Len() != m.Len() {
			t.Errorf("expected Erase(%d) of absent key to return the receiver", k)
		}
	}
}

// Model-based test against Go's built-in map: size accounting, idempotence and
// persistence of old versions.
func TestAgainstBuiltinMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	rnd := rand.New(rand.NewPCG(42, 1024))
	model := map[int]int{}
	m := Map[int, int]{}
	type snapshot struct {
		m     Map[int, int]
		model map[int]int
	}
	var snapshots []snapshot
	for op := 0; op < 20000; op++ {
		k := rnd.IntN(2500)
		if rnd.IntN(3) == 0 {
			w := m.Erase(k)
			_, present := model[k]
			expected := m.Len()
			if present {
				expected--
			}
			require.Equal(t, expected, w.Len(), "erase size accounting for key %d", k)
			delete(model, k)
			m = w
		} else {
			v := rnd.Int()
			w := m.Set(k, v)
			expected := m.Len()
			if !m.Contains(k) {
				expected++
			}
			require.Equal(t, expected, w.Len(), "set size accounting for key %d", k)
			ww := w.Set(k, v)
			require.Equal(t, w.Len(), ww.Len(), "set must be idempotent")
			x, _ := ww.Get(k)
			require.Equal(t, v, x)
			model[k] = v
			m = w
		}
		require.Equal(t, len(model), m.Len())
		if op%2000 == 0 {
			snapshots = append(snapshots, snapshot{m: m, model: cloneMap(model)})
		}
	}
	snapshots = append(snapshots, snapshot{m: m, model: model})
	for i, s := range snapshots {
		require.Equal(t, len(s.model), s.m.Len(), "snapshot %d", i)
		for k, v := range s.model {
			x, ok := s.m.Get(k)
			require.True(t, ok, "snapshot %d misses key %d", i, k)
			require.Equal(t, v, x, "snapshot %d, key %d", i, k)
		}
		n := 0
		for k, v := range s.m.All() {
			require.Equal(t, s.model[k], v)
			n++
		}
		require.Equal(t, len(s.model), n, "snapshot %d iteration count", i)
	}
}

func cloneMap(m map[int]int) map[int]int {
	c := make(map[int]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func TestCollisionStress(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	lowBitsShared := func(k int) uint64 { // 20 low-order bits are always 0
		return hashing.Int64(int64(k)) << 20
	}
	m := Immutable[int, int](WithHasher(lowBitsShared))
	const n = 10000
	for k := 0; k < n; k++ {
		m = m.Set(k, -k)
	}
	require.Equal(t, n, m.Len())
	for k := 0; k < n; k++ {
		x, ok := m.Get(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, -k, x)
	}
	// all keys share fragments 0…3, therefore the root is a chain of single-child branches
	node := m.root
	for level := 0; level < 4; level++ {
		require.False(t, node.isLeaf())
		require.Equal(t, 1, len(node.children), "level %d", level)
		node = node.children[0]
	}
	for k := 0; k < n; k += 2 {
		m = m.Erase(k)
	}
	require.Equal(t, n/2, m.Len())
	for k := 0; k < n; k++ {
		require.Equal(t, k%2 == 1, m.Contains(k), "key %d", k)
	}
}

func TestFullHashCollisions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := Immutable[int, int](WithHasher(func(k int) uint64 { return uint64(k % 3) }))
	for k := 0; k < 1000; k++ {
		m = m.Set(k, k)
	}
	require.Equal(t, 1000, m.Len())
	for k := 0; k < 1000; k++ {
		x, ok := m.Get(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, k, x)
	}
	m = m.Set(500, -500)
	assert.Equal(t, 1000, m.Len())
	assert.Equal(t, -500, m.Lookup(500).WithDefault(0))
}

func TestIterationIsDeterministic(t *testing.T) {
	m := Map[string, int]{}
	for _, k := range []string{"x", "y", "z", "alpha", "beta", "gamma", "delta"} {
		m = m.Set(k, len(k))
	}
	first := m.Entries()
	second := m.Entries()
	assert.Equal(t, first, second)
	keys := slices.Collect(m.Keys())
	require.Len(t, keys, 7)
	for i, k := range keys {
		assert.Equal(t, first[i].Key, k)
	}
	sum := 0
	for v := range m.Values() {
		sum += v
	}
	assert.Equal(t, 1+1+1+5+4+5+5, sum)
	n := 0
	for range m.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestClearKeepsHasher(t *testing.T) {
	calls := 0
	counting := func(k int) uint64 {
		calls++
		return uint64(k)
	}
	m := Immutable[int, int](WithHasher(counting)).Set(1, 1)
	c := m.Clear()
	assert.True(t, c.IsEmpty())
	calls = 0
	c = c.Set(2, 2)
	assert.Equal(t, 1, calls, "cleared map must keep its hasher")
	assert.Equal(t, "map[2:2]", c.String())
}

type point struct{ x, y int }

type label string

func (l label) Hash() uint64 {
	return hashing.String(string(l))
}

func TestKeyTypes(t *testing.T) {
	p := Map[point, string]{}.Set(point{1, 2}, "a").Set(point{2, 1}, "b")
	assert.Equal(t, "a", p.Lookup(point{1, 2}).WithDefault(""))
	assert.Equal(t, "b", p.Lookup(point{2, 1}).WithDefault(""))
	assert.False(t, p.Contains(point{0, 0}))
	l := Map[label, int]{}.Set("x", 1).Set("y", 2)
	assert.Equal(t, 2, l.Lookup("y").WithDefault(0))
	assert.Equal(t, 2, l.Len())
}

func TestConcurrentWriters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "persistent.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	base := Map[int, int]{}
	for k := 0; k < 2000; k++ {
		base = base.Set(k, k)
	}
	var wg sync.WaitGroup
	results := make([]Map[int, int], 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			w := base.Erase(g)
			for k := 0; k < 2000; k++ {
				if x, ok := base.Get(k); !ok || x != k {
					t.Errorf("reader %d: expected base[%d] to be %d, is %d", g, k, k, x)
					return
				}
			}
			for k := 2000; k < 2100; k++ {
				w = w.Set(k, g)
			}
			results[g] = w
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 2000, base.Len())
	for g, w := range results {
		assert.False(t, w.Contains(g))
		assert.Equal(t, 2099, w.Len())
		assert.Equal(t, g, w.Lookup(2050).WithDefault(-1))
	}
}
