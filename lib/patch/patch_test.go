package patch_test

import (
	"math/rand"
	"testing"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/2x3systems/fullgen/lib/patch"
	"github.com/stretchr/testify/require"
)

var (
	spiralC20 = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	spiralC60 = []int{1, 7, 9, 11, 13, 15, 18, 20, 22, 24, 26, 32}
)

func greatestRotation(seq []int) []int {
	n := len(seq)
	best := append([]int(nil), seq...)
	for r := 1; r < n; r++ {
		for i := 0; i < n; i++ {
			a, b := seq[(r+i)%n], best[i]
			if a > b {
				for j := range best {
					best[j] = seq[(r+j)%n]
				}
				break
			}
			if a < b {
				break
			}
		}
	}
	return best
}

func TestCanonicalRotation(t *testing.T) {
	tests := []struct {
		seq  []int
		want []int
	}{
		{[]int{1, 3, 2, 3}, []int{3, 2, 3, 1}},
		{[]int{0, 0, 1}, []int{1, 0, 0}},
		{[]int{2, 2, 2}, []int{2, 2, 2}},
		{[]int{4}, []int{4}},
		{[]int{0, 1, 0, 1}, []int{1, 0, 1, 0}},
	}
	for _, tt := range tests {
		got := patch.CanonicalRotation(tt.seq)
		require.Equal(t, patch.GapSequence(tt.want), got)
		require.True(t, patch.IsCanonicalRotation(got))
	}
	require.False(t, patch.IsCanonicalRotation([]int{3, 1, 3, 2}))
	require.False(t, patch.IsCanonicalRotation([]int{0, 1}))

	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 500; trial++ {
		seq := make([]int, 1+rng.Intn(9))
		for i := range seq {
			seq[i] = rng.Intn(3)
		}
		want := greatestRotation(seq)
		require.Equal(t, patch.GapSequence(want), patch.CanonicalRotation(seq), "seq %v", seq)
		require.Equal(t, equalInts(seq, want), patch.IsCanonicalRotation(seq), "seq %v", seq)
	}
}

func equalInts(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGapSequence(t *testing.T) {
	e := embed.New(20)

	stub, g := e.AddBareCycle(5)
	require.Equal(t, []int{5}, patch.BoundaryFaces(e, stub))
	require.Equal(t, patch.GapSequence{0}, patch.ComputeGapSequence(e, stub))
	g.Release()

	stub, g = e.AddBareCycle(6)
	seq := patch.ComputeGapSequence(e, stub)
	require.True(t, seq.IsPureHex())
	require.Equal(t, patch.GapSequence{patch.PureHexMarker, 1, 6}, seq)

	// a hexagon next to the hexagon: still no pentagon on the boundary
	next, g2 := e.AttachPolygon(6, stub)
	seq = patch.ComputeGapSequence(e, next)
	require.Equal(t, patch.GapSequence{patch.PureHexMarker, 2, 8}, seq)
	g2.Release()
	g.Release()

	// a pentagon with one hexagon: the boundary meets the pentagon once and the hexagon once
	stub, g = e.AddBareCycle(5)
	next, g2 = e.AttachPolygon(6, stub)
	require.Equal(t, patch.GapSequence{1}, patch.ComputeGapSequence(e, next))
	g2.Release()
	g.Release()
}

func TestCode(t *testing.T) {
	code := patch.EncodePatch([]int{1, 7, 9})
	require.Equal(t, []int{1, 7, 9}, code.Positions())
	require.Equal(t, 3, code.NumPentagons())
	require.Equal(t, 9, code.Last())

	ext := code.Extend(12)
	require.Equal(t, []int{1, 7, 9, 12}, ext.Positions())
	require.Equal(t, 12, ext.Last())
	require.Equal(t, []int{1, 7, 9}, code.Positions())

	faces := code.FaceSizes()
	require.Len(t, faces, 9)
	for i, sz := range faces {
		if i == 0 || i == 6 || i == 8 {
			require.EqualValues(t, 5, sz)
		} else {
			require.EqualValues(t, 6, sz)
		}
	}

	require.Less(t, patch.EncodePatch([]int{1, 2}), patch.EncodePatch([]int{1, 3}))
	require.Less(t, patch.EncodePatch([]int{1, 9, 10}), patch.EncodePatch([]int{2, 3, 4}))
	require.Equal(t, 0, patch.Code(0).Last())

	require.Panics(t, func() { patch.EncodePatch([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}) })
	require.Panics(t, func() { patch.EncodePatch([]int{256}) })
}

func TestPositionsToFaces(t *testing.T) {
	faces, err := patch.PositionsToFaces([]int{1, 3}, 4)
	require.NoError(t, err)
	require.Equal(t, []int8{5, 6, 5, 6}, faces)

	_, err = patch.PositionsToFaces([]int{3, 1}, 4)
	require.ErrorIs(t, err, fullgen.ErrBadSpiral)
	_, err = patch.PositionsToFaces([]int{1, 5}, 4)
	require.ErrorIs(t, err, fullgen.ErrBadSpiral)
}

func TestBuildFromSpiral(t *testing.T) {
	tests := []struct {
		name     string
		numVerts int
		spiral   []int
		ipr      bool
	}{
		{"C20", 20, spiralC20, false},
		{"C60", 60, spiralC60, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := patch.BuildFromSpiral(tt.numVerts, tt.spiral)
			require.NoError(t, err)
			require.True(t, e.IsClosed())
			require.True(t, e.IsFullerene())
			require.Equal(t, tt.numVerts, e.NumVerts())
			require.Equal(t, tt.numVerts/2+2, e.NumFaces())
			require.Equal(t, tt.ipr, !e.PentagonsAdjacent())
			require.Equal(t, tt.spiral, patch.EncodeSpiral(e, e.NumFaces()))
		})
	}

	bad := []struct {
		name     string
		numVerts int
		spiral   []int
	}{
		{"odd", 21, spiralC20},
		{"small", 18, spiralC20},
		{"short", 20, spiralC20[:11]},
		{"C22", 22, spiralC20},
		{"unordered", 60, []int{7, 1, 9, 11, 13, 15, 18, 20, 22, 24, 26, 32}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := patch.BuildFromSpiral(tt.numVerts, tt.spiral)
			require.ErrorIs(t, err, fullgen.ErrBadSpiral)
		})
	}
}

func TestTrie(t *testing.T) {
	trie := patch.NewTrie()
	codes := []patch.Code{
		patch.EncodePatch([]int{1, 2, 3, 4, 5, 6}),
		patch.EncodePatch([]int{1, 2, 3, 4, 5, 7}),
		patch.EncodePatch([]int{1, 2, 3, 4, 6, 8}),
	}
	trie.Insert(1, patch.GapSequence{1, 0, 0}, codes[0])
	trie.Insert(1, patch.GapSequence{1, 0, 0}, codes[1])
	trie.Insert(1, patch.GapSequence{2, 0}, codes[2])
	require.Equal(t, 3, trie.Len())

	it := trie.Lookup(1, 1, 0, 0)
	require.Equal(t, 2, it.Len())
	code, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, codes[0], code)
	code, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, codes[1], code)
	_, ok = it.Next()
	require.False(t, ok)

	require.Equal(t, 0, trie.Lookup(1, 1, 0).Len())
	require.Equal(t, 0, trie.Lookup(2, 1, 0, 0).Len())
	require.Equal(t, 0, trie.Lookup(1, 3).Len())

	var keys []patch.GapSequence
	trie.Walk(1, func(key patch.GapSequence, code patch.Code) bool {
		keys = append(keys, append(patch.GapSequence(nil), key...))
		return true
	})
	require.Equal(t, []patch.GapSequence{{1, 0, 0}, {1, 0, 0}, {2, 0}}, keys)
	require.Equal(t, []patch.GapSequence{{1, 0, 0}, {2, 0}}, trie.Keys(1))
	require.Empty(t, trie.Keys(2))

	visited := 0
	trie.Walk(1, func(key patch.GapSequence, code patch.Code) bool {
		visited++
		return false
	})
	require.Equal(t, 1, visited)

	bb := patch.NewBBList()
	bb.Insert(3, 10, codes[0])
	bb.Insert(3, 10, codes[1])
	bb.Insert(3, 12, codes[2])
	require.Equal(t, 3, bb.Len())
	require.Equal(t, 2, bb.Lookup(3, 10).Len())
	require.Equal(t, 0, bb.Lookup(4, 10).Len())
}

func TestCatalog(t *testing.T) {
	for _, ipr := range []bool{false, true} {
		maxVerts := 40
		if ipr {
			maxVerts = 70
		}
		cat := patch.NewCatalog(maxVerts, ipr)
		cat.Build()

		require.Len(t, cat.Level(1), 1)
		require.NotEmpty(t, cat.Level(2))
		require.Greater(t, cat.NumCaps(), 0)
		require.Equal(t, cat.NumCaps(), cat.Caps.Len())
		require.Equal(t, cat.NumCaps(), cat.Rings.Len())

		for _, ent := range cat.Level(2) {
			pos := ent.Code.Positions()
			require.Len(t, pos, 2)
			require.Equal(t, 1, pos[0])
			if ipr {
				require.GreaterOrEqual(t, pos[1], 7)
			}
		}

		e := embed.New(maxVerts)
		seen := make(map[patch.Code]bool)
		for k := 1; k <= fullgen.MaxPatchPentagons; k++ {
			for _, ent := range cat.Level(k) {
				require.False(t, seen[ent.Code], "duplicate code %v", ent.Code.Positions())
				seen[ent.Code] = true
				require.Equal(t, k, ent.Code.NumPentagons())
				require.LessOrEqual(t, ent.Hexagons, cat.MaxHexagons)

				stub, guards := cat.Rebuild(e, ent.Code)
				require.Equal(t, ent.Ring, e.NumStubs())
				require.Equal(t, ent.Verts, e.NumVerts())
				require.Equal(t, ent.Gaps, patch.ComputeGapSequence(e, stub))
				if ipr {
					require.False(t, e.PentagonsAdjacent())
				}
				embed.ReleaseAll(guards)
			}
		}

		// the C60 cap (first six pentagons of its spiral) is present
		if ipr {
			found := false
			for _, ent := range cat.Level(fullgen.MaxPatchPentagons) {
				if ent.Code == patch.EncodePatch(spiralC60[:6]) {
					found = true
				}
			}
			require.True(t, found)
		}
	}
}

func TestCatalogHexStarts(t *testing.T) {
	cat := patch.NewCatalog(40, false)
	cat.HexStarts = true
	cat.Build()

	// one pentagon-start patch plus one per leading hexagon run
	level1 := cat.Level(1)
	require.Greater(t, len(level1), 1)
	for j, ent := range level1 {
		require.Equal(t, []int{j + 1}, ent.Code.Positions())
		require.Equal(t, j, ent.Hexagons)
	}

	plain := patch.NewCatalog(40, false)
	plain.Build()
	require.Greater(t, cat.NumCaps(), plain.NumCaps())

	e := embed.New(cat.MaxVerts)
	for _, ent := range cat.Level(fullgen.MaxPatchPentagons) {
		stub, guards := cat.Rebuild(e, ent.Code)
		require.Equal(t, ent.Gaps, patch.ComputeGapSequence(e, stub))
		embed.ReleaseAll(guards)
	}
}

func TestLowerCaps(t *testing.T) {
	lc := patch.NewLowerCaps(60, 2)
	key := patch.AppendKey(nil, 300)
	require.Equal(t, []byte{1, 44}, key)
	key = append(key, 3, 2, 4)

	_, found := lc.Lookup(key)
	require.False(t, found)

	// a lower cap is stored by its pentagon positions relative to its first face
	rec := lc.Record(key)
	require.NotNil(t, rec)
	rec.Add([]int8{5, 6, 5, 5, 6, 6, 5, 5})
	rec.Add([]int8{6, 5, 5, 5, 5, 5})
	lc.Commit(rec)
	require.Equal(t, 2, lc.Len())
	require.Equal(t, 1, lc.NumKeys())

	it, found := lc.Lookup(key)
	require.True(t, found)
	code, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, []int{1, 3, 4, 7, 8}, code.Positions())
	code, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, []int{2, 3, 4, 5, 6}, code.Positions())
	_, ok = it.Next()
	require.False(t, ok)

	// the budget is spent: new boundaries are no longer recorded
	require.Nil(t, lc.Record(patch.AppendKey(nil, 7)))

	// a boundary without any lower cap is remembered as such
	lc = patch.NewLowerCaps(60, 10)
	rec = lc.Record(key)
	lc.Commit(rec)
	it, found = lc.Lookup(key)
	require.True(t, found)
	_, ok = it.Next()
	require.False(t, ok)
	require.Equal(t, 0, lc.Len())

	require.Panics(t, func() { lc.Record(key).Add([]int8{5, 5, 6}) })
}
