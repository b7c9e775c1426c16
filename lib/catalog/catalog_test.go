package catalog_test

import (
	"path"
	"testing"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/catalog"
	"github.com/stretchr/testify/require"
)

var isomers = []*fullgen.Fullerene{
	{NumVerts: 20, Spiral: fullgen.Spiral{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, Group: fullgen.Symmetry{Group: fullgen.Ih, Order: 120}},
	{NumVerts: 24, Spiral: fullgen.Spiral{1, 2, 3, 4, 5, 6, 8, 9, 10, 11, 12, 13}, Group: fullgen.Symmetry{Group: fullgen.D6d, Order: 24}},
	{NumVerts: 28, Spiral: fullgen.Spiral{1, 2, 3, 4, 5, 7, 10, 12, 13, 14, 15, 16}, Group: fullgen.Symmetry{Group: fullgen.Td, Order: 24}},
	{NumVerts: 28, Spiral: fullgen.Spiral{1, 2, 3, 4, 6, 8, 9, 11, 13, 14, 15, 16}, Group: fullgen.Symmetry{Group: fullgen.D2, Order: 4}},
	{NumVerts: 60, Spiral: fullgen.Spiral{1, 7, 9, 11, 13, 15, 18, 20, 22, 24, 26, 32}, Group: fullgen.Symmetry{Group: fullgen.Ih, Order: 120}, IPR: true},
}

func selectAll(cat fullgen.Catalog, sel fullgen.Selector) []fullgen.Record {
	var recs []fullgen.Record
	for rec := range fullgen.SelectFromCatalog(cat, sel) {
		recs = append(recs, rec)
	}
	return recs
}

func TestBasics(t *testing.T) {
	ctx := fullgen.NewCatalogContext()
	defer ctx.Close()

	dbPath := path.Join(t.TempDir(), "TestBasics")
	cat, err := catalog.OpenCatalog(ctx, fullgen.CatalogOpts{DbPathName: dbPath})
	require.NoError(t, err)

	for _, F := range isomers {
		require.True(t, cat.TryAdd(F), "first add of %v", F.Spiral)
		require.False(t, cat.TryAdd(F), "second add of %v", F.Spiral)
	}
	require.EqualValues(t, 1, cat.NumIsomers(20))
	require.EqualValues(t, 2, cat.NumIsomers(28))
	require.EqualValues(t, 0, cat.NumIsomers(26))

	cat.SetRunID("run-1")

	recs := selectAll(cat, fullgen.Selector{})
	require.Len(t, recs, len(isomers))
	for i := 1; i < len(recs); i++ {
		require.LessOrEqual(t, recs[i-1].NumVerts, recs[i].NumVerts)
	}
	require.Equal(t, fullgen.Ih, recs[0].Group)

	recs = selectAll(cat, fullgen.Selector{MinVerts: 24, MaxVerts: 28})
	require.Len(t, recs, 3)

	recs = selectAll(cat, fullgen.Selector{Group: fullgen.Ih})
	require.Len(t, recs, 2)

	recs = selectAll(cat, fullgen.Selector{IPROnly: true})
	require.Len(t, recs, 1)
	require.Equal(t, 60, recs[0].NumVerts)
	require.Equal(t, isomers[4].Spiral, recs[0].Spiral)

	require.NoError(t, cat.Close())

	// State and records survive a reopen
	cat, err = catalog.OpenCatalog(ctx, fullgen.CatalogOpts{DbPathName: dbPath, ReadOnly: true})
	require.NoError(t, err)
	defer cat.Close()

	require.True(t, cat.IsReadOnly())
	require.Equal(t, "run-1", cat.RunID())
	require.EqualValues(t, 2, cat.NumIsomers(28))
	require.False(t, cat.TryAdd(&fullgen.Fullerene{NumVerts: 30}))
	require.Len(t, selectAll(cat, fullgen.Selector{}), len(isomers))
}

func TestJumpRecords(t *testing.T) {
	ctx := fullgen.NewCatalogContext()
	defer ctx.Close()

	cat, err := catalog.OpenCatalog(ctx, fullgen.CatalogOpts{})
	require.NoError(t, err)
	defer cat.Close()

	sp := fullgen.Spiral{2, 4, 5, 7, 8, 9, 11, 12, 13, 14, 15, 17}
	jumped := &fullgen.Fullerene{NumVerts: 30, Spiral: sp, Jumps: fullgen.Jumps{{Face: 14, Length: 1}}}
	plain := &fullgen.Fullerene{NumVerts: 30, Spiral: sp}

	// the jumps are part of the key
	require.True(t, cat.TryAdd(jumped))
	require.True(t, cat.TryAdd(plain))
	require.False(t, cat.TryAdd(jumped))

	key := catalog.AppendRecordKey(nil, 30, &sp, jumped.Jumps)
	require.Len(t, key, 2+2*fullgen.NumPentagons+4)
	require.Equal(t, []byte{0, 14, 0, 1}, key[len(key)-4:])

	recs := selectAll(cat, fullgen.Selector{MinVerts: 30, MaxVerts: 30})
	require.Len(t, recs, 2)
	var got []string
	for _, rec := range recs {
		require.Equal(t, sp, rec.Spiral)
		got = append(got, rec.Jumps.String())
	}
	require.ElementsMatch(t, []string{"", "14:1"}, got)
}

func TestReadOnlyNeedsPath(t *testing.T) {
	ctx := fullgen.NewCatalogContext()
	defer ctx.Close()

	_, err := catalog.OpenCatalog(ctx, fullgen.CatalogOpts{ReadOnly: true})
	require.ErrorIs(t, err, fullgen.ErrBadCatalogParam)
}

func TestCodeSet(t *testing.T) {
	set := catalog.NewCodeSet()
	defer set.Close()

	for _, F := range isomers {
		require.True(t, set.TryAdd(F))
	}
	require.False(t, set.TryAdd(isomers[2]))
	require.False(t, set.TryAdd(nil))
	require.EqualValues(t, 1, set.Dupes())
}
