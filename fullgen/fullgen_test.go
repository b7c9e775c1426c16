package fullgen_test

import (
	"bytes"
	"io"
	"sort"
	"testing"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(opts *fullgen.Options)
		want error
	}{
		{"odd", func(opts *fullgen.Options) { opts.VertexCount = 61 }, fullgen.ErrOddVertexCount},
		{"small", func(opts *fullgen.Options) { opts.VertexCount = 18 }, fullgen.ErrVertexCountTooSmall},
		{"large", func(opts *fullgen.Options) { opts.VertexCount = 508 }, fullgen.ErrVertexCountTooLarge},
		{"start", func(opts *fullgen.Options) { opts.StartCount = 62 }, fullgen.ErrStartAboveMax},
		{"case", func(opts *fullgen.Options) { opts.Case = 4 }, fullgen.ErrBadCase},
		{"rest", func(opts *fullgen.Options) { opts.Mod, opts.Rest = 2, 2 }, fullgen.ErrBadResidue},
		{"negative rest", func(opts *fullgen.Options) { opts.Rest = -1 }, fullgen.ErrBadResidue},
		{"code", func(opts *fullgen.Options) { opts.Code = 9 }, fullgen.ErrBadCode},
		{"workers", func(opts *fullgen.Options) { opts.Workers = 0 }, fullgen.ErrBadWorkerCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fullgen.DefaultOptions(60)
			tt.edit(&opts)
			require.ErrorIs(t, opts.Validate(), tt.want)
		})
	}

	opts := fullgen.DefaultOptions(60)
	opts.StartCount = 3
	opts.Mod = 0
	opts.SymmFilter = fullgen.Td
	require.NoError(t, opts.Validate())
	require.Equal(t, 20, opts.StartCount)
	require.Equal(t, 1, opts.Mod)
	require.True(t, opts.Symmetry)

	opts = fullgen.DefaultOptions(60)
	opts.StartCount = 41
	require.NoError(t, opts.Validate())
	require.Equal(t, 42, opts.StartCount)

	opts = fullgen.DefaultOptions(60)
	require.NoError(t, opts.Validate())
	require.Equal(t, 60, opts.StartCount)
}

func TestPointGroups(t *testing.T) {
	all := fullgen.AllPointGroups()
	require.Len(t, all, 28)
	for _, g := range all {
		parsed, err := fullgen.ParseLabel(g.String())
		require.NoError(t, err)
		require.Equal(t, g, parsed)
		require.Greater(t, g.Order(), 0)
	}

	g, err := fullgen.ParseLabel(" d5h ")
	require.NoError(t, err)
	require.Equal(t, fullgen.D5h, g)

	// exact matches win over case-folded ones
	g, err = fullgen.ParseLabel("I")
	require.NoError(t, err)
	require.Equal(t, fullgen.I, g)

	_, err = fullgen.ParseLabel("Oh")
	require.ErrorIs(t, err, fullgen.ErrUnknownSymmetry)

	require.Equal(t, 120, fullgen.Ih.Order())
	require.Equal(t, 0, fullgen.GroupUnknown.Order())
	require.True(t, fullgen.I.IsChiral())
	require.False(t, fullgen.Ih.IsChiral())
	require.Equal(t, "?", fullgen.PointGroup(-1).String())
}

func TestParseSpiral(t *testing.T) {
	sp, err := fullgen.ParseSpiral("1, 7,9,11,13,15,18,20,22,24,26, 32")
	require.NoError(t, err)
	require.Equal(t, fullgen.Spiral{1, 7, 9, 11, 13, 15, 18, 20, 22, 24, 26, 32}, sp)
	require.Equal(t, "1,7,9,11,13,15,18,20,22,24,26,32", sp.String())

	for _, bad := range []string{
		"",
		"1,2,3",
		"0,2,3,4,5,6,7,8,9,10,11,12",
		"1,2,3,4,5,6,7,8,9,10,12,11",
		"1,2,3,4,5,6,7,8,9,10,11,x",
		"1,2,3,4,5,6,7,8,9,10,11,12,13",
	} {
		_, err := fullgen.ParseSpiral(bad)
		require.ErrorIs(t, err, fullgen.ErrBadSpiral, bad)
	}
}

func testItems(n int) []*fullgen.Fullerene {
	items := make([]*fullgen.Fullerene, n)
	for i := range items {
		items[i] = &fullgen.Fullerene{NumVerts: 20 + 2*i}
	}
	return items
}

type setAdder map[int]bool

func (set setAdder) TryAdd(F *fullgen.Fullerene) bool {
	if set[F.NumVerts] {
		return false
	}
	set[F.NumVerts] = true
	return true
}

func TestStreamStages(t *testing.T) {
	require.Equal(t, 5, fullgen.StreamFullerenes(testItems(5)...).PullAll())

	evens := fullgen.StreamFullerenes(testItems(6)...).Select(func(F *fullgen.Fullerene) bool {
		return F.NumVerts%4 == 0
	}).Collect()
	require.Len(t, evens, 3)

	items := testItems(3)
	added := fullgen.StreamFullerenes(append(items, items...)...).AddTo(setAdder{}).PullAll()
	require.Equal(t, 3, added)

	tapped := 0
	passed := fullgen.StreamFullerenes(testItems(4)...).Tap(func(F *fullgen.Fullerene) {
		tapped += F.NumVerts
	}).PullAll()
	require.Equal(t, 4, passed)
	require.Equal(t, 20+22+24+26, tapped)

	merged := fullgen.Merge(
		fullgen.StreamFullerenes(testItems(2)...),
		fullgen.StreamFullerenes(testItems(4)...),
		fullgen.StreamFullerenes(),
	).Collect()
	require.Len(t, merged, 6)
	verts := make([]int, len(merged))
	for i, F := range merged {
		verts[i] = F.NumVerts
	}
	sort.Ints(verts)
	require.Equal(t, []int{20, 20, 22, 22, 24, 26}, verts)
}

type countEncoder struct{}

func (countEncoder) Header() []byte { return []byte("H") }
func (countEncoder) Flush(w io.Writer) error {
	_, err := w.Write([]byte("F"))
	return err
}
func (countEncoder) Ext() string { return "cnt" }
func (countEncoder) Encode(w io.Writer, F *fullgen.Fullerene) error {
	_, err := w.Write([]byte("."))
	return err
}

type bufCloser struct {
	bytes.Buffer
	closed bool
	limit  int
}

func (bc *bufCloser) Write(p []byte) (int, error) {
	if bc.limit > 0 && bc.Len()+len(p) > bc.limit {
		return 0, errors.New("disk full")
	}
	return bc.Buffer.Write(p)
}

func (bc *bufCloser) Close() error {
	bc.closed = true
	return nil
}

func TestStreamEncode(t *testing.T) {
	out := &bufCloser{}
	errs := make(chan error, 1)
	n := fullgen.StreamFullerenes(testItems(4)...).Encode(countEncoder{}, out, errs).PullAll()
	require.Equal(t, 4, n)
	require.NoError(t, <-errs)
	require.Equal(t, "H....F", out.String())
	require.True(t, out.closed)

	// items still pass through after a write fails
	out = &bufCloser{limit: 3}
	errs = make(chan error, 1)
	n = fullgen.StreamFullerenes(testItems(4)...).Encode(countEncoder{}, out, errs).PullAll()
	require.Equal(t, 4, n)
	require.EqualError(t, <-errs, "disk full")
	require.Equal(t, "H..", out.String())
	require.True(t, out.closed)
}

type sliceCatalog struct {
	fullgen.Catalog
	recs []fullgen.Record
}

func (cat *sliceCatalog) Select(sel fullgen.Selector, onHit fullgen.OnRecordHit) {
	for _, rec := range cat.recs {
		onHit <- rec
	}
}

func TestSelectFromCatalog(t *testing.T) {
	cat := &sliceCatalog{recs: []fullgen.Record{
		{NumVerts: 20, Group: fullgen.Ih},
		{NumVerts: 28, Group: fullgen.Td},
		{NumVerts: 28, Group: fullgen.D2},
		{NumVerts: 60, Group: fullgen.Ih, IPR: true},
	}}

	count := func(sel fullgen.Selector) int {
		n := 0
		for range fullgen.SelectFromCatalog(cat, sel) {
			n++
		}
		return n
	}
	require.Equal(t, 4, count(fullgen.Selector{}))
	require.Equal(t, 2, count(fullgen.Selector{MinVerts: 28, MaxVerts: 28}))
	require.Equal(t, 2, count(fullgen.Selector{Group: fullgen.Ih}))
	require.Equal(t, 1, count(fullgen.Selector{IPROnly: true}))
	require.Equal(t, 3, count(fullgen.Selector{MaxVerts: 30}))
}

func TestCatalogContext(t *testing.T) {
	ctx := fullgen.NewCatalogContext()
	cat := &closeCounter{}
	ctx.AttachCatalog(cat)
	ctx.Close()
	<-ctx.Done()
	require.Equal(t, 1, cat.closes)
}

type closeCounter struct {
	fullgen.Catalog
	closes int
}

func (cc *closeCounter) Close() error {
	cc.closes++
	return nil
}
