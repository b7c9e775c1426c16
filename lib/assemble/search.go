package assemble

import (
	"context"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/canon"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/2x3systems/fullgen/lib/patch"
	"github.com/2x3systems/fullgen/lib/symmetry"
	"github.com/pkg/errors"
)

// SearchContext is the state of one search worker for one vertex count.
//
// It owns its embedding and canonicity checker; the catalog is shared read-only.
type SearchContext struct {
	ctx      context.Context
	opts     *fullgen.Options
	cat      *patch.Catalog
	e        *embed.Embedding
	checker  *canon.Checker
	emit     func(F *fullgen.Fullerene) bool
	Stats    fullgen.Stats
	mod      int
	rest     int
	prune    bool
	stopped  bool
	jumping  bool // growing generalized spirals: grow may skip boundary runs
	index    int  // subtrees dealt out so far while jumping

	numVerts  int
	numFaces  int
	maxHex    int
	faces     []int8
	skips     []int8 // runs skipped before each face
	jumps     int    // faces placed after a jump
	pentagons int
	hexagons  int

	lower      *patch.LowerCaps
	rec        *patch.Recorder
	recBase    int
	key        []byte
	lowerSteps []step
}

// step records one placed face so it can be taken back.
type step struct {
	next      embed.Dart
	guard     embed.Guard
	numFaces  int
	pentagons int
	hexagons  int
	jumps     int
}

// DefaultLowerCapBudget is the number of lower caps a worker remembers per vertex count unless
// Options.LowerBudget says otherwise.
const DefaultLowerCapBudget = 1 << 22

// jumpSplitDepth is the spiral length at which generalized spiral subtrees are dealt out to residue classes.
const jumpSplitDepth = 4

func newSearchContext(ctx context.Context, opts *fullgen.Options, cat *patch.Catalog, mod, rest int, emit func(F *fullgen.Fullerene) bool) *SearchContext {
	return &SearchContext{
		ctx:     ctx,
		opts:    opts,
		cat:     cat,
		e:       embed.New(opts.VertexCount),
		checker: canon.NewChecker(),
		emit:    emit,
		mod:     mod,
		rest:    rest,
		prune:   !opts.NoPrune,
	}
}

// setVertexCount prepares the context for fullerenes with n vertices.
func (sc *SearchContext) setVertexCount(n int) {
	sc.numVerts = n
	sc.numFaces = n/2 + 2
	sc.maxHex = sc.numFaces - fullgen.NumPentagons
	sc.Stats = fullgen.Stats{NumVerts: n}
	if sc.opts.Symmetry {
		sc.Stats.ByGroup = make(map[fullgen.PointGroup]int64)
	}
	if cap(sc.faces) < sc.numFaces {
		sc.faces = make([]int8, 0, sc.numFaces)
		sc.skips = make([]int8, 0, sc.numFaces)
	}
	sc.reset()

	sc.lower = nil
	switch budget := sc.opts.LowerBudget; {
	case budget == 0:
		sc.lower = patch.NewLowerCaps(n, DefaultLowerCapBudget)
	case budget > 0:
		sc.lower = patch.NewLowerCaps(n, budget)
	}
}

// reset empties the spiral before a new cap or first face.
func (sc *SearchContext) reset() {
	sc.faces = sc.faces[:0]
	sc.skips = sc.skips[:0]
	sc.jumps = 0
	sc.pentagons = 0
	sc.hexagons = 0
}

func (sc *SearchContext) push(s int) {
	sc.faces = append(sc.faces, int8(s))
	sc.skips = append(sc.skips, 0)
	switch s {
	case 5:
		sc.pentagons++
	case 6:
		sc.hexagons++
	default:
		panic(errors.Wrapf(fullgen.ErrBadFace, "%d-gon", s))
	}
}

// place attaches an s-gon at stub if the structural bounds (and, when pruning, the optional bounds) allow it.
func (sc *SearchContext) place(s int, stub embed.Dart) (step, bool) {
	e := sc.e
	st := step{
		numFaces:  len(sc.faces),
		pentagons: sc.pentagons,
		hexagons:  sc.hexagons,
		jumps:     sc.jumps,
	}

	pent := s == 5
	if pent && sc.pentagons == fullgen.NumPentagons {
		return st, false
	}
	if !pent && sc.hexagons == sc.maxHex {
		return st, false
	}

	k := len(sc.faces)
	c := e.CommonVertices(stub)
	final := 0
	switch {
	case s < c:
		return st, false
	case e.NumStubs()+s-c-2 == 1:
		// a lone stub can never be closed
		return st, false
	case s == c && e.NumStubs() == 2:
		if k+2 != sc.numFaces {
			return st, false
		}
		final = e.CommonVertices(e.NextStub(stub))
		if final != 5 && final != 6 {
			return st, false
		}
		p := sc.pentagons
		if pent {
			p++
		}
		if final == 5 {
			p++
		}
		if p != fullgen.NumPentagons {
			return st, false
		}
	default:
		// at least one more attach and the implied last face must follow
		if k+3 > sc.numFaces {
			return st, false
		}
		if s > c && e.NumVerts()+s-c > sc.numVerts {
			return st, false
		}
	}

	st.next, st.guard = e.AttachPolygon(s, stub)
	sc.push(s)
	if final != 0 {
		sc.push(final)
	}

	if sc.prune {
		if sc.opts.IPR && pent && e.AdjacentToPentagon(stub) {
			sc.unplace(st)
			return st, false
		}
		if st.next != embed.NoDart && e.NumStubs() > 2*(sc.numFaces-len(sc.faces)-1) {
			sc.unplace(st)
			return st, false
		}
	}
	return st, true
}

func (sc *SearchContext) unplace(st step) {
	st.guard.Release()
	sc.faces = sc.faces[:st.numFaces]
	sc.skips = sc.skips[:st.numFaces]
	sc.pentagons = st.pentagons
	sc.hexagons = st.hexagons
	sc.jumps = st.jumps
}

// grow continues the spiral at stub with every admissible face until the map closes.
//
// While jumping, each face may also be placed after skipping up to all but one of the boundary runs ahead.
func (sc *SearchContext) grow(stub embed.Dart) {
	maxSkip := 0
	if sc.jumping {
		if len(sc.faces) == jumpSplitDepth {
			sc.index++
			if sc.index%sc.mod != sc.rest || sc.cancelled() {
				return
			}
		}
		maxSkip = sc.e.NumStubs() - 1
	}

	for skip := 0; skip <= maxSkip; skip++ {
		if skip > 0 {
			stub = sc.e.NextStub(stub)
		}
		for _, s := range [2]int{5, 6} {
			if sc.stopped {
				return
			}
			st, ok := sc.place(s, stub)
			if !ok {
				continue
			}
			if skip > 0 {
				sc.skips[st.numFaces] = int8(skip)
				sc.jumps++
			}
			if st.next == embed.NoDart {
				sc.closed()
			} else {
				sc.grow(st.next)
			}
			sc.unplace(st)
		}
	}
}

// closed is called with every map the spiral closes.
func (sc *SearchContext) closed() {
	if sc.rec != nil {
		sc.rec.Add(sc.faces[sc.recBase:])
	}
	sc.finish()
}

// code returns the spiral built so far.
func (sc *SearchContext) code() canon.Code {
	code := canon.PlainCode(sc.faces)
	if sc.jumps > 0 {
		code.Skips = sc.skips
	}
	return code
}

// finish tests a closed map and emits it if it is the canonical representative of its class.
func (sc *SearchContext) finish() {
	e := sc.e
	if e.NumVerts() != 2*sc.numFaces-4 || e.NumVerts() != sc.numVerts {
		panic(errors.Wrapf(fullgen.ErrEulerMismatch, "%d vertices for %d faces", e.NumVerts(), sc.numFaces))
	}
	if sc.jumping && sc.jumps == 0 {
		// plain spirals are built from the catalog caps
		return
	}
	sc.Stats.Built++

	ipr := !e.PentagonsAdjacent()
	if sc.opts.IPR && !ipr {
		sc.Stats.NonIPR++
		return
	}

	// the shape decides the reconstruction order, and a case restriction rejects before any replay
	shape := canon.ClassifyShape(e)
	if sc.opts.Case != fullgen.CaseAll && sc.opts.Case != shape.Case {
		return
	}

	code := sc.code()
	ok, autos := sc.checker.IsCanonical(e, code, shape, sc.opts.Symmetry)
	if !ok {
		return
	}
	sc.Stats.Accepted++
	sc.Stats.ByCase[shape.Case]++
	if sc.faces[0] == 6 {
		sc.Stats.HexStart++
	}
	if sc.jumps > 0 {
		sc.Stats.Jumped++
	}

	F := &fullgen.Fullerene{
		NumVerts:  e.NumVerts(),
		Adjacency: e.Adjacency(),
		Spiral:    canon.Positions(sc.faces),
		Faces:     append([]int8(nil), sc.faces...),
		Jumps:     code.Jumps(),
		Case:      shape.Case,
		IPR:       ipr,
	}
	if sc.opts.Symmetry {
		F.Group = symmetry.Compute(e, autos)
		sc.Stats.ByGroup[F.Group.Group]++
	}
	if sc.opts.SymmFilter != fullgen.GroupUnknown && sc.opts.SymmFilter != F.Group.Group {
		return
	}

	sc.Stats.Emitted++
	if !sc.emit(F) {
		sc.stopped = true
	}
}

func (sc *SearchContext) cancelled() bool {
	if sc.stopped {
		return true
	}
	select {
	case <-sc.ctx.Done():
		sc.stopped = true
	default:
	}
	return sc.stopped
}
