package assemble

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/2x3systems/fullgen/lib/patch"
	"github.com/pkg/errors"
)

// Every spiral starts with a cap (the catalog patch through its sixth pentagon), continues with a corridor of g
// hexagons and then the seventh pentagon.  With m the number of open stubs around the cap, the regimes split the
// spirals by corridor length, so each spiral is built in exactly one of them:
//
//	ring:  g >= m, the corridor closes a full hexagon ring around the cap
//	open:  1 <= g < m
//	none:  g == 0, the seventh pentagon follows the cap directly
type regime interface {
	String() string

	// eachCap calls fn with every catalog cap the regime starts from, in a fixed order, until fn returns false.
	eachCap(sc *SearchContext, fn func(code patch.Code) bool)

	// corridor returns the admissible corridor lengths for a cap with the given hexagon count and ring length.
	corridor(sc *SearchContext, hexagons, ring int) (gMin, gMax int)
}

type ringCorridor struct{}
type openCorridor struct{}
type noCorridor struct{}

var regimes = []regime{ringCorridor{}, openCorridor{}, noCorridor{}}

func (ringCorridor) String() string { return "ring" }
func (openCorridor) String() string { return "open" }
func (noCorridor) String() string   { return "none" }

// A ring of m hexagons must fit in the hexagons left over, so ring caps are looked up by (hexagons, ring).
func (ringCorridor) eachCap(sc *SearchContext, fn func(code patch.Code) bool) {
	for h := 0; h <= sc.maxHex; h++ {
		for ring := 1; ring <= sc.maxHex-h; ring++ {
			it := sc.cat.Rings.Lookup(h, ring)
			for code, ok := it.Next(); ok; code, ok = it.Next() {
				if !fn(code) {
					return
				}
			}
		}
	}
}

func (ringCorridor) corridor(sc *SearchContext, hexagons, ring int) (int, int) {
	return ring, sc.maxHex - hexagons
}

// eachCapByBoundary visits caps grouped by their boundary key, in key order.
func eachCapByBoundary(sc *SearchContext, fn func(code patch.Code) bool) {
	for h := 0; h <= sc.maxHex; h++ {
		for _, key := range sc.cat.Caps.Keys(h) {
			it := sc.cat.Caps.Lookup(h, key...)
			for code, ok := it.Next(); ok; code, ok = it.Next() {
				if !fn(code) {
					return
				}
			}
		}
	}
}

func (openCorridor) eachCap(sc *SearchContext, fn func(code patch.Code) bool) {
	eachCapByBoundary(sc, fn)
}

func (openCorridor) corridor(sc *SearchContext, hexagons, ring int) (int, int) {
	gMax := ring - 1
	if left := sc.maxHex - hexagons; gMax > left {
		gMax = left
	}
	return 1, gMax
}

func (noCorridor) eachCap(sc *SearchContext, fn func(code patch.Code) bool) {
	eachCapByBoundary(sc, fn)
}

func (noCorridor) corridor(sc *SearchContext, hexagons, ring int) (int, int) {
	return 0, 0
}

// run enumerates the caps of one regime that fall in this context's residue class.
func (sc *SearchContext) run(rg regime) {
	index := -1

	rg.eachCap(sc, func(code patch.Code) bool {
		index++
		if index%sc.mod != sc.rest {
			return true
		}
		if sc.cancelled() {
			return false
		}
		sc.Stats.CapsTried++
		sc.buildCap(rg, code)
		return !sc.stopped
	})
}

// buildCap rebuilds the cap, lays each admissible corridor and seventh pentagon, then grows the remainder.
func (sc *SearchContext) buildCap(rg regime, code patch.Code) {
	e := sc.e
	stub, guards := sc.cat.Rebuild(e, code)
	defer embed.ReleaseAll(guards)

	if e.NumVerts() > sc.numVerts {
		return
	}
	sc.reset()
	for _, s := range code.FaceSizes() {
		sc.push(int(s))
	}
	if len(sc.faces)+fullgen.NumPentagons-fullgen.MaxPatchPentagons > sc.numFaces {
		return
	}

	gMin, gMax := rg.corridor(sc, sc.hexagons, e.NumStubs())
	var corridor []step
	for g := 0; g <= gMax && !sc.stopped; g++ {
		if g >= gMin {
			if st, ok := sc.place(5, stub); ok {
				sc.growRest(st)
				sc.unplace(st)
			}
		}
		if g == gMax {
			break
		}
		st, ok := sc.place(6, stub)
		if !ok {
			break
		}
		corridor = append(corridor, st)
		stub = st.next
	}
	for i := len(corridor) - 1; i >= 0; i-- {
		sc.unplace(corridor[i])
	}
}

// growRest continues after the seventh pentagon with the lower cap: the remaining five pentagons and the hexagons
// around them.  The lower caps of a boundary are grown once and looked up in the lower cap dictionary afterwards.
func (sc *SearchContext) growRest(st step) {
	if st.next == embed.NoDart {
		sc.closed()
		return
	}
	if sc.lower == nil {
		sc.grow(st.next)
		return
	}

	sc.key = patch.AppendKey(sc.key[:0], sc.maxHex-sc.hexagons)
	sc.key = sc.e.AppendBoundaryKey(sc.key, st.next, sc.prune && sc.opts.IPR)
	if it, found := sc.lower.Lookup(sc.key); found {
		sc.Stats.LowerHits++
		for code, ok := it.Next(); ok && !sc.stopped; code, ok = it.Next() {
			sc.placeLower(st.next, code)
		}
		return
	}

	rec := sc.lower.Record(sc.key)
	if rec == nil {
		sc.grow(st.next)
		return
	}
	sc.rec, sc.recBase = rec, len(sc.faces)
	sc.grow(st.next)
	sc.rec = nil
	if !sc.stopped {
		sc.lower.Commit(rec)
	}
}

// placeLower lays a recorded lower cap from stub and hands the closed map on.
func (sc *SearchContext) placeLower(stub embed.Dart, code patch.Code) {
	base := len(sc.faces)
	sizes := code.FaceSizes()
	size := func(k int) int {
		if k < len(sizes) {
			return int(sizes[k])
		}
		return 6
	}

	steps := sc.lowerSteps[:0]
	for {
		st, ok := sc.place(size(len(sc.faces)-base), stub)
		if !ok {
			panic(errors.Wrapf(fullgen.ErrInvariant, "lower cap %v does not fit the boundary it was recorded for", code.Positions()))
		}
		steps = append(steps, st)
		if st.next == embed.NoDart {
			break
		}
		stub = st.next
	}
	if len(sc.faces) != sc.numFaces || int(sc.faces[len(sc.faces)-1]) != size(sc.numFaces-1-base) {
		panic(errors.Wrapf(fullgen.ErrInvariant, "lower cap %v closes after %d faces", code.Positions(), len(sc.faces)))
	}
	sc.finish()

	for i := len(steps) - 1; i >= 0; i-- {
		sc.unplace(steps[i])
	}
	sc.lowerSteps = steps[:0]
}

// runJumps grows generalized spirals from a bare first face of either size, keeping those with at least one
// jump: plain spirals are built by the regimes.  Subtrees at jumpSplitDepth faces are dealt out by residue.
func (sc *SearchContext) runJumps() {
	sc.jumping = true
	sc.index = -1
	defer func() {
		sc.jumping = false
	}()

	for _, s := range [2]int{5, 6} {
		if sc.cancelled() {
			return
		}
		sc.reset()
		stub, g := sc.e.AddBareCycle(s)
		sc.push(s)
		sc.grow(stub)
		g.Release()
	}
}
