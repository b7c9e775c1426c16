package embed

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/pkg/errors"
)

// Guard undoes one AddBareCycle or AttachPolygon call.
//
// Guards must be released in the reverse order they were issued.
type Guard struct {
	e        *Embedding
	depth    int32
	numVerts int32
	numStubs int32
	numFaces int
	faceLog  int
	tA, tB   Dart
}

func (e *Embedding) newGuard() Guard {
	e.guards++
	return Guard{
		e:        e,
		depth:    e.guards,
		numVerts: e.numVerts,
		numStubs: e.numStubs,
		numFaces: len(e.faceSize),
		faceLog:  len(e.faceLog),
		tA:       NoDart,
		tB:       NoDart,
	}
}

// Release restores the stubs, mates, face ids and vertex count in effect when the guard was issued.
func (g Guard) Release() {
	e := g.e
	if e == nil {
		return
	}
	if g.depth != e.guards {
		panic(errors.Wrapf(fullgen.ErrInvariant, "guard %d released while %d is outstanding", g.depth, e.guards))
	}
	e.guards--

	if g.tA != NoDart {
		e.unlink(g.tA)
	}
	if g.tB != NoDart {
		e.unlink(g.tB)
	}
	e.clearVerts(g.numVerts, e.numVerts)
	e.numVerts = g.numVerts
	e.numStubs = g.numStubs

	for _, d := range e.faceLog[g.faceLog:] {
		e.darts[d].face = NoFace
	}
	e.faceLog = e.faceLog[:g.faceLog]
	e.faceSize = e.faceSize[:g.numFaces]
}

// ReleaseAll releases the given guards in reverse order.
func ReleaseAll(guards []Guard) {
	for i := len(guards) - 1; i >= 0; i-- {
		guards[i].Release()
	}
}

// AddBareCycle adds an isolated n-gon whose outer darts are all stubs.
//
// The returned stub belongs to the cycle's first vertex; leaving it forward leads to the second vertex.
func (e *Embedding) AddBareCycle(n int) (Dart, Guard) {
	if n < 3 {
		panic(errors.Wrapf(fullgen.ErrInvariant, "bare cycle of size %d", n))
	}
	g := e.newGuard()
	v0 := e.alloc(n)
	for j := int32(0); j < int32(n); j++ {
		fwd := v0 + (j+1)%int32(n)
		e.link(Dart(3*(v0+j)), Dart(3*fwd+1))
	}
	e.numStubs += int32(n)
	e.labelFace(Dart(3*v0), n, Prev)
	return Dart(3*v0 + 2), g
}

// walkSegment walks the boundary forward from stub t to the next stub, returning that stub and
// the number of vertices on the run (both ends included).
func (e *Embedding) walkSegment(t Dart, nx Rotation) (int, Dart) {
	if e.darts[t].target != Outside {
		panic(errors.Wrapf(fullgen.ErrInvariant, "dart %d is not a stub", t))
	}
	c := 1
	d := nx(t)
	for c <= int(e.numVerts) {
		c++
		x := nx(e.darts[d].mate)
		if e.darts[x].target == Outside {
			return c, x
		}
		d = x
	}
	panic(errors.Wrapf(fullgen.ErrInvariant, "boundary walk from dart %d does not reach a stub", t))
}

// CommonVertices returns the number of vertices on the boundary run from stub to the next stub, both ends included.
func (e *Embedding) CommonVertices(stub Dart) int {
	c, _ := e.walkSegment(stub, Next)
	return c
}

// NextStub returns the stub that ends the boundary run starting at stub.
func (e *Embedding) NextStub(stub Dart) Dart {
	_, tb := e.walkSegment(stub, Next)
	return tb
}

// CommonVerticesReversed is CommonVertices for a boundary walked with Next and Prev swapped.
func (e *Embedding) CommonVerticesReversed(stub Dart) int {
	c, _ := e.walkSegment(stub, Prev)
	return c
}

// NextStubReversed is NextStub for a boundary walked with Next and Prev swapped.
func (e *Embedding) NextStubReversed(stub Dart) Dart {
	_, tb := e.walkSegment(stub, Prev)
	return tb
}

// AttachPolygon glues an s-gon onto the boundary run that starts at stub.
//
// If s exceeds the run length, s - run fresh vertices are created and the stub of the last one is returned.
// Otherwise the run's end stubs are joined and the stub preceding stub on the boundary is returned,
// or NoDart if the join closed the map (in which case the remaining outer face is labeled as well).
func (e *Embedding) AttachPolygon(s int, stub Dart) (Dart, Guard) {
	return e.attach(s, stub, false)
}

// AttachPolygonReversed is the mirror image of AttachPolygon: it walks and winds with Next and Prev swapped.
func (e *Embedding) AttachPolygonReversed(s int, stub Dart) (Dart, Guard) {
	return e.attach(s, stub, true)
}

func (e *Embedding) attach(s int, ta Dart, mirror bool) (Dart, Guard) {
	nx, pv := Rotation(Next), Rotation(Prev)
	if mirror {
		nx, pv = pv, nx
	}
	c, tb := e.walkSegment(ta, nx)
	if tb == ta {
		panic(errors.Wrapf(fullgen.ErrInvariant, "boundary at dart %d has a single stub", ta))
	}
	if s < c {
		panic(errors.Wrapf(fullgen.ErrBadAttach, "%d-gon onto a run of %d vertices", s, c))
	}
	g := e.newGuard()
	g.tA, g.tB = ta, tb

	if q := int32(s - c); q > 0 {
		v0 := e.alloc(int(q))

		// fresh vertex slots: one toward the a side, one toward the b side, slot 2 is the new stub
		toA, toB := Dart(1), Dart(0)
		if mirror {
			toA, toB = 0, 1
		}
		prev := ta
		for i := int32(0); i < q; i++ {
			w := Dart(3 * (v0 + i))
			e.link(prev, w+toA)
			prev = w + toB
		}
		e.link(prev, tb)
		e.numStubs += q - 2
		e.labelFace(ta, s, pv)
		return Dart(3*(v0+q-1) + 2), g
	}

	e.link(ta, tb)
	e.numStubs -= 2
	e.labelFace(ta, s, pv)
	if e.numStubs == 0 {
		size := e.FaceSizeLeft(tb)
		if mirror {
			size = e.FaceSizeRight(tb)
		}
		e.labelFace(tb, size, pv)
		return NoDart, g
	}
	return e.prevStub(ta, pv), g
}

// prevStub walks the boundary backward from the (now matched) dart ta to the first stub.
func (e *Embedding) prevStub(ta Dart, pv Rotation) Dart {
	d := pv(ta)
	for i := int32(0); i <= e.numVerts; i++ {
		y := pv(e.darts[d].mate)
		if e.darts[y].target == Outside {
			return y
		}
		d = y
	}
	panic(errors.Wrapf(fullgen.ErrInvariant, "backward boundary walk from dart %d does not reach a stub", ta))
}

// AdjacentToPentagon returns true if the face on d's side shares an edge with a pentagon.
func (e *Embedding) AdjacentToPentagon(d Dart) bool {
	x := d
	for {
		m := e.darts[x].mate
		if m == NoDart {
			return false
		}
		if f := e.darts[m].face; f != NoFace && e.faceSize[f] == 5 {
			return true
		}
		x = Prev(m)
		if x == d {
			return false
		}
	}
}

// PentagonsAdjacent returns true if some edge of a closed map separates two pentagons.
func (e *Embedding) PentagonsAdjacent() bool {
	for d := Dart(0); d < Dart(3*e.numVerts); d++ {
		m := e.darts[d].mate
		if m == NoDart || m < d {
			continue
		}
		f1, f2 := e.darts[d].face, e.darts[m].face
		if f1 != NoFace && f2 != NoFace && e.faceSize[f1] == 5 && e.faceSize[f2] == 5 {
			return true
		}
	}
	return false
}

// CountFaces returns the number of pentagons and hexagons labeled so far.
func (e *Embedding) CountFaces() (pentagons, hexagons int) {
	for _, sz := range e.faceSize {
		switch sz {
		case 5:
			pentagons++
		case 6:
			hexagons++
		}
	}
	return
}

// AppendBoundaryKey describes the boundary of an open patch as seen from stub: walking forward around the whole
// boundary, it appends for each run between consecutive stubs the run length and, if pentagons is set, a bit mask
// of the run's edges whose inner face is a pentagon.
//
// Two patches with equal keys at their stubs admit exactly the same spiral completions from there.
func (e *Embedding) AppendBoundaryKey(key []byte, stub Dart, pentagons bool) []byte {
	t := stub
	for i := int32(0); i < e.numStubs; i++ {
		c, mask := 1, byte(0)
		d := Next(t)
		for {
			m := e.darts[d].mate
			if pentagons {
				f := e.darts[d].face
				if f == NoFace {
					f = e.darts[m].face
				}
				if f != NoFace && e.faceSize[f] == 5 {
					mask |= 1 << uint(c-1)
				}
			}
			c++
			x := Next(m)
			if e.darts[x].target == Outside {
				t = x
				break
			}
			if c > int(e.numVerts) {
				panic(errors.Wrapf(fullgen.ErrInvariant, "boundary walk from dart %d does not reach a stub", t))
			}
			d = x
		}
		key = append(key, byte(c))
		if pentagons {
			key = append(key, mask)
		}
		if t == stub {
			return key
		}
	}
	panic(errors.Wrapf(fullgen.ErrInvariant, "boundary from dart %d does not return to it", stub))
}
