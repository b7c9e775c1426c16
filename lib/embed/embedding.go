package embed

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/pkg/errors"
)

// Dart is the index of a directed edge in an Embedding.
//
// Vertex v owns darts 3v, 3v+1 and 3v+2, which form its rotation.
type Dart int32

const (
	NoDart  Dart  = -1
	Outside int32 = -1
	NoFace  int32 = -1
)

// Vertex returns the vertex owning d.
func (d Dart) Vertex() int32 {
	return int32(d) / 3
}

// Slot returns the position of d in its vertex rotation (0, 1 or 2).
func (d Dart) Slot() int {
	return int(d) % 3
}

// Next returns the rotation successor of d around its vertex.
func Next(d Dart) Dart {
	if d%3 == 2 {
		return d - 2
	}
	return d + 1
}

// Prev returns the rotation predecessor of d around its vertex.
func Prev(d Dart) Dart {
	if d%3 == 0 {
		return d + 2
	}
	return d - 1
}

// Rotation selects which of Next / Prev a traversal uses as its successor.
type Rotation func(d Dart) Dart

type dart struct {
	target int32 // vertex id or Outside
	mate   Dart  // opposite dart or NoDart
	face   int32 // face traced on this dart's side or NoFace
}

// Embedding is a rotation system of a cubic plane map under construction.
//
// Interior faces are the orbits of Prev(Mate(d)); the boundary of an open patch is walked forward via Next(Mate(d))
// and left from a stub via Next(stub).  Mirror traversals swap Next and Prev.
type Embedding struct {
	darts    []dart
	numVerts int32
	maxVerts int32
	numStubs int32
	guards   int32

	faceSize []int32 // indexed by face id
	faceLog  []Dart  // darts whose face id was set, in assignment order

	dartMark []uint32
	vtxMark  []uint32
	mark     uint32
	names    []int32
}

// New returns an empty embedding able to hold up to maxVerts vertices.
func New(maxVerts int) *Embedding {
	e := &Embedding{
		darts:    make([]dart, 3*maxVerts),
		maxVerts: int32(maxVerts),
		faceSize: make([]int32, 0, maxVerts/2+2),
		faceLog:  make([]Dart, 0, 3*maxVerts),
		dartMark: make([]uint32, 3*maxVerts),
		vtxMark:  make([]uint32, maxVerts),
		names:    make([]int32, maxVerts),
	}
	e.clearVerts(0, e.maxVerts)
	return e
}

// Reset returns the embedding to its empty state.  It panics if a Guard is outstanding.
func (e *Embedding) Reset() {
	if e.guards != 0 {
		panic(errors.Wrapf(fullgen.ErrInvariant, "reset with %d outstanding guards", e.guards))
	}
	e.clearVerts(0, e.numVerts)
	e.numVerts = 0
	e.numStubs = 0
	e.faceSize = e.faceSize[:0]
	e.faceLog = e.faceLog[:0]
}

func (e *Embedding) NumVerts() int { return int(e.numVerts) }
func (e *Embedding) MaxVerts() int { return int(e.maxVerts) }
func (e *Embedding) NumStubs() int { return int(e.numStubs) }
func (e *Embedding) NumFaces() int { return len(e.faceSize) }
func (e *Embedding) NumDarts() int { return 3 * int(e.numVerts) }
func (e *Embedding) IsClosed() bool { return e.numVerts > 0 && e.numStubs == 0 }
func (e *Embedding) Target(d Dart) int32 { return e.darts[d].target }
func (e *Embedding) Mate(d Dart) Dart { return e.darts[d].mate }
func (e *Embedding) Face(d Dart) int32 { return e.darts[d].face }

// IsStub returns true if d is an open boundary dart.
func (e *Embedding) IsStub(d Dart) bool {
	return e.darts[d].target == Outside
}

// FaceSize returns the number of sides of the given face.
func (e *Embedding) FaceSize(face int32) int {
	return int(e.faceSize[face])
}

// OpenDegree returns the number of matched darts at v.
func (e *Embedding) OpenDegree(v int32) int {
	deg := 0
	for d := Dart(3 * v); d < Dart(3*v+3); d++ {
		if e.darts[d].mate != NoDart {
			deg++
		}
	}
	return deg
}

func (e *Embedding) clearVerts(from, to int32) {
	for d := 3 * from; d < 3*to; d++ {
		e.darts[d] = dart{
			target: Outside,
			mate:   NoDart,
			face:   NoFace,
		}
	}
}

func (e *Embedding) alloc(count int) int32 {
	v0 := e.numVerts
	if int(v0)+count > int(e.maxVerts) {
		panic(errors.Wrapf(fullgen.ErrArenaExhausted, "need %d vertices, capacity %d", int(v0)+count, e.maxVerts))
	}
	e.numVerts += int32(count)
	return v0
}

func (e *Embedding) link(a, b Dart) {
	e.darts[a].target = b.Vertex()
	e.darts[a].mate = b
	e.darts[b].target = a.Vertex()
	e.darts[b].mate = a
}

func (e *Embedding) unlink(d Dart) {
	e.darts[d].target = Outside
	e.darts[d].mate = NoDart
}

// labelFace assigns a new face id to the orbit of d under next(Mate(.)).
func (e *Embedding) labelFace(d Dart, size int, next Rotation) int32 {
	id := int32(len(e.faceSize))
	e.faceSize = append(e.faceSize, int32(size))
	x := d
	for count := 0; ; count++ {
		if count >= size || e.darts[x].mate == NoDart {
			panic(errors.Wrapf(fullgen.ErrInvariant, "face at dart %d is not a closed %d-gon", d, size))
		}
		e.darts[x].face = id
		e.faceLog = append(e.faceLog, x)
		x = next(e.darts[x].mate)
		if x == d {
			if count+1 != size {
				panic(errors.Wrapf(fullgen.ErrInvariant, "face at dart %d has %d sides, expected %d", d, count+1, size))
			}
			break
		}
	}
	return id
}

// orbitLen returns the length of the orbit of d under next(Mate(.)), or 0 if the orbit runs into a stub.
func (e *Embedding) orbitLen(d Dart, next Rotation) int {
	x := d
	for count := 1; count <= 3*int(e.numVerts); count++ {
		m := e.darts[x].mate
		if m == NoDart {
			return 0
		}
		x = next(m)
		if x == d {
			return count
		}
	}
	panic(errors.Wrapf(fullgen.ErrInvariant, "face orbit at dart %d does not close", d))
}

// FaceSizeLeft returns the size of the face traced by Prev(Mate(.)) from d, or 0 if that face is still open.
func (e *Embedding) FaceSizeLeft(d Dart) int {
	return e.orbitLen(d, Prev)
}

// FaceSizeRight returns the size of the face traced by Next(Mate(.)) from d, or 0 if that face is still open.
func (e *Embedding) FaceSizeRight(d Dart) int {
	return e.orbitLen(d, Next)
}
