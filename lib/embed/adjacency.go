package embed

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/pkg/errors"
)

// Adjacency exports the rotation system: row v lists the targets of darts 3v, 3v+1 and 3v+2.
//
// Stubs are exported as -1.
func (e *Embedding) Adjacency() [][3]int {
	adj := make([][3]int, e.numVerts)
	for v := range adj {
		for i := 0; i < 3; i++ {
			adj[v][i] = int(e.darts[3*v+i].target)
		}
	}
	return adj
}

// FromAdjacency builds a closed cubic embedding from rotation lists and labels its faces.
func FromAdjacency(adj [][3]int) (*Embedding, error) {
	n := len(adj)
	if n == 0 {
		return nil, errors.Wrap(fullgen.ErrBadEncoding, "empty adjacency")
	}
	e := New(n)
	e.alloc(n)

	for v, row := range adj {
		for i, w := range row {
			if w < 0 || w >= n || w == v {
				return nil, errors.Wrapf(fullgen.ErrBadEncoding, "vertex %d: bad neighbour %d", v+1, w+1)
			}
			if row[(i+1)%3] == w {
				return nil, errors.Wrapf(fullgen.ErrBadEncoding, "vertex %d: repeated neighbour %d", v+1, w+1)
			}
			j := -1
			for k, u := range adj[w] {
				if u == v {
					j = k
				}
			}
			if j < 0 {
				return nil, errors.Wrapf(fullgen.ErrBadEncoding, "edge %d-%d is not listed at %d", v+1, w+1, w+1)
			}
			e.darts[3*v+i] = dart{
				target: int32(w),
				mate:   Dart(3*w + j),
				face:   NoFace,
			}
		}
	}

	if err := e.LabelFaces(); err != nil {
		return nil, err
	}
	return e, nil
}

// LabelFaces assigns face ids to every dart of a closed embedding, replacing any previous labels.
//
// It returns an error if the map is not closed or violates Euler's formula for the sphere.
func (e *Embedding) LabelFaces() error {
	e.faceSize = e.faceSize[:0]
	e.faceLog = e.faceLog[:0]
	numDarts := Dart(3 * e.numVerts)
	for d := Dart(0); d < numDarts; d++ {
		if e.darts[d].mate == NoDart {
			return errors.Wrapf(fullgen.ErrBadEncoding, "vertex %d is open", d.Vertex()+1)
		}
		e.darts[d].face = NoFace
	}
	for d := Dart(0); d < numDarts; d++ {
		if e.darts[d].face == NoFace {
			e.labelFace(d, e.FaceSizeLeft(d), Prev)
		}
	}
	e.numStubs = 0

	// V - E + F = 2 with E = 3V/2
	if 2*len(e.faceSize) != int(e.numVerts)+4 {
		return errors.Wrapf(fullgen.ErrBadEncoding, "%d vertices and %d faces do not form a sphere", e.numVerts, len(e.faceSize))
	}
	return nil
}

// IsFullerene returns true if every face of a closed embedding is a pentagon or hexagon.
func (e *Embedding) IsFullerene() bool {
	for _, sz := range e.faceSize {
		if sz != 5 && sz != 6 {
			return false
		}
	}
	p, _ := e.CountFaces()
	return p == fullgen.NumPentagons
}

// FaceDarts returns one dart of each face, indexed by face id.
func (e *Embedding) FaceDarts() []Dart {
	first := make([]Dart, len(e.faceSize))
	for i := range first {
		first[i] = NoDart
	}
	for d := Dart(0); d < Dart(3*e.numVerts); d++ {
		if f := e.darts[d].face; f != NoFace && first[f] == NoDart {
			first[f] = d
		}
	}
	return first
}
