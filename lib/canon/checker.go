package canon

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/pkg/errors"
)

// Automorphism is a vertex permutation preserving the map: Perm[v] is the image of v.
type Automorphism struct {
	Perm   []int32
	Proper bool // false if the automorphism reverses orientation
}

// Checker decides if a closed map was built along its canonical spiral.
//
// A Checker is not safe for concurrent use; each search worker owns one.
type Checker struct {
	starts []Start
	ties   []Start
	order  []int32
}

func NewChecker() *Checker {
	return &Checker{}
}

// IsCanonical returns true if no start yields a face spiral smaller than code, the spiral the map was built from.
// Starts are tried in the order of shape's reconstruction, so a smaller spiral is usually found early.
//
// A code with jumps must also be the spiral its own start replays: a jump taken where the spiral could have
// continued describes no start at all.
//
// If collect is set and the map is canonical, every start reproducing code is returned as an automorphism,
// the identity included.
func (ch *Checker) IsCanonical(e *embed.Embedding, code Code, shape *Shape, collect bool) (bool, []Automorphism) {
	r := newReplayer(e)
	ch.ties = ch.ties[:0]

	if code.NumJumps() > 0 && r.run(GeneratingStart, code) != replayEqual {
		return false, nil
	}

	ch.starts = shape.reconstruct(e, ch.starts[:0])
	for _, st := range ch.starts {
		if st == GeneratingStart {
			continue
		}
		switch r.run(st, code) {
		case replaySmaller:
			return false, nil
		case replayEqual:
			if collect {
				ch.ties = append(ch.ties, st)
			}
		}
	}

	if !collect {
		return true, nil
	}
	return true, ch.automorphisms(r, GeneratingStart, code)
}

func (ch *Checker) automorphisms(r *replayer, ref Start, code Code) []Automorphism {
	if r.run(ref, code) != replayEqual {
		panic(errors.Wrap(fullgen.ErrInvariant, "reference start does not reproduce its own spiral"))
	}
	n := len(r.order)
	ch.order = append(ch.order[:0], r.order...)

	autos := make([]Automorphism, 0, len(ch.ties)+1)
	identity := make([]int32, n)
	for v := range identity {
		identity[v] = int32(v)
	}
	autos = append(autos, Automorphism{Perm: identity, Proper: true})

	for _, st := range ch.ties {
		if st == ref {
			continue
		}
		if r.run(st, code) != replayEqual {
			panic(errors.Wrap(fullgen.ErrInvariant, "tie start no longer reproduces the spiral"))
		}
		perm := make([]int32, n)
		for i, v := range ch.order {
			perm[v] = r.order[i]
		}
		autos = append(autos, Automorphism{Perm: perm, Proper: st.Mirror == ref.Mirror})
	}
	return autos
}

// MinimalSpiral returns the smallest generalized face spiral over all starts of a closed map, and the starts
// producing it.  The result has jumps only if the map has no plain face spiral.
//
// It returns an error if no start yields a spiral.
func MinimalSpiral(e *embed.Embedding) (Code, []Start, error) {
	r := newReplayer(e)
	var best Code
	var starts []Start

	numDarts := embed.Dart(e.NumDarts())
	for _, mirror := range [2]bool{false, true} {
		for d := embed.Dart(0); d < numDarts; d++ {
			st := Start{Dart: d, Mirror: mirror}
			switch r.run(st, best) {
			case replaySmaller:
				best = r.code().clone()
				starts = append(starts[:0], st)
			case replayEqual:
				if best.Faces == nil {
					best = r.code().clone()
				}
				starts = append(starts, st)
			}
		}
	}
	if best.Faces == nil {
		return Code{}, nil, errors.Wrap(fullgen.ErrBadSpiral, "no start yields a face spiral")
	}
	return best, starts, nil
}

// Automorphisms returns the automorphism group of a closed map, derived from the starts of its minimal spiral.
func Automorphisms(e *embed.Embedding) ([]Automorphism, error) {
	best, starts, err := MinimalSpiral(e)
	if err != nil {
		return nil, err
	}
	ch := NewChecker()
	ch.ties = append(ch.ties, starts...)
	return ch.automorphisms(newReplayer(e), starts[0], best), nil
}

// Positions returns the 1-based pentagon positions of a face spiral.
func Positions(faces []int8) fullgen.Spiral {
	var sp fullgen.Spiral
	i := 0
	for k, sz := range faces {
		if sz == 5 && i < len(sp) {
			sp[i] = k + 1
			i++
		}
	}
	return sp
}

// SpiralFrom returns the generalized face spiral read from st.
func SpiralFrom(e *embed.Embedding, st Start) (Code, error) {
	r := newReplayer(e)
	if r.run(st, Code{}) != replayEqual {
		return Code{}, errors.Wrapf(fullgen.ErrBadSpiral, "no spiral from dart %d (mirror %v)", st.Dart, st.Mirror)
	}
	return r.code().clone(), nil
}
