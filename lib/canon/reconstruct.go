package canon

import (
	"sort"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
)

// Shape is the structural shape of a closed fullerene together with the straight walks it was read from.
type Shape struct {
	Case  fullgen.Case
	Paths *Paths
}

// ClassifyShape discovers the straight walks of a closed, face-labeled fullerene and reads its shape from them.
func ClassifyShape(e *embed.Embedding) *Shape {
	ps := DiscoverPaths(e)
	return &Shape{
		Case:  ps.Case(),
		Paths: ps,
	}
}

// FirstFace returns the face a spiral from st starts with.
func FirstFace(e *embed.Embedding, st Start) int32 {
	if st.Mirror {
		return e.Face(e.Mate(embed.Prev(st.Dart)))
	}
	return e.Face(embed.Next(st.Dart))
}

// faceRank orders candidate first faces: smaller ranks are tried first.
type faceRank struct {
	primary   int
	secondary int
}

// reconstruct appends every start of e to starts, ordered by the reconstruction for the shape's case: starts on the
// faces its distinguished walks single out come first.  A nil shape keeps dart order.
//
// The order only decides how soon a smaller spiral is met; every start is returned.
func (sh *Shape) reconstruct(e *embed.Embedding, starts []Start) []Start {
	numDarts := embed.Dart(e.NumDarts())
	for _, mirror := range [2]bool{false, true} {
		for d := embed.Dart(0); d < numDarts; d++ {
			starts = append(starts, Start{Dart: d, Mirror: mirror})
		}
	}
	if sh == nil {
		return starts
	}

	var ranks []faceRank
	switch sh.Case {
	case fullgen.CaseBelt:
		ranks = reconstructBelt(e, sh.Paths)
	case fullgen.CaseDumbbell:
		ranks = reconstructDumbbell(e, sh.Paths)
	default:
		ranks = reconstructSandwich(e, sh.Paths)
	}

	keyed := make([]rankedStart, len(starts))
	for i, st := range starts {
		r := ranks[FirstFace(e, st)]
		keyed[i] = rankedStart{key: int64(r.primary)<<32 | int64(r.secondary), st: st}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].key < keyed[j].key
	})
	for i := range keyed {
		starts[i] = keyed[i].st
	}
	return starts
}

type rankedStart struct {
	key int64
	st  Start
}

// pentagonRanks gives hexagons a rank behind every pentagon and each pentagon the total length of its walks,
// so pentagons in dense clusters come first.
func pentagonRanks(e *embed.Embedding, ps *Paths) []faceRank {
	ranks := make([]faceRank, e.NumFaces())
	for f := range ranks {
		if e.FaceSize(int32(f)) != 5 {
			ranks[f].primary = 1 << 30
		}
	}
	for i := range ps.Walks {
		w := &ps.Walks[i]
		ranks[w.From].secondary += w.Length
	}
	return ranks
}

// reconstructBelt reads a belt fullerene from the two caps its belt separates.  Cap pentagons with the shortest
// walks to their neighbours start the smallest spirals.
func reconstructBelt(e *embed.Embedding, ps *Paths) []faceRank {
	return pentagonRanks(e, ps)
}

// reconstructDumbbell starts from the pentagons whose walks loop back to them, the ends of the dumbbell.
func reconstructDumbbell(e *embed.Embedding, ps *Paths) []faceRank {
	ranks := pentagonRanks(e, ps)
	loops := make(map[int32]bool)
	for i := range ps.Walks {
		if ps.Walks[i].Kind == PathLoop {
			loops[ps.Walks[i].From] = true
		}
	}
	for f := range ranks {
		if ranks[f].primary == 0 && !loops[int32(f)] {
			ranks[f].primary = 1
		}
	}
	return ranks
}

// reconstructSandwich starts from the pentagons joined by the shortest ordered walk, the arcs of the sandwich.
func reconstructSandwich(e *embed.Embedding, ps *Paths) []faceRank {
	ranks := pentagonRanks(e, ps)
	shortest := make(map[int32]int)
	for i := range ps.Walks {
		w := &ps.Walks[i]
		if w.Kind == PathLoop {
			continue
		}
		if l, ok := shortest[w.From]; !ok || w.Length < l {
			shortest[w.From] = w.Length
		}
	}
	for f := range ranks {
		if ranks[f].primary == 0 {
			ranks[f].primary = shortest[int32(f)]
		}
	}
	return ranks
}
