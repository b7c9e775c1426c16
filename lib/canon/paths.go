package canon

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/pkg/errors"
)

// PathKind classifies a straight walk by how its two end pentagons relate.
type PathKind int8

const (
	PathLoop     PathKind = iota // ends at the pentagon it left
	PathOrdered                  // ends at a pentagon with a larger face id
	PathReversed                 // ends at a pentagon with a smaller face id (the reverse of an ordered path)
)

var pathKindNames = [...]string{"loop", "ordered", "reversed"}

func (k PathKind) String() string {
	return pathKindNames[k]
}

// Path is a straight walk that leaves a pentagon through one edge, crosses hexagons from each edge to the opposite
// one, and stops at the first pentagon it enters.
type Path struct {
	From   int32      // pentagon left
	To     int32      // pentagon entered
	Start  embed.Dart // dart of From on the edge the walk leaves by
	End    embed.Dart // dart of To on the edge the walk enters by
	Length int        // hexagons crossed
	Kind   PathKind
}

// Paths holds the straight walks of a closed fullerene: one per pentagon edge, plus the belts,
// straight hexagon rings that meet no pentagon.
type Paths struct {
	Walks []Path
	Belts []int // hexagons in each belt
}

// opposite returns the dart three steps along the face of d, which lies on the opposite edge of a hexagon.
func opposite(e *embed.Embedding, d embed.Dart) embed.Dart {
	for i := 0; i < 3; i++ {
		d = embed.Prev(e.Mate(d))
	}
	return d
}

// DiscoverPaths walks outward from every pentagon edge of a closed, face-labeled fullerene and collects the
// hexagon rings no such walk enters.
func DiscoverPaths(e *embed.Embedding) *Paths {
	numDarts := e.NumDarts()
	ps := &Paths{
		Walks: make([]Path, 0, 5*fullgen.NumPentagons),
	}

	for d := embed.Dart(0); d < embed.Dart(numDarts); d++ {
		from := e.Face(d)
		if e.FaceSize(from) != 5 {
			continue
		}
		p := Path{
			From:  from,
			Start: d,
		}
		y := e.Mate(d)
		for e.FaceSize(e.Face(y)) == 6 {
			p.Length++
			if p.Length > numDarts {
				panic(errors.Wrapf(fullgen.ErrInvariant, "straight walk from dart %d does not end", d))
			}
			y = e.Mate(opposite(e, y))
		}
		p.To, p.End = e.Face(y), y
		switch {
		case p.To == p.From:
			p.Kind = PathLoop
		case p.To > p.From:
			p.Kind = PathOrdered
		default:
			p.Kind = PathReversed
		}
		ps.Walks = append(ps.Walks, p)
	}

	// each straight line through a hexagon uses a pair of opposite darts; marking a line's edges marks exactly its darts
	e.NewMark()
	for d := embed.Dart(0); d < embed.Dart(numDarts); d++ {
		if e.InPatch(d) || e.FaceSize(e.Face(d)) != 6 {
			continue
		}
		y, length := d, 0
		for {
			x := opposite(e, y)
			e.MarkEdge(y)
			e.MarkEdge(x)
			length++
			y = e.Mate(x)
			if e.FaceSize(e.Face(y)) != 6 {
				break
			}
			if y == d {
				ps.Belts = append(ps.Belts, length)
				break
			}
		}
	}
	return ps
}

// Case returns the structural shape of the fullerene: a belt if some hexagon ring meets no pentagon,
// else a dumbbell if some walk returns to its own pentagon, else a sandwich.
func (ps *Paths) Case() fullgen.Case {
	if len(ps.Belts) > 0 {
		return fullgen.CaseBelt
	}
	for i := range ps.Walks {
		if ps.Walks[i].Kind == PathLoop {
			return fullgen.CaseDumbbell
		}
	}
	return fullgen.CaseSandwich
}

// Count returns how many walks are of the given kind.
func (ps *Paths) Count(kind PathKind) int {
	n := 0
	for i := range ps.Walks {
		if ps.Walks[i].Kind == kind {
			n++
		}
	}
	return n
}

// Classify returns the structural shape of a closed, face-labeled fullerene.
func Classify(e *embed.Embedding) fullgen.Case {
	return DiscoverPaths(e).Case()
}
