package symmetry

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/canon"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/2x3systems/fullgen/lib/patch"
	"github.com/pkg/errors"
)

// Profile summarizes an automorphism group by the counts needed to name its point group.
type Profile struct {
	Proper      int  // orientation preserving automorphisms, identity included
	Improper    int  // orientation reversing automorphisms
	MaxRotation int  // largest order of a proper automorphism
	Reflections int  // improper involutions fixing a vertex, edge or face
	Inversion   bool // an improper involution fixing no vertex, edge or face
}

// Analyze computes the Profile of the given automorphisms of e.
func Analyze(e *embed.Embedding, autos []canon.Automorphism) Profile {
	var prof Profile
	var faces [][]int32
	for _, a := range autos {
		ord := PermOrder(a.Perm)
		if a.Proper {
			prof.Proper++
			if ord > prof.MaxRotation {
				prof.MaxRotation = ord
			}
			continue
		}
		prof.Improper++
		if ord != 2 {
			continue
		}
		if faces == nil {
			faces = faceVertices(e)
		}
		if fixesCell(e, a.Perm, faces) {
			prof.Reflections++
		} else {
			prof.Inversion = true
		}
	}
	return prof
}

// PermOrder returns the order of a permutation (the lcm of its cycle lengths).
func PermOrder(perm []int32) int {
	seen := make([]bool, len(perm))
	order := 1
	for v := range perm {
		if seen[v] {
			continue
		}
		n := 0
		for w := int32(v); !seen[w]; w = perm[w] {
			seen[w] = true
			n++
		}
		order = lcm(order, n)
	}
	return order
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}

func faceVertices(e *embed.Embedding) [][]int32 {
	darts := e.FaceDarts()
	faces := make([][]int32, len(darts))
	for f, d0 := range darts {
		for d := d0; ; {
			faces[f] = append(faces[f], d.Vertex())
			d = embed.Prev(e.Mate(d))
			if d == d0 {
				break
			}
		}
	}
	return faces
}

// fixesCell returns true if perm maps some vertex, edge or face onto itself.
func fixesCell(e *embed.Embedding, perm []int32, faces [][]int32) bool {
	for v, w := range perm {
		if int32(v) == w {
			return true
		}
	}
	for d := embed.Dart(0); d < embed.Dart(e.NumDarts()); d++ {
		u, w := d.Vertex(), e.Target(d)
		if perm[u] == w && perm[w] == u {
			return true
		}
	}
	inFace := make(map[int32]bool, 6)
	for _, verts := range faces {
		for k := range inFace {
			delete(inFace, k)
		}
		for _, v := range verts {
			inFace[v] = true
		}
		fixed := true
		for _, v := range verts {
			if !inFace[perm[v]] {
				fixed = false
				break
			}
		}
		if fixed {
			return true
		}
	}
	return false
}

// Classify names the point group of a fullerene from its automorphism profile, or returns GroupUnknown if the
// profile matches none of the fullerene point groups.
func Classify(prof Profile) fullgen.PointGroup {
	if assertions {
		assertProfile(prof)
	}
	return lookup(prof)
}

// mustClassify is Classify for a profile read off a generated map, where no matching group is a bug.
func mustClassify(prof Profile) fullgen.PointGroup {
	g := Classify(prof)
	if g == fullgen.GroupUnknown {
		panic(errors.Wrapf(fullgen.ErrImpossibleGroup, "%d proper, %d improper, max rotation %d, %d reflections, inversion %v",
			prof.Proper, prof.Improper, prof.MaxRotation, prof.Reflections, prof.Inversion))
	}
	return g
}

// assertProfile panics if prof could not have come from a group of sphere automorphisms.
func assertProfile(prof Profile) {
	var bad string
	switch {
	case prof.Proper < 1 || 120%prof.Proper != 0:
		bad = "proper count does not divide 120"
	case prof.Improper != 0 && prof.Improper != prof.Proper:
		bad = "improper and proper counts differ"
	case prof.MaxRotation < 1 || prof.Proper%prof.MaxRotation != 0:
		bad = "max rotation does not divide the rotation group order"
	case prof.Reflections > prof.Improper:
		bad = "more reflections than improper automorphisms"
	case prof.Inversion && prof.Improper == 0:
		bad = "inversion without improper automorphisms"
	}
	if bad != "" {
		panic(errors.Wrapf(fullgen.ErrImpossibleGroup, "%s: %+v", bad, prof))
	}
}

// lookup is the decision table from profiles to point groups; it returns GroupUnknown if nothing matches.
func lookup(prof Profile) fullgen.PointGroup {
	R := prof.Proper
	if prof.Improper == 0 {
		switch R {
		case 1:
			return fullgen.C1
		case 2:
			return fullgen.C2
		case 3:
			return fullgen.C3
		case 4:
			return fullgen.D2
		case 6:
			return fullgen.D3
		case 10:
			return fullgen.D5
		case 12:
			if prof.MaxRotation == 3 {
				return fullgen.T
			}
			if prof.MaxRotation == 6 {
				return fullgen.D6
			}
		case 60:
			return fullgen.I
		}
	} else if prof.Improper == R {
		inv := prof.Inversion
		switch R {
		case 1:
			if inv {
				return fullgen.Ci
			}
			return fullgen.Cs
		case 2:
			switch {
			case inv:
				return fullgen.C2h
			case prof.Reflections == 2:
				return fullgen.C2v
			case prof.Reflections == 0:
				return fullgen.S4
			}
		case 3:
			switch {
			case inv:
				return fullgen.S6
			case prof.Reflections == 3:
				return fullgen.C3v
			case prof.Reflections == 1:
				return fullgen.C3h
			}
		case 4:
			if inv {
				return fullgen.D2h
			}
			return fullgen.D2d
		case 6:
			if inv {
				return fullgen.D3d
			}
			return fullgen.D3h
		case 10:
			if inv {
				return fullgen.D5d
			}
			return fullgen.D5h
		case 12:
			switch {
			case prof.MaxRotation == 3 && inv:
				return fullgen.Th
			case prof.MaxRotation == 3:
				return fullgen.Td
			case prof.MaxRotation == 6 && inv:
				return fullgen.D6h
			case prof.MaxRotation == 6:
				return fullgen.D6d
			}
		case 60:
			return fullgen.Ih
		}
	}
	return fullgen.GroupUnknown
}

// Compute returns the full symmetry classification of a closed map from its automorphisms.
func Compute(e *embed.Embedding, autos []canon.Automorphism) fullgen.Symmetry {
	prof := Analyze(e, autos)
	return fullgen.Symmetry{
		Group:    mustClassify(prof),
		Order:    prof.Proper + prof.Improper,
		Proper:   prof.Proper,
		Improper: prof.Improper,
	}
}

// OfSpiral builds the fullerene with the given vertex count and spiral and returns its symmetry.
func OfSpiral(numVerts int, sp fullgen.Spiral) (fullgen.Symmetry, error) {
	e, err := patch.BuildFromSpiral(numVerts, sp[:])
	if err != nil {
		return fullgen.Symmetry{}, err
	}
	autos, err := canon.Automorphisms(e)
	if err != nil {
		return fullgen.Symmetry{}, err
	}
	return Compute(e, autos), nil
}
