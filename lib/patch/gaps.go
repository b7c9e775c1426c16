package patch

import (
	"github.com/2x3systems/fullgen/lib/embed"
)

// PureHexMarker leads the key of a boundary that touches no pentagon.
const PureHexMarker = -1

// GapSequence is the cyclic list of hexagon run lengths between consecutive boundary pentagons, in canonical rotation.
//
// A boundary touching no pentagon is keyed instead as [PureHexMarker, boundaryFaceCount, stubCount].
type GapSequence []int

// IsPureHex returns true if the sequence uses the pure-hexagon encoding.
func (seq GapSequence) IsPureHex() bool {
	return len(seq) > 0 && seq[0] == PureHexMarker
}

// BoundaryFaces returns the sizes of the faces met walking the boundary forward from stub,
// one entry per maximal run of boundary edges on the same face.
func BoundaryFaces(e *embed.Embedding, stub embed.Dart) []int {
	var sizes []int
	var faces []int32

	t := stub
	for {
		d := embed.Next(t)
		for {
			if f := e.Face(d); len(faces) == 0 || faces[len(faces)-1] != f {
				faces = append(faces, f)
				sizes = append(sizes, e.FaceSize(f))
			}
			x := embed.Next(e.Mate(d))
			if e.IsStub(x) {
				t = x
				break
			}
			d = x
		}
		if t == stub {
			break
		}
	}

	// the run that wraps around the start is one run
	if n := len(faces); n > 1 && faces[0] == faces[n-1] {
		faces = faces[:n-1]
		sizes = sizes[:n-1]
	}
	return sizes
}

// ComputeGapSequence walks the boundary of the patch containing stub and returns its canonical gap sequence.
func ComputeGapSequence(e *embed.Embedding, stub embed.Dart) GapSequence {
	sizes := BoundaryFaces(e, stub)

	first := -1
	for i, sz := range sizes {
		if sz == 5 {
			first = i
			break
		}
	}
	if first < 0 {
		return GapSequence{PureHexMarker, len(sizes), e.NumStubs()}
	}

	var gaps GapSequence
	run := 0
	for i := 1; i <= len(sizes); i++ {
		if sizes[(first+i)%len(sizes)] == 5 {
			gaps = append(gaps, run)
			run = 0
		} else {
			run++
		}
	}
	if IsCanonicalRotation(gaps) {
		return gaps
	}
	return CanonicalRotation(gaps)
}

// IsCanonicalRotation returns true if no cyclic rotation of seq is lexicographically greater than seq.
func IsCanonicalRotation(seq []int) bool {
	n := len(seq)
	if n < 2 {
		return true
	}

	top, topCount := seq[0], 0
	for _, v := range seq {
		if v > top {
			top = v
		}
	}
	if seq[0] != top {
		return false
	}
	for _, v := range seq {
		if v == top {
			topCount++
		}
	}
	if topCount == 1 {
		return true
	}

	for start := 1; start < n; start++ {
		if seq[start] != top {
			continue
		}
		for i := 0; i < n; i++ {
			a, b := seq[i], seq[(start+i)%n]
			if b > a {
				return false
			}
			if b < a {
				break
			}
		}
	}
	return true
}

// CanonicalRotation returns the lexicographically greatest rotation of seq as a new slice.
//
// This is Booth's least-rotation scan with the comparisons reversed.
func CanonicalRotation(seq []int) GapSequence {
	n := len(seq)
	doubled := make([]int, 2*n)
	copy(doubled, seq)
	copy(doubled[n:], seq)

	f := make([]int, 2*n)
	for i := range f {
		f[i] = -1
	}
	k := 0
	for j := 1; j < 2*n; j++ {
		i := f[j-k-1]
		for i != -1 && doubled[j] != doubled[k+i+1] {
			if doubled[j] > doubled[k+i+1] {
				k = j - i - 1
			}
			i = f[i]
		}
		if doubled[j] != doubled[k+i+1] {
			if doubled[j] > doubled[k] {
				k = j
			}
			f[j-k] = -1
		} else {
			f[j-k] = i + 1
		}
	}

	rot := make(GapSequence, n)
	copy(rot, doubled[k:k+n])
	return rot
}
