package patch

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/pkg/errors"
)

// AttachSpiral builds faces in spiral order onto an empty embedding.
//
// It returns the open stub where the spiral continues, or NoDart if the last face closed the map.
// On error, everything attached so far is released.
func AttachSpiral(e *embed.Embedding, faces []int8) (embed.Dart, []embed.Guard, error) {
	return attachSpiral(e, faces, nil, false)
}

// AttachMirrorSpiral is AttachSpiral with the opposite winding: it builds the mirror image of the same map.
//
// Face ids of the result follow the mirrored convention until the closed map is relabeled with LabelFaces.
func AttachMirrorSpiral(e *embed.Embedding, faces []int8) (embed.Dart, []embed.Guard, error) {
	return attachSpiral(e, faces, nil, true)
}

// AttachGeneralSpiral is AttachSpiral for a generalized spiral: before face k it skips skips[k] boundary runs.
func AttachGeneralSpiral(e *embed.Embedding, faces, skips []int8) (embed.Dart, []embed.Guard, error) {
	return attachSpiral(e, faces, skips, false)
}

func attachSpiral(e *embed.Embedding, faces, skips []int8, mirror bool) (embed.Dart, []embed.Guard, error) {
	attach, common, nextStub := e.AttachPolygon, e.CommonVertices, e.NextStub
	if mirror {
		attach, common, nextStub = e.AttachPolygonReversed, e.CommonVerticesReversed, e.NextStubReversed
	}

	if len(faces) == 0 {
		return embed.NoDart, nil, errors.Wrap(fullgen.ErrBadSpiral, "no faces")
	}
	if faces[0] < 3 || int(faces[0]) > e.MaxVerts()-e.NumVerts() {
		return embed.NoDart, nil, errors.Wrapf(fullgen.ErrBadSpiral, "first face of size %d", faces[0])
	}

	guards := make([]embed.Guard, 0, len(faces))
	fail := func(err error) (embed.Dart, []embed.Guard, error) {
		embed.ReleaseAll(guards)
		return embed.NoDart, nil, err
	}

	stub, g := e.AddBareCycle(int(faces[0]))
	guards = append(guards, g)

	for i := 1; i < len(faces); i++ {
		if stub == embed.NoDart {
			return fail(errors.Wrapf(fullgen.ErrBadSpiral, "map closed after %d of %d faces", i+1, len(faces)))
		}
		if skips != nil {
			if int(skips[i]) >= e.NumStubs() {
				return fail(errors.Wrapf(fullgen.ErrBadSpiral, "face %d: jump over %d of %d runs", i+1, skips[i], e.NumStubs()))
			}
			for j := int8(0); j < skips[i]; j++ {
				stub = nextStub(stub)
			}
		}
		s := int(faces[i])
		c := common(stub)
		if s < c {
			return fail(errors.Wrapf(fullgen.ErrBadSpiral, "face %d: %d-gon onto a run of %d", i+1, s, c))
		}
		if e.NumStubs()+s-c-2 == 1 {
			return fail(errors.Wrapf(fullgen.ErrBadSpiral, "face %d leaves a single open stub", i+1))
		}
		if s > c && e.NumVerts()+s-c > e.MaxVerts() {
			return fail(errors.Wrapf(fullgen.ErrBadSpiral, "face %d exceeds %d vertices", i+1, e.MaxVerts()))
		}
		if s == c && e.NumStubs() == 2 {
			if i+2 != len(faces) {
				return fail(errors.Wrapf(fullgen.ErrBadSpiral, "face %d closes the map early", i+1))
			}
			if final := common(nextStub(stub)); final != int(faces[i+1]) {
				return fail(errors.Wrapf(fullgen.ErrBadSpiral, "final face has %d sides, expected %d", final, faces[i+1]))
			}
			stub, g = attach(s, stub)
			guards = append(guards, g)
			return stub, guards, nil
		}
		stub, g = attach(s, stub)
		guards = append(guards, g)
	}

	return stub, guards, nil
}

// BuildFromSpiral builds a closed fullerene with numVerts vertices from its pentagon spiral positions.
func BuildFromSpiral(numVerts int, positions []int) (*embed.Embedding, error) {
	return buildFromSpiral(numVerts, positions, nil, false)
}

// BuildMirrorFromSpiral builds the mirror image of the fullerene BuildFromSpiral builds, with standard face labels.
func BuildMirrorFromSpiral(numVerts int, positions []int) (*embed.Embedding, error) {
	return buildFromSpiral(numVerts, positions, nil, true)
}

// BuildFromGeneralSpiral builds a closed fullerene from the pentagon positions and jumps of a generalized spiral.
func BuildFromGeneralSpiral(numVerts int, positions []int, jumps fullgen.Jumps, mirror bool) (*embed.Embedding, error) {
	return buildFromSpiral(numVerts, positions, jumps, mirror)
}

func buildFromSpiral(numVerts int, positions []int, jumps fullgen.Jumps, mirror bool) (*embed.Embedding, error) {
	if numVerts < fullgen.MinVertexCount || numVerts&1 != 0 {
		return nil, errors.Wrapf(fullgen.ErrBadSpiral, "bad vertex count %d", numVerts)
	}
	if len(positions) != fullgen.NumPentagons {
		return nil, errors.Wrapf(fullgen.ErrBadSpiral, "%d pentagon positions", len(positions))
	}
	faces, err := PositionsToFaces(positions, numVerts/2+2)
	if err != nil {
		return nil, err
	}
	var skips []int8
	if len(jumps) > 0 {
		skips = make([]int8, len(faces))
		for _, j := range jumps {
			if j.Face < 2 || j.Face > len(faces) || j.Length < 1 || j.Length > 127 {
				return nil, errors.Wrapf(fullgen.ErrBadSpiral, "bad jump %d:%d", j.Face, j.Length)
			}
			skips[j.Face-1] = int8(j.Length)
		}
	}
	e := embed.New(numVerts)
	stub, _, err := attachSpiral(e, faces, skips, mirror)
	if err != nil {
		return nil, err
	}
	if stub != embed.NoDart || e.NumVerts() != numVerts {
		return nil, errors.Wrapf(fullgen.ErrBadSpiral, "spiral leaves the map open")
	}
	if mirror {
		if err = e.LabelFaces(); err != nil {
			return nil, err
		}
	}
	return e, nil
}
