package patch

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/pkg/errors"
)

// MaxCodePositions is the number of pentagon positions a Code can hold.
const MaxCodePositions = 8

// Code packs the 1-based spiral positions of a patch's pentagons, one byte each, first position in the high byte.
//
// Codes of the same length order the same way as their position lists.
type Code uint64

// EncodePatch packs increasing 1-based positions into a Code.
func EncodePatch(positions []int) Code {
	if len(positions) > MaxCodePositions {
		panic(errors.Wrapf(fullgen.ErrInvariant, "%d positions do not fit a patch code", len(positions)))
	}
	var code Code
	for i, pos := range positions {
		if pos < 1 || pos > 255 {
			panic(errors.Wrapf(fullgen.ErrInvariant, "pentagon position %d does not fit a patch code", pos))
		}
		code |= Code(pos) << (8 * (MaxCodePositions - 1 - i))
	}
	return code
}

// Positions unpacks the pentagon positions.
func (code Code) Positions() []int {
	positions := make([]int, 0, MaxCodePositions)
	for i := 0; i < MaxCodePositions; i++ {
		pos := int(code>>(8*(MaxCodePositions-1-i))) & 0xFF
		if pos == 0 {
			break
		}
		positions = append(positions, pos)
	}
	return positions
}

// NumPentagons returns how many positions are packed.
func (code Code) NumPentagons() int {
	n := 0
	for i := 0; i < MaxCodePositions; i++ {
		if (code>>(8*(MaxCodePositions-1-i)))&0xFF == 0 {
			break
		}
		n++
	}
	return n
}

// Last returns the final packed position, which is also the face count of a catalog patch.
func (code Code) Last() int {
	n := code.NumPentagons()
	if n == 0 {
		return 0
	}
	return int(code>>(8*(MaxCodePositions-n))) & 0xFF
}

// Extend returns the code with one more position appended.
func (code Code) Extend(pos int) Code {
	n := code.NumPentagons()
	if n >= MaxCodePositions || pos < 1 || pos > 255 {
		panic(errors.Wrapf(fullgen.ErrInvariant, "cannot extend a %d-position code with %d", n, pos))
	}
	return code | Code(pos)<<(8*(MaxCodePositions-1-n))
}

// FaceSizes expands the code into the face sizes of its spiral.
func (code Code) FaceSizes() []int8 {
	last := code.Last()
	faces := make([]int8, last)
	for i := range faces {
		faces[i] = 6
	}
	for _, pos := range code.Positions() {
		faces[pos-1] = 5
	}
	return faces
}

// EncodeSpiral reads the pentagon positions of the first numFaces faces of an embedding built in spiral order.
//
// It panics if one of those faces is neither a pentagon nor a hexagon.
func EncodeSpiral(e *embed.Embedding, numFaces int) []int {
	var positions []int
	for f := 0; f < numFaces; f++ {
		switch e.FaceSize(int32(f)) {
		case 5:
			positions = append(positions, f+1)
		case 6:
		default:
			panic(errors.Wrapf(fullgen.ErrBadFace, "face %d has %d sides", f+1, e.FaceSize(int32(f))))
		}
	}
	return positions
}

// PositionsToFaces expands spiral pentagon positions into a face-size sequence of the given length.
func PositionsToFaces(positions []int, numFaces int) ([]int8, error) {
	faces := make([]int8, numFaces)
	for i := range faces {
		faces[i] = 6
	}
	prev := 0
	for _, pos := range positions {
		if pos <= prev || pos > numFaces {
			return nil, errors.Wrapf(fullgen.ErrBadSpiral, "position %d out of order or beyond %d faces", pos, numFaces)
		}
		faces[pos-1] = 5
		prev = pos
	}
	return faces, nil
}
