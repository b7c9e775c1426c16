package encode

import (
	"io"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/pkg/errors"
)

// New returns the encoder for an output code.
func New(code fullgen.OutputCode) (fullgen.Encoder, error) {
	switch code {
	case fullgen.CodeNone:
		return None{}, nil
	case fullgen.CodePlanar:
		return &PlanarCode{}, nil
	case fullgen.CodeSpiral:
		return SpiralText{}, nil
	case fullgen.CodeSpiralList:
		return NewSpiralList(), nil
	case fullgen.CodeFaceSpiral:
		return FaceSpiral{}, nil
	case fullgen.CodeWriteGraph3D:
		return WriteGraph3D{}, nil
	case fullgen.CodeDualPlanar:
		return &PlanarCode{Dual: true}, nil
	case fullgen.CodeSparse6:
		return Sparse6{}, nil
	case fullgen.CodeTextAdjacency:
		return TextAdjacency{}, nil
	}
	return nil, errors.Wrapf(fullgen.ErrBadCode, "code %d", code)
}

// None discards everything.
type None struct{}

func (None) Header() []byte { return nil }
func (None) Encode(w io.Writer, F *fullgen.Fullerene) error { return nil }
func (None) Flush(w io.Writer) error { return nil }
func (None) Ext() string { return "" }
