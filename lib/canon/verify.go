package canon

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/patch"
	"github.com/pkg/errors"
)

// VerifySpiral rebuilds a fullerene and its mirror image from a canonical (possibly generalized) spiral and checks
// that both give that spiral back as their minimal one.
func VerifySpiral(numVerts int, sp fullgen.Spiral, jumps fullgen.Jumps) error {
	want := jumps.String()
	for _, mirror := range [2]bool{false, true} {
		e, err := patch.BuildFromGeneralSpiral(numVerts, sp[:], jumps, mirror)
		if err != nil {
			return err
		}
		got, _, err := MinimalSpiral(e)
		if err != nil {
			return err
		}
		if minimal, js := Positions(got.Faces), got.Jumps(); minimal != sp || js.String() != want {
			return errors.Wrapf(fullgen.ErrBadSpiral, "n=%d %v [%v] (mirror %v) has minimal spiral %v [%v]",
				numVerts, sp, jumps, mirror, minimal, js)
		}
	}
	return nil
}
