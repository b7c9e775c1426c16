package canon_test

import (
	"testing"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/canon"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/2x3systems/fullgen/lib/patch"
	"github.com/stretchr/testify/require"
)

// Every start reads a spiral once jumps are allowed, and each of them rebuilds the same map.
func TestGeneralizedSpirals(t *testing.T) {
	tests := []struct {
		name     string
		numVerts int
		spiral   []int
		jumped   int // starts whose spiral needs a jump
	}{
		{"C20", 20, spiralC20, 0},
		{"C60", 60, spiralC60, 0},
		{"C30-D5h", 30, []int{1, 2, 3, 4, 5, 6, 12, 13, 14, 15, 16, 17}, 60},
		{"C34", 34, []int{1, 2, 3, 4, 5, 12, 13, 14, 15, 16, 17, 18}, 20},
		{"C36", 36, []int{1, 2, 4, 8, 9, 10, 12, 13, 14, 15, 18, 20}, 24},
		{"C36-reverse", 36, []int{1, 2, 3, 4, 5, 12, 13, 14, 16, 17, 19, 20}, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := build(t, tt.numVerts, tt.spiral)
			want, _, err := canon.MinimalSpiral(e)
			require.NoError(t, err)

			jumped := 0
			for _, mirror := range [2]bool{false, true} {
				for d := embed.Dart(0); d < embed.Dart(e.NumDarts()); d++ {
					code, err := canon.SpiralFrom(e, canon.Start{Dart: d, Mirror: mirror})
					require.NoError(t, err)
					require.Len(t, code.Faces, tt.numVerts/2+2)
					if code.NumJumps() == 0 {
						continue
					}
					jumped++

					sp := canon.Positions(code.Faces)
					rebuilt, err := patch.BuildFromGeneralSpiral(tt.numVerts, sp[:], code.Jumps(), false)
					require.NoError(t, err)
					got, _, err := canon.MinimalSpiral(rebuilt)
					require.NoError(t, err)
					require.Equal(t, want, got)

					// the rebuilt map reads its own code back from the first face
					again, err := canon.SpiralFrom(rebuilt, canon.GeneratingStart)
					require.NoError(t, err)
					require.Equal(t, code, again)
				}
			}
			require.Equal(t, tt.jumped, jumped)
		})
	}
}

func TestJumpCode(t *testing.T) {
	// a generalized spiral of the D5h C30
	pents := []int{2, 4, 5, 7, 8, 9, 11, 12, 13, 14, 15, 17}
	jumps := fullgen.Jumps{{Face: 14, Length: 1}}

	e, err := patch.BuildFromGeneralSpiral(30, pents, jumps, false)
	require.NoError(t, err)
	best, _, err := canon.MinimalSpiral(e)
	require.NoError(t, err)
	require.Equal(t, fullgen.Spiral{1, 2, 3, 4, 5, 6, 12, 13, 14, 15, 16, 17}, canon.Positions(best.Faces))
	require.Nil(t, best.Jumps())

	// the plain spiral beats it, so it is not canonical
	faces, err := patch.PositionsToFaces(pents, 17)
	require.NoError(t, err)
	code := canon.CodeWithJumps(faces, jumps)
	require.Equal(t, 1, code.NumJumps())
	require.Equal(t, jumps, code.Jumps())
	ok, _ := canon.NewChecker().IsCanonical(e, code, canon.ClassifyShape(e), false)
	require.False(t, ok)

	// the first face cannot follow a jump, and a non-minimal code does not verify
	_, err = patch.BuildFromGeneralSpiral(30, pents, fullgen.Jumps{{Face: 1, Length: 1}}, false)
	require.ErrorIs(t, err, fullgen.ErrBadSpiral)
	require.Error(t, canon.VerifySpiral(30, canon.Positions(faces), jumps))
}

func TestParseJumps(t *testing.T) {
	js, err := fullgen.ParseJumps("23:1, 40:2")
	require.NoError(t, err)
	require.Equal(t, fullgen.Jumps{{Face: 23, Length: 1}, {Face: 40, Length: 2}}, js)
	require.Equal(t, "23:1,40:2", js.String())

	js, err = fullgen.ParseJumps("")
	require.NoError(t, err)
	require.Nil(t, js)

	for _, bad := range []string{"23", "23:0", "40:1,23:1", "x:1"} {
		_, err = fullgen.ParseJumps(bad)
		require.ErrorIs(t, err, fullgen.ErrBadSpiral, bad)
	}
}
