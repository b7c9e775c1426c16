package fullgen

import "errors"

// Usage and configuration errors.  These are returned (wrapped with context) and never recovered from.
var (
	ErrOddVertexCount      = errors.New("vertex count must be even")
	ErrVertexCountTooSmall = errors.New("vertex count must be at least 20")
	ErrVertexCountTooLarge = errors.New("vertex count must be at most 506")
	ErrStartAboveMax       = errors.New("start vertex count exceeds the maximum vertex count")
	ErrBadCase             = errors.New("structural case must be 0, 1, 2 or 3")
	ErrBadResidue          = errors.New("residue must satisfy 0 <= rest < mod")
	ErrBadCode             = errors.New("output code must be in 0..8")
	ErrUnknownSymmetry     = errors.New("unknown point group label")
	ErrBadWorkerCount      = errors.New("worker count must be positive")
	ErrBadEncoding         = errors.New("bad fullerene encoding")
	ErrBadSpiral           = errors.New("spiral does not close into a fullerene")
	ErrNilFullerene        = errors.New("nil fullerene")
	ErrBadCatalogParam     = errors.New("bad catalog param")
)

// Internal invariant violations.  These are always raised via panic and signal a bug, not bad input.
var (
	ErrInvariant       = errors.New("internal invariant violated")
	ErrArenaExhausted  = errors.New("embedding arena exhausted")
	ErrBadFace         = errors.New("face is neither a pentagon nor a hexagon")
	ErrEulerMismatch   = errors.New("assembled vertex count contradicts Euler's formula")
	ErrBadAttach       = errors.New("polygon is smaller than its shared boundary")
	ErrImpossibleGroup = errors.New("automorphism counts match no point group")
)
