package fullgen

import (
	"io"

	"github.com/pkg/errors"
)

const (

	// MinVertexCount is the smallest vertex count for which a fullerene exists.
	MinVertexCount = 20

	// MaxVertexCount is the largest supported vertex count: patch codes hold spiral positions up to 255,
	// and a fullerene with n vertices has n/2 + 2 faces.
	MaxVertexCount = 2 * (255 - 2)

	// NumPentagons is the number of pentagons in every fullerene (Euler).
	NumPentagons = 12

	// MaxPatchPentagons is the number of pentagons in a cap, i.e. half a fullerene.
	MaxPatchPentagons = NumPentagons / 2

	// PentagonSpiralBound is the largest vertex count for which every fullerene has a face spiral starting at a
	// pentagon.  Above it, spirals starting at a hexagon are generated as well; one C100 isomer needs one.
	PentagonSpiralBound = 98

	// MinSpiralFreeVertexCount is the vertex count of the smallest fullerene with no face spiral at all.
	// From there on, generalized spirals (spirals with jumps) are generated as well.
	MinSpiralFreeVertexCount = 380
)

// Case is the structural shape of a fullerene, read from its straight pentagon-to-pentagon walks.
type Case int8

const (
	CaseAll      Case = 0 // no restriction
	CaseBelt     Case = 1 // a straight hexagon ring meeting no pentagon separates two caps
	CaseDumbbell Case = 2 // no belt, but a straight walk leaves a pentagon and returns to it
	CaseSandwich Case = 3 // every straight walk joins two different pentagons
)

var caseNames = [...]string{"all", "belt", "dumbbell", "sandwich"}

func (c Case) String() string {
	if c < 0 || int(c) >= len(caseNames) {
		return "?"
	}
	return caseNames[c]
}

// OutputCode selects an output encoder.
type OutputCode int8

const (
	CodeNone          OutputCode = 0
	CodePlanar        OutputCode = 1
	CodeSpiral        OutputCode = 2
	CodeSpiralList    OutputCode = 3
	CodeFaceSpiral    OutputCode = 4
	CodeWriteGraph3D  OutputCode = 5
	CodeDualPlanar    OutputCode = 6
	CodeSparse6       OutputCode = 7
	CodeTextAdjacency OutputCode = 8
)

// Options configures a generation run.
type Options struct {
	VertexCount int        // maximum (and, without StartCount, only) vertex count
	StartCount  int        // 0 denotes VertexCount
	IPR         bool       // only isolated-pentagon fullerenes
	Case        Case       // only emit fullerenes of this shape
	Mod         int        // residue partition modulus (1 denotes no partition)
	Rest        int        // residue handled by this run
	Workers     int        // if > 1, the (Rest, Mod) partition is split further and run concurrently
	Symmetry    bool       // compute the point group of every accepted fullerene
	SymmFilter  PointGroup // if set, only emit fullerenes with this point group (implies Symmetry)
	NoPrune     bool       // disable optional pruning (output is identical, only slower)
	HexStarts   bool       // also grow spirals that start at a hexagon (automatic above PentagonSpiralBound)
	Jumps       bool       // also grow generalized spirals (automatic from MinSpiralFreeVertexCount)
	LowerBudget int        // lower caps each worker remembers per vertex count (0: default, < 0: none)
	Code        OutputCode // consumed by the CLI
}

// DefaultOptions returns the options used when nothing is specified.
func DefaultOptions(numVerts int) Options {
	return Options{
		VertexCount: numVerts,
		Mod:         1,
		Workers:     1,
		Code:        CodePlanar,
	}
}

// Validate checks options for usage errors and normalises defaults.
func (opts *Options) Validate() error {
	if opts.VertexCount&1 != 0 {
		return errors.Wrapf(ErrOddVertexCount, "got %d", opts.VertexCount)
	}
	if opts.VertexCount < MinVertexCount {
		return errors.Wrapf(ErrVertexCountTooSmall, "got %d", opts.VertexCount)
	}
	if opts.VertexCount > MaxVertexCount {
		return errors.Wrapf(ErrVertexCountTooLarge, "got %d", opts.VertexCount)
	}
	if opts.StartCount == 0 {
		opts.StartCount = opts.VertexCount
	}
	if opts.StartCount&1 != 0 {
		opts.StartCount++
	}
	if opts.StartCount < MinVertexCount {
		opts.StartCount = MinVertexCount
	}
	if opts.StartCount > opts.VertexCount {
		return errors.Wrapf(ErrStartAboveMax, "start %d, max %d", opts.StartCount, opts.VertexCount)
	}
	if opts.Case < CaseAll || opts.Case > CaseSandwich {
		return errors.Wrapf(ErrBadCase, "case %d", opts.Case)
	}
	if opts.Mod <= 0 {
		opts.Mod = 1
	}
	if opts.Workers <= 0 {
		return errors.Wrapf(ErrBadWorkerCount, "got %d", opts.Workers)
	}
	if opts.Rest < 0 || opts.Rest >= opts.Mod {
		return errors.Wrapf(ErrBadResidue, "rest %d, mod %d", opts.Rest, opts.Mod)
	}
	if opts.Code < CodeNone || opts.Code > CodeTextAdjacency {
		return errors.Wrapf(ErrBadCode, "code %d", opts.Code)
	}
	if opts.SymmFilter != GroupUnknown {
		opts.Symmetry = true
	}
	return nil
}

// Spiral holds the 1-based face spiral positions of the twelve pentagons.
type Spiral [NumPentagons]int

// Jump is one step of a generalized spiral: before face Face (1-based) is placed, the spiral skips Length
// boundary runs instead of continuing where it is.
type Jump struct {
	Face   int
	Length int
}

// Jumps lists the jumps of a generalized spiral in face order.  A plain face spiral has none.
type Jumps []Jump

// Fullerene is one accepted canonical representative.
//
// Ownership travels with the value: consumers may retain it.
type Fullerene struct {
	NumVerts  int      // vertex count
	Adjacency [][3]int // neighbours of each vertex (zero-based) in rotation order
	Spiral    Spiral   // canonical spiral pentagon positions
	Faces     []int8   // canonical face spiral (face sizes)
	Jumps     Jumps    // jumps of the canonical spiral, nil unless the fullerene has no plain face spiral
	Case      Case     // structural shape
	IPR       bool     // true if no two pentagons share an edge
	Group     Symmetry // zero value unless symmetry was requested
}

// NumFaces returns the number of faces (n/2 + 2).
func (F *Fullerene) NumFaces() int {
	return F.NumVerts/2 + 2
}

// Symmetry is the point group classification of an embedding.
type Symmetry struct {
	Group    PointGroup
	Order    int // full automorphism group order
	Proper   int // orientation preserving automorphisms (including the identity)
	Improper int // orientation reversing automorphisms
}

// Stats collects per-run counters.
type Stats struct {
	NumVerts  int
	Built     int64 // structurally complete embeddings handed to canonicalization
	Accepted  int64 // canonical representatives
	Emitted   int64 // accepted and passing output filters
	NonIPR    int64 // built but rejected by the IPR filter
	ByCase    [4]int64
	ByGroup   map[PointGroup]int64
	CapsTried int64
	HexStart  int64 // accepted isomers whose canonical spiral starts at a hexagon
	Jumped    int64 // accepted isomers whose canonical spiral has jumps
	LowerHits int64 // lower caps replayed from the lower cap dictionary instead of grown
}

// Add merges the counters of another run for the same vertex count.
func (st *Stats) Add(other *Stats) {
	st.Built += other.Built
	st.Accepted += other.Accepted
	st.Emitted += other.Emitted
	st.NonIPR += other.NonIPR
	st.CapsTried += other.CapsTried
	st.HexStart += other.HexStart
	st.Jumped += other.Jumped
	st.LowerHits += other.LowerHits
	for i := range st.ByCase {
		st.ByCase[i] += other.ByCase[i]
	}
	if len(other.ByGroup) > 0 && st.ByGroup == nil {
		st.ByGroup = make(map[PointGroup]int64)
	}
	for g, n := range other.ByGroup {
		st.ByGroup[g] += n
	}
}

// Encoder writes fullerenes in one output format.
type Encoder interface {

	// Header returns bytes written once at the start of an output file (may be empty).
	Header() []byte

	// Encode writes one fullerene.
	Encode(w io.Writer, F *Fullerene) error

	// Flush writes anything the encoder deferred (e.g. deduplicated lists).
	Flush(w io.Writer) error

	// Ext is the file extension used for this encoding.
	Ext() string
}

// FullereneAdder accepts fullerenes, reporting if the given one was new.
type FullereneAdder interface {
	TryAdd(F *Fullerene) bool
}

// Record is a catalog entry.
type Record struct {
	NumVerts int
	Spiral   Spiral
	Jumps    Jumps
	Group    PointGroup
	Case     Case
	IPR      bool
}

// OnRecordHit is used to return catalog records meeting a set of selection criteria.
type OnRecordHit chan<- Record

// Selector picks catalog records.
type Selector struct {
	MinVerts int
	MaxVerts int
	Group    PointGroup // GroupUnknown selects all
	IPROnly  bool
}

// Selects returns true if the given record meets this Selector's criteria.
func (sel *Selector) Selects(rec *Record) bool {
	if rec.NumVerts < sel.MinVerts || (sel.MaxVerts > 0 && rec.NumVerts > sel.MaxVerts) {
		return false
	}
	if sel.Group != GroupUnknown && sel.Group != rec.Group {
		return false
	}
	if sel.IPROnly && !rec.IPR {
		return false
	}
	return true
}

// CatalogOpts specifies params for opening a result Catalog.
type CatalogOpts struct {
	DbPathName string // omit for an in-memory catalog
	ReadOnly   bool
}

// Catalog is a persistent store of canonical fullerenes.
type Catalog interface {
	FullereneAdder

	// NumIsomers returns the number of stored isomers for a vertex count.
	NumIsomers(numVerts int) int64

	// Select sends every record meeting the selection criteria, in key order, then returns.
	Select(sel Selector, onHit OnRecordHit)

	IsReadOnly() bool

	// SetRunID tags the catalog with the id of the generation run filling it.
	SetRunID(runID string)

	// RunID returns the id of the last generation run that filled the catalog.
	RunID() string

	Close() error
}
