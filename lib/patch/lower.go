package patch

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/pkg/errors"
)

// LowerCaps is the lower cap dictionary of one search worker: for every patch boundary met after the seventh
// pentagon, the lower caps (the spiral completions through the remaining pentagons) that close it.
//
// Lower caps are stored as Codes of their pentagon positions, counted from the first face after the key's patch.
// Entries are recorded the first time a key is grown and replayed on every later hit.  A LowerCaps is not safe for
// concurrent use.
type LowerCaps struct {
	numVerts int
	budget   int
	count    int
	caps     map[string][]Code
}

// NewLowerCaps returns an empty dictionary for fullerenes with numVerts vertices that stops recording new keys once
// budget lower caps are stored.
func NewLowerCaps(numVerts, budget int) *LowerCaps {
	return &LowerCaps{
		numVerts: numVerts,
		budget:   budget,
		caps:     make(map[string][]Code),
	}
}

// Len returns the number of stored lower caps.
func (lc *LowerCaps) Len() int {
	return lc.count
}

// NumKeys returns the number of recorded boundaries.
func (lc *LowerCaps) NumKeys() int {
	return len(lc.caps)
}

// AppendKey prefixes a boundary key with the hexagons left to place.
func AppendKey(key []byte, hexagons int) []byte {
	return append(key, byte(hexagons>>8), byte(hexagons))
}

// Lookup returns the lower caps recorded for key, and false if key was never recorded.
func (lc *LowerCaps) Lookup(key []byte) (*CodeIter, bool) {
	codes, found := lc.caps[string(key)]
	if !found {
		return nil, false
	}
	return &CodeIter{codes: codes}, true
}

// Recorder collects the lower caps of one key while they are grown.
type Recorder struct {
	key   string
	codes []Code
}

// Record starts recording key, or returns nil if the dictionary is full.
func (lc *LowerCaps) Record(key []byte) *Recorder {
	if lc.count >= lc.budget {
		return nil
	}
	return &Recorder{key: string(key)}
}

// Add records one lower cap from its face sizes.
func (rec *Recorder) Add(faces []int8) {
	var positions []int
	for k, s := range faces {
		if s == 5 {
			positions = append(positions, k+1)
		}
	}
	if len(positions) != fullgen.NumPentagons-fullgen.MaxPatchPentagons-1 {
		panic(errors.Wrapf(fullgen.ErrInvariant, "lower cap with %d pentagons", len(positions)))
	}
	rec.codes = append(rec.codes, EncodePatch(positions))
}

// Commit stores the recorded lower caps, an empty list included.
func (lc *LowerCaps) Commit(rec *Recorder) {
	lc.caps[rec.key] = rec.codes
	lc.count += len(rec.codes)
}
