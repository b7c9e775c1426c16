package encode

import (
	"io"
	"strconv"
	"strings"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// SpiralText writes "n: p1,p2,...,p12" per fullerene, followed by " jumps f:l,..." for a generalized spiral.
type SpiralText struct{}

func (SpiralText) Header() []byte { return nil }
func (SpiralText) Flush(w io.Writer) error { return nil }
func (SpiralText) Ext() string { return "spiral" }

func (SpiralText) Encode(w io.Writer, F *fullgen.Fullerene) error {
	_, err := w.Write(AppendSpiralLine(nil, F.NumVerts, &F.Spiral, F.Jumps))
	return err
}

// AppendSpiralLine appends "n: p1,...,p12\n", or "n: p1,...,p12 jumps f:l,...\n" if there are jumps.
func AppendSpiralLine(buf []byte, numVerts int, sp *fullgen.Spiral, jumps fullgen.Jumps) []byte {
	buf = strconv.AppendInt(buf, int64(numVerts), 10)
	buf = append(buf, ':', ' ')
	buf = sp.AppendText(buf)
	if len(jumps) > 0 {
		buf = append(buf, " jumps "...)
		buf = jumps.AppendText(buf)
	}
	return append(buf, '\n')
}

// FaceSpiral writes the full face spiral as a string of 5s and 6s.
type FaceSpiral struct{}

func (FaceSpiral) Header() []byte { return nil }
func (FaceSpiral) Flush(w io.Writer) error { return nil }
func (FaceSpiral) Ext() string { return "faces" }

func (FaceSpiral) Encode(w io.Writer, F *fullgen.Fullerene) error {
	line := make([]byte, 0, len(F.Faces)+1)
	for _, sz := range F.Faces {
		line = append(line, '0'+byte(sz))
	}
	line = append(line, '\n')
	_, err := w.Write(line)
	return err
}

type spiralKey struct {
	numVerts int
	spiral   fullgen.Spiral
	jumps    fullgen.Jumps
}

// Plain spirals sort before generalized ones of the same size.
func compareSpiralKeys(a, b interface{}) int {
	A := a.(spiralKey)
	B := b.(spiralKey)
	if d := A.numVerts - B.numVerts; d != 0 {
		return d
	}
	if (len(A.jumps) == 0) != (len(B.jumps) == 0) {
		if len(A.jumps) == 0 {
			return -1
		}
		return 1
	}
	for i := range A.spiral {
		if d := A.spiral[i] - B.spiral[i]; d != 0 {
			return d
		}
	}
	return strings.Compare(A.jumps.String(), B.jumps.String())
}

// SpiralList collects spirals in a sorted set and writes each distinct one once, in order, on Flush.
//
// If Limit is positive the set is also written out and cleared whenever it reaches Limit spirals,
// so output is sorted and distinct within each batch only.
type SpiralList struct {
	Limit int
	set   *redblacktree.Tree
}

func NewSpiralList() *SpiralList {
	return &SpiralList{
		set: redblacktree.NewWith(compareSpiralKeys),
	}
}

func (sl *SpiralList) Header() []byte { return nil }
func (sl *SpiralList) Ext() string { return "spirals" }

// Len returns the number of distinct spirals collected.
func (sl *SpiralList) Len() int {
	return sl.set.Size()
}

func (sl *SpiralList) Encode(w io.Writer, F *fullgen.Fullerene) error {
	sl.set.Put(spiralKey{F.NumVerts, F.Spiral, F.Jumps}, nil)
	if sl.Limit > 0 && sl.set.Size() >= sl.Limit {
		return sl.Flush(w)
	}
	return nil
}

func (sl *SpiralList) Flush(w io.Writer) error {
	var buf []byte
	it := sl.set.Iterator()
	for it.Next() {
		key := it.Key().(spiralKey)
		buf = AppendSpiralLine(buf[:0], key.numVerts, &key.spiral, key.jumps)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	sl.set.Clear()
	return nil
}
