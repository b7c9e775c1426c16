package encode

import (
	"io"
	"sort"

	"github.com/2x3systems/fullgen/fullgen"
)

const Sparse6Header = ">>sparse6<<"

// Sparse6 writes one sparse6 line per graph.
type Sparse6 struct{}

func (Sparse6) Header() []byte { return []byte(Sparse6Header) }
func (Sparse6) Flush(w io.Writer) error { return nil }
func (Sparse6) Ext() string { return "s6" }

func (Sparse6) Encode(w io.Writer, F *fullgen.Fullerene) error {
	line := AppendSparse6(nil, F.Adjacency)
	line = append(line, '\n')
	_, err := w.Write(line)
	return err
}

func appendN(buf []byte, n int) []byte {
	switch {
	case n <= 62:
		return append(buf, byte(63+n))
	case n <= 258047:
		return append(buf, 126, byte(63+(n>>12)&63), byte(63+(n>>6)&63), byte(63+n&63))
	}
	buf = append(buf, 126, 126)
	for shift := 30; shift >= 0; shift -= 6 {
		buf = append(buf, byte(63+(n>>shift)&63))
	}
	return buf
}

// AppendSparse6 appends the sparse6 encoding (without header or newline) of a graph given by adjacency lists.
func AppendSparse6(buf []byte, adj [][3]int) []byte {
	n := len(adj)
	buf = append(buf, ':')
	buf = appendN(buf, n)

	nb := 0
	for i := n - 1; i > 0; i >>= 1 {
		nb++
	}

	// edges (u <= v) sorted by v, then u
	type edge struct{ u, v int }
	edges := make([]edge, 0, 3*n/2)
	for v, nbrs := range adj {
		for _, u := range nbrs {
			if u <= v {
				edges = append(edges, edge{u, v})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].v != edges[j].v {
			return edges[i].v < edges[j].v
		}
		return edges[i].u < edges[j].u
	})

	var x, k int // pending bits and their count
	emit := func(bit int) {
		x = x<<1 | bit
		k++
		if k == 6 {
			buf = append(buf, byte(63+x))
			x, k = 0, 0
		}
	}
	emitValue := func(val int) {
		for i := nb - 1; i >= 0; i-- {
			emit((val >> i) & 1)
		}
	}

	lastV := 0
	for _, ed := range edges {
		switch {
		case ed.v == lastV:
			emit(0)
			emitValue(ed.u)
		case ed.v == lastV+1:
			emit(1)
			emitValue(ed.u)
			lastV = ed.v
		default:
			emit(1)
			emitValue(ed.v)
			emit(0)
			emitValue(ed.u)
			lastV = ed.v
		}
	}

	if k > 0 {
		pad := 6 - k
		if nb < pad && lastV == n-2 && n == 1<<nb {
			x = x<<pad | (1<<(pad-1) - 1)
		} else {
			x = x<<pad | (1<<pad - 1)
		}
		buf = append(buf, byte(63+x))
	}
	return buf
}
