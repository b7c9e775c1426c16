package encode

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/pkg/errors"
)

const (
	PlanarCodeHeaderLE = ">>planar_code le<<"
	PlanarCodeHeaderBE = ">>planar_code be<<"
)

// PlanarCode writes the binary planar_code format: the vertex count, then for each vertex its 1-based neighbours
// in rotation order followed by a 0.  Graphs with 256 or more vertices start with a 0 byte and use 2-byte entries.
//
// With Dual set, the dual triangulation (one vertex per face) is written instead.
type PlanarCode struct {
	Dual      bool
	BigEndian bool
}

func (pc *PlanarCode) byteOrder() binary.ByteOrder {
	if pc.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (pc *PlanarCode) Header() []byte {
	if pc.BigEndian {
		return []byte(PlanarCodeHeaderBE)
	}
	return []byte(PlanarCodeHeaderLE)
}

func (pc *PlanarCode) Ext() string {
	if pc.Dual {
		return "dual.pc"
	}
	return "pc"
}

func (pc *PlanarCode) Flush(w io.Writer) error { return nil }

func (pc *PlanarCode) Encode(w io.Writer, F *fullgen.Fullerene) error {
	var rows [][]int
	if pc.Dual {
		var err error
		if rows, err = DualRows(F.Adjacency); err != nil {
			return err
		}
	} else {
		rows = make([][]int, len(F.Adjacency))
		for v, nbrs := range F.Adjacency {
			rows[v] = []int{nbrs[0], nbrs[1], nbrs[2]}
		}
	}
	_, err := w.Write(AppendPlanarCode(nil, rows, pc.byteOrder()))
	return err
}

// AppendPlanarCode appends one planar_code entry for the given zero-based rotation lists.
func AppendPlanarCode(buf []byte, rows [][]int, order binary.ByteOrder) []byte {
	n := len(rows)
	if n < 256 {
		buf = append(buf, byte(n))
		for _, row := range rows {
			for _, w := range row {
				buf = append(buf, byte(w+1))
			}
			buf = append(buf, 0)
		}
		return buf
	}

	var entry [2]byte
	put := func(x int) {
		order.PutUint16(entry[:], uint16(x))
		buf = append(buf, entry[:]...)
	}
	buf = append(buf, 0)
	put(n)
	for _, row := range rows {
		for _, w := range row {
			put(w + 1)
		}
		put(0)
	}
	return buf
}

// DualRows returns the rotation lists of the dual of a cubic plane map: face f lists the faces across each of its edges.
func DualRows(adj [][3]int) ([][]int, error) {
	e, err := embed.FromAdjacency(adj)
	if err != nil {
		return nil, err
	}
	first := e.FaceDarts()
	rows := make([][]int, len(first))
	for f, d0 := range first {
		for d := d0; ; {
			rows[f] = append(rows[f], int(e.Face(e.Mate(d))))
			d = embed.Prev(e.Mate(d))
			if d == d0 {
				break
			}
		}
	}
	return rows, nil
}

// DecodePlanarCode parses a planar_code stream (header optional) into cubic rotation lists.
func DecodePlanarCode(data []byte) ([][][3]int, error) {
	var order binary.ByteOrder = binary.LittleEndian
	switch {
	case bytes.HasPrefix(data, []byte(PlanarCodeHeaderLE)):
		data = data[len(PlanarCodeHeaderLE):]
	case bytes.HasPrefix(data, []byte(PlanarCodeHeaderBE)):
		data = data[len(PlanarCodeHeaderBE):]
		order = binary.BigEndian
	case bytes.HasPrefix(data, []byte(">>planar_code<<")):
		data = data[len(">>planar_code<<"):]
	}

	var graphs [][][3]int
	for len(data) > 0 {
		wide := data[0] == 0
		width := 1
		if wide {
			width = 2
			data = data[1:]
		}
		read := func() (int, error) {
			if len(data) < width {
				return 0, errors.Wrap(fullgen.ErrBadEncoding, "truncated planar code")
			}
			var x int
			if wide {
				x = int(order.Uint16(data))
			} else {
				x = int(data[0])
			}
			data = data[width:]
			return x, nil
		}

		n, err := read()
		if err != nil {
			return nil, err
		}
		adj := make([][3]int, n)
		for v := 0; v < n; v++ {
			for i := 0; ; i++ {
				w, err := read()
				if err != nil {
					return nil, err
				}
				if w == 0 {
					if i != 3 {
						return nil, errors.Wrapf(fullgen.ErrBadEncoding, "vertex %d has degree %d", v+1, i)
					}
					break
				}
				if i >= 3 || w > n {
					return nil, errors.Wrapf(fullgen.ErrBadEncoding, "vertex %d: bad neighbour list", v+1)
				}
				adj[v][i] = w - 1
			}
		}
		graphs = append(graphs, adj)
	}
	return graphs, nil
}
