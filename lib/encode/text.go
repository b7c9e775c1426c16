package encode

import (
	"io"
	"strconv"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// TextAdjacency writes "n: a b c, a b c, ..." with 1-based neighbours in rotation order, one graph per line.
type TextAdjacency struct{}

func (TextAdjacency) Header() []byte { return nil }
func (TextAdjacency) Flush(w io.Writer) error { return nil }
func (TextAdjacency) Ext() string { return "txt" }

func (TextAdjacency) Encode(w io.Writer, F *fullgen.Fullerene) error {
	_, err := w.Write(AppendTextAdjacency(nil, F.Adjacency))
	return err
}

func AppendTextAdjacency(buf []byte, adj [][3]int) []byte {
	buf = strconv.AppendInt(buf, int64(len(adj)), 10)
	buf = append(buf, ':')
	for v, nbrs := range adj {
		if v > 0 {
			buf = append(buf, ',')
		}
		for _, w := range nbrs {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(w+1), 10)
		}
	}
	return append(buf, '\n')
}

type AdjacencyExpr struct {
	NumVerts int        `@Int ":"`
	Rows     []*RowExpr `@@ ("," @@)*`
}

type RowExpr struct {
	Nbrs []int `@Int+`
}

var parseAdjacencyExpr = participle.MustBuild[AdjacencyExpr]()

// ParseTextAdjacency parses one line written by TextAdjacency back into zero-based rotation lists.
func ParseTextAdjacency(line string) ([][3]int, error) {
	expr, err := parseAdjacencyExpr.ParseString("", line)
	if err != nil {
		return nil, errors.Wrap(fullgen.ErrBadEncoding, err.Error())
	}
	if len(expr.Rows) != expr.NumVerts {
		return nil, errors.Wrapf(fullgen.ErrBadEncoding, "%d rows for %d vertices", len(expr.Rows), expr.NumVerts)
	}
	adj := make([][3]int, expr.NumVerts)
	for v, row := range expr.Rows {
		if len(row.Nbrs) != 3 {
			return nil, errors.Wrapf(fullgen.ErrBadEncoding, "vertex %d has degree %d", v+1, len(row.Nbrs))
		}
		for i, w := range row.Nbrs {
			if w < 1 || w > expr.NumVerts {
				return nil, errors.Wrapf(fullgen.ErrBadEncoding, "vertex %d: neighbour %d out of range", v+1, w)
			}
			adj[v][i] = w - 1
		}
	}
	return adj, nil
}
