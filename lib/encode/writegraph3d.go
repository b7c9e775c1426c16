package encode

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/2x3systems/fullgen/fullgen"
)

const WriteGraph3DHeader = ">>writegraph3d planar <<\n"

// WriteGraph3D writes vertex coordinates on the unit sphere followed by 1-based neighbours, one vertex per line,
// each graph ending with a line "0".
type WriteGraph3D struct{}

func (WriteGraph3D) Header() []byte { return []byte(WriteGraph3DHeader) }
func (WriteGraph3D) Flush(w io.Writer) error { return nil }
func (WriteGraph3D) Ext() string { return "w3d" }

func (WriteGraph3D) Encode(w io.Writer, F *fullgen.Fullerene) error {
	pos := SphereLayout(F.Adjacency, 300)

	var buf strings.Builder
	for v, nbrs := range F.Adjacency {
		p := pos[v]
		fmt.Fprintf(&buf, "%d %.6f %.6f %.6f %d %d %d\n", v+1, p[0], p[1], p[2], nbrs[0]+1, nbrs[1]+1, nbrs[2]+1)
	}
	buf.WriteString("0\n")
	_, err := io.WriteString(w, buf.String())
	return err
}

type vec3 [3]float64

func (a vec3) add(b vec3) vec3 { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a vec3) sub(b vec3) vec3 { return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func (a vec3) scale(s float64) vec3 { return vec3{s * a[0], s * a[1], s * a[2]} }
func (a vec3) dot(b vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func (a vec3) norm() float64 { return math.Sqrt(a.dot(a)) }

func (a vec3) unit() vec3 {
	if l := a.norm(); l > 0 {
		return a.scale(1 / l)
	}
	return vec3{0, 0, 1}
}

// SphereLayout places the vertices of a plane map on the unit sphere.
//
// Vertices start on a golden-angle spiral in breadth-first order, then relax under edge springs and pairwise
// repulsion, projected back onto the sphere after every round.
func SphereLayout(adj [][3]int, rounds int) [][3]float64 {
	n := len(adj)
	pos := make([]vec3, n)

	order := make([]int, 0, n)
	seen := make([]bool, n)
	if n > 0 {
		order = append(order, 0)
		seen[0] = true
	}
	for i := 0; i < len(order); i++ {
		for _, w := range adj[order[i]] {
			if !seen[w] {
				seen[w] = true
				order = append(order, w)
			}
		}
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	for i, v := range order {
		z := 1 - (2*float64(i)+1)/float64(n)
		r := math.Sqrt(1 - z*z)
		pos[v] = vec3{r * math.Cos(golden*float64(i)), r * math.Sin(golden*float64(i)), z}
	}

	// ideal edge length for n points spread evenly over the sphere
	edgeLen := math.Sqrt(8 * math.Pi / (3 * math.Sqrt(3) * float64(n)))
	if n < 4 {
		edgeLen = 1
	}

	force := make([]vec3, n)
	for round := 0; round < rounds; round++ {
		step := 0.1 * (1 - float64(round)/float64(rounds+1))
		for v := range force {
			force[v] = vec3{}
		}
		for v := 0; v < n; v++ {
			for _, w := range adj[v] {
				d := pos[w].sub(pos[v])
				force[v] = force[v].add(d.scale(d.norm() - edgeLen))
			}
			for w := v + 1; w < n; w++ {
				d := pos[v].sub(pos[w])
				l2 := d.dot(d) + 1e-9
				push := d.scale(edgeLen * edgeLen / (l2 * float64(n)))
				force[v] = force[v].add(push)
				force[w] = force[w].sub(push)
			}
		}
		for v := range pos {
			pos[v] = pos[v].add(force[v].scale(step)).unit()
		}
	}

	out := make([][3]float64, n)
	for v, p := range pos {
		out[v] = p
	}
	return out
}
