package canon

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
)

// Start is a candidate spiral start: a dart and an orientation.
type Start struct {
	Dart   embed.Dart
	Mirror bool
}

// GeneratingStart is the start that reproduces the spiral a map was built from:
// the stub of the first vertex of the first face, unmirrored.
var GeneratingStart = Start{Dart: 2}

// Code is a generalized face spiral: Faces[k] is the size of face k and Skips[k] the number of boundary runs
// skipped before it was placed.  Skips is nil for a plain spiral.
//
// Codes order by the number of jumps (faces with Skips[k] > 0) first, then face by face on (Skips[k], Faces[k]).
type Code struct {
	Faces []int8
	Skips []int8
}

// PlainCode wraps the face sizes of a spiral without jumps.
func PlainCode(faces []int8) Code {
	return Code{Faces: faces}
}

func (c Code) skip(k int) int8 {
	if c.Skips == nil {
		return 0
	}
	return c.Skips[k]
}

// NumJumps returns the number of faces placed after a jump.
func (c Code) NumJumps() int {
	n := 0
	for _, s := range c.Skips {
		if s > 0 {
			n++
		}
	}
	return n
}

// Jumps lists the jumps of the code with 1-based face numbers.
func (c Code) Jumps() fullgen.Jumps {
	var js fullgen.Jumps
	for k, s := range c.Skips {
		if s > 0 {
			js = append(js, fullgen.Jump{Face: k + 1, Length: int(s)})
		}
	}
	return js
}

// CodeWithJumps expands face sizes and a jump list into a Code.
func CodeWithJumps(faces []int8, js fullgen.Jumps) Code {
	c := Code{Faces: faces}
	if len(js) == 0 {
		return c
	}
	c.Skips = make([]int8, len(faces))
	for _, j := range js {
		if j.Face >= 1 && j.Face <= len(faces) {
			c.Skips[j.Face-1] = int8(j.Length)
		}
	}
	return c
}

func (c Code) clone() Code {
	out := Code{Faces: append([]int8(nil), c.Faces...)}
	if c.NumJumps() > 0 {
		out.Skips = append([]int8(nil), c.Skips...)
	}
	return out
}

// outcome of one replay compared against a reference code
type outcome int8

const (
	replayFailed  outcome = iota // the spiral from this start does not exist
	replayLarger                 // larger than the reference (possibly abandoned early)
	replayEqual                  // identical to the reference
	replaySmaller                // completed and smaller than the reference
)

// replayer re-derives face spirals from arbitrary starts on a closed map.
//
// Where the face at the current stub meets the spiral again before the end of its boundary run, the spiral cannot
// continue there and jumps ahead to the next run, which makes every start yield a (generalized) spiral.
type replayer struct {
	e        *embed.Embedding
	seq      []int8  // face sizes of the latest replay
	skips    []int8  // runs skipped before each face of the latest replay
	numJumps int     // faces of the latest replay placed after a jump
	order    []int32 // vertices in discovery order of the latest replay
}

func newReplayer(e *embed.Embedding) *replayer {
	n := e.NumVerts()
	return &replayer{
		e:     e,
		seq:   make([]int8, 0, n/2+2),
		skips: make([]int8, 0, n/2+2),
		order: make([]int32, 0, n),
	}
}

// code returns the latest replay as a Code sharing the replayer's buffers.
func (r *replayer) code() Code {
	c := Code{Faces: r.seq}
	if r.numJumps > 0 {
		c.Skips = r.skips
	}
	return c
}

func (r *replayer) discover(v int32) {
	r.e.MarkVertex(v, int32(len(r.order)))
	r.order = append(r.order, v)
}

// markFace marks every edge of the face traced from d by next(Mate(.)).
func (r *replayer) markFace(d embed.Dart, pv embed.Rotation) {
	e := r.e
	x := d
	for {
		e.MarkEdge(x)
		x = pv(e.Mate(x))
		if x == d {
			return
		}
	}
}

// comparison tracks a replay against a reference code token by token.
type comparison struct {
	ref      Code
	refJumps int
	state    outcome // replayEqual until the first differing token, then replaySmaller or replayLarger
}

// add compares the next token and returns false once the replay is known to be larger.
func (cmp *comparison) add(r *replayer, s, skip int) bool {
	k := len(r.seq)
	r.seq = append(r.seq, int8(s))
	r.skips = append(r.skips, int8(skip))
	if skip > 0 {
		r.numJumps++
	}
	if cmp.ref.Faces == nil {
		return true
	}
	if r.numJumps > cmp.refJumps {
		return false
	}
	if cmp.state != replayEqual {
		return true
	}
	if k >= len(cmp.ref.Faces) {
		return false
	}

	rs, rf := int(cmp.ref.skip(k)), int(cmp.ref.Faces[k])
	switch {
	case skip > rs || skip == rs && s > rf:
		// fewer jumps later on could still undercut the reference
		if r.numJumps >= cmp.refJumps {
			return false
		}
		cmp.state = replayLarger
	case skip < rs || s < rf:
		cmp.state = replaySmaller
	}
	return true
}

// result is the final verdict once the replay completed.
func (cmp *comparison) result(r *replayer) outcome {
	if cmp.ref.Faces == nil {
		return replayEqual
	}
	if r.numJumps < cmp.refJumps {
		return replaySmaller
	}
	if cmp.state == replayEqual && len(r.seq) != len(cmp.ref.Faces) {
		return replayFailed
	}
	return cmp.state
}

// run replays the spiral from st, comparing it against ref as it goes (a zero ref disables comparison).
//
// A replay known to be larger than ref is abandoned; one that is smaller runs to completion.
func (r *replayer) run(st Start, ref Code) outcome {
	e := r.e
	nx, pv := embed.Rotation(embed.Next), embed.Rotation(embed.Prev)
	if st.Mirror {
		nx, pv = pv, nx
	}

	e.NewMark()
	r.seq = r.seq[:0]
	r.skips = r.skips[:0]
	r.numJumps = 0
	r.order = r.order[:0]

	cmp := comparison{ref: ref, refJumps: ref.NumJumps(), state: replayEqual}

	t := st.Dart
	pentagons := 0

	// first face
	{
		d0 := nx(t)
		size := 0
		for x := d0; ; {
			r.discover(x.Vertex())
			e.MarkEdge(x)
			size++
			x = pv(e.Mate(x))
			if x == d0 {
				break
			}
			if size > 6 {
				return replayFailed
			}
		}
		if size != 5 && size != 6 {
			return replayFailed
		}
		if size == 5 {
			pentagons++
		}
		if !cmp.add(r, size, 0) {
			return replayLarger
		}
	}

	stubs := len(r.order)
	cur := t
	skipped := 0
	for stubs > 0 {

		// boundary run from cur to the next stub
		c := 1
		tb := embed.NoDart
		for d := nx(cur); c <= 6; {
			c++
			x := nx(e.Mate(d))
			if !e.InPatch(x) {
				tb = x
				break
			}
			d = x
		}
		if tb == embed.NoDart || tb == cur {
			return replayFailed
		}

		// the face at cur must re-enter the spiral exactly at tb; if it touches it earlier, jump to the next run
		q := 0
		x := cur
		for !e.Visited(e.Target(x)) {
			q++
			if c+q > 6 {
				return replayFailed
			}
			x = pv(e.Mate(x))
		}
		if e.Mate(x) != tb {
			skipped++
			if skipped >= stubs {
				return replayFailed
			}
			cur = tb
			continue
		}

		a := cur.Vertex()
		for x = cur; !e.Visited(e.Target(x)); x = pv(e.Mate(x)) {
			r.discover(e.Target(x))
		}
		s := c + q
		if s != 5 && s != 6 {
			return replayFailed
		}
		if s == 5 {
			pentagons++
		}
		if !cmp.add(r, s, skipped) {
			return replayLarger
		}
		skipped = 0
		r.markFace(cur, pv)
		stubs += q - 2

		if stubs == 0 {
			break
		}
		if q > 0 {
			wq := r.order[len(r.order)-1]
			next := embed.NoDart
			for i := embed.Dart(0); i < 3; i++ {
				if d := embed.Dart(3*wq) + i; !e.InPatch(d) {
					next = d
				}
			}
			if next == embed.NoDart {
				return replayFailed
			}
			cur = next
		} else {
			d := pv(cur)
			for i := 0; ; i++ {
				if i > e.NumVerts() || d.Vertex() == a && i > 0 {
					return replayFailed
				}
				y := pv(e.Mate(d))
				if !e.InPatch(y) {
					cur = y
					break
				}
				d = y
			}
		}
	}

	final := 6
	if pentagons == fullgen.NumPentagons-1 {
		final = 5
	}
	if !cmp.add(r, final, 0) {
		return replayLarger
	}
	if len(r.order) != e.NumVerts() {
		return replayFailed
	}
	return cmp.result(r)
}
