package embed

// NewMark starts a new generation of dart and vertex marks, clearing all previous marks in O(1).
func (e *Embedding) NewMark() {
	e.mark++
	if e.mark == 0 {
		for i := range e.dartMark {
			e.dartMark[i] = 0
		}
		for i := range e.vtxMark {
			e.vtxMark[i] = 0
		}
		e.mark = 1
	}
}

// MarkEdge marks d and its mate as belonging to the current patch.
func (e *Embedding) MarkEdge(d Dart) {
	e.dartMark[d] = e.mark
	if m := e.darts[d].mate; m != NoDart {
		e.dartMark[m] = e.mark
	}
}

// InPatch returns true if d was marked since the last NewMark.
func (e *Embedding) InPatch(d Dart) bool {
	return e.dartMark[d] == e.mark
}

// MarkVertex marks v and gives it the name used to build vertex permutations.
func (e *Embedding) MarkVertex(v int32, name int32) {
	e.vtxMark[v] = e.mark
	e.names[v] = name
}

// Visited returns true if v was marked since the last NewMark.
func (e *Embedding) Visited(v int32) bool {
	return e.vtxMark[v] == e.mark
}

// Name returns the name most recently given to v by MarkVertex.
func (e *Embedding) Name(v int32) int32 {
	return e.names[v]
}
