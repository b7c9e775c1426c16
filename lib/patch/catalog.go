package patch

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/embed"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Entry describes one catalog patch.
type Entry struct {
	Code     Code
	Hexagons int
	Ring     int // open stubs on the patch boundary
	Verts    int
	Gaps     GapSequence
}

// Catalog holds every spiral patch that ends with its k-th pentagon, for k = 1..6.  Patches start with a pentagon,
// or with HexStarts set, also with a run of hexagons.
//
// The 6-pentagon level (the caps) is indexed by a Trie on (hexagons, gap sequence) and a BBList on (hexagons, ring).
// A Catalog is read-only after Build and may be shared between goroutines.
type Catalog struct {
	MaxVerts    int
	MaxHexagons int
	IPR         bool
	HexStarts   bool

	levels [fullgen.MaxPatchPentagons + 1][]Entry
	Caps   *Trie
	Rings  *BBList
}

// NewCatalog returns an empty catalog for fullerenes up to maxVerts vertices.
func NewCatalog(maxVerts int, ipr bool) *Catalog {
	return &Catalog{
		MaxVerts:    maxVerts,
		MaxHexagons: maxVerts/2 + 2 - fullgen.NumPentagons,
		IPR:         ipr,
		Caps:        NewTrie(),
		Rings:       NewBBList(),
	}
}

// Build fills the catalog bottom-up: each k+1 pentagon patch wraps a run of hexagons and one pentagon
// around a stored k pentagon patch, reusing its code.
func (cat *Catalog) Build() {
	e := embed.New(cat.MaxVerts)

	first := EncodePatch([]int{1})
	stub, g := e.AddBareCycle(5)
	cat.add(1, cat.entry(e, stub, first))
	g.Release()

	if cat.HexStarts {
		cat.hexagonRun(e)
	}

	for k := 1; k < fullgen.MaxPatchPentagons; k++ {
		for _, parent := range cat.levels[k] {
			cat.wrap(e, k, parent)
		}
		klog.V(2).Infof("patch catalog: %d patches with %d pentagons", len(cat.levels[k+1]), k+1)
	}
}

func (cat *Catalog) entry(e *embed.Embedding, stub embed.Dart, code Code) Entry {
	return Entry{
		Code:     code,
		Hexagons: code.Last() - code.NumPentagons(),
		Ring:     e.NumStubs(),
		Verts:    e.NumVerts(),
		Gaps:     ComputeGapSequence(e, stub),
	}
}

func (cat *Catalog) add(k int, ent Entry) {
	cat.levels[k] = append(cat.levels[k], ent)
	if k == fullgen.MaxPatchPentagons {
		cat.Caps.Insert(ent.Hexagons, ent.Gaps, ent.Code)
		cat.Rings.Insert(ent.Hexagons, ent.Ring, ent.Code)
	}
}

// Fits reports if an s-gon fits at stub within maxVerts and leaves at least two stubs open.
func Fits(e *embed.Embedding, s int, stub embed.Dart, maxVerts int) bool {
	c := e.CommonVertices(stub)
	if s < c || e.NumStubs()+s-c-2 == 1 {
		return false
	}
	if s == c {
		return e.NumStubs() > 2
	}
	return e.NumVerts()+s-c <= maxVerts
}

// hexagonRun adds the single-pentagon patches whose spiral starts with j >= 1 hexagons.
func (cat *Catalog) hexagonRun(e *embed.Embedding) {
	stub, g := e.AddBareCycle(6)
	guards := []embed.Guard{g}

	for j := 1; j <= cat.MaxHexagons; j++ {
		if Fits(e, 5, stub, cat.MaxVerts) {
			next, g := e.AttachPolygon(5, stub)
			cat.add(1, cat.entry(e, next, EncodePatch([]int{j + 1})))
			g.Release()
		}
		if j == cat.MaxHexagons || !Fits(e, 6, stub, cat.MaxVerts) {
			break
		}
		next, g := e.AttachPolygon(6, stub)
		guards = append(guards, g)
		stub = next
	}
	embed.ReleaseAll(guards)
}

func (cat *Catalog) wrap(e *embed.Embedding, k int, parent Entry) {
	stub, guards := cat.Rebuild(e, parent.Code)
	last := parent.Code.Last()

	var hexGuards []embed.Guard
	for j := 0; parent.Hexagons+j <= cat.MaxHexagons; j++ {
		if Fits(e, 5, stub, cat.MaxVerts) {
			next, g := e.AttachPolygon(5, stub)
			if !cat.IPR || !e.AdjacentToPentagon(stub) {
				cat.add(k+1, cat.entry(e, next, parent.Code.Extend(last+j+1)))
			}
			g.Release()
		}
		if parent.Hexagons+j+1 > cat.MaxHexagons || !Fits(e, 6, stub, cat.MaxVerts) {
			break
		}
		next, g := e.AttachPolygon(6, stub)
		hexGuards = append(hexGuards, g)
		stub = next
	}

	embed.ReleaseAll(hexGuards)
	embed.ReleaseAll(guards)
}

// Rebuild replays a catalog code into an empty embedding and returns the stub where the spiral continues.
func (cat *Catalog) Rebuild(e *embed.Embedding, code Code) (embed.Dart, []embed.Guard) {
	stub, guards, err := AttachSpiral(e, code.FaceSizes())
	if err != nil {
		panic(errors.Wrapf(fullgen.ErrInvariant, "catalog code %x does not rebuild: %v", uint64(code), err))
	}
	return stub, guards
}

// Level returns the stored patches with k pentagons.
func (cat *Catalog) Level(k int) []Entry {
	return cat.levels[k]
}

// NumCaps returns the number of 6 pentagon patches.
func (cat *Catalog) NumCaps() int {
	return len(cat.levels[fullgen.MaxPatchPentagons])
}
