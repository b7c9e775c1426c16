package assemble

import (
	"context"
	"sync"
	"time"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/patch"
	"github.com/google/uuid"
	"github.com/plan-systems/klog"
)

// Run is one generation run over a range of vertex counts.
type Run struct {
	ID      uuid.UUID
	Opts    fullgen.Options
	Catalog *patch.Catalog

	mu    sync.Mutex
	stats []fullgen.Stats
}

// NewRun validates opts and builds the patch catalog for the largest vertex count.
func NewRun(opts fullgen.Options) (*Run, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	run := &Run{
		ID:   uuid.New(),
		Opts: opts,
	}

	hexStarts := opts.HexStarts || opts.VertexCount > fullgen.PentagonSpiralBound
	if opts.VertexCount >= fullgen.MinSpiralFreeVertexCount && !opts.Jumps {
		run.Opts.Jumps = true
		klog.V(1).Infof("run %v: growing generalized spirals from %d vertices on", run.ID, fullgen.MinSpiralFreeVertexCount)
	}

	t0 := time.Now()
	run.Catalog = patch.NewCatalog(opts.VertexCount, opts.IPR && !opts.NoPrune)
	run.Catalog.HexStarts = hexStarts
	run.Catalog.Build()
	klog.V(1).Infof("run %v: catalog of %d caps built in %v (hexagon starts %v)",
		run.ID, run.Catalog.NumCaps(), time.Since(t0), hexStarts)
	return run, nil
}

// Generate validates opts and streams every canonical fullerene they select.
func Generate(ctx context.Context, opts fullgen.Options) (*fullgen.Stream, *Run, error) {
	run, err := NewRun(opts)
	if err != nil {
		return nil, nil, err
	}
	return run.Start(ctx), run, nil
}

// Start launches the search and returns the stream of accepted fullerenes.
//
// Vertex counts are searched in increasing order.  The stream closes when the search completes or ctx is done.
func (run *Run) Start(ctx context.Context) *fullgen.Stream {
	out := fullgen.NewStream()

	emit := func(F *fullgen.Fullerene) bool {
		select {
		case out.Outlet <- F:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer out.Close()
		for n := run.Opts.StartCount; n <= run.Opts.VertexCount; n += 2 {
			if ctx.Err() != nil {
				return
			}
			st := run.searchVertexCount(ctx, n, emit)
			run.mu.Lock()
			run.stats = append(run.stats, st)
			run.mu.Unlock()
			klog.Infof("run %v: n=%d built %d accepted %d emitted %d (belt %d, dumbbell %d, sandwich %d, hexagon start %d, jumps %d)",
				run.ID, n, st.Built, st.Accepted, st.Emitted,
				st.ByCase[fullgen.CaseBelt], st.ByCase[fullgen.CaseDumbbell], st.ByCase[fullgen.CaseSandwich], st.HexStart, st.Jumped)
		}
	}()

	return out
}

// searchVertexCount runs all workers for one vertex count.
//
// With W workers, worker i takes the residue Rest + i*Mod modulo Mod*W, which together cover (Rest, Mod) exactly.
func (run *Run) searchVertexCount(ctx context.Context, n int, emit func(F *fullgen.Fullerene) bool) fullgen.Stats {
	opts := &run.Opts
	W := opts.Workers

	total := fullgen.Stats{NumVerts: n}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < W; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sc := newSearchContext(ctx, opts, run.Catalog, opts.Mod*W, opts.Rest+i*opts.Mod, emit)
			sc.setVertexCount(n)
			for _, rg := range regimes {
				sc.run(rg)
				klog.V(2).Infof("n=%d worker %d: %v corridors done, %d caps tried", n, i, rg, sc.Stats.CapsTried)
			}
			if run.jumps(n) {
				sc.runJumps()
				klog.V(2).Infof("n=%d worker %d: generalized spirals done, %d with jumps", n, i, sc.Stats.Jumped)
			}
			if sc.lower != nil {
				klog.V(2).Infof("n=%d worker %d: %d lower caps under %d boundaries, %d hits",
					n, i, sc.lower.Len(), sc.lower.NumKeys(), sc.Stats.LowerHits)
			}
			mu.Lock()
			total.Add(&sc.Stats)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	return total
}

// jumps returns true if generalized spirals are grown for n vertices: on request, or wherever a fullerene may
// lack a plain spiral.
func (run *Run) jumps(n int) bool {
	return run.Opts.Jumps && (run.Opts.VertexCount < fullgen.MinSpiralFreeVertexCount || n >= fullgen.MinSpiralFreeVertexCount)
}

// Stats returns the per vertex count statistics gathered so far.
func (run *Run) Stats() []fullgen.Stats {
	run.mu.Lock()
	defer run.mu.Unlock()
	return append([]fullgen.Stats(nil), run.stats...)
}

// Count returns the number of fullerenes selected by opts.
func Count(ctx context.Context, opts fullgen.Options) (int, error) {
	stream, _, err := Generate(ctx, opts)
	if err != nil {
		return 0, err
	}
	return stream.PullAll(), nil
}
