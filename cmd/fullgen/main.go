package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/assemble"
	"github.com/2x3systems/fullgen/lib/canon"
	"github.com/2x3systems/fullgen/lib/catalog"
	"github.com/2x3systems/fullgen/lib/encode"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

var outDir = flag.String("out", ".", "directory for output and log files")

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	forwardVerbosity(fset, flag.CommandLine)

	err := run(fset, flag.Args())
	klog.Flush()

	if err != nil {
		fmt.Fprintf(os.Stderr, "fullgen: %v\n", err)
		if errors.Is(err, errUsage) {
			flag.Usage()
		}
	}
	os.Exit(exitCodeFor(err))
}

// forwardVerbosity copies -v from the command line to klog's FlagSet.  -v is registered on the default FlagSet by
// glog (linked in via badger), so klog would otherwise never see it.
func forwardVerbosity(fset, cmdline *flag.FlagSet) error {
	v := cmdline.Lookup("v")
	if v == nil {
		return nil
	}
	return fset.Set("v", v.Value.String())
}

func run(fset *flag.FlagSet, args []string) error {
	job, err := ParseArgs(args)
	if err != nil {
		return err
	}

	if job.Opts.VertexCount == 0 {
		return go_gpython(job.Script)
	}

	if err = job.Opts.Validate(); err != nil {
		return err
	}

	// Statistics go to a log file next to the output unless output is on stdout
	if !job.Stdout {
		if err = os.MkdirAll(*outDir, 0700); err != nil {
			return errors.Wrap(errOutput, err.Error())
		}
		fset.Set("logtostderr", "false")
		if job.LogErr {
			fset.Set("alsologtostderr", "true")
		}
		fset.Set("log_file", filepath.Join(*outDir, job.LogName()))
	}
	if job.Pid {
		klog.Infof("fullgen pid %d", os.Getpid())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = generate(ctx, job)
	if err == nil && job.Script != "" {
		err = go_gpython(job.Script)
	}
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type bufferedFile struct {
	*bufio.Writer
	file *os.File
}

func (bf *bufferedFile) Close() error {
	err := bf.Flush()
	if cerr := bf.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func createOutput(pathname string) (io.WriteCloser, error) {
	file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrap(errOutput, err.Error())
	}
	return &bufferedFile{bufio.NewWriterSize(file, 1<<16), file}, nil
}

// generate runs one job.  Everything that can fail on bad configuration (encoder, catalog, output files)
// is opened before the run is built and the search starts.
func generate(ctx context.Context, job *Job) error {
	if job.Quiet {
		job.Opts.Code = fullgen.CodeNone
	}
	enc, err := encode.New(job.Opts.Code)
	if err != nil {
		return err
	}
	if list, ok := enc.(*encode.SpiralList); ok {
		list.Limit = job.ListSize
	}

	var cat fullgen.Catalog
	if job.DbPath != "" {
		catCtx := fullgen.NewCatalogContext()
		defer func() {
			catCtx.Close()
			<-catCtx.Done()
		}()

		if cat, err = catalog.OpenCatalog(catCtx, fullgen.CatalogOpts{DbPathName: job.DbPath}); err != nil {
			if !errors.Is(err, fullgen.ErrBadCatalogParam) {
				err = errors.Wrap(fullgen.ErrBadCatalogParam, err.Error())
			}
			return err
		}
	}

	var out io.WriteCloser
	if job.Opts.Code != fullgen.CodeNone {
		if job.Stdout {
			out = nopCloser{os.Stdout}
		} else if out, err = createOutput(filepath.Join(*outDir, job.OutputName(enc.Ext()))); err != nil {
			return err
		}
	}

	var noPent io.WriteCloser
	if job.SpiralCheck && !job.Stdout {
		if noPent, err = createOutput(filepath.Join(*outDir, job.OutputName("no_pentagon_spiral"))); err != nil {
			if out != nil {
				out.Close()
			}
			return err
		}
	}

	run, err := assemble.NewRun(job.Opts)
	if err != nil {
		return err
	}
	klog.Infof("run %v: fullgen %v", run.ID, job.Opts)
	if cat != nil {
		if prev := cat.RunID(); prev != "" {
			klog.Infof("catalog %q: resuming after run %v", job.DbPath, prev)
		}
		cat.SetRunID(run.ID.String())
	}

	// configuration is settled: start searching
	stream := run.Start(ctx)

	var errs chan error
	if out != nil {
		errs = make(chan error, 1)
		stream = stream.Encode(enc, out, errs)
	}

	var noPentCount, badCount int64
	if job.SpiralCheck {
		stream = stream.Tap(func(F *fullgen.Fullerene) {
			if err := canon.VerifySpiral(F.NumVerts, F.Spiral, F.Jumps); err != nil {
				klog.Errorf("spiralcheck: %v", err)
				badCount++
			}
			if F.Faces[0] == 5 && len(F.Jumps) == 0 {
				return
			}
			noPentCount++
			if noPent != nil {
				noPent.Write(encode.AppendSpiralLine(nil, F.NumVerts, &F.Spiral, F.Jumps))
			}
		})
	}

	var seen int64
	if cat != nil {
		stream = stream.Tap(func(F *fullgen.Fullerene) {
			if !cat.TryAdd(F) {
				seen++
			}
		})
	}

	total := stream.PullAll()
	if errs != nil {
		if err = <-errs; err != nil {
			return errors.Wrap(errOutput, err.Error())
		}
	}
	if noPent != nil {
		if err = noPent.Close(); err != nil {
			return errors.Wrap(errOutput, err.Error())
		}
	}

	printStats(job, run.Stats())
	if cat != nil && seen > 0 {
		klog.Infof("catalog %q: %d of %d isomers were already present", job.DbPath, seen, total)
	}
	if job.SpiralCheck {
		klog.Infof("run %v: spiralcheck: %d isomers have no plain spiral starting at a pentagon, %d failed to rebuild",
			run.ID, noPentCount, badCount)
		if badCount > 0 {
			return errors.Errorf("spiralcheck: %d spirals failed to rebuild", badCount)
		}
	}
	klog.Infof("run %v: %d fullerenes in total", run.ID, total)
	return ctx.Err()
}

func printStats(job *Job, stats []fullgen.Stats) {
	for _, st := range stats {
		klog.Infof("n=%d: %d isomers (%d built, %d non-IPR rejected, %d caps)",
			st.NumVerts, st.Emitted, st.Built, st.NonIPR, st.CapsTried)

		if job.SpiStat {
			for c := fullgen.CaseBelt; c <= fullgen.CaseSandwich; c++ {
				klog.Infof("    %-9v %d", c, st.ByCase[c])
			}
			klog.Infof("    hexagon-start spirals %d", st.HexStart)
			klog.Infof("    generalized spirals %d", st.Jumped)
			klog.Infof("    lower caps replayed %d", st.LowerHits)
		}

		if job.SymStat {
			groups := make([]fullgen.PointGroup, 0, len(st.ByGroup))
			for g := range st.ByGroup {
				groups = append(groups, g)
			}
			sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
			for _, g := range groups {
				klog.Infof("    %-4v %d", g, st.ByGroup[g])
			}
		}
	}
}
