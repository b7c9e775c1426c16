package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

const usageText = `usage: fullgen [flags] n [ipr] [start N] [code K] [case C] [mod R M] [symm L]
               [symstat] [spistat] [spiralcheck] [hexspi] [jumps] [quiet] [list N] [logerr] [pid]
               [stdout] [db PATH] [workers W] [noprune] [script FILE]
       fullgen [flags] script FILE

codes: 0 none, 1 planar, 2 spiral, 3 spiral list, 4 face spiral, 5 writegraph3d, 6 dual planar, 7 sparse6, 8 text
cases: 0 all, 1 belt, 2 dumbbell, 3 sandwich
`

// CmdLine is the positional part of the command line, in any order after n.
type CmdLine struct {
	NumVerts int       `@Int?`
	Args     []*CmdArg `@@*`
}

type CmdArg struct {
	IPR     bool    `  @"ipr"`
	Start   *int    `| "start" @Int`
	Code    *int    `| "code" @Int`
	Case    *int    `| "case" @Int`
	Mod     *ModArg `| "mod" @@`
	Symm    *string `| "symm" @Ident`
	SymStat bool    `| @"symstat"`
	SpiStat bool    `| @"spistat"`
	SpiChk  bool    `| @"spiralcheck"`
	HexSpi  bool    `| @"hexspi"`
	Jumps   bool    `| @"jumps"`
	Quiet   bool    `| @"quiet"`
	List    *int    `| "list" @Int`
	LogErr  bool    `| @"logerr"`
	Pid     bool    `| @"pid"`
	Stdout  bool    `| @"stdout"`
	Db      *string `| "db" @(Path | Ident)`
	Workers *int    `| "workers" @Int`
	NoPrune bool    `| @"noprune"`
	Script  *string `| "script" @(Path | Ident)`
}

type ModArg struct {
	Rest int `@Int`
	Mod  int `@Int`
}

var cmdLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Path", Pattern: `[^\s]*[./\\][^\s]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
})

var parseCmdLine = participle.MustBuild[CmdLine](
	participle.Lexer(cmdLexer),
	participle.Elide("Whitespace"),
)

// Job is everything a command line asks for.
type Job struct {
	Opts        fullgen.Options
	Quiet       bool
	Stdout      bool
	SymStat     bool
	SpiStat     bool
	SpiralCheck bool // rebuild every spiral, and report isomers without a plain spiral starting at a pentagon
	ListSize    int  // spiral list encoder writes out every ListSize distinct spirals (0: once, at the end)
	LogErr      bool // log to stderr as well as the log file
	Pid         bool // log the process id and name the log file after it
	DbPath      string
	Script      string
}

// ParseArgs parses positional arguments into a Job.  Options are validated later, by the generator.
func ParseArgs(args []string) (*Job, error) {
	line := strings.Join(args, " ")
	cmd, err := parseCmdLine.ParseString("", line)
	if err != nil {
		return nil, errors.Wrap(errUsage, err.Error())
	}

	job := &Job{
		Opts: fullgen.DefaultOptions(cmd.NumVerts),
	}
	opts := &job.Opts
	for _, arg := range cmd.Args {
		switch {
		case arg.IPR:
			opts.IPR = true
		case arg.Start != nil:
			opts.StartCount = *arg.Start
		case arg.Code != nil:
			opts.Code = fullgen.OutputCode(*arg.Code)
		case arg.Case != nil:
			opts.Case = fullgen.Case(*arg.Case)
		case arg.Mod != nil:
			opts.Rest, opts.Mod = arg.Mod.Rest, arg.Mod.Mod
			if opts.Mod <= 0 {
				return nil, errors.Wrapf(fullgen.ErrBadResidue, "mod %d", opts.Mod)
			}
		case arg.Symm != nil:
			if opts.SymmFilter, err = fullgen.ParseLabel(*arg.Symm); err != nil {
				return nil, err
			}
		case arg.SymStat:
			job.SymStat = true
			opts.Symmetry = true
		case arg.SpiStat:
			job.SpiStat = true
		case arg.SpiChk:
			job.SpiralCheck = true
		case arg.HexSpi:
			opts.HexStarts = true
		case arg.Jumps:
			opts.Jumps = true
		case arg.Quiet:
			job.Quiet = true
		case arg.List != nil:
			if *arg.List <= 0 {
				return nil, errors.Wrap(errUsage, "list size must be positive")
			}
			job.ListSize = *arg.List
		case arg.LogErr:
			job.LogErr = true
		case arg.Pid:
			job.Pid = true
		case arg.Stdout:
			job.Stdout = true
		case arg.Db != nil:
			job.DbPath = *arg.Db
		case arg.Workers != nil:
			opts.Workers = *arg.Workers
		case arg.NoPrune:
			opts.NoPrune = true
		case arg.Script != nil:
			job.Script = *arg.Script
		}
	}

	if cmd.NumVerts == 0 && job.Script == "" {
		return nil, errors.Wrap(errUsage, "missing vertex count")
	}
	return job, nil
}

// LogName returns the name of the statistics log, e.g. "full_gen_60_ipr.log" or, with pid, "full_gen_60_ipr.4711.log".
func (job *Job) LogName() string {
	if job.Pid {
		return job.OutputName(fmt.Sprintf("%d.log", os.Getpid()))
	}
	return job.OutputName("log")
}

// OutputName returns the name of the output file, e.g. "full_gen_60_ipr_case1_mod0_3.spiral".
func (job *Job) OutputName(ext string) string {
	opts := &job.Opts
	var b strings.Builder
	fmt.Fprintf(&b, "full_gen_%d", opts.VertexCount)
	if opts.IPR {
		b.WriteString("_ipr")
	}
	if opts.Case != fullgen.CaseAll {
		fmt.Fprintf(&b, "_case%d", opts.Case)
	}
	if opts.Mod > 1 {
		fmt.Fprintf(&b, "_mod%d_%d", opts.Rest, opts.Mod)
	}
	if ext != "" {
		b.WriteString(".")
		b.WriteString(ext)
	}
	return b.String()
}
