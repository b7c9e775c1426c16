package main

import (
	"github.com/2x3systems/fullgen/fullgen"
	"github.com/pkg/errors"
)

// Process exit codes.  Each usage error has its own code.
const (
	ExitOK                  = 0
	ExitRuntime             = 1
	ExitUsage               = 2
	ExitOddVertexCount      = 3
	ExitVertexCountTooSmall = 4
	ExitStartAboveMax       = 5
	ExitBadCase             = 6
	ExitBadResidue          = 7
	ExitBadCode             = 8
	ExitUnknownSymmetry     = 9
	ExitBadWorkerCount      = 10
	ExitOutput              = 11
	ExitCatalog             = 12
	ExitScript              = 13
	ExitVertexCountTooLarge = 14
)

var exitCodes = []struct {
	err  error
	code int
}{
	{fullgen.ErrOddVertexCount, ExitOddVertexCount},
	{fullgen.ErrVertexCountTooSmall, ExitVertexCountTooSmall},
	{fullgen.ErrVertexCountTooLarge, ExitVertexCountTooLarge},
	{fullgen.ErrStartAboveMax, ExitStartAboveMax},
	{fullgen.ErrBadCase, ExitBadCase},
	{fullgen.ErrBadResidue, ExitBadResidue},
	{fullgen.ErrBadCode, ExitBadCode},
	{fullgen.ErrUnknownSymmetry, ExitUnknownSymmetry},
	{fullgen.ErrBadWorkerCount, ExitBadWorkerCount},
	{fullgen.ErrBadCatalogParam, ExitCatalog},
	{errUsage, ExitUsage},
	{errOutput, ExitOutput},
	{errScript, ExitScript},
}

var (
	errUsage  = errors.New("usage")
	errOutput = errors.New("output")
	errScript = errors.New("script failed")
)

func exitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, ec := range exitCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ExitRuntime
}
