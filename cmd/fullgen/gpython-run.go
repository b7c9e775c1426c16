package main

import (
	"time"

	"github.com/go-python/gpython/py"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	_ "github.com/2x3systems/fullgen/pyfullgen"
	_ "github.com/go-python/gpython/stdlib"
)

// go_gpython runs the given script with the _fullgen module importable.
func go_gpython(pathname string) error {
	if len(pathname) == 0 {
		return errors.Wrap(errUsage, "no script given")
	}

	ctx := py.NewContext(py.DefaultContextOpts())

	startTime := time.Now()
	klog.Infof("<<<>>>   executing '%s'   <<<>>>", pathname)

	_, err := py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
	if err == nil {
		klog.Infof("<<<>>>   execution complete: %v   <<<>>>", time.Since(startTime))
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
		return errors.Wrap(errScript, err.Error())
	}
	return nil
}
