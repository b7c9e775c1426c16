package pyfullgen

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/2x3systems/fullgen/fullgen"
	"github.com/2x3systems/fullgen/lib/assemble"
	"github.com/2x3systems/fullgen/lib/catalog"
	"github.com/2x3systems/fullgen/lib/encode"
	"github.com/2x3systems/fullgen/lib/symmetry"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyStreamType    = py.NewType("FullereneStream", "a stream of canonical fullerenes")
	pyCatalogType   = py.NewType("Catalog", "a store of generated isomers")
	pyWorkspaceType = py.NewType("Workspace", "collects active session resources and catalogs")
)

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

func runtimeErr(err error) error {
	return py.ExceptionNewf(py.RuntimeError, "%v", err)
}

// Arg 1 (int): max vertex count
// Arg 2 (bool): IPR only
// Arg 3 (int): structural case
// Arg 4 (int): start vertex count
func py_Generate(module py.Object, args py.Tuple) (py.Object, error) {
	var (
		numVerts, genCase, start int32
		ipr                      bool
	)
	err := py.LoadTuple(args, []interface{}{&numVerts, &ipr, &genCase, &start})
	if err != nil {
		return nil, err
	}

	opts := fullgen.DefaultOptions(int(numVerts))
	opts.IPR = ipr
	opts.Case = fullgen.Case(genCase)
	opts.StartCount = int(start)
	opts.Symmetry = true

	stream, _, err := assemble.Generate(context.Background(), opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return wrapStream(stream), nil
}

// Arg 1 (int): vertex count
// Arg 2 (bool): IPR only
func py_Count(module py.Object, args py.Tuple) (py.Object, error) {
	var numVerts int32
	var ipr bool
	err := py.LoadTuple(args, []interface{}{&numVerts, &ipr})
	if err != nil {
		return nil, err
	}

	opts := fullgen.DefaultOptions(int(numVerts))
	opts.IPR = ipr
	count, err := assemble.Count(context.Background(), opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Int(count), nil
}

// Arg 1 (int): vertex count
// Arg 2 (str): spiral, e.g. "1,7,9,11,13,15,18,20,22,24,26,32"
func py_Symmetry(module py.Object, args py.Tuple) (py.Object, error) {
	var numVerts int32
	var spiralStr string
	err := py.LoadTuple(args, []interface{}{&numVerts, &spiralStr})
	if err != nil {
		return nil, err
	}

	sp, err := fullgen.ParseSpiral(spiralStr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	symm, err := symmetry.OfSpiral(int(numVerts), sp)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.String(symm.Group.String()), nil
}

type Workspace struct {
	CatalogCtx fullgen.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: fullgen.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// Arg 1 (str): db pathname ("" for in-memory)
// Arg 2 (int): flags
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := fullgen.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}
	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, runtimeErr(err)
	}
	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	fullgen.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_NumIsomers(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	numVerts, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumIsomers(int(numVerts))), nil
}

// Select returns a tuple of "n: spiral" strings.
//
// Arg 1 (int): min vertex count
// Arg 2 (int): max vertex count
// kwargs: group (str), ipr (bool)
func py_Catalog_Select(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	cat := self.(pyCatalog)

	var minVerts, maxVerts int32
	if err := py.LoadTuple(args, []interface{}{&minVerts, &maxVerts}); err != nil {
		return nil, err
	}
	sel := fullgen.Selector{
		MinVerts: int(minVerts),
		MaxVerts: int(maxVerts),
	}

	var label string
	py.LoadAttr(kwargs, "group", &label)
	py.LoadAttr(kwargs, "ipr", &sel.IPROnly)
	if label != "" {
		var err error
		if sel.Group, err = fullgen.ParseLabel(label); err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
	}

	var hits py.Tuple
	var buf []byte
	for rec := range fullgen.SelectFromCatalog(cat, sel) {
		buf = encode.AppendSpiralLine(buf[:0], rec.NumVerts, &rec.Spiral, rec.Jumps)
		hits = append(hits, py.String(buf[:len(buf)-1]))
	}
	return hits, nil
}

type fullereneStream struct {
	*fullgen.Stream
}

func (stream fullereneStream) Type() *py.Type {
	return pyStreamType
}

func wrapStream(stream *fullgen.Stream) py.Object {
	return py.Object(fullereneStream{stream})
}

func py_Stream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(fullereneStream)
	return py.Int(stream.PullAll()), nil
}

// Spirals drains the stream and returns a tuple of canonical spiral strings, generalized ones followed by their jumps.
func py_Stream_Spirals(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(fullereneStream)
	var spirals py.Tuple
	for _, F := range stream.Collect() {
		buf := F.Spiral.AppendText(nil)
		if len(F.Jumps) > 0 {
			buf = append(buf, " jumps "...)
			buf = F.Jumps.AppendText(buf)
		}
		spirals = append(spirals, py.String(buf))
	}
	return spirals, nil
}

func py_Stream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(fullereneStream)
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "catalog is in read-only mode")
	}
	return wrapStream(stream.AddTo(cat)), nil
}

func py_Stream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(fullereneStream)
	set := catalog.NewCodeSet()
	next := stream.AddTo(set)

	// close the set once the deduped stream is drained
	out := fullgen.NewStream()
	go func() {
		for F := range next.Outlet {
			out.Outlet <- F
		}
		set.Close()
		out.Close()
	}()
	return wrapStream(out), nil
}

// Arg 1 (str): point group label
func py_Stream_SelectGroup(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(fullereneStream)
	var label string
	if err := py.LoadTuple(args, []interface{}{&label}); err != nil {
		return nil, err
	}
	group, err := fullgen.ParseLabel(label)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	next := stream.Select(func(F *fullgen.Fullerene) bool {
		return F.Group.Group == group
	})
	return wrapStream(next), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Print writes each fullerene with the given output code (default: spiral text) to stdout or file=pathname.
func py_Stream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(fullereneStream)

	code := int32(fullgen.CodeSpiral)
	var pathname string
	py.LoadTuple(args, []interface{}{&code})
	py.LoadAttr(kwargs, "file", &pathname)

	enc, err := encode.New(fullgen.OutputCode(code))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}

	var out io.WriteCloser = nopCloser{os.Stdout}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)
		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		out = file
	}

	next := stream.Encode(enc, out, nil)
	return wrapStream(next), nil
}

func py_GroupLabels(module py.Object, args py.Tuple) (py.Object, error) {
	groups := fullgen.AllPointGroups()
	labels := make(py.Tuple, len(groups))
	for i, g := range groups {
		labels[i] = py.String(g.String())
	}
	return labels, nil
}

func init() {

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "returns the selected isomers as 'n: spiral' strings")
		pyCatalogType.Dict["NumIsomers"] = py.MustNewMethod("NumIsomers", py_Catalog_NumIsomers, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// FullereneStream
	{
		pyStreamType.Dict["Go"] = py.MustNewMethod("Go", py_Stream_Go, 0, "counts the number of fullerenes output from the stream")
		pyStreamType.Dict["Spirals"] = py.MustNewMethod("Spirals", py_Stream_Spirals, 0, "")
		pyStreamType.Dict["Print"] = py.MustNewMethod("Print", py_Stream_Print, 0, "writes each fullerene from the stream")
		pyStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_Stream_AddTo, 0, "")
		pyStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_Stream_DropDupes, 0, "")
		pyStreamType.Dict["SelectGroup"] = py.MustNewMethod("SelectGroup", py_Stream_SelectGroup, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Generate", py_Generate, 0, "Generate(n, ipr=False, case=0, start=0) streams canonical fullerenes"),
			py.MustNewMethod("Count", py_Count, 0, "Count(n, ipr=False) returns the number of isomers"),
			py.MustNewMethod("Symmetry", py_Symmetry, 0, "Symmetry(n, spiral) returns the point group label"),
			py.MustNewMethod("GroupLabels", py_GroupLabels, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MIN_VTX":     py.Int(fullgen.MinVertexCount),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_fullgen",
				Doc:  "fullerene generator gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
