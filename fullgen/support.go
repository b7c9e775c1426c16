package fullgen

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[Catalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.closing
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	openCount    sync.WaitGroup
	openCatalogs map[Catalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.openCount.Add(1)
	ctx.mu.Lock()
	ctx.openCatalogs[cat] = struct{}{}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.mu.Lock()
	open := make([]Catalog, 0, len(ctx.openCatalogs))
	for cat := range ctx.openCatalogs {
		open = append(open, cat)
	}
	ctx.mu.Unlock()

	close(ctx.closing)
	for _, cat := range open {
		cat.Close()
		ctx.DetachCatalog(cat)
	}
}

// AppendText appends the spiral as comma separated positions, e.g. "1,7,9,11,13,15,18,20,22,24,26,32".
func (sp *Spiral) AppendText(buf []byte) []byte {
	for i, pos := range sp {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(pos), 10)
	}
	return buf
}

func (sp Spiral) String() string {
	return string(sp.AppendText(make([]byte, 0, 48)))
}

// ParseSpiral parses the form written by AppendText, tolerating spaces around each position.
func ParseSpiral(str string) (Spiral, error) {
	var sp Spiral
	fields := strings.Split(str, ",")
	if len(fields) != NumPentagons {
		return sp, errors.Wrapf(ErrBadSpiral, "%d positions in %q", len(fields), str)
	}
	for i, field := range fields {
		pos, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || pos < 1 || (i > 0 && pos <= sp[i-1]) {
			return sp, errors.Wrapf(ErrBadSpiral, "bad position %q", field)
		}
		sp[i] = pos
	}
	return sp, nil
}

// AppendText appends the jumps as comma separated face:length pairs, e.g. "23:1,40:2".
func (js Jumps) AppendText(buf []byte) []byte {
	for i, j := range js {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(j.Face), 10)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(j.Length), 10)
	}
	return buf
}

func (js Jumps) String() string {
	return string(js.AppendText(nil))
}

// ParseJumps parses the form written by Jumps.AppendText.  An empty string yields no jumps.
func ParseJumps(str string) (Jumps, error) {
	if strings.TrimSpace(str) == "" {
		return nil, nil
	}
	var js Jumps
	for _, field := range strings.Split(str, ",") {
		parts := strings.Split(strings.TrimSpace(field), ":")
		if len(parts) != 2 {
			return nil, errors.Wrapf(ErrBadSpiral, "bad jump %q", field)
		}
		face, err1 := strconv.Atoi(parts[0])
		length, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || face < 2 || length < 1 || (len(js) > 0 && face <= js[len(js)-1].Face) {
			return nil, errors.Wrapf(ErrBadSpiral, "bad jump %q", field)
		}
		js = append(js, Jump{Face: face, Length: length})
	}
	return js, nil
}
