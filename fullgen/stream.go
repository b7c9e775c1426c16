package fullgen

import (
	"io"
)

// Stream is a pipeline stage carrying accepted fullerenes.
//
// Each stage owns a goroutine that drains the previous stage and closes its own Outlet when done.
type Stream struct {
	Outlet chan *Fullerene
}

func NewStream() *Stream {
	stream := &Stream{
		Outlet: make(chan *Fullerene, 1),
	}
	return stream
}

// StreamFullerenes returns a stream that emits the given fullerenes and closes.
func StreamFullerenes(items ...*Fullerene) *Stream {
	next := NewStream()

	go func() {
		for _, F := range items {
			next.Outlet <- F
		}
		next.Close()
	}()

	return next
}

func (stream *Stream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// PullAll drains the stream and returns how many fullerenes it carried.
func (stream *Stream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream into a slice.
func (stream *Stream) Collect() []*Fullerene {
	var all []*Fullerene
	for F := range stream.Outlet {
		all = append(all, F)
	}
	return all
}

// Select passes on only the fullerenes for which keep returns true.
func (stream *Stream) Select(keep func(F *Fullerene) bool) *Stream {
	next := NewStream()

	go func() {
		for F := range stream.Outlet {
			if keep(F) {
				next.Outlet <- F
			}
		}
		next.Close()
	}()

	return next
}

// Tap calls fn on every fullerene and passes it on unchanged.  fn runs on the stage goroutine.
func (stream *Stream) Tap(fn func(F *Fullerene)) *Stream {
	next := NewStream()

	go func() {
		for F := range stream.Outlet {
			fn(F)
			next.Outlet <- F
		}
		next.Close()
	}()

	return next
}

// AddTo offers each fullerene to the target and passes on only those it reports as new.
func (stream *Stream) AddTo(target FullereneAdder) *Stream {
	next := NewStream()

	go func() {
		for F := range stream.Outlet {
			if target.TryAdd(F) {
				next.Outlet <- F
			}
		}
		next.Close()
	}()

	return next
}

// Encode writes every fullerene to w using enc and passes it on.
//
// The header is written before the first item and Flush after the last; out is closed when the stream ends.
// The first write error (or nil) is sent on errs if non-nil, and later writes are skipped.
func (stream *Stream) Encode(enc Encoder, out io.WriteCloser, errs chan<- error) *Stream {
	next := NewStream()

	go func() {
		var err error
		if hdr := enc.Header(); len(hdr) > 0 {
			_, err = out.Write(hdr)
		}
		for F := range stream.Outlet {
			if err == nil {
				err = enc.Encode(out, F)
			}
			next.Outlet <- F
		}
		if err == nil {
			err = enc.Flush(out)
		}
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if errs != nil {
			errs <- err
			close(errs)
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the catalog records meeting sel.
func SelectFromCatalog(cat Catalog, sel Selector) <-chan Record {
	next := make(chan Record, 1)
	onHit := make(chan Record, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for rec := range onHit {
			if sel.Selects(&rec) {
				next <- rec
			}
		}
		close(next)
	}()

	return next
}

// Merge fans in several streams into one, closing it after all inputs close.
func Merge(inputs ...*Stream) *Stream {
	next := NewStream()
	done := make(chan struct{}, len(inputs))

	for _, in := range inputs {
		go func(in *Stream) {
			for F := range in.Outlet {
				next.Outlet <- F
			}
			done <- struct{}{}
		}(in)
	}

	go func() {
		for range inputs {
			<-done
		}
		next.Close()
	}()

	return next
}
