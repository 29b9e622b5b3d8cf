package unidump

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"sync"

	"golang.org/x/sync/errgroup"

	uderrors "github.com/jacoelho/unidump/errors"
	"github.com/jacoelho/unidump/internal/pipeline"
	"github.com/jacoelho/unidump/internal/segment"
	"github.com/jacoelho/unidump/pkg/xmlstream"
)

const threadedReadBufferSize = 64 * 1024

// ThreadedParser decodes a dump on a pool of workers: a producer
// goroutine slices complete entry fragments out of the byte stream and
// workers decode them independently. Entries are yielded in completion
// order, not document order. Next is driven by a single goroutine.
type ThreadedParser[E any] struct {
	db        Database[E]
	scanner   *segment.Scanner
	results   chan pipeline.Result[E]
	stop      chan struct{}
	group     *errgroup.Group
	pending   error
	cfg       config
	closeOnce sync.Once
	rootOK    bool
	started   bool
	finished  bool
}

// NewThreadedParser creates a threaded parser over an XML dump.
// Construction performs the root-acceptance scan single-threaded and
// hands the remaining bytes to the producer; goroutines start on the
// first Next call. An unacceptable or absent root is reported by the
// first Next call and no decode work is started.
func NewThreadedParser[E any](r io.Reader, db Database[E], opts ...Option) (*ThreadedParser[E], error) {
	if r == nil {
		return nil, errNilReader
	}
	if db == nil {
		return nil, errNilDatabase
	}
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	t := &ThreadedParser[E]{
		db:   db,
		cfg:  cfg,
		stop: make(chan struct{}),
	}
	br := bufio.NewReaderSize(r, threadedReadBufferSize)
	name, err := segment.ReadRootName(br)
	if err != nil {
		t.pending = err
		return t, nil
	}
	if !rootAccepted(db, name) {
		t.pending = uderrors.NewParsef(uderrors.ErrUnexpectedRoot, name, "unexpected root element %q", name)
		return t, nil
	}
	free := make(chan []byte, cfg.workers+1)
	t.scanner = segment.NewScanner(br, cfg.bufferSize, free)
	t.rootOK = true
	return t, nil
}

// start launches the producer and the worker pool. The result channel
// closes once every worker has drained, which is how Next detects
// completion.
func (t *ThreadedParser[E]) start() {
	t.started = true
	if !t.rootOK {
		return
	}
	chunks := make(chan pipeline.Chunk, t.cfg.queueCapacity)
	t.results = make(chan pipeline.Result[E], t.cfg.queueCapacity)
	t.group = &errgroup.Group{}
	workers := &errgroup.Group{}

	t.group.Go(func() error {
		defer close(chunks)
		return t.produce(chunks)
	})
	for i := 0; i < t.cfg.workers; i++ {
		workers.Go(func() error {
			return pipeline.RunWorker(t.decodeFragment, chunks, t.results, t.scanner.Recycle, t.stop)
		})
	}
	t.group.Go(func() error {
		defer close(t.results)
		return workers.Wait()
	})
}

// produce feeds entry fragments into the chunk queue, blocking when the
// workers are saturated. Stream-level failures are relayed through the
// queue so a worker can surface them once.
func (t *ThreadedParser[E]) produce(chunks chan<- pipeline.Chunk) error {
	for {
		data, err := t.scanner.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			select {
			case chunks <- pipeline.Chunk{Err: err}:
			case <-t.stop:
			}
			return nil
		}
		select {
		case chunks <- pipeline.Chunk{Data: data}:
		case <-t.stop:
			return nil
		}
	}
}

// decodeFragment decodes one entry fragment on a private cursor. The
// producer guarantees the fragment starts with the entry start tag;
// anything else is an internal invariant violation.
func (t *ThreadedParser[E]) decodeFragment(data []byte) (E, error) {
	var zero E
	c := xmlstream.NewCursor(bytes.NewReader(data))
	ev, err := c.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return zero, c.UnexpectedEOF(entryElement)
		}
		return zero, err
	}
	if ev.Kind != xmlstream.KindStart || ev.Name != entryElement {
		return zero, uderrors.NewParsef(uderrors.ErrUnexpectedElement, ev.Name, "entry fragment does not begin with <entry>")
	}
	return t.db.DecodeEntry(c, ev.Start)
}

// Next returns the next decoded entry in completion order. It returns
// io.EOF once the producer and every worker have finished. The first
// call starts the pipeline.
func (t *ThreadedParser[E]) Next() (E, error) {
	var zero E
	if t == nil {
		return zero, errNilReader
	}
	if t.pending != nil {
		err := t.pending
		t.pending = nil
		if !t.rootOK {
			t.finished = true
		}
		return zero, err
	}
	if t.finished {
		return zero, io.EOF
	}
	if !t.started {
		t.start()
	}
	if t.results == nil {
		return zero, io.EOF
	}
	res, ok := <-t.results
	if !ok {
		t.finished = true
		err := t.group.Wait()
		if err != nil {
			return zero, uderrors.Wrap(uderrors.ErrPipelineClosed, "", err)
		}
		return zero, io.EOF
	}
	return res.Entry, res.Err
}

// All returns a single-use iterator over the remaining results in
// completion order. Decode failures are yielded with a zero entry.
func (t *ThreadedParser[E]) All() iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		for {
			entry, err := t.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(entry, err) {
				return
			}
		}
	}
}

// Close tears down the pipeline, unblocking the producer and workers.
// It is idempotent and safe to call whether or not the parser was
// exhausted.
func (t *ThreadedParser[E]) Close() error {
	if t == nil {
		return nil
	}
	t.closeOnce.Do(func() {
		close(t.stop)
	})
	if t.started && t.group != nil {
		_ = t.group.Wait()
	}
	t.finished = true
	return nil
}
