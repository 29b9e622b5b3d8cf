package unidump

import (
	"fmt"
	"runtime"

	"github.com/jacoelho/unidump/internal/segment"
)

// Option configures a parser.
type Option interface{ apply(*config) }

type optionFunc func(*config)

func (f optionFunc) apply(cfg *config) {
	if cfg == nil {
		return
	}
	f(cfg)
}

type config struct {
	workers       int
	bufferSize    int
	queueCapacity int
}

// WithWorkers sets the number of decode workers used by the threaded
// parser (0 uses the available parallelism). The sequential parser
// ignores it.
func WithWorkers(n int) Option {
	return optionFunc(func(cfg *config) {
		cfg.workers = n
	})
}

// WithBufferSize sets the initial segmentation buffer size in bytes
// (0 uses the default). The buffer doubles whenever it fills without
// containing a complete entry.
func WithBufferSize(n int) Option {
	return optionFunc(func(cfg *config) {
		cfg.bufferSize = n
	})
}

// WithQueueCapacity sets the capacity of the pipeline queues (0 uses the
// worker count).
func WithQueueCapacity(n int) Option {
	return optionFunc(func(cfg *config) {
		cfg.queueCapacity = n
	})
}

func resolveConfig(opts []Option) (config, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	if cfg.workers < 0 {
		return config{}, fmt.Errorf("worker count must be >= 0")
	}
	if cfg.bufferSize < 0 {
		return config{}, fmt.Errorf("buffer size must be >= 0")
	}
	if cfg.queueCapacity < 0 {
		return config{}, fmt.Errorf("queue capacity must be >= 0")
	}
	if cfg.workers == 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
	if cfg.bufferSize == 0 {
		cfg.bufferSize = segment.DefaultBufferSize
	}
	if cfg.queueCapacity == 0 {
		cfg.queueCapacity = cfg.workers
	}
	return cfg, nil
}
