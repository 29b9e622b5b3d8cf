// Command unidump scans a UniProt, UniRef or UniParc XML dump and
// reports how many entries it decodes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/jacoelho/unidump"
	"github.com/jacoelho/unidump/uniparc"
	"github.com/jacoelho/unidump/uniprot"
	"github.com/jacoelho/unidump/uniref"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("unidump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbName := fs.String("db", "", "dump flavor: uniprot, uniref or uniparc")
	workers := fs.Int("workers", 0, "decode workers (0 decodes sequentially)")
	cpuProfilePath := fs.String("cpuprofile", "", "write CPU profile to file")
	memProfilePath := fs.String("memprofile", "", "write memory profile to file")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s --db <uniprot|uniref|uniparc> <dump.xml[.gz|.zst]>\n\n", os.Args[0]),
			writeln(stderr, "Decodes every entry of an XML dump and prints a summary."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *dbName == "" {
		if err := writeln(stderr, "error: --db is required"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		if err := writeln(stderr, "error: exactly one dump file argument is required"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}
	dumpPath := remaining[0]

	if *cpuProfilePath != "" {
		stopCPUProfile, err := startCPUProfile(*cpuProfilePath)
		if err != nil {
			if writeErr := writef(stderr, "error starting CPU profile: %v\n", err); writeErr != nil {
				return 1
			}
			return 1
		}
		defer func() {
			if err := stopCPUProfile(); err != nil {
				_ = writef(stderr, "error stopping CPU profile: %v\n", err)
			}
		}()
	}

	if *memProfilePath != "" {
		defer func() {
			if err := writeMemProfile(*memProfilePath); err != nil {
				_ = writef(stderr, "error writing memory profile: %v\n", err)
			}
		}()
	}

	r, err := unidump.Open(dumpPath)
	if err != nil {
		if writeErr := writef(stderr, "error opening dump: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	defer func() {
		if err := r.Close(); err != nil {
			_ = writef(stderr, "error closing dump: %v\n", err)
		}
	}()

	decoded, failed, err := scanDump(r, *dbName, *workers, stderr)
	if err != nil {
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}

	if err := writef(stdout, "%s: %d entries decoded, %d failed\n", dumpPath, decoded, failed); err != nil {
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func scanDump(r io.Reader, dbName string, workers int, stderr io.Writer) (decoded, failed int, err error) {
	switch dbName {
	case "uniprot":
		return scanFamily(r, workers, uniprot.Database{}, stderr)
	case "uniref":
		return scanFamily(r, workers, uniref.Database{}, stderr)
	case "uniparc":
		return scanFamily(r, workers, uniparc.Database{}, stderr)
	default:
		return 0, 0, fmt.Errorf("unknown database %q (want uniprot, uniref or uniparc)", dbName)
	}
}

func scanFamily[E any](r io.Reader, workers int, db unidump.Database[E], stderr io.Writer) (decoded, failed int, err error) {
	if workers > 0 {
		p, err := unidump.NewThreadedParser(r, db, unidump.WithWorkers(workers))
		if err != nil {
			return 0, 0, err
		}
		decoded, failed = tally(p.All(), stderr)
		if err := p.Close(); err != nil {
			return decoded, failed, err
		}
		return decoded, failed, nil
	}
	p, err := unidump.NewParser(r, db)
	if err != nil {
		return 0, 0, err
	}
	decoded, failed = tally(p.All(), stderr)
	return decoded, failed, nil
}

func tally[E any](results iter.Seq2[E, error], stderr io.Writer) (decoded, failed int) {
	for _, err := range results {
		if err != nil {
			failed++
			_ = writeln(stderr, err.Error())
			continue
		}
		decoded++
	}
	return decoded, failed
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("start cpu profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return nil, fmt.Errorf("start cpu profile %s: %w", path, err)
	}
	return func() error {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			return fmt.Errorf("close cpu profile %s: %w", path, err)
		}
		return nil
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return fmt.Errorf("write mem profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close mem profile %s: %w", path, err)
	}
	return nil
}
