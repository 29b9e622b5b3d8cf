// Package unidump parses UniProtKB, UniRef and UniParc XML dumps one
// entry at a time.
//
// Dumps are multi-gigabyte documents holding up to millions of
// independent <entry> records under a single root element. The package
// never loads a whole document into memory: the sequential Parser walks
// the token stream lazily, and the ThreadedParser segments the raw byte
// stream into entry fragments and decodes them on a pool of workers.
//
// The sequential parser yields entries in document order. The threaded
// parser yields them in completion order; workers race, so callers that
// need source order must use the sequential parser.
//
// Record families plug in through the Database contract; the uniprot,
// uniref and uniparc packages provide the concrete families together
// with Parse convenience constructors.
package unidump
