// Package pipeline holds the channel plumbing shared by the threaded
// parser: the unit of producer output, the unit of worker output, and
// the worker decode loop.
package pipeline

// Chunk is one unit of producer output: a complete entry fragment, or a
// stream-level error relayed to the workers.
type Chunk struct {
	Data []byte
	Err  error
}

// Result carries one decoded entry or its error.
type Result[E any] struct {
	Entry E
	Err   error
}

// RunWorker pulls chunks from in and decodes them until in closes or
// stop fires. Decode outcomes, success or failure, are published to out;
// a relayed stream error is forwarded once and ends the worker. Spent
// fragment buffers are handed to recycle after their result is
// published.
func RunWorker[E any](decode func([]byte) (E, error), in <-chan Chunk, out chan<- Result[E], recycle func([]byte), stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		case chunk, ok := <-in:
			if !ok {
				return nil
			}
			if chunk.Err != nil {
				select {
				case out <- Result[E]{Err: chunk.Err}:
				case <-stop:
				}
				return nil
			}
			entry, err := decode(chunk.Data)
			select {
			case out <- Result[E]{Entry: entry, Err: err}:
			case <-stop:
				return nil
			}
			if recycle != nil {
				recycle(chunk.Data)
			}
		}
	}
}
