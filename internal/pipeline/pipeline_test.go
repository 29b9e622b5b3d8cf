package pipeline

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWorkerDecodesUntilClose(t *testing.T) {
	in := make(chan Chunk, 3)
	out := make(chan Result[int], 3)
	var recycled [][]byte

	in <- Chunk{Data: []byte("1")}
	in <- Chunk{Data: []byte("2")}
	close(in)

	decode := func(b []byte) (int, error) { return strconv.Atoi(string(b)) }
	err := RunWorker(decode, in, out, func(b []byte) { recycled = append(recycled, b) }, nil)
	require.NoError(t, err)
	close(out)

	var got []int
	for res := range out {
		require.NoError(t, res.Err)
		got = append(got, res.Entry)
	}
	assert.ElementsMatch(t, []int{1, 2}, got)
	assert.Len(t, recycled, 2)
}

func TestRunWorkerForwardsRelayedError(t *testing.T) {
	in := make(chan Chunk, 2)
	out := make(chan Result[int], 2)

	in <- Chunk{Err: assert.AnError}
	in <- Chunk{Data: []byte("9")} // never reached: worker exits on relayed error

	decode := func(b []byte) (int, error) { return strconv.Atoi(string(b)) }
	require.NoError(t, RunWorker(decode, in, out, nil, nil))

	res := <-out
	assert.ErrorIs(t, res.Err, assert.AnError)
	assert.Empty(t, out)
}

func TestRunWorkerStop(t *testing.T) {
	in := make(chan Chunk)
	out := make(chan Result[int])
	stop := make(chan struct{})
	close(stop)

	decode := func(b []byte) (int, error) { return 0, nil }
	done := make(chan error, 1)
	go func() { done <- RunWorker(decode, in, out, nil, stop) }()

	require.NoError(t, <-done)
}

func TestRunWorkerStopWhileSending(t *testing.T) {
	in := make(chan Chunk, 1)
	out := make(chan Result[int]) // unbuffered, nobody reads
	stop := make(chan struct{})

	in <- Chunk{Data: []byte("1")}
	decode := func(b []byte) (int, error) { return 1, nil }

	done := make(chan error, 1)
	go func() { done <- RunWorker(decode, in, out, nil, stop) }()
	close(stop)
	require.NoError(t, <-done)
}
