// Package engine drives the pair matcher over a read-pair source with a
// small fixed pool of workers and a serialized output sink.
package engine

import (
	"bufio"
	"bytes"
	"io"
	"sync"

	"github.com/stjude/fuzzion2/internal/hit"
	"github.com/stjude/fuzzion2/internal/input"
	"github.com/stjude/fuzzion2/internal/kmer"
	"github.com/stjude/fuzzion2/internal/match"
)

// BatchSize is the number of read pairs in a full batch.
const BatchSize = 100000

// MaxWorkers bounds the worker pool.
const MaxWorkers = 64

// Engine matches every read pair of a source against the patterns and
// writes the surviving hits. The matcher and its tables are immutable and
// shared; the source and sink are guarded by mutexes so workers touch them
// one at a time.
type Engine struct {
	Matcher *match.Matcher
	Workers int

	inputMu      sync.Mutex // guards source, endOfInput and numReadPairs
	source       input.PairReader
	endOfInput   bool
	numReadPairs uint64

	outputMu sync.Mutex // guards out
	out      *bufio.Writer
}

// Run processes the source to EOF and writes hit triplets to out. It
// returns the total number of read pairs pulled from the source; if any
// worker caught an error, the first one is returned after all workers have
// drained.
func (e *Engine) Run(source input.PairReader, out io.Writer) (uint64, error) {
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	e.source = source
	e.endOfInput = false
	e.numReadPairs = 0
	e.out = bufio.NewWriterSize(out, 1<<20)

	messages := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			messages[i] = e.work()
		}(i)
	}
	wg.Wait()

	var first error
	for _, err := range messages {
		if err != nil {
			first = err
			break
		}
	}

	if err := e.out.Flush(); err != nil && first == nil {
		first = err
	}

	return e.numReadPairs, first
}

// work is one worker's loop: pull a batch under the input mutex, process it
// locally, then write the batch's hits under the output mutex. The loop
// ends at end of input or on the first error, which is recorded and also
// ends the input for the other workers.
func (e *Engine) work() error {
	batch := make([]input.Pair, BatchSize)
	var buf bytes.Buffer

	for {
		count, err := e.getBatch(batch)
		if err != nil {
			return err
		}

		buf.Reset()
		for i := 0; i < count; i++ {
			p := &batch[i]
			e.processOrientation(&buf, p.Name1, p.Sequence1, p.Name2, p.Sequence2)
			e.processOrientation(&buf, p.Name2, p.Sequence2, p.Name1, p.Sequence1)
		}

		if buf.Len() > 0 {
			e.outputMu.Lock()
			_, werr := e.out.Write(buf.Bytes())
			e.outputMu.Unlock()
			if werr != nil {
				e.setEndOfInput()
				return werr
			}
		}

		if count < BatchSize {
			return nil
		}
	}
}

// getBatch pulls up to a full batch of read pairs from the shared source.
// A short batch marks end of input; a source error is recorded and ends the
// input for every worker.
func (e *Engine) getBatch(batch []input.Pair) (int, error) {
	e.inputMu.Lock()
	defer e.inputMu.Unlock()

	if e.endOfInput {
		return 0, nil
	}

	count := 0
	for count < len(batch) {
		ok, err := e.source.Next(&batch[count])
		if err != nil {
			e.endOfInput = true
			e.numReadPairs += uint64(count)
			return 0, err
		}
		if !ok {
			break
		}
		count++
	}

	e.numReadPairs += uint64(count)

	if count < len(batch) {
		e.endOfInput = true
	}

	return count, nil
}

func (e *Engine) setEndOfInput() {
	e.inputMu.Lock()
	e.endOfInput = true
	e.inputMu.Unlock()
}

// processOrientation matches one read pair in the given orientation and
// appends the validated hits to the batch buffer. The engine calls this
// twice per pair, once swapped, to catch pairs whose first read is
// downstream of the junction.
func (e *Engine) processOrientation(buf *bytes.Buffer, name1, sequence1, name2, sequence2 string) {
	matches := e.Matcher.Find(sequence1, sequence2)
	if len(matches) == 0 {
		return
	}

	revcomp := kmer.SequenceReverseComplement(sequence2)
	patterns := e.Matcher.Patterns()

	for i := range matches {
		m := &matches[i]
		h := hit.FromMatch(patterns[m.C1.Index], m, name1, sequence1, name2, revcomp)
		h.Write(buf)
	}
}
