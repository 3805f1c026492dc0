// Package rank implements k-mer rank tables. A rank table assigns every
// k-mer an integer rank in [0, 4^k); low ranks mark k-mers that occur rarely
// in a reference genome.
package rank

import (
	"bufio"
	"io"
	"math"
	"math/bits"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stjude/fuzzion2/internal/binary"
	"github.com/stjude/fuzzion2/internal/kmer"
)

// Byte-order sentinels at the head of a binary rank file. A file written on
// a machine of the opposite endianness presents the swapped form.
const (
	signatureNative  = 0x17D26E39
	signatureSwapped = 0x396ED217
)

// Accepted k-mer lengths for a rank table.
const (
	MinK = 4
	MaxK = kmer.MaxLength
)

// Table is a lookup table holding a rank for each k-mer. It is read-only
// after construction and may be shared across goroutines without locking.
type Table struct {
	K    int
	Rank []uint32 // indexed by k-mer
}

// MaxMinimizer converts a maximum rank percentile to the rank cutoff at or
// above which minimizers are considered common and ignored.
func (t *Table) MaxMinimizer(maxRankPct float64) uint32 {
	return uint32((maxRankPct / 100.0) * float64(kmer.Num(t.K)))
}

// Read loads a rank table from the named binary file, byte-swapping the
// ranks when the file declares the opposite byte order.
func Read(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening rank file")
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)

	var signature uint32
	if err := binary.Read(r, &signature); err != nil {
		return nil, errors.Wrapf(err, "%s is not a k-mer rank file", filename)
	}
	if signature != signatureNative && signature != signatureSwapped {
		return nil, errors.Errorf("%s is not a k-mer rank file", filename)
	}

	k, err := binary.ReadUint8(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s is not a k-mer rank file", filename)
	}
	if k < MinK || k > MaxK {
		return nil, errors.Errorf("unsupported k-mer length %d in %s", k, filename)
	}

	table := &Table{K: int(k), Rank: make([]uint32, kmer.Num(int(k)))}

	// read the lookup table in fixed-size chunks
	buf := make([]byte, 1<<20)
	for i := 0; i < len(table.Rank); {
		chunk := buf
		if left := (len(table.Rank) - i) * 4; left < len(chunk) {
			chunk = chunk[:left]
		}
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, errors.Wrapf(err, "truncated k-mer rank file %s", filename)
		}
		for j := 0; j < len(chunk); j += 4 {
			table.Rank[i] = uint32(chunk[j]) | uint32(chunk[j+1])<<8 |
				uint32(chunk[j+2])<<16 | uint32(chunk[j+3])<<24
			i++
		}
	}

	// make sure there are no additional bytes in the file
	if _, err := binary.ReadUint8(r); err != io.EOF {
		return nil, errors.Errorf("invalid k-mer rank file %s", filename)
	}

	if signature == signatureSwapped {
		for i, v := range table.Rank {
			table.Rank[i] = bits.ReverseBytes32(v)
		}
	}

	return table, nil
}

// Write stores the table in the named file in the binary format read back
// by Read.
func (t *Table) Write(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating rank file")
	}

	w := bufio.NewWriterSize(f, 1<<20)

	err = binary.Write(w, uint32(signatureNative))
	if err == nil {
		err = binary.Write(w, uint8(t.K))
	}

	var quad [4]byte
	for i := 0; err == nil && i < len(t.Rank); i++ {
		v := t.Rank[i]
		quad[0], quad[1], quad[2], quad[3] =
			byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
		_, err = w.Write(quad[:])
	}

	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", filename)
	}

	return f.Close()
}

// WriteText writes the table as k-mer/rank text lines, one per k-mer.
func (t *Table) WriteText(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<20)

	n := kmer.Num(t.K)
	for i := uint32(0); i < n; i++ {
		if _, err := bw.WriteString(kmer.String(t.K, i)); err != nil {
			return err
		}
		if err := bw.WriteByte('\t'); err != nil {
			return err
		}
		if _, err := bw.WriteString(strconv.FormatUint(uint64(t.Rank[i]), 10)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Build constructs a rank table from reference sequences. Every k-mer
// occurrence on both strands is counted, saturating at 2^32-1; k-mers are
// then ranked by ascending count, ties by ascending numeric k-mer.
func Build(k int, sequences func(yield func(seq string))) *Table {
	n := kmer.Num(k)
	counts := make([]uint32, n)

	sequences(func(seq string) {
		kmer.Each(seq, k, func(km uint32, _ int) bool {
			rc := kmer.ReverseComplement(k, km)
			if counts[km] < math.MaxUint32 {
				counts[km]++
			}
			if counts[rc] < math.MaxUint32 {
				counts[rc]++
			}
			return true
		})
	})

	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}
	sort.Slice(order, func(a, b int) bool {
		if counts[order[a]] != counts[order[b]] {
			return counts[order[a]] < counts[order[b]]
		}
		return order[a] < order[b]
	})

	table := &Table{K: k, Rank: make([]uint32, n)}
	for r, km := range order {
		table.Rank[km] = uint32(r)
	}

	return table
}

// Inverter is a lookup table holding a k-mer for each rank.
type Inverter struct {
	K    int
	Kmer []uint32 // indexed by rank
}

// NewInverter builds the rank-to-k-mer inverse of a table.
func NewInverter(t *Table) *Inverter {
	inv := &Inverter{K: t.K, Kmer: make([]uint32, len(t.Rank))}

	for km, r := range t.Rank {
		inv.Kmer[r] = uint32(km)
	}

	return inv
}

// Kmers returns the k-mer having the given rank along with its reverse
// complement, both as strings.
func (inv *Inverter) Kmers(r uint32) (string, string, error) {
	if r >= kmer.Num(inv.K) {
		return "", "", errors.Errorf("invalid rank %d", r)
	}

	km := inv.Kmer[r]

	return kmer.String(inv.K, km), kmer.String(inv.K, kmer.ReverseComplement(inv.K, km)), nil
}
