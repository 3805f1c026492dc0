package input

import (
	"bufio"
	"io"
	"os"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"

	"github.com/stjude/fuzzion2/internal/binary"
)

var bamMagic = []byte("BAM\x01")

// flag bits from the SAM specification
const (
	flagPaired = 0x1
)

// seqNT16 decodes the 4-bit packed sequence field.
const seqNT16 = "=ACMGRSVTWYHKDBN"

// This is just to prevent arbitrarily long allocations due to malformed
// data. No read name or reference name is longer than this in practice.
const maximumNameLength = 1024

type bamRecord struct {
	name     string
	sequence string
	flag     uint16
}

// bamReader decodes sequential alignment records from one BAM file. Only
// the fields the pair reader needs are materialized; cigar, qualities and
// tags are skipped.
type bamReader struct {
	filename string
	f        *os.File
	gz       *gzip.Reader
	br       *bufio.Reader
}

func openBam(filename string) (*bamReader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "opening archive %s", filename)
	}

	b := &bamReader{filename: filename, f: f, gz: gz, br: bufio.NewReaderSize(gz, 1<<20)}

	if err := b.readHeader(); err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

func (b *bamReader) readHeader() error {
	if err := binary.CheckMagic(b.br, bamMagic); err != nil {
		return errors.Wrapf(err, "%s is not a BAM file", b.filename)
	}

	var length int32
	if err := binary.Read(b.br, &length); err != nil {
		return errors.Wrapf(err, "reading SAM header length in %s", b.filename)
	}
	if _, err := io.CopyN(io.Discard, b.br, int64(length)); err != nil {
		return errors.Wrapf(err, "reading past SAM header in %s", b.filename)
	}

	var count int32
	if err := binary.Read(b.br, &count); err != nil {
		return errors.Wrapf(err, "reading references count in %s", b.filename)
	}
	for i := int32(0); i < count; i++ {
		if err := binary.Read(b.br, &length); err != nil {
			return errors.Wrapf(err, "reading reference name length in %s", b.filename)
		}
		if length < 1 || length > maximumNameLength {
			return errors.Errorf("invalid reference name length (%d bytes) in %s", length, b.filename)
		}
		// skip the name and the reference length
		if _, err := io.CopyN(io.Discard, b.br, int64(length)+4); err != nil {
			return errors.Wrapf(err, "reading references in %s", b.filename)
		}
	}

	return nil
}

// next decodes the next alignment record, returning false at end of file.
func (b *bamReader) next(rec *bamRecord) (bool, error) {
	var blockSize int32
	if err := binary.Read(b.br, &blockSize); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %s", b.filename)
	}
	if blockSize < 32 {
		return false, errors.Errorf("invalid record size (%d bytes) in %s", blockSize, b.filename)
	}

	block := make([]byte, blockSize)
	if _, err := io.ReadFull(b.br, block); err != nil {
		return false, errors.Wrapf(err, "truncated record in %s", b.filename)
	}

	nameLen := int(block[8])
	numCigarOps := int(uint16(block[12]) | uint16(block[13])<<8)
	rec.flag = uint16(block[14]) | uint16(block[15])<<8
	seqLen := int(uint32(block[16]) | uint32(block[17])<<8 |
		uint32(block[18])<<16 | uint32(block[19])<<24)

	nameEnd := 32 + nameLen
	seqStart := nameEnd + 4*numCigarOps
	seqEnd := seqStart + (seqLen+1)/2

	if nameLen < 1 || seqEnd > len(block) {
		return false, errors.Errorf("malformed record in %s", b.filename)
	}

	rec.name = string(block[32 : nameEnd-1]) // drop the NUL terminator

	seq := make([]byte, seqLen)
	for i := 0; i < seqLen; i++ {
		code := block[seqStart+i/2]
		if i%2 == 0 {
			code >>= 4
		}
		seq[i] = seqNT16[code&0xF]
	}
	rec.sequence = string(seq)

	return true, nil
}

func (b *bamReader) Close() error {
	if err := b.gz.Close(); err != nil {
		b.f.Close()
		return err
	}
	return b.f.Close()
}

// Ubam reads sequential mate pairs from one or more unaligned BAM files.
type Ubam struct {
	filenames []string
	current   int
	reader    *bamReader
}

// OpenUbam opens the first of the named files.
func OpenUbam(filenames []string) (*Ubam, error) {
	if len(filenames) == 0 {
		return nil, errors.New("no file names specified")
	}

	reader, err := openBam(filenames[0])
	if err != nil {
		return nil, err
	}

	return &Ubam{filenames: filenames, reader: reader}, nil
}

func (u *Ubam) Next(p *Pair) (bool, error) {
	var read1, read2 bamRecord

	for {
		ok, err := u.reader.next(&read1)
		if err != nil {
			return false, err
		}
		if ok {
			break
		}

		// reached end-of-file on the current file
		if u.current++; u.current == len(u.filenames) {
			return false, nil
		}

		u.reader.Close()
		if u.reader, err = openBam(u.filenames[u.current]); err != nil {
			return false, err
		}
	}

	ok, err := u.reader.next(&read2)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errors.New("mismatched number of reads")
	}

	if !NamesMatch(read1.name, read2.name) {
		return false, errors.Errorf("mismatched read names %s and %s", read1.name, read2.name)
	}

	p.Name1, p.Sequence1 = read1.name, read1.sequence
	p.Name2, p.Sequence2 = read2.name, read2.sequence

	return true, nil
}

func (u *Ubam) Close() error {
	return u.reader.Close()
}
