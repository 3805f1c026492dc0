package input

import (
	"bufio"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// openSequenceFile opens a read-sequence file for input, layering a gzip
// decompressor over it when the filename ends in ".gz".
func openSequenceFile(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}

	if !strings.HasSuffix(filename, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "uncompressing %s", filename)
	}

	return &gzipFile{f: f, gz: gz}, nil
}

type gzipFile struct {
	f  *os.File
	gz *gzip.Reader
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipFile) Close() error {
	if err := g.gz.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// fastqStream reads single FASTQ records from one stream.
type fastqStream struct {
	filename string
	rc       io.ReadCloser
	br       *bufio.Reader
}

func openFastq(filename string) (*fastqStream, error) {
	rc, err := openSequenceFile(filename)
	if err != nil {
		return nil, err
	}
	return &fastqStream{filename: filename, rc: rc, br: bufio.NewReaderSize(rc, 1<<20)}, nil
}

// newFastqStream wraps an already-open stream.
func newFastqStream(r io.Reader) *fastqStream {
	return &fastqStream{filename: "input", br: bufio.NewReaderSize(r, 1<<20)}
}

func (s *fastqStream) readLine() (string, error) {
	line, err := s.br.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return line, err
}

// next reads one four-line FASTQ record. The name and sequence are cut at
// the first whitespace.
func (s *fastqStream) next() (name, sequence string, ok bool, err error) {
	nameLine, err := s.readLine()
	if err == io.EOF {
		return "", "", false, nil // reached end-of-file
	}
	if err != nil {
		return "", "", false, errors.Wrapf(err, "reading %s", s.filename)
	}

	seqLine, err := s.readLine()
	if err == nil {
		var plusLine string
		plusLine, err = s.readLine()
		if err == nil && (nameLine == "" || nameLine[0] != '@' ||
			plusLine == "" || plusLine[0] != '+') {
			err = errors.New("bad record")
		}
	}
	if err == nil {
		_, err = s.readLine() // quality line
	}
	if err != nil {
		return "", "", false, errors.Errorf("unexpected format in FASTQ file %s", s.filename)
	}

	return firstToken(nameLine[1:]), firstToken(seqLine), true, nil
}

func (s *fastqStream) Close() error {
	if s.rc == nil {
		return nil
	}
	return s.rc.Close()
}

func firstToken(line string) string {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\r', '\n':
			return line[:i]
		}
	}
	return line
}

// PairedFastq reads mates from two parallel FASTQ files.
type PairedFastq struct {
	reader1, reader2 *fastqStream
}

// OpenPairedFastq opens the two mate files; either may be gzipped.
func OpenPairedFastq(filename1, filename2 string) (*PairedFastq, error) {
	reader1, err := openFastq(filename1)
	if err != nil {
		return nil, err
	}
	reader2, err := openFastq(filename2)
	if err != nil {
		reader1.Close()
		return nil, err
	}
	return &PairedFastq{reader1: reader1, reader2: reader2}, nil
}

// Next fails if the two streams disagree in length or in paired-name
// equivalence.
func (r *PairedFastq) Next(p *Pair) (bool, error) {
	name1, seq1, got1, err := r.reader1.next()
	if err != nil {
		return false, err
	}
	name2, seq2, got2, err := r.reader2.next()
	if err != nil {
		return false, err
	}

	if !got1 && !got2 {
		return false, nil // reached EOF on both files
	}
	if got1 != got2 {
		return false, errors.New("mismatched number of reads")
	}
	if !NamesMatch(name1, name2) {
		return false, errors.Errorf("mismatched read names %s and %s", name1, name2)
	}

	p.Name1, p.Sequence1 = name1, seq1
	p.Name2, p.Sequence2 = name2, seq2

	return true, nil
}

func (r *PairedFastq) Close() error {
	err := r.reader1.Close()
	if err2 := r.reader2.Close(); err == nil {
		err = err2
	}
	return err
}

// InterleavedFastq reads consecutive mates from one FASTQ stream.
type InterleavedFastq struct {
	reader *fastqStream
}

// OpenInterleavedFastq opens the named interleaved file (which may be
// /dev/stdin or gzipped).
func OpenInterleavedFastq(filename string) (*InterleavedFastq, error) {
	reader, err := openFastq(filename)
	if err != nil {
		return nil, err
	}
	return &InterleavedFastq{reader: reader}, nil
}

// NewInterleavedFastq reads interleaved records from an open stream.
func NewInterleavedFastq(r io.Reader) *InterleavedFastq {
	return &InterleavedFastq{reader: newFastqStream(r)}
}

func (r *InterleavedFastq) Next(p *Pair) (bool, error) {
	name1, seq1, got, err := r.reader.next()
	if err != nil {
		return false, err
	}
	if !got {
		return false, nil // reached EOF
	}

	name2, seq2, got, err := r.reader.next()
	if err != nil {
		return false, err
	}
	if !got {
		return false, errors.New("mismatched number of reads")
	}
	if !NamesMatch(name1, name2) {
		return false, errors.Errorf("mismatched read names %s and %s", name1, name2)
	}

	p.Name1, p.Sequence1 = name1, seq1
	p.Name2, p.Sequence2 = name2, seq2

	return true, nil
}

func (r *InterleavedFastq) Close() error {
	return r.reader.Close()
}
