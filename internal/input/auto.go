package input

import (
	"github.com/pkg/errors"
)

// Open classifies an unordered list of input files and composes a pair
// reader over all of them. A file holding paired BAM records becomes a
// sequential BAM source; a FASTQ file whose first two read names match as
// mates is read interleaved; any other FASTQ file is paired with a later
// file whose first and second read names match it mate-wise. A file that
// cannot be placed is an error.
func Open(filenames []string) (PairReader, error) {
	if len(filenames) == 0 {
		return nil, errors.New("no file names specified")
	}

	peeks := make([]*filePeek, len(filenames))
	for i, filename := range filenames {
		peek, err := classify(filename)
		if err != nil {
			return nil, err
		}
		peeks[i] = peek
	}

	var readers []PairReader

	for i, peek := range peeks {
		if peek.placed {
			continue
		}

		switch {
		case peek.isBam:
			r, err := OpenUbam([]string{peek.filename})
			if err != nil {
				return nil, err
			}
			readers = append(readers, r)

		case NamesMatch(peek.name1, peek.name2):
			r, err := OpenInterleavedFastq(peek.filename)
			if err != nil {
				return nil, err
			}
			readers = append(readers, r)

		default:
			mate := findMate(peeks, i)
			if mate == nil {
				return nil, errors.Errorf("unable to determine pairing of %s", peek.filename)
			}
			mate.placed = true

			r, err := OpenPairedFastq(peek.filename, mate.filename)
			if err != nil {
				return nil, err
			}
			readers = append(readers, r)
		}

		peek.placed = true
	}

	if len(readers) == 1 {
		return readers[0], nil
	}
	return NewMulti(readers...), nil
}

type filePeek struct {
	filename     string
	isBam        bool
	name1, name2 string // first two read names of a FASTQ file
	placed       bool
}

// classify decides whether the file is a paired-read BAM or a FASTQ file,
// remembering the first two read names of the latter.
func classify(filename string) (*filePeek, error) {
	peek := &filePeek{filename: filename}

	if bam, err := openBam(filename); err == nil {
		var rec bamRecord
		ok, err := bam.next(&rec)
		bam.Close()
		if err != nil {
			return nil, err
		}
		if !ok || rec.flag&flagPaired == 0 {
			return nil, errors.Errorf("%s does not contain paired reads", filename)
		}
		peek.isBam = true
		return peek, nil
	}

	fq, err := openFastq(filename)
	if err != nil {
		return nil, err
	}
	defer fq.Close()

	for _, name := range []*string{&peek.name1, &peek.name2} {
		n, _, ok, err := fq.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Errorf("unable to determine type of %s", filename)
		}
		*name = n
	}

	return peek, nil
}

// findMate looks for a later unplaced FASTQ file whose first and second
// read names both match peek i's mate-wise.
func findMate(peeks []*filePeek, i int) *filePeek {
	for j := i + 1; j < len(peeks); j++ {
		other := peeks[j]
		if other.placed || other.isBam {
			continue
		}
		if NamesMatch(peeks[i].name1, other.name1) && NamesMatch(peeks[i].name2, other.name2) {
			return other
		}
	}
	return nil
}
