package table

import (
	"bytes"
	"slices"

	"github.com/csimplestring/go-csv/detector"
)

const (
	// sniffLines is how many lines DetectDelimiter samples.
	sniffLines = 15

	// sniffBytes keeps the sample inside one read of the detector, which
	// loses line breaks that fall on its internal buffer boundary.
	sniffBytes = 1024

	// nonDelimiters are the bytes never taken for a delimiter: letters,
	// digits, line breaks, common in-field punctuation and non-ASCII bytes.
	nonDelimiters = `[[:alnum:]\n\r@\. _\-]|[^\x00-\x7F]`
)

// preferredDelimiters breaks ties between equally consistent candidates.
var preferredDelimiters = []rune{',', '\t', ';', '|'}

// DetectDelimiter guesses the field delimiter of delimited text from its
// first lines. A delimiter occurs the same number of times on every sampled
// line outside quoted sections. Returns ',' when nothing qualifies.
func DetectDelimiter(data []byte) rune {
	d := detector.New()
	lines, pattern := sniffLines, nonDelimiters
	d.Configure(&lines, &pattern)

	var candidates []rune
	for _, c := range d.DetectDelimiter(bytes.NewReader(sniffSample(data)), '"') {
		if r := []rune(c); len(r) == 1 {
			candidates = append(candidates, r[0])
		}
	}
	if len(candidates) == 0 {
		return ','
	}

	for _, p := range preferredDelimiters {
		if slices.Contains(candidates, p) {
			return p
		}
	}
	return slices.Min(candidates)
}

// sniffSample returns the first lines of data with line endings unified to
// "\n", cut at a line break so it fits in sniffBytes where possible.
func sniffSample(data []byte) []byte {
	sample := data
	if len(sample) > 4*sniffBytes {
		sample = sample[:4*sniffBytes]
	}
	sample = bytes.ReplaceAll(sample, []byte("\r\n"), []byte("\n"))
	sample = bytes.ReplaceAll(sample, []byte("\r"), []byte("\n"))

	if len(sample) > sniffBytes {
		if i := bytes.LastIndexByte(sample[:sniffBytes], '\n'); i > 0 {
			sample = sample[:i+1]
		} else if i := bytes.IndexByte(sample, '\n'); i > 0 {
			sample = sample[:i+1]
		}
	}
	return sample
}
