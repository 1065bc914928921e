package normalizer

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidNgramSize is returned when the n-gram size is below 1.
var ErrInvalidNgramSize = errors.New("n-gram size must be at least 1")

// Fingerprint is the set of character n-grams of a normalized title.
type Fingerprint map[string]struct{}

// Len returns the number of distinct n-grams.
func (f Fingerprint) Len() int {
	return len(f)
}

// Contains reports whether gram is part of the fingerprint.
func (f Fingerprint) Contains(gram string) bool {
	_, ok := f[gram]

	return ok
}

// Sorted returns the n-grams in lexical order.
func (f Fingerprint) Sorted() []string {
	grams := make([]string, 0, len(f))
	for g := range f {
		grams = append(grams, g)
	}

	sort.Strings(grams)

	return grams
}

// Fingerprinter extracts fixed-size n-gram fingerprints.
type Fingerprinter struct {
	n int
}

// NewFingerprinter creates a fingerprinter for n-grams of size n.
func NewFingerprinter(n int) (*Fingerprinter, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNgramSize, n)
	}

	return &Fingerprinter{n: n}, nil
}

// Size returns the n-gram size.
func (f *Fingerprinter) Size() int {
	return f.n
}

// Fingerprint normalizes text and returns its n-gram set.
func (f *Fingerprinter) Fingerprint(text string) Fingerprint {
	return f.FromNormalized(Normalize(text))
}

// FromNormalized returns the n-gram set of an already normalized string. A string shorter than
// n yields a single-element set holding the whole string, so an empty title gives {""}.
func (f *Fingerprinter) FromNormalized(normalized string) Fingerprint {
	if len(normalized) < f.n {
		return Fingerprint{normalized: {}}
	}

	fp := make(Fingerprint, len(normalized)-f.n+1)
	for i := 0; i+f.n <= len(normalized); i++ {
		fp[normalized[i:i+f.n]] = struct{}{}
	}

	return fp
}
