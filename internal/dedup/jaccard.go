package dedup

import (
	"slices"

	"github.com/Blackmvmba88/q2bs/internal/normalizer"
)

// Jaccard returns |A∩B| / |A∪B|. It is 0 when either set is empty.
func Jaccard(a, b normalizer.Fingerprint) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	inter := 0

	for gram := range small {
		if large.Contains(gram) {
			inter++
		}
	}

	return float64(inter) / float64(len(a)+len(b)-inter)
}

// vocabulary interns n-grams as dense integer IDs so fingerprints can be compared as sorted
// integer slices.
type vocabulary struct {
	ids map[string]uint32
}

func newVocabulary() *vocabulary {
	return &vocabulary{ids: make(map[string]uint32)}
}

// encode returns the sorted IDs of fp, assigning new IDs to unseen n-grams.
func (v *vocabulary) encode(fp normalizer.Fingerprint) []uint32 {
	out := make([]uint32, 0, len(fp))

	for gram := range fp {
		id, ok := v.ids[gram]
		if !ok {
			id = uint32(len(v.ids))
			v.ids[gram] = id
		}

		out = append(out, id)
	}

	slices.Sort(out)

	return out
}

// jaccardSorted is Jaccard over two sorted, duplicate-free ID slices.
func jaccardSorted(a, b []uint32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0

	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] == b[j]:
			inter++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}

	return float64(inter) / float64(len(a)+len(b)-inter)
}

// sizeBound is the largest similarity two sets of sizes la and lb can reach.
func sizeBound(la, lb int) float64 {
	if la == 0 || lb == 0 {
		return 0
	}

	if la > lb {
		la, lb = lb, la
	}

	return float64(la) / float64(lb)
}
