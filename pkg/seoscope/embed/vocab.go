package embed

import (
	"math"
	"sort"
)

// vocab is the set of tokens meeting the minimum count, ordered by
// descending count with first-seen order on ties.
type vocab struct {
	words  []string
	counts []int
	index  map[string]int32
	total  int // occurrences of in-vocabulary tokens
}

func buildVocab(sentences [][]string, minCount int) *vocab {
	counts := make(map[string]int)
	var order []string
	for _, s := range sentences {
		for _, tok := range s {
			if _, ok := counts[tok]; !ok {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	kept := make([]string, 0, len(order))
	for _, tok := range order {
		if counts[tok] >= minCount {
			kept = append(kept, tok)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return counts[kept[i]] > counts[kept[j]]
	})

	v := &vocab{
		words:  kept,
		counts: make([]int, len(kept)),
		index:  make(map[string]int32, len(kept)),
	}
	for i, tok := range kept {
		v.counts[i] = counts[tok]
		v.index[tok] = int32(i)
		v.total += counts[tok]
	}
	return v
}

func (v *vocab) size() int { return len(v.words) }

// encode maps sentences to vocabulary ids, dropping unknown tokens and
// sentences that end up empty.
func (v *vocab) encode(sentences [][]string) [][]int32 {
	out := make([][]int32, 0, len(sentences))
	for _, s := range sentences {
		ids := make([]int32, 0, len(s))
		for _, tok := range s {
			if id, ok := v.index[tok]; ok {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			out = append(out, ids)
		}
	}
	return out
}

// keepProbs returns, per word, the probability of keeping an occurrence when
// downsampling frequent tokens.
func (v *vocab) keepProbs(sample float64) []float64 {
	probs := make([]float64, v.size())
	threshold := sample * float64(v.total)
	for i, c := range v.counts {
		if sample <= 0 {
			probs[i] = 1
			continue
		}
		p := (math.Sqrt(float64(c)/threshold) + 1) * threshold / float64(c)
		probs[i] = math.Min(p, 1)
	}
	return probs
}

// noiseCDF is the cumulative unigram^0.75 distribution used to draw
// negative samples.
func (v *vocab) noiseCDF() []float64 {
	cdf := make([]float64, v.size())
	var sum float64
	for i, c := range v.counts {
		sum += math.Pow(float64(c), 0.75)
		cdf[i] = sum
	}
	for i := range cdf {
		cdf[i] /= sum
	}
	return cdf
}
