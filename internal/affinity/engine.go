package affinity

import (
	"sort"

	"github.com/google/uuid"
)

// Pair is one ranked cross-sell candidate. ProductA always sorts
// lexicographically before ProductB.
type Pair struct {
	ProductA     uuid.UUID `json:"product_a"`
	ProductB     uuid.UUID `json:"product_b"`
	CoOccurrence int       `json:"co_occurrence"`
	Score        int       `json:"score"`
}

type pairKey struct {
	a, b uuid.UUID
}

// ComputeAffinities counts pairwise co-occurrence across order baskets
// and returns the top N pairs. Ties on count break by ascending pair
// key so output is stable.
func ComputeAffinities(baskets [][]uuid.UUID, topN int) []Pair {
	counts := map[pairKey]int{}

	for _, basket := range baskets {
		distinct := dedupe(basket)
		for i := 0; i < len(distinct); i++ {
			for j := i + 1; j < len(distinct); j++ {
				key := orderedKey(distinct[i], distinct[j])
				counts[key]++
			}
		}
	}

	pairs := make([]Pair, 0, len(counts))
	for key, count := range counts {
		pairs = append(pairs, Pair{
			ProductA:     key.a,
			ProductB:     key.b,
			CoOccurrence: count,
			Score:        affinityScore(count),
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].CoOccurrence != pairs[j].CoOccurrence {
			return pairs[i].CoOccurrence > pairs[j].CoOccurrence
		}
		if pairs[i].ProductA != pairs[j].ProductA {
			return pairs[i].ProductA.String() < pairs[j].ProductA.String()
		}
		return pairs[i].ProductB.String() < pairs[j].ProductB.String()
	})

	if topN > 0 && len(pairs) > topN {
		pairs = pairs[:topN]
	}
	return pairs
}

func affinityScore(count int) int {
	score := count * 10
	if score > 99 {
		return 99
	}
	return score
}

func orderedKey(x, y uuid.UUID) pairKey {
	if x.String() < y.String() {
		return pairKey{a: x, b: y}
	}
	return pairKey{a: y, b: x}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
