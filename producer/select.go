package producer

import "math/rand"

// Select picks one candidate weighted by Weight, drawing once from rng:
// pick is uniform in [0, totalWeight) and the first candidate whose
// cumulative weight prefix exceeds pick wins. Candidates are iterated in
// the given stable order. A zero total weight falls back to a uniform
// draw. Returns nil for an empty candidate set.
func Select(rng *rand.Rand, candidates []Producer) Producer {
	if len(candidates) == 0 {
		return nil
	}
	total := 0.0
	for _, c := range candidates {
		total += c.Weight()
	}
	if total == 0 {
		return candidates[rng.Intn(len(candidates))]
	}
	pick := rng.Float64() * total
	cumulative := 0.0
	for _, c := range candidates {
		cumulative += c.Weight()
		if cumulative > pick {
			return c
		}
	}
	return candidates[len(candidates)-1]
}
