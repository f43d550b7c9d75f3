package search

import (
	"math"
	"sort"

	"github.com/docfusion/docfusion/internal/index"
	"github.com/docfusion/docfusion/pkg/types"
)

const (
	// rrfK is the standard reciprocal rank fusion constant.
	rrfK = 60

	// semanticExponent compresses normalized similarities toward 1,
	// rewarding close dense matches.
	semanticExponent = 0.5

	// lexicalExponent compresses normalized lexical scores slightly
	// less than the semantic side.
	lexicalExponent = 0.7

	// weightedShare and rrfShare split the hybrid score between the
	// weighted sum and the rank-based signal.
	weightedShare = 0.7
	rrfShare      = 0.3

	// dualHitBoost rewards chunks found by both retrieval paths.
	dualHitBoost = 1.15
)

// legHit is one leg's normalized view of a chunk.
type legHit struct {
	chunkID  string
	text     string
	metadata types.Metadata
	score    float64
	rank     int
}

// normalizeSemantic converts cosine distances into scores in [0, 1].
// Distances are min-max normalized within the batch, inverted into
// similarities, then raised to semanticExponent. A degenerate batch
// (all distances equal) scores every hit 1.0.
func normalizeSemantic(hits []index.VectorHit) []legHit {
	if len(hits) == 0 {
		return nil
	}

	minD, maxD := hits[0].Distance, hits[0].Distance
	for _, h := range hits[1:] {
		if h.Distance < minD {
			minD = h.Distance
		}
		if h.Distance > maxD {
			maxD = h.Distance
		}
	}

	out := make([]legHit, len(hits))
	for i, h := range hits {
		sim := 1.0
		if maxD > minD {
			sim = 1.0 - (h.Distance-minD)/(maxD-minD)
		}
		out[i] = legHit{
			chunkID:  h.ChunkID,
			text:     h.Text,
			metadata: h.Metadata,
			score:    math.Pow(sim, semanticExponent),
			rank:     i,
		}
	}
	return out
}

// normalizeLexical min-max normalizes raw lexical scores within the
// batch and raises them to lexicalExponent. A batch with no score
// spread maps positive raw scores to 1.0 and the rest to 0.0.
func normalizeLexical(hits []index.LexicalHit) []legHit {
	if len(hits) == 0 {
		return nil
	}

	minS, maxS := hits[0].Score, hits[0].Score
	for _, h := range hits[1:] {
		if h.Score < minS {
			minS = h.Score
		}
		if h.Score > maxS {
			maxS = h.Score
		}
	}

	out := make([]legHit, len(hits))
	for i, h := range hits {
		var norm float64
		if maxS > minS {
			norm = (h.Score - minS) / (maxS - minS)
		} else if h.Score > 0 {
			norm = 1.0
		}
		out[i] = legHit{
			chunkID:  h.ChunkID,
			text:     h.Text,
			metadata: h.Metadata,
			score:    math.Pow(norm, lexicalExponent),
			rank:     i,
		}
	}
	return out
}

// fusedHit tracks a chunk's merged scores during fusion.
type fusedHit struct {
	result  types.ScoredResult
	semRank int
	lexRank int
}

// fuse merges the two normalized legs into hybrid-scored results.
// Both weights are expected to already sum to 1.
func fuse(semantic, lexical []legHit, semanticWeight, lexicalWeight float64) []types.ScoredResult {
	merged := make(map[string]*fusedHit, len(semantic)+len(lexical))
	order := make([]string, 0, len(semantic)+len(lexical))

	for _, h := range semantic {
		merged[h.chunkID] = &fusedHit{
			result: types.ScoredResult{
				ChunkID:       h.chunkID,
				Text:          h.text,
				Metadata:      h.metadata,
				SemanticScore: h.score,
				Source:        types.SourceSemantic,
			},
			semRank: h.rank,
			lexRank: -1,
		}
		order = append(order, h.chunkID)
	}

	for _, h := range lexical {
		if f, ok := merged[h.chunkID]; ok {
			f.result.LexicalScore = h.score
			f.result.Source = types.SourceBoth
			f.lexRank = h.rank
			continue
		}
		merged[h.chunkID] = &fusedHit{
			result: types.ScoredResult{
				ChunkID:      h.chunkID,
				Text:         h.text,
				Metadata:     h.metadata,
				LexicalScore: h.score,
				Source:       types.SourceLexical,
			},
			semRank: -1,
			lexRank: h.rank,
		}
		order = append(order, h.chunkID)
	}

	results := make([]types.ScoredResult, 0, len(order))
	semRanks := make(map[string]int, len(order))
	for _, id := range order {
		f := merged[id]

		weighted := semanticWeight*f.result.SemanticScore + lexicalWeight*f.result.LexicalScore
		rrf := rrfScore(f.semRank, f.lexRank)

		hybrid := weightedShare*weighted + rrfShare*rrf
		if f.result.Source == types.SourceBoth {
			hybrid *= dualHitBoost
		}
		f.result.HybridScore = clamp01(hybrid)

		semRanks[id] = f.semRank
		results = append(results, f.result)
	}

	// Rank by hybrid score; equal scores keep the better semantic rank
	// first so dense relevance breaks ties.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].HybridScore != results[j].HybridScore {
			return results[i].HybridScore > results[j].HybridScore
		}
		return rankOrLast(semRanks[results[i].ChunkID]) < rankOrLast(semRanks[results[j].ChunkID])
	})

	return results
}

// rrfScore computes the reciprocal rank fusion contribution of the
// ranks a chunk holds in each leg (-1 means absent). The sum is scaled
// by rrfK/2 so a chunk ranked first in both legs lands near 1.0, then
// clamped.
func rrfScore(semRank, lexRank int) float64 {
	var sum float64
	if semRank >= 0 {
		sum += 1.0 / float64(rrfK+semRank+1)
	}
	if lexRank >= 0 {
		sum += 1.0 / float64(rrfK+lexRank+1)
	}
	score := sum * rrfK / 2
	if score > 1.0 {
		return 1.0
	}
	return score
}

func rankOrLast(rank int) int {
	if rank < 0 {
		return math.MaxInt32
	}
	return rank
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
