package captionmodel

import (
	"fmt"
	"math"
	"sort"
)

// ScoreFunc returns raw next-token logits for a prefix of token ids.
type ScoreFunc func(ids []int64) ([]float32, error)

type beam struct {
	ids     []int64
	logProb float64
	done    bool
}

// beamSearch runs deterministic beam decoding: no sampling, ties broken by
// token id, sequences scored by length-normalized log probability.
func beamSearch(score ScoreFunc, bos, eos int64, maxLen, width int) ([]int64, error) {
	if width < 1 {
		return nil, fmt.Errorf("beam width must be positive, got %d", width)
	}

	beams := []beam{{ids: []int64{bos}, logProb: 0}}

	for step := 1; step < maxLen; step++ {
		candidates := make([]beam, 0, len(beams)*width)
		allDone := true

		for _, b := range beams {
			if b.done {
				candidates = append(candidates, b)
				continue
			}
			allDone = false

			logits, err := score(b.ids)
			if err != nil {
				return nil, err
			}
			logProbs := logSoftmax(logits)

			for _, c := range topK(logProbs, width) {
				ids := make([]int64, len(b.ids)+1)
				copy(ids, b.ids)
				ids[len(b.ids)] = c.token
				candidates = append(candidates, beam{
					ids:     ids,
					logProb: b.logProb + c.logProb,
					done:    c.token == eos,
				})
			}
		}

		if allDone {
			break
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].logProb > candidates[j].logProb
		})
		if len(candidates) > width {
			candidates = candidates[:width]
		}
		beams = candidates
	}

	best := beams[0]
	bestScore := normalizedScore(best)
	for _, b := range beams[1:] {
		if s := normalizedScore(b); s > bestScore {
			best = b
			bestScore = s
		}
	}

	return best.ids, nil
}

func normalizedScore(b beam) float64 {
	length := len(b.ids) - 1
	if length < 1 {
		length = 1
	}
	return b.logProb / float64(length)
}

type tokenScore struct {
	token   int64
	logProb float64
}

// topK selects the k highest log probabilities; strict comparison keeps the
// lowest token id on equal scores.
func topK(logProbs []float64, k int) []tokenScore {
	if k > len(logProbs) {
		k = len(logProbs)
	}
	top := make([]tokenScore, 0, k)

	for tok, lp := range logProbs {
		pos := len(top)
		for pos > 0 && lp > top[pos-1].logProb {
			pos--
		}
		if pos >= k {
			continue
		}
		top = append(top, tokenScore{})
		copy(top[pos+1:], top[pos:])
		top[pos] = tokenScore{token: int64(tok), logProb: lp}
		if len(top) > k {
			top = top[:k]
		}
	}

	return top
}

func logSoftmax(logits []float32) []float64 {
	maxLogit := float64(math.Inf(-1))
	for _, l := range logits {
		if float64(l) > maxLogit {
			maxLogit = float64(l)
		}
	}

	var sum float64
	for _, l := range logits {
		sum += math.Exp(float64(l) - maxLogit)
	}
	logSum := maxLogit + math.Log(sum)

	out := make([]float64, len(logits))
	for i, l := range logits {
		out[i] = float64(l) - logSum
	}
	return out
}
