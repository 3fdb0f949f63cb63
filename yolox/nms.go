package yolox

import (
	"sort"

	"github.com/nvr-ai/go-yolox/images"
)

// Result is a suppression survivor in letterbox coordinates.
type Result struct {
	// Box is the candidate box, still in letterbox pixel space.
	Box images.Rect
	// Score is objectness multiplied by the class score.
	Score float32
	// Class is the class id the score belongs to.
	Class int

	// row preserves decode order for deterministic tie-breaking.
	row int
}

// MulticlassNMS gates candidates by score and suppresses same-class
// overlaps.
//
// The score of a (row, class) pair is objectness * class score; pairs
// below ScoreThreshold are dropped before suppression. With MultiLabel
// off, only the argmax class of each row is considered; with it on, every
// class clearing the threshold yields its own candidate from the same
// box. Suppression is strictly per class: candidates are stably sorted by
// descending score (ties keep decode row order) and greedily pruned with
// IoUThreshold. Boxes of different classes never suppress each other.
//
// The returned slice is grouped by ascending class id, descending score
// within each group. This ordering is stable and part of the contract.
// An empty result is a normal outcome, not an error.
//
// Arguments:
// - candidates: Decoded rows, in decode order.
// - config: Pipeline configuration (thresholds, MultiLabel).
//
// Returns:
// - The surviving results. Empty when nothing clears the threshold.
func MulticlassNMS(candidates []Candidate, config *Config) []Result {
	scored := make([]Result, 0, len(candidates))

	for _, c := range candidates {
		if config.MultiLabel {
			for class, clsScore := range c.ClassScores {
				score := c.Objectness * clsScore
				if score < config.ScoreThreshold {
					continue
				}
				scored = append(scored, Result{Box: c.Box, Score: score, Class: class, row: c.Row})
			}
			continue
		}

		// Argmax path: the row contributes at most one candidate.
		best := -1
		var bestScore float32
		for class, clsScore := range c.ClassScores {
			if best < 0 || clsScore > bestScore {
				best = class
				bestScore = clsScore
			}
		}
		if best < 0 {
			continue
		}
		score := c.Objectness * bestScore
		if score < config.ScoreThreshold {
			continue
		}
		scored = append(scored, Result{Box: c.Box, Score: score, Class: best, row: c.Row})
	}

	if len(scored) == 0 {
		return scored
	}

	// Sort into the output order up front: class groups ascending, score
	// descending inside a group. The stable sort keeps equal-score
	// candidates in decode row order, which makes suppression
	// deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Class != scored[j].Class {
			return scored[i].Class < scored[j].Class
		}
		return scored[i].Score > scored[j].Score
	})

	filtered := make([]Result, 0, len(scored))
	for start := 0; start < len(scored); {
		end := start
		for end < len(scored) && scored[end].Class == scored[start].Class {
			end++
		}
		filtered = append(filtered, greedyNMS(scored[start:end], config.IoUThreshold)...)
		start = end
	}

	return filtered
}

// greedyNMS prunes a score-sorted slice of same-class results. Each
// surviving anchor suppresses every later box whose IoU with it exceeds
// the threshold.
func greedyNMS(results []Result, iouThreshold float32) []Result {
	n := len(results)
	if n == 0 {
		return nil
	}

	filtered := make([]Result, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := results[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if images.CalculateIoU(anchor.Box, results[j].Box) > iouThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
